package dialect

import (
	"xqlint/internal/lexer"
	"xqlint/internal/source"
)

// Hint is one piece of evidence. It votes for a base dialect, for an
// extension, or for both.
type Hint struct {
	Dialect   Kind
	Extension lexer.Features
	Score     int
	Reason    string
	Span      source.Span
}

// Evidence collects the hints of one file.
type Evidence struct {
	hints []Hint
}

func NewEvidence() *Evidence {
	return &Evidence{hints: make([]Hint, 0, 16)}
}

// Add appends a hint. It is a no-op on a nil Evidence.
func (e *Evidence) Add(h Hint) {
	if e == nil {
		return
	}
	e.hints = append(e.hints, h)
}

func (e *Evidence) Hints() []Hint {
	if e == nil {
		return nil
	}
	return e.hints
}

// Len is the number of hints.
func (e *Evidence) Len() int {
	if e == nil {
		return 0
	}
	return len(e.hints)
}
