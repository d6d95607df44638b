package stream

import (
	"xqlint/internal/diag"
	"xqlint/internal/lexer"
)

// Modes is the parser-side lexer stack. Pushed lexers inherit the current feature
// mask and the shared reporter.
type Modes struct {
	stream   *Stream
	stack    []lexer.Source
	features lexer.Features
	reporter diag.Reporter
}

// NewModes wraps s; the lexer active in s becomes the bottom of the stack.
func NewModes(s *Stream, features lexer.Features, reporter diag.Reporter) *Modes {
	m := &Modes{stream: s, features: features, reporter: reporter}
	s.Source().SetFeatures(features)
	s.Source().SetReporter(reporter)
	return m
}

// Stream returns the underlying token stream.
func (m *Modes) Stream() *Stream { return m.stream }

// Push makes src the active lexer and remembers the current one.
func (m *Modes) Push(src lexer.Source) {
	src.SetFeatures(m.features)
	src.SetReporter(m.reporter)
	m.stack = append(m.stack, m.stream.Source())
	m.stream.SetSource(src)
}

// Pop restores the previously active lexer. Popping an empty stack is a no-op.
func (m *Modes) Pop() {
	if len(m.stack) == 0 {
		return
	}
	prev := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	prev.SetFeatures(m.features)
	m.stream.SetSource(prev)
}

// Depth is the number of pushed lexers still waiting to be popped.
func (m *Modes) Depth() int {
	return len(m.stack)
}

// Reset pops every pushed lexer, back to the bottom one.
func (m *Modes) Reset() {
	for len(m.stack) > 0 {
		m.Pop()
	}
}

func (m *Modes) input() *lexer.Input {
	return m.stream.Source().Input()
}

// PushString switches to a string-literal body; apos selects the quote.
func (m *Modes) PushString(apos bool) { m.Push(lexer.NewString(m.input(), apos)) }

// PushAttr switches to an attribute value body.
func (m *Modes) PushAttr(apos bool) { m.Push(lexer.NewAttr(m.input(), apos)) }

// PushTag switches to the inside of a start or end tag.
func (m *Modes) PushTag() { m.Push(lexer.NewTag(m.input())) }

// PushContent switches to direct element content.
func (m *Modes) PushContent() { m.Push(lexer.NewContent(m.input())) }

// PushXQuery switches back to the query grammar, for enclosed expressions.
func (m *Modes) PushXQuery() { m.Push(lexer.NewXQuery(m.input())) }

// Features returns the current dialect mask.
func (m *Modes) Features() lexer.Features {
	return m.features
}

// SetFeatures replaces the dialect mask for the active and future lexers.
func (m *Modes) SetFeatures(f lexer.Features) {
	m.features = f
	m.stream.Source().SetFeatures(f)
}

// Has tests the dialect mask.
func (m *Modes) Has(mask lexer.Features) bool {
	return m.features.Has(mask)
}

// SetLanguageVersion applies the features an `xquery version` declaration
// selects. Unknown versions leave the mask unchanged and return false.
func (m *Modes) SetLanguageVersion(version string) bool {
	f, ok := lexer.FeaturesForVersion(version)
	if !ok {
		return false
	}
	m.SetFeatures(f)
	return true
}
