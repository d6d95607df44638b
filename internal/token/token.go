package token

import (
	"xqlint/internal/source"
)

// Channel separates tokens the parser sees from those it skips.
type Channel uint8

const (
	Default Channel = iota
	Hidden
)

// Token represents a single source token with its location.
type Token struct {
	Kind    Kind
	Text    string
	Span    source.Span
	Line    uint32 // 1-based; 0 means unknown
	Col     uint32 // 1-based
	Channel Channel
	Index   int // position in the stream buffer, -1 when not buffered
}

// Newlines counts the line breaks inside the token text.
func (t *Token) Newlines() int {
	n := 0
	for i := 0; i < len(t.Text); i++ {
		if t.Text[i] == '\n' {
			n++
		}
	}
	return n
}

// IsName reports whether the token is a name whose text equals one of words.
// Without words any name matches.
func (t *Token) IsName(words ...string) bool {
	if t == nil || t.Kind != NCName {
		return false
	}
	if len(words) == 0 {
		return true
	}
	for _, w := range words {
		if t.Text == w {
			return true
		}
	}
	return false
}

// IsLiteral reports whether the token is a numeric literal.
func (t *Token) IsLiteral() bool {
	switch t.Kind {
	case IntegerLit, DecimalLit, DoubleLit:
		return true
	default:
		return false
	}
}

// IsTrivia reports whether the token carries no syntax (whitespace or comment).
func (t *Token) IsTrivia() bool {
	return t.Kind == Whitespace || t.Kind == Comment
}
