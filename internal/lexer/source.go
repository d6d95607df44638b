package lexer

import (
	"xqlint/internal/diag"
	"xqlint/internal/token"
)

// Source is one lexical grammar reading from a shared Input.
// The token stream swaps sources while the parser moves between sub-languages.
type Source interface {
	// Next returns the next token; at end of input it keeps returning EOF.
	Next() token.Token
	Input() *Input
	// WhitespaceExplicit reports whether whitespace is significant, so hidden
	// tokens must not be skipped by lookahead.
	WhitespaceExplicit() bool
	Features() Features
	SetFeatures(Features)
	SetReporter(diag.Reporter)
	Name() string
}

type base struct {
	in       *Input
	features Features
	reporter diag.Reporter
}

func (b *base) Input() *Input                 { return b.in }
func (b *base) Features() Features            { return b.features }
func (b *base) SetFeatures(f Features)        { b.features = f }
func (b *base) SetReporter(r diag.Reporter)   { b.reporter = r }
func (b *base) WhitespaceExplicit() bool      { return false }

// mark remembers where a token starts.
type mark struct {
	off  uint32
	line uint32
	col  uint32
}

func (b *base) begin() mark {
	return mark{off: b.in.Offset(), line: b.in.Line(), col: b.in.Col()}
}

func (b *base) emit(kind token.Kind, m mark) token.Token {
	ch := token.Default
	if kind == token.Whitespace || kind == token.Comment || kind == token.Invalid {
		ch = token.Hidden
	}
	return token.Token{
		Kind:    kind,
		Text:    b.in.Text(m.off),
		Span:    b.in.Span(m.off),
		Line:    m.line,
		Col:     m.col,
		Channel: ch,
		Index:   -1,
	}
}

func (b *base) eof() token.Token {
	return b.emit(token.EOF, b.begin())
}

func (b *base) report(code diag.Code, m mark, msg string) {
	if b.reporter == nil {
		return
	}
	b.reporter.Report(diag.Problem{
		Code:     code,
		Severity: diag.SevError,
		Message:  msg,
		Line:     m.line,
		Column:   m.col,
		Span:     b.in.Span(m.off),
	})
}
