package dialect

import (
	"fmt"

	"xqlint/internal/lexer"
)

// Kind is a base dialect. Exactly one applies to a file; the language
// extensions are tracked apart, as feature flags.
type Kind uint8

const (
	Unknown Kind = iota
	XQuery10
	XQuery30
	MarkLogic

	kindCount
)

func (k Kind) String() string {
	switch k {
	case XQuery10:
		return "xquery"
	case XQuery30:
		return "xquery-3.0"
	case MarkLogic:
		return "marklogic"
	default:
		return "unknown"
	}
}

func (k Kind) GoString() string {
	return fmt.Sprintf("dialect.Kind(%s)", k.String())
}

// Features is the lexer feature set the dialect parses with.
func (k Kind) Features() lexer.Features {
	switch k {
	case XQuery30:
		return lexer.XQuery30
	case MarkLogic:
		return lexer.MarkLogic
	default:
		return lexer.XQuery
	}
}
