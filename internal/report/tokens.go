package report

import (
	"encoding/json"
	"fmt"
	"io"

	"xqlint/internal/token"
)

// TokenOut is one token in the JSON token dump.
type TokenOut struct {
	Kind   string `json:"kind"`
	Text   string `json:"text,omitempty"`
	Line   uint32 `json:"line"`
	Col    uint32 `json:"col"`
	Start  uint32 `json:"start"`
	End    uint32 `json:"end"`
	Hidden bool   `json:"hidden,omitempty"`
}

// TokensPretty prints one token per line. Hidden tokens are skipped unless
// hidden is set.
func TokensPretty(w io.Writer, tokens []token.Token, hidden bool) error {
	n := 0
	for _, tok := range tokens {
		if tok.Channel == token.Hidden && !hidden {
			continue
		}
		n++
		mark := ""
		if tok.Channel == token.Hidden {
			mark = " (hidden)"
		}
		if _, err := fmt.Fprintf(w, "%4d: %-16s %q at %d:%d%s\n", n, tok.Kind, tok.Text, tok.Line, tok.Col, mark); err != nil {
			return err
		}
	}
	return nil
}

// TokensJSON writes the tokens as an indented JSON array.
func TokensJSON(w io.Writer, tokens []token.Token, hidden bool) error {
	out := make([]TokenOut, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Channel == token.Hidden && !hidden {
			continue
		}
		out = append(out, TokenOut{
			Kind:   tok.Kind.String(),
			Text:   tok.Text,
			Line:   tok.Line,
			Col:    tok.Col,
			Start:  tok.Span.Start,
			End:    tok.Span.End,
			Hidden: tok.Channel == token.Hidden,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
