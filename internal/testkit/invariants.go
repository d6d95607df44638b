package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"xqlint/internal/ast"
	"xqlint/internal/source"
	"xqlint/internal/token"
)

// CheckTokenInvariants runs a minimal set of position invariants on tokens
// scanned from sf:
// 1) every span lies within the content and its text is the source slice
// 2) every line agrees with the line index of the file
// 3) spans never move backwards
func CheckTokenInvariants(tokens []token.Token, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	var last uint32
	for i := range tokens {
		tok := &tokens[i]
		if err := checkToken(tok, sf, lenContent); err != nil {
			return fmt.Errorf("token %d: %w", i, err)
		}
		if tok.Span.Start < last {
			return fmt.Errorf("token %d %q starts at %d, before %d", i, tok.Text, tok.Span.Start, last)
		}
		last = tok.Span.Start
	}
	return nil
}

// CheckTreeInvariants checks the terminals of a parsed tree the same way,
// walking depth first: the leaves must come out in source order.
func CheckTreeInvariants(root *ast.Node, sf *source.File) error {
	if root == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	var leaves []token.Token
	ast.Inspect(root, func(n *ast.Node) bool {
		if n.IsTerminal() && n.Tok != nil {
			leaves = append(leaves, *n.Tok)
		}
		return true
	})
	if err := CheckTokenInvariants(leaves, sf); err != nil {
		return fmt.Errorf("tree: %w", err)
	}
	return nil
}

func checkToken(tok *token.Token, sf *source.File, lenContent uint32) error {
	sp := tok.Span
	if sp.File != sf.ID {
		return fmt.Errorf("span file mismatch: got=%d want=%d", sp.File, sf.ID)
	}
	if sp.End < sp.Start || sp.End > lenContent {
		return fmt.Errorf("span %v outside content of %d bytes", sp, lenContent)
	}
	if got := string(sf.Content[sp.Start:sp.End]); got != tok.Text {
		return fmt.Errorf("text %q does not match source %q at %v", tok.Text, got, sp)
	}
	if want := sf.LineCol(sp.Start).Line; tok.Line != want {
		return fmt.Errorf("%q at %v is on line %d, token says %d", tok.Text, sp, want, tok.Line)
	}
	return nil
}

// ReparseEqual parses src twice with parse and reports whether both trees are
// structurally equal. Parsing must not depend on state left by an earlier parse.
func ReparseEqual(parse func() *ast.Node) error {
	a, b := parse(), parse()
	if !ast.Equal(a, b) {
		return fmt.Errorf("trees differ:\n%s\n%s", a, b)
	}
	return nil
}
