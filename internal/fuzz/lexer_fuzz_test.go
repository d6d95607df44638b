package fuzztests

import (
	"testing"

	"xqlint/internal/diag"
	"xqlint/internal/lexer"
	"xqlint/internal/source"
	"xqlint/internal/token"
)

const maxFuzzInput = 1 << 16

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}

func newFile(input []byte) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("fuzz.xqy", input))
}

// FuzzLexerTokens runs the expression lexer alone. Every token must move
// forward, or the loop below would never end.
func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		file := newFile(clampInput(input))
		lx := lexer.NewXQuery(lexer.NewInput(file))
		lx.SetReporter(diag.BagReporter{Bag: diag.NewBag(64)})

		var last uint32
		for i := 0; ; i++ {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				return
			}
			if i > 0 && tok.Span.Start <= last {
				t.Fatalf("token %d does not advance: %v at %d", i, tok.Kind, tok.Span.Start)
			}
			last = tok.Span.Start
		}
	})
}
