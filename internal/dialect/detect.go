package dialect

import (
	"bytes"

	"xqlint/internal/lexer"
	"xqlint/internal/source"
	"xqlint/internal/token"
)

// maxScanTokens bounds the prescan; the prolog and the first expressions
// carry nearly all of the evidence.
const maxScanTokens = 20000

// Collect prescans file with the expression lexer alone. String literals are
// skipped whole so their content is not taken for code.
func Collect(file *source.File) *Evidence {
	e := NewEvidence()
	in := lexer.NewInput(file)
	lx := lexer.NewXQuery(in)

	var prev, prev2 token.Token
	for i := 0; i < maxScanTokens; i++ {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			break
		}
		if tok.Channel == token.Hidden {
			continue
		}
		if tok.Kind == token.Quot || tok.Kind == token.Apos {
			start := in.Offset()
			end := closingQuote(file.Content, start, file.Content[tok.Span.Start])
			if prev2.Text == "xquery" && prev.Text == "version" {
				RecordVersion(e, string(file.Content[start:end]), prev2.Span.Cover(tok.Span))
			}
			in.Seek(min(end+1, uint32(len(file.Content))))
			prev2, prev = prev, tok
			continue
		}
		ObserveTokenPair(e, prev, tok)
		prev2, prev = prev, tok
	}
	return e
}

// closingQuote returns the offset of the quote q ending the literal that
// starts at off. A doubled quote is an escape. An unterminated literal ends
// at the end of the content.
func closingQuote(content []byte, off uint32, q byte) uint32 {
	for {
		idx := bytes.IndexByte(content[off:], q)
		if idx < 0 {
			return uint32(len(content))
		}
		at := off + uint32(idx)
		if int(at)+1 < len(content) && content[at+1] == q {
			off = at + 2
			continue
		}
		return at
	}
}

// Detect classifies file.
func Detect(file *source.File) Classification {
	return Classifier{}.Classify(Collect(file))
}
