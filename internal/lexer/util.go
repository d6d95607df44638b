package lexer

import (
	"unicode"

	"xqlint/internal/diag"
	"xqlint/internal/token"
)

func isNameStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNameRune(r rune) bool {
	return r == '_' || r == '-' || r == '.' || r == '·' ||
		unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isHex(b byte) bool {
	return isDec(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// atNameStart reports whether an NCName starts at the cursor.
func atNameStart(in *Input) bool {
	r, sz := in.PeekRune()
	return sz > 0 && isNameStartRune(r)
}

func (b *base) scanName() token.Token {
	m := b.begin()
	b.in.BumpRune()
	for {
		r, sz := b.in.PeekRune()
		if sz == 0 || !isNameRune(r) {
			break
		}
		b.in.BumpRune()
	}
	return b.emit(token.NCName, m)
}

func (b *base) scanSpace(kind token.Kind) token.Token {
	m := b.begin()
	for isSpace(b.in.Peek()) && !b.in.EOF() {
		b.in.Bump()
	}
	return b.emit(kind, m)
}

// scanReference reads &name; &#10; or &#xA; at the cursor. A bare '&' is
// reported and returned as a one-character chunk.
func (b *base) scanReference(chunk token.Kind) token.Token {
	m := b.begin()
	b.in.Bump() // &
	kind := token.EntityRef
	if b.in.Peek() == '#' {
		kind = token.CharRef
		b.in.Bump()
		digit := isDec
		if b.in.Peek() == 'x' {
			b.in.Bump()
			digit = isHex
		}
		n := 0
		for digit(b.in.Peek()) {
			b.in.Bump()
			n++
		}
		if n > 0 && b.in.Peek() == ';' {
			b.in.Bump()
			return b.emit(kind, m)
		}
	} else if atNameStart(b.in) {
		for {
			r, sz := b.in.PeekRune()
			if sz == 0 || !isNameRune(r) {
				break
			}
			b.in.BumpRune()
		}
		if b.in.Peek() == ';' {
			b.in.Bump()
			return b.emit(kind, m)
		}
	}
	b.report(diag.LexBadEntity, m, "malformed reference "+quoteText(b.in.Text(m.off)))
	return b.emit(chunk, m)
}

// scanDelimited reads a construct from open to close inclusive, e.g. <!-- -->.
func (b *base) scanDelimited(open, closing string, kind token.Kind) token.Token {
	m := b.begin()
	b.in.BumpN(len(open))
	for !b.in.EOF() {
		if b.in.Eat(closing) {
			return b.emit(kind, m)
		}
		b.in.Bump()
	}
	b.report(diag.LexUnterminatedMarkup, m, "missing "+quoteText(closing))
	return b.emit(kind, m)
}

// scanMarkupStart recognises <!-- --> <? ?> and <![CDATA[ ]]> at the cursor.
func (b *base) scanMarkupStart() (token.Token, bool) {
	switch {
	case b.in.HasPrefix("<!--"):
		return b.scanDelimited("<!--", "-->", token.DirComment), true
	case b.in.HasPrefix("<![CDATA["):
		return b.scanDelimited("<![CDATA[", "]]>", token.CData), true
	case b.in.HasPrefix("<?"):
		return b.scanDelimited("<?", "?>", token.DirPI), true
	}
	return token.Token{}, false
}

func quoteText(s string) string {
	return "'" + s + "'"
}
