package lexer

import (
	"xqlint/internal/diag"
	"xqlint/internal/token"
)

// StringLexer tokenizes the body of a string literal up to and including the
// closing quote. Doubled quotes are escapes.
type StringLexer struct {
	base
	quote byte
}

// NewString creates a string-body lexer; apos selects ' over ".
func NewString(in *Input, apos bool) *StringLexer {
	return &StringLexer{base: base{in: in}, quote: quoteByte(apos)}
}

func (lx *StringLexer) Name() string { return "string" }

func (lx *StringLexer) Next() token.Token {
	in := lx.in
	if in.EOF() {
		return lx.eof()
	}
	switch ch := in.Peek(); {
	case ch == lx.quote:
		return lx.scanQuote()
	case ch == '&':
		return lx.scanReference(token.Chunk)
	}
	m := lx.begin()
	for !in.EOF() && in.Peek() != lx.quote && in.Peek() != '&' {
		in.Bump()
	}
	return lx.emit(token.Chunk, m)
}

func (lx *StringLexer) scanQuote() token.Token {
	m := lx.begin()
	lx.in.Bump()
	if lx.in.Peek() == lx.quote {
		lx.in.Bump()
		return lx.emit(token.EscapedQuot, m)
	}
	return lx.emit(quoteKind(lx.quote), m)
}

// AttrLexer tokenizes an attribute value inside a direct element constructor:
// like a string body, plus enclosed expressions and brace escapes.
type AttrLexer struct {
	StringLexer
}

// NewAttr creates an attribute-value lexer; apos selects ' over ".
func NewAttr(in *Input, apos bool) *AttrLexer {
	return &AttrLexer{StringLexer{base: base{in: in}, quote: quoteByte(apos)}}
}

func (lx *AttrLexer) Name() string { return "attribute" }

func (lx *AttrLexer) WhitespaceExplicit() bool { return true }

func (lx *AttrLexer) Next() token.Token {
	in := lx.in
	if in.EOF() {
		return lx.eof()
	}
	if tok, ok := lx.scanBrace(); ok {
		return tok
	}
	switch ch := in.Peek(); {
	case ch == lx.quote:
		return lx.scanQuote()
	case ch == '&':
		return lx.scanReference(token.Chunk)
	case ch == '<':
		m := lx.begin()
		in.Bump()
		lx.report(diag.LexUnexpectedInAttrBody, m, "'<' is not allowed in an attribute value")
		return lx.emit(token.Chunk, m)
	}
	m := lx.begin()
	for !in.EOF() {
		ch := in.Peek()
		if ch == lx.quote || ch == '&' || ch == '{' || ch == '}' || ch == '<' {
			break
		}
		in.Bump()
	}
	return lx.emit(token.Chunk, m)
}

// ContentLexer tokenizes direct element content between a start and an end tag.
type ContentLexer struct {
	base
}

// NewContent creates an element-content lexer.
func NewContent(in *Input) *ContentLexer {
	return &ContentLexer{base{in: in}}
}

func (lx *ContentLexer) Name() string { return "content" }

func (lx *ContentLexer) WhitespaceExplicit() bool { return true }

func (lx *ContentLexer) Next() token.Token {
	in := lx.in
	if in.EOF() {
		return lx.eof()
	}
	if tok, ok := lx.scanBrace(); ok {
		return tok
	}
	switch in.Peek() {
	case '<':
		if tok, ok := lx.scanMarkupStart(); ok {
			return tok
		}
		m := lx.begin()
		if in.Eat("</") {
			return lx.emit(token.EndTagOpen, m)
		}
		in.Bump()
		return lx.emit(token.Lt, m)
	case '&':
		return lx.scanReference(token.ElementText)
	}
	m := lx.begin()
	for !in.EOF() {
		ch := in.Peek()
		if ch == '<' || ch == '&' || ch == '{' || ch == '}' {
			break
		}
		in.Bump()
	}
	return lx.emit(token.ElementText, m)
}

// TagLexer tokenizes the inside of a start or end tag: names, '=', quotes,
// whitespace and the closing '>' or '/>'.
type TagLexer struct {
	base
}

// NewTag creates a tag lexer.
func NewTag(in *Input) *TagLexer {
	return &TagLexer{base{in: in}}
}

func (lx *TagLexer) Name() string { return "tag" }

func (lx *TagLexer) WhitespaceExplicit() bool { return true }

func (lx *TagLexer) Next() token.Token {
	in := lx.in
	if in.EOF() {
		return lx.eof()
	}
	if isSpace(in.Peek()) {
		return lx.scanSpace(token.S)
	}
	if atNameStart(in) {
		return lx.scanName()
	}
	m := lx.begin()
	switch {
	case in.Eat("/>"):
		return lx.emit(token.EmptyClose, m)
	case in.Eat(">"):
		return lx.emit(token.Gt, m)
	case in.Eat("="):
		return lx.emit(token.Eq, m)
	case in.Eat(":"):
		return lx.emit(token.Colon, m)
	case in.Eat("'"):
		return lx.emit(token.Apos, m)
	case in.Eat("\""):
		return lx.emit(token.Quot, m)
	}
	in.BumpRune()
	lx.report(diag.LexUnknownChar, m, "unexpected character in tag "+quoteText(in.Text(m.off)))
	return lx.emit(token.Invalid, m)
}

// scanBrace handles {{ }} escapes and enclosed-expression braces.
func (b *base) scanBrace() (token.Token, bool) {
	m := b.begin()
	switch {
	case b.in.Eat("{{"):
		return b.emit(token.LBraceEsc, m), true
	case b.in.Eat("}}"):
		return b.emit(token.RBraceEsc, m), true
	case b.in.Eat("{"):
		return b.emit(token.LBrace, m), true
	case b.in.Eat("}"):
		return b.emit(token.RBrace, m), true
	}
	return token.Token{}, false
}

func quoteByte(apos bool) byte {
	if apos {
		return '\''
	}
	return '"'
}

func quoteKind(q byte) token.Kind {
	if q == '\'' {
		return token.Apos
	}
	return token.Quot
}
