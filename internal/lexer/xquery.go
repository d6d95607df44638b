package lexer

import (
	"xqlint/internal/diag"
	"xqlint/internal/token"
)

// XQueryLexer tokenizes the main query grammar. Keywords come out as NCName;
// whitespace and comments go to the hidden channel.
type XQueryLexer struct {
	base
}

// NewXQuery creates the main lexer over in.
func NewXQuery(in *Input) *XQueryLexer {
	return &XQueryLexer{base{in: in}}
}

func (lx *XQueryLexer) Name() string { return "xquery" }

func (lx *XQueryLexer) Next() token.Token {
	in := lx.in
	if in.EOF() {
		return lx.eof()
	}
	ch := in.Peek()
	switch {
	case isSpace(ch):
		return lx.scanSpace(token.Whitespace)
	case in.HasPrefix("(:"):
		return lx.scanComment()
	case isDec(ch) || (ch == '.' && isDec(in.PeekAt(1))):
		return lx.scanNumber()
	case atNameStart(in):
		return lx.scanName()
	case ch == '<':
		if tok, ok := lx.scanMarkupStart(); ok {
			return tok
		}
	}
	return lx.scanPunct()
}

// scanComment reads a possibly nested (: ... :) comment.
func (lx *XQueryLexer) scanComment() token.Token {
	m := lx.begin()
	lx.in.BumpN(2)
	depth := 1
	for !lx.in.EOF() {
		switch {
		case lx.in.Eat("(:"):
			depth++
		case lx.in.Eat(":)"):
			depth--
			if depth == 0 {
				return lx.emit(token.Comment, m)
			}
		default:
			lx.in.Bump()
		}
	}
	lx.report(diag.LexUnterminatedComment, m, "comment is not closed with ':)'")
	return lx.emit(token.Comment, m)
}

// scanNumber reads IntegerLiteral, DecimalLiteral or DoubleLiteral.
func (lx *XQueryLexer) scanNumber() token.Token {
	m := lx.begin()
	in := lx.in
	kind := token.IntegerLit
	for isDec(in.Peek()) {
		in.Bump()
	}
	if in.Peek() == '.' && in.PeekAt(1) != '.' {
		kind = token.DecimalLit
		in.Bump()
		for isDec(in.Peek()) {
			in.Bump()
		}
	}
	if c := in.Peek(); c == 'e' || c == 'E' {
		next := in.PeekAt(1)
		if isDec(next) || ((next == '+' || next == '-') && isDec(in.PeekAt(2))) {
			kind = token.DoubleLit
			in.BumpN(2)
			for isDec(in.Peek()) {
				in.Bump()
			}
		}
	}
	if atNameStart(in) {
		// 10div 3 is not a number followed by a name
		for {
			r, sz := in.PeekRune()
			if sz == 0 || !isNameRune(r) {
				break
			}
			in.BumpRune()
		}
		lx.report(diag.LexBadNumber, m, "malformed number "+quoteText(in.Text(m.off)))
		return lx.emit(token.Invalid, m)
	}
	return lx.emit(kind, m)
}

var twoCharOps = [...]struct {
	text string
	kind token.Kind
}{
	{"::", token.ColonColon},
	{":=", token.Assign},
	{"..", token.DotDot},
	{"//", token.SlashSlash},
	{"||", token.Concat},
	{"!=", token.Ne},
	{"=>", token.Arrow},
	{"<=", token.Le},
	{"<<", token.Precedes},
	{">=", token.Ge},
	{">>", token.Follows},
}

var oneCharOps = map[byte]token.Kind{
	'\'': token.Apos,
	'"':  token.Quot,
	'$':  token.Dollar,
	'(':  token.LParen,
	')':  token.RParen,
	'[':  token.LBracket,
	']':  token.RBracket,
	'{':  token.LBrace,
	'}':  token.RBrace,
	',':  token.Comma,
	';':  token.Semicolon,
	':':  token.Colon,
	'.':  token.Dot,
	'/':  token.Slash,
	'@':  token.At,
	'*':  token.Star,
	'+':  token.Plus,
	'-':  token.Minus,
	'?':  token.Question,
	'|':  token.Pipe,
	'!':  token.Bang,
	'#':  token.Hash,
	'%':  token.Percent,
	'=':  token.Eq,
	'<':  token.Lt,
	'>':  token.Gt,
}

func (lx *XQueryLexer) scanPunct() token.Token {
	m := lx.begin()
	for _, op := range twoCharOps {
		if lx.in.Eat(op.text) {
			return lx.emit(op.kind, m)
		}
	}
	if kind, ok := oneCharOps[lx.in.Peek()]; ok {
		lx.in.Bump()
		return lx.emit(kind, m)
	}
	lx.in.BumpRune()
	lx.report(diag.LexUnknownChar, m, "unknown character "+quoteText(lx.in.Text(m.off)))
	return lx.emit(token.Invalid, m)
}
