package parser

import (
	"xqlint/internal/ast"
	"xqlint/internal/diag"
	"xqlint/internal/token"
)

// parseStringLiteral reads a quoted literal. The body is lexed by the string
// lexer; its chunks and references become the children of StringLiteral, which
// is anchored on the opening quote.
func (p *Parser) parseStringLiteral() *ast.Node {
	q := p.peek(1)
	if q.Kind != token.Apos && q.Kind != token.Quot {
		p.errorAt(diag.SynExpectedToken, q, "missing string literal at %s", describe(q))
		return nil
	}
	open := p.next()
	lit := p.anchor(ast.StringLiteral, &open)
	p.modes.PushString(open.Kind == token.Apos)
	defer p.modes.Pop()
	for {
		switch p.peek(1).Kind {
		case token.Chunk, token.EntityRef, token.CharRef, token.EscapedQuot:
			lit.Append(p.leaf())
		case token.EOF:
			p.errorAt(diag.SynUnterminatedString, &open, "unterminated string literal")
			return lit
		default:
			p.s.Consume() // closing quote
			return lit
		}
	}
}

// parseDirElem reads a direct element constructor starting at '<'.
//
//	DirElemConstructor[QName, DirAttributeList?, DirElemContent?]
func (p *Parser) parseDirElem() *ast.Node {
	lt := p.next()
	el := p.anchor(ast.DirElemConstructor, &lt)

	p.modes.PushTag()
	name := p.parseQName(false)
	if name == nil {
		p.errorAt(diag.SynExpectedToken, p.peek(1), "missing element name at %s", describe(p.peek(1)))
		p.modes.Pop()
		return el
	}
	el.Append(name)

	var attrs *ast.Node
	for {
		_, spaced := p.accept(token.S)
		tok := p.peek(1)
		switch tok.Kind {
		case token.NCName:
			if !spaced {
				p.errorAt(diag.SynUnexpectedToken, tok, "no viable alternative at input %s", describe(tok))
			}
			if attrs == nil {
				attrs = p.anchor(ast.DirAttributeList, tok)
				el.Append(attrs)
			}
			attrs.Append(p.parseDirAttr())
		case token.EmptyClose:
			p.s.Consume()
			p.modes.Pop()
			return el
		case token.Gt:
			p.s.Consume()
			p.modes.Pop()
			p.parseDirContent(el, name)
			return el
		default:
			p.errorAt(diag.SynExpectedToken, tok, "missing '>' at %s", describe(tok))
			p.modes.Pop()
			return el
		}
	}
}

// parseDirAttr reads `name = "value"` inside a start tag.
func (p *Parser) parseDirAttr() *ast.Node {
	attr := p.node(ast.DirAttribute)
	attr.Append(p.parseQName(false))
	p.accept(token.S)
	p.expect(token.Eq, "=")
	p.accept(token.S)

	q := p.peek(1)
	if q.Kind != token.Apos && q.Kind != token.Quot {
		p.errorAt(diag.SynExpectedToken, q, "missing attribute value at %s", describe(q))
		return attr
	}
	open := p.next()
	value := p.anchor(ast.DirAttributeValue, &open)
	attr.Append(value)

	p.modes.PushAttr(open.Kind == token.Apos)
	defer p.modes.Pop()
	for {
		switch p.peek(1).Kind {
		case token.Chunk, token.EntityRef, token.CharRef, token.EscapedQuot, token.LBraceEsc, token.RBraceEsc:
			value.Append(p.leaf())
		case token.LBrace:
			p.parseEnclosedContent(value)
		case token.RBrace:
			p.errorAt(diag.SynUnexpectedToken, p.peek(1), "unescaped '}' in attribute value, write '}}'")
			value.Append(p.leaf())
		case token.EOF:
			p.errorAt(diag.SynUnterminatedString, &open, "unterminated attribute value")
			return attr
		default:
			p.s.Consume() // closing quote
			return attr
		}
	}
}

// parseEnclosedContent reads `{ expr }` inside markup: the braces stay as
// leaves around the expression pieces, so content reads "{ UnaryExpr }".
func (p *Parser) parseEnclosedContent(dst *ast.Node) {
	dst.Append(p.leaf()) // {
	p.modes.PushXQuery()
	defer p.modes.Pop()
	p.parseExprInto(dst)
	if tok, ok := p.expect(token.RBrace, "}"); ok {
		dst.Append(p.b.Leaf(&tok))
	}
}

// parseDirContent reads element content up to and including the end tag.
func (p *Parser) parseDirContent(el, name *ast.Node) {
	p.modes.PushContent()
	content := p.node(ast.DirElemContent)
	defer func() {
		if content.Len() > 0 {
			el.Append(content)
		}
	}()

	for {
		tok := p.peek(1)
		switch tok.Kind {
		case token.ElementText, token.EntityRef, token.CharRef, token.LBraceEsc, token.RBraceEsc:
			content.Append(p.leaf())
		case token.DirComment:
			content.Append(p.wrapLeaf(ast.DirComConstructor))
		case token.DirPI:
			content.Append(p.wrapLeaf(ast.DirPIConstructor))
		case token.CData:
			content.Append(p.wrapLeaf(ast.CDataSection))
		case token.Lt:
			content.Append(p.parseDirElem())
		case token.LBrace:
			p.parseEnclosedContent(content)
		case token.RBrace:
			p.errorAt(diag.SynUnexpectedToken, tok, "unescaped '}' in element content, write '}}'")
			content.Append(p.leaf())
		case token.EndTagOpen:
			p.s.Consume()
			p.modes.Pop()
			p.parseEndTag(name)
			return
		default: // EOF
			p.errorAt(diag.SynMismatchedTag, tok, "missing '</%s>' at %s", name.TextValue(), describe(tok))
			p.modes.Pop()
			return
		}
	}
}

// parseEndTag reads `name S? >` after '</' and checks it closes the start tag.
func (p *Parser) parseEndTag(start *ast.Node) {
	p.modes.PushTag()
	defer p.modes.Pop()
	tok := *p.peek(1)
	end := p.parseQName(false)
	switch {
	case end == nil:
		p.errorAt(diag.SynExpectedToken, &tok, "missing element name at %s", describe(&tok))
	case end.TextValue() != start.TextValue():
		p.errorAt(diag.SynMismatchedTag, &tok, "end tag '</%s>' does not match '<%s>'", end.TextValue(), start.TextValue())
	}
	p.accept(token.S)
	p.expect(token.Gt, ">")
}

// wrapLeaf consumes one token into a node of typ holding it as its only child.
func (p *Parser) wrapLeaf(typ ast.Type) *ast.Node {
	n := p.node(typ)
	n.Append(p.leaf())
	return n
}

// computedNamed are constructors that may carry a name before the content:
// `element name { }`, `attribute name { }`, `processing-instruction name { }`,
// `namespace prefix { }`.
var computedNamed = map[string]bool{
	"element":                true,
	"attribute":              true,
	"processing-instruction": true,
	"namespace":              true,
}

// computedPlain take their content right away: `text { }`, `binary { }`.
var computedPlain = map[string]bool{
	"document":  true,
	"text":      true,
	"comment":   true,
	"binary":    true,
	"ordered":   true,
	"unordered": true,
}

// atComputed reports whether a computed constructor, or another keyword with an
// enclosed body, starts here.
func (p *Parser) atComputed() bool {
	tok := p.peek(1)
	if tok.Kind != token.NCName {
		return false
	}
	second := p.peek(2)
	switch {
	case computedPlain[tok.Text]:
		return second.Kind == token.LBrace
	case computedNamed[tok.Text]:
		if second.Kind == token.LBrace {
			return true
		}
		n := p.scanQName(2, false)
		return n > 0 && p.peek(2+n).Kind == token.LBrace
	case tok.Text == "validate":
		return second.Kind == token.LBrace || second.IsName("lax", "strict", "type")
	}
	return false
}

// parseComputedInto appends a computed constructor to a path as tokens:
// `element QName { UnaryExpr }`, `binary { UnaryExpr }`.
func (p *Parser) parseComputedInto(path *ast.Node) {
	kw := p.leaf()
	path.Append(kw)
	switch {
	case kw.Text() == "validate":
		if p.atName("lax", "strict") {
			path.Append(p.leaf())
		} else if p.atName("type") {
			path.Append(p.leaf())
			path.Append(p.parseQName(false))
		}
	case computedNamed[kw.Text()] && !p.at(token.LBrace):
		path.Append(p.parseQName(false))
	case computedNamed[kw.Text()]:
		// computed name: element { $name } { content }
		p.parseBracedInto(path, false)
	}
	p.parseBracedInto(path, true)
}

// parseBracedInto appends `{`, the expression pieces and `}`.
func (p *Parser) parseBracedInto(dst *ast.Node, emptyOK bool) {
	open, ok := p.expect(token.LBrace, "{")
	if !ok {
		return
	}
	dst.Append(p.b.Leaf(&open))
	if !p.at(token.RBrace) {
		p.parseExprInto(dst)
	} else if !emptyOK {
		p.errorAt(diag.SynExpectedExpr, p.peek(1), "missing expression at %s", describe(p.peek(1)))
	}
	if tok, ok := p.expect(token.RBrace, "}"); ok {
		dst.Append(p.b.Leaf(&tok))
	}
}

// parseMapInto appends a map constructor `map { k : v, ... }`. Keys and values
// are expression pieces separated by ':' leaves.
func (p *Parser) parseMapInto(path *ast.Node) {
	path.Append(p.leaf()) // map
	open, ok := p.expect(token.LBrace, "{")
	if !ok {
		return
	}
	path.Append(p.b.Leaf(&open))
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		if !p.parseExprSingleInto(path) {
			p.errorAt(diag.SynExpectedExpr, p.peek(1), "missing map key at %s", describe(p.peek(1)))
			break
		}
		if tok, ok := p.expect(token.Colon, ":"); ok {
			path.Append(p.b.Leaf(&tok))
		}
		if !p.parseExprSingleInto(path) {
			p.errorAt(diag.SynExpectedExpr, p.peek(1), "missing map value at %s", describe(p.peek(1)))
			break
		}
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	if tok, ok := p.expect(token.RBrace, "}"); ok {
		path.Append(p.b.Leaf(&tok))
	}
}
