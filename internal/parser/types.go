package parser

import (
	"xqlint/internal/ast"
	"xqlint/internal/diag"
	"xqlint/internal/token"
)

// parseSequenceTypeInto reads `ItemType ("?"|"*"|"+")?` or `empty-sequence()`.
func (p *Parser) parseSequenceTypeInto(dst *ast.Node) bool {
	if p.atName("empty-sequence") && p.peek(2).Kind == token.LParen {
		test := p.node(ast.ItemTest)
		test.Append(p.leaf(), p.leaf())
		if tok, ok := p.expect(token.RParen, ")"); ok {
			test.Append(p.b.Leaf(&tok))
		}
		dst.Append(test)
		return true
	}
	if !p.parseItemTypeInto(dst) {
		return false
	}
	switch p.peek(1).Kind {
	case token.Question, token.Star, token.Plus:
		dst.Append(p.leaf())
	}
	return true
}

// parseItemTypeInto reads one item type: a kind test, binary(), item(),
// function and map and array tests, a parenthesized type or an atomic type name.
func (p *Parser) parseItemTypeInto(dst *ast.Node) bool {
	tok, second := p.peek(1), p.peek(2)
	switch {
	case tok.IsName("binary") && second.Kind == token.LParen:
		test := p.node(ast.BinaryTest)
		test.Append(p.leaf(), p.leaf())
		if tok, ok := p.expect(token.RParen, ")"); ok {
			test.Append(p.b.Leaf(&tok))
		}
		dst.Append(test)
	case tok.Kind == token.NCName && token.IsKindTest(tok.Text) && second.Kind == token.LParen:
		test := p.node(ast.KindTest)
		p.kindTestInto(test)
		dst.Append(test)
	case tok.IsName("item", "function", "map", "array") && second.Kind == token.LParen,
		tok.Kind == token.Percent:
		dst.Append(p.parseItemTest())
	case tok.Kind == token.LParen:
		test := p.node(ast.ItemTest)
		test.Append(p.leaf())
		p.parseItemTypeInto(test)
		if tok, ok := p.expect(token.RParen, ")"); ok {
			test.Append(p.b.Leaf(&tok))
		}
		dst.Append(test)
	case p.scanQName(1, false) > 0:
		dst.Append(p.parseQName(false))
	default:
		p.errorAt(diag.SynExpectedToken, tok, "missing type at %s", describe(tok))
		return false
	}
	return true
}

// parseItemTest reads item(), function(*), function(T, U) as V, map(*),
// map(K, V) and array(T) as terminals plus nested types.
func (p *Parser) parseItemTest() *ast.Node {
	test := p.node(ast.ItemTest)
	if p.at(token.Percent) {
		test.Append(p.parseAnnotations())
	}
	name := p.peek(1)
	if !name.IsName("item", "function", "map", "array") {
		p.unexpected()
		return test
	}
	if !name.IsName("item") {
		p.requireDialect(name, name.Text+" tests")
	}
	isFunction := name.IsName("function")
	test.Append(p.leaf())
	open, ok := p.expect(token.LParen, "(")
	if !ok {
		return test
	}
	test.Append(p.b.Leaf(&open))
	switch {
	case p.at(token.Star):
		test.Append(p.leaf())
	case !p.at(token.RParen):
		for {
			if !p.parseSequenceTypeInto(test) {
				break
			}
			if !p.at(token.Comma) {
				break
			}
			test.Append(p.leaf())
		}
	}
	if tok, ok := p.expect(token.RParen, ")"); ok {
		test.Append(p.b.Leaf(&tok))
	}
	if isFunction && p.atName("as") {
		test.Append(p.leaf())
		p.parseSequenceTypeInto(test)
	}
	return test
}

// parseSingleTypeInto reads the target of cast and castable: a type name with
// an optional '?'.
func (p *Parser) parseSingleTypeInto(dst *ast.Node) {
	if name := p.parseQName(false); name != nil {
		dst.Append(name)
		if p.at(token.Question) {
			dst.Append(p.leaf())
		}
	}
}

// kindTestInto appends `name ( args )` to dst. In a type dst is a KindTest
// node; in a path the pieces go straight into the PathExpr, so `self::node()`
// reads as plain tokens.
func (p *Parser) kindTestInto(dst *ast.Node) {
	dst.Append(p.leaf(), p.leaf()) // name (
	for !p.at(token.RParen) && !p.at(token.EOF) {
		tok := p.peek(1)
		switch {
		case tok.Kind == token.NCName && token.IsKindTest(tok.Text) && p.peek(2).Kind == token.LParen:
			nested := p.node(ast.KindTest)
			p.kindTestInto(nested)
			dst.Append(nested)
		case tok.Kind == token.Apos || tok.Kind == token.Quot:
			dst.Append(p.parseStringLiteral())
		case tok.Kind == token.Star || tok.Kind == token.Question || tok.Kind == token.Comma:
			dst.Append(p.leaf())
		case p.scanQName(1, false) > 0:
			dst.Append(p.parseQName(false))
		default:
			p.unexpected()
			p.skipUnsupported()
			if tok, ok := p.accept(token.RParen); ok {
				dst.Append(p.b.Leaf(&tok))
			}
			return
		}
	}
	if tok, ok := p.expect(token.RParen, ")"); ok {
		dst.Append(p.b.Leaf(&tok))
	}
}
