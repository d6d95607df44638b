package parser

import (
	"xqlint/internal/ast"
	"xqlint/internal/diag"
	"xqlint/internal/lexer"
	"xqlint/internal/token"
)

// Expressions are flat: an Expr appends its items to the enclosing node with the
// commas dropped, and an operator chain appends its operands as UnaryExpr nodes
// with the operators kept in between, so `2 gt 1` inside a QueryBody reads
// "UnaryExpr gt UnaryExpr".

// parseExprInto reads `ExprSingle ("," ExprSingle)*` into dst. It reports false,
// without consuming anything, when no expression starts here.
func (p *Parser) parseExprInto(dst *ast.Node) bool {
	if !p.parseExprSingleInto(dst) {
		return false
	}
	for p.at(token.Comma) {
		p.s.Consume()
		if !p.parseExprSingleInto(dst) {
			p.errorAt(diag.SynExpectedExpr, p.peek(1), "missing expression at %s", describe(p.peek(1)))
			break
		}
	}
	return true
}

// parseExprSingleInto reads one ExprSingle into dst.
func (p *Parser) parseExprSingleInto(dst *ast.Node) bool {
	if !p.enter() {
		p.skipUnsupported()
		return true
	}
	defer p.leave()

	tok := p.peek(1)
	if tok.Kind == token.NCName {
		second := p.peek(2)
		switch {
		case tok.IsName("for", "let") && second.Kind == token.Dollar:
			dst.Append(p.parseFLWOR())
			return true
		case tok.IsName("for") && second.IsName("sliding", "tumbling"):
			p.unsupported(tok, "window clause")
			p.skipUnsupported()
			return true
		case tok.IsName("some", "every") && second.Kind == token.Dollar:
			dst.Append(p.parseQuantified())
			return true
		case tok.IsName("if") && second.Kind == token.LParen:
			dst.Append(p.parseIf())
			return true
		case tok.IsName("switch") && second.Kind == token.LParen:
			dst.Append(p.parseSwitch())
			return true
		case tok.IsName("typeswitch") && second.Kind == token.LParen:
			dst.Append(p.parseTypeswitch())
			return true
		case tok.IsName("try") && second.Kind == token.LBrace:
			dst.Append(p.parseTryCatch())
			return true
		case p.atUpdateOrScripting():
			if !p.modes.Has(lexer.Update) {
				p.unsupported(tok, "XQuery Update and Scripting syntax")
			}
			p.skipUnsupported()
			return true
		}
	}
	return p.parseOperatorChain(dst)
}

// atUpdateOrScripting recognises the start of update and scripting
// expressions, which are skipped.
func (p *Parser) atUpdateOrScripting() bool {
	tok, second := p.peek(1), p.peek(2)
	switch {
	case tok.IsName("insert", "delete", "rename") && second.IsName("node", "nodes"):
		return true
	case tok.IsName("replace") && second.IsName("node", "value"):
		return true
	case tok.IsName("copy") && second.Kind == token.Dollar:
		return true
	case tok.IsName("while") && second.Kind == token.LParen:
		return true
	case tok.IsName("exit") && second.IsName("returning"):
		return true
	case tok.IsName("block") && second.Kind == token.LBrace:
		return true
	}
	return false
}

// skipUnsupported consumes a construct that is not analysed, up to a ',' ';' or
// closing bracket that does not belong to it.
func (p *Parser) skipUnsupported() {
	depth := 0
	for {
		switch p.peek(1).Kind {
		case token.EOF:
			return
		case token.Apos, token.Quot:
			p.parseStringLiteral()
			continue
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			if depth == 0 {
				return
			}
			depth--
		case token.Comma, token.Semicolon:
			if depth == 0 {
				return
			}
		}
		p.s.Consume()
	}
}

// binaryWords are the keyword operators between two operands.
var binaryWords = map[string]bool{
	"or": true, "and": true,
	"eq": true, "ne": true, "lt": true, "le": true, "gt": true, "ge": true, "is": true,
	"to": true, "div": true, "idiv": true, "mod": true,
	"union": true, "intersect": true, "except": true,
}

func (p *Parser) atBinaryOperator() bool {
	tok := p.peek(1)
	switch tok.Kind {
	case token.Eq, token.Ne, token.Lt, token.Le, token.Gt, token.Ge, token.Precedes, token.Follows,
		token.Plus, token.Minus, token.Star, token.Pipe, token.Concat, token.Bang:
		return true
	case token.NCName:
		return binaryWords[tok.Text]
	}
	return false
}

// parseOperatorChain reads operands joined by binary operators and the typed
// operators (instance of, treat as, castable as, cast as).
func (p *Parser) parseOperatorChain(dst *ast.Node) bool {
	operand := p.parseUnary()
	if operand == nil {
		return false
	}
	dst.Append(operand)
	for {
		tok := p.peek(1)
		switch {
		case p.atBinaryOperator():
			if tok.Kind == token.Concat || tok.Kind == token.Bang {
				p.requireDialect(tok, "'"+tok.Text+"'")
			}
			dst.Append(p.leaf())
			operand := p.parseUnary()
			if operand == nil {
				p.errorAt(diag.SynExpectedExpr, p.peek(1), "missing expression at %s", describe(p.peek(1)))
				return true
			}
			dst.Append(operand)
		case tok.IsName("instance") && p.peek(2).IsName("of"):
			dst.Append(p.leaf(), p.leaf())
			p.parseSequenceTypeInto(dst)
		case tok.IsName("treat") && p.peek(2).IsName("as"):
			dst.Append(p.leaf(), p.leaf())
			p.parseSequenceTypeInto(dst)
		case tok.IsName("castable", "cast") && p.peek(2).IsName("as"):
			dst.Append(p.leaf(), p.leaf())
			p.parseSingleTypeInto(dst)
		default:
			return true
		}
	}
}

// parseUnary reads `("+"|"-")* PathExpr ("=>" ArrowTarget ArgumentList)*` into a
// UnaryExpr. nil means no operand starts here; nothing was consumed.
func (p *Parser) parseUnary() *ast.Node {
	first := *p.peek(1)
	var signs []*ast.Node
	for p.at(token.Plus) || p.at(token.Minus) {
		signs = append(signs, p.leaf())
	}
	path := p.parsePath()
	if path == nil {
		if len(signs) == 0 {
			return nil
		}
		p.errorAt(diag.SynExpectedExpr, p.peek(1), "missing expression at %s", describe(p.peek(1)))
	}
	un := p.anchor(ast.UnaryExpr, &first)
	un.Append(signs...)
	un.Append(path)

	for p.at(token.Arrow) {
		arrow := p.peek(1)
		p.requireDialect(arrow, "'=>'")
		un.Append(p.leaf())
		switch {
		case p.at(token.Dollar):
			un.Append(p.leaf(), p.parseQName(false))
		case p.at(token.LParen):
			un.Append(p.parseParenthesized())
		default:
			if name := p.parseQName(false); name != nil {
				un.Append(name)
			} else {
				p.errorAt(diag.SynExpectedToken, p.peek(1), "missing function name at %s", describe(p.peek(1)))
				return un
			}
		}
		un.Append(p.parseArgumentList())
	}
	return un
}

// parseEnclosedInto reads `{ Expr }` into dst without keeping the braces.
func (p *Parser) parseEnclosedInto(dst *ast.Node, emptyOK bool) bool {
	if _, ok := p.expect(token.LBrace, "{"); !ok {
		return false
	}
	if p.at(token.RBrace) {
		if !emptyOK {
			p.errorAt(diag.SynExpectedExpr, p.peek(1), "missing expression at %s", describe(p.peek(1)))
		}
	} else if !p.parseExprInto(dst) {
		p.errorAt(diag.SynExpectedExpr, p.peek(1), "missing expression at %s", describe(p.peek(1)))
		p.skipUnsupported()
	}
	_, ok := p.expect(token.RBrace, "}")
	return ok
}

// parseExprSingleNode reads one ExprSingle into a fresh node of typ anchored on
// anchor.
func (p *Parser) parseExprSingleNode(typ ast.Type, anchor *token.Token) *ast.Node {
	n := p.anchor(typ, anchor)
	if !p.parseExprSingleInto(n) {
		p.errorAt(diag.SynExpectedExpr, p.peek(1), "missing expression at %s", describe(p.peek(1)))
	}
	return n
}
