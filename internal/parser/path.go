package parser

import (
	"xqlint/internal/ast"
	"xqlint/internal/diag"
	"xqlint/internal/token"
)

// scanQName measures the QName starting k tokens ahead: 1 for a plain name, 3
// for `prefix:local`, 0 when no name starts there. With wildcards `*`,
// `*:local` and `prefix:*` count as names too.
func (p *Parser) scanQName(k int, wildcards bool) int {
	first := p.peek(k)
	switch {
	case first.Kind == token.NCName:
	case wildcards && first.Kind == token.Star:
	default:
		return 0
	}
	colon := p.peek(k + 1)
	if colon.Kind != token.Colon || !adjacent(first, colon) {
		return 1
	}
	local := p.peek(k + 2)
	if !adjacent(colon, local) {
		return 1
	}
	switch {
	case local.Kind == token.NCName:
		return 3
	case wildcards && local.Kind == token.Star && first.Kind == token.NCName:
		return 3
	}
	return 1
}

// parseQName reads a QName into a node anchored on its first token; the pieces
// are terminals, so TextValue gives back "prefix:local".
func (p *Parser) parseQName(wildcards bool) *ast.Node {
	n := p.scanQName(1, wildcards)
	if n == 0 {
		p.errorAt(diag.SynExpectedToken, p.peek(1), "missing name at %s", describe(p.peek(1)))
		return nil
	}
	name := p.node(ast.QName)
	for i := 0; i < n; i++ {
		name.Append(p.leaf())
	}
	return name
}

// parsePath reads a path expression. nil means no expression starts here;
// nothing was consumed.
func (p *Parser) parsePath() *ast.Node {
	path := p.node(ast.PathExpr)
	switch {
	case p.at(token.Slash):
		path.Append(p.leaf())
		// a lone "/" is the document root
		p.parseStepInto(path)
	case p.at(token.SlashSlash):
		path.Append(p.leaf())
		p.requireStep(path)
	default:
		if !p.parseStepInto(path) {
			return nil
		}
	}
	for p.at(token.Slash) || p.at(token.SlashSlash) {
		path.Append(p.leaf())
		p.requireStep(path)
	}
	return path
}

func (p *Parser) requireStep(path *ast.Node) {
	if !p.parseStepInto(path) {
		p.errorAt(diag.SynExpectedExpr, p.peek(1), "missing step at %s", describe(p.peek(1)))
	}
}

// parseStepInto appends one step and its predicates or argument lists.
func (p *Parser) parseStepInto(path *ast.Node) bool {
	if !p.parsePrimaryInto(path) {
		return false
	}
	p.parsePostfixInto(path)
	return true
}

// parsePrimaryInto appends an axis step, a filter primary or a constructor.
func (p *Parser) parsePrimaryInto(path *ast.Node) bool {
	tok := p.peek(1)
	switch tok.Kind {
	case token.Dot, token.DotDot, token.IntegerLit, token.DecimalLit, token.DoubleLit:
		path.Append(p.leaf())
		return true
	case token.Apos, token.Quot:
		path.Append(p.parseStringLiteral())
		return true
	case token.Dollar:
		path.Append(p.leaf(), p.parseQName(false))
		return true
	case token.At:
		path.Append(p.leaf())
		p.parseNodeTestInto(path)
		return true
	case token.LParen:
		if next := p.peek(2); next.Kind == token.Hash && adjacent(tok, next) {
			p.unsupported(tok, "extension expression")
			p.skipUnsupported()
			return true
		}
		path.Append(p.parseParenthesized())
		return true
	case token.LBracket:
		p.parseSquareArrayInto(path)
		return true
	case token.Lt:
		path.Append(p.parseDirElem())
		return true
	case token.DirComment:
		path.Append(p.wrapLeaf(ast.DirComConstructor))
		return true
	case token.DirPI:
		path.Append(p.wrapLeaf(ast.DirPIConstructor))
		return true
	case token.CData:
		path.Append(p.wrapLeaf(ast.CDataSection))
		return true
	case token.Percent:
		path.Append(p.parseInlineFunction())
		return true
	case token.Star:
		p.parseNodeTestInto(path)
		return true
	case token.NCName:
		return p.parseNamedPrimaryInto(path)
	}
	return false
}

// parseNamedPrimaryInto handles the steps that start with a name.
func (p *Parser) parseNamedPrimaryInto(path *ast.Node) bool {
	tok, second := p.peek(1), p.peek(2)
	switch {
	case token.IsAxis(tok.Text) && second.Kind == token.ColonColon:
		path.Append(p.leaf(), p.leaf())
		p.parseNodeTestInto(path)
		return true
	case p.atComputed():
		p.parseComputedInto(path)
		return true
	case tok.Text == "binary" && second.Kind == token.LParen, token.IsKindTest(tok.Text) && second.Kind == token.LParen:
		p.kindTestInto(path)
		return true
	case tok.Text == "function" && second.Kind == token.LParen:
		path.Append(p.parseInlineFunction())
		return true
	case tok.Text == "map" && second.Kind == token.LBrace:
		p.requireDialect(tok, "map constructors")
		p.parseMapInto(path)
		return true
	case tok.Text == "array" && second.Kind == token.LBrace:
		p.requireDialect(tok, "array constructors")
		path.Append(p.leaf())
		p.parseBracedInto(path, true)
		return true
	}

	n := p.scanQName(1, true)
	after := p.peek(1 + n)
	switch {
	case n > 0 && after.Kind == token.LParen && p.callable(n):
		path.Append(p.parseFunctionCall())
	case n > 0 && after.Kind == token.Hash:
		p.requireDialect(tok, "named function references")
		path.Append(p.parseQName(false), p.leaf())
		if p.at(token.IntegerLit) {
			path.Append(p.leaf())
		} else {
			p.errorAt(diag.SynExpectedToken, p.peek(1), "missing arity at %s", describe(p.peek(1)))
		}
	default:
		p.parseNodeTestInto(path)
	}
	return true
}

// callable reports whether the n-token QName ahead may name a function:
// prefixed names always can, unprefixed ones unless they are reserved.
func (p *Parser) callable(n int) bool {
	return n == 3 || !token.IsReservedFunctionName(p.peek(1).Text)
}

// parseNodeTestInto appends a kind test or a name test after an axis.
func (p *Parser) parseNodeTestInto(path *ast.Node) {
	tok := p.peek(1)
	if tok.Kind == token.NCName && p.peek(2).Kind == token.LParen && (token.IsKindTest(tok.Text) || tok.Text == "binary") {
		p.kindTestInto(path)
		return
	}
	if tok.Kind == token.Star && p.scanQName(1, true) == 1 {
		path.Append(p.leaf()) // any name
		return
	}
	path.Append(p.parseQName(true))
}

// parsePostfixInto appends the predicates and dynamic call arguments after a
// step: `a[1][@b]` gives PredicateList[Predicate, Predicate].
func (p *Parser) parsePostfixInto(path *ast.Node) {
	var preds *ast.Node
	for {
		switch {
		case p.at(token.LBracket):
			if preds == nil {
				preds = p.node(ast.PredicateList)
				path.Append(preds)
			}
			preds.Append(p.parsePredicate())
		case p.at(token.LParen):
			p.requireDialect(p.peek(1), "dynamic function calls")
			preds = nil
			path.Append(p.parseArgumentList())
		default:
			return
		}
	}
}

// parsePredicate reads `[ Expr ]`. The node sits on the first token inside the
// brackets, so a multi-line predicate reports the line of its content.
func (p *Parser) parsePredicate() *ast.Node {
	p.s.Consume() // [
	pred := p.node(ast.Predicate)
	if !p.parseExprInto(pred) {
		p.errorAt(diag.SynExpectedExpr, p.peek(1), "missing expression at %s", describe(p.peek(1)))
	}
	p.expect(token.RBracket, "]")
	return pred
}

// parseFunctionCall reads `QName(args)` into
// FunctionCall[FunctionName[QName], ArgumentList].
func (p *Parser) parseFunctionCall() *ast.Node {
	call := p.node(ast.FunctionCall)
	name := p.node(ast.FunctionName)
	name.Append(p.parseQName(false))
	call.Append(name, p.parseArgumentList())
	return call
}

// parseArgumentList reads `(a, b)`; each argument is an Argument node, `?` stays
// as a placeholder leaf.
func (p *Parser) parseArgumentList() *ast.Node {
	args := p.node(ast.ArgumentList)
	if _, ok := p.expect(token.LParen, "("); !ok {
		return args
	}
	for !p.at(token.RParen) && !p.at(token.EOF) {
		arg := p.node(ast.Argument)
		if p.at(token.Question) {
			arg.Append(p.leaf())
		} else if !p.parseExprSingleInto(arg) {
			p.unexpected()
			break
		}
		args.Append(arg)
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.expect(token.RParen, ")")
	return args
}

// parseParenthesized reads `( Expr? )`; the parentheses are not kept.
func (p *Parser) parseParenthesized() *ast.Node {
	open := p.next()
	paren := p.anchor(ast.ParenthesizedExpr, &open)
	if !p.at(token.RParen) {
		p.parseExprInto(paren)
	}
	p.expect(token.RParen, ")")
	return paren
}

// parseSquareArrayInto appends `[ a, b ]` with its brackets.
func (p *Parser) parseSquareArrayInto(path *ast.Node) {
	p.requireDialect(p.peek(1), "array constructors")
	path.Append(p.leaf())
	if !p.at(token.RBracket) {
		p.parseExprInto(path)
	}
	if tok, ok := p.expect(token.RBracket, "]"); ok {
		path.Append(p.b.Leaf(&tok))
	}
}

// parseInlineFunction reads `%ann function ($a) as T { body }` into
// InlineFunctionExpr[Annotations?, ParamList, ReturnType?, FunctionBody].
func (p *Parser) parseInlineFunction() *ast.Node {
	fn := p.node(ast.InlineFunctionExpr)
	p.requireDialect(p.peek(1), "inline functions")
	fn.Append(p.parseAnnotations())
	if !p.expectName("function") {
		return fn
	}
	fn.Append(p.parseParamList())
	fn.Append(p.parseReturnType())
	fn.Append(p.parseFunctionBody())
	return fn
}
