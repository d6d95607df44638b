package parser

import (
	"xqlint/internal/ast"
	"xqlint/internal/diag"
	"xqlint/internal/token"
)

// parseFLWOR reads the clauses of a FLWOR expression up to its return clause.
// Each for and let binding gets its own clause node anchored on its '$'.
func (p *Parser) parseFLWOR() *ast.Node {
	flwor := p.node(ast.FLWORExpr)
	for {
		tok, second := p.peek(1), p.peek(2)
		switch {
		case tok.IsName("for") && second.Kind == token.Dollar:
			p.s.Consume()
			p.parseForBindings(flwor)
		case tok.IsName("for") && second.IsName("sliding", "tumbling"):
			p.unsupported(tok, "window clause")
			p.skipUnsupported()
			return flwor
		case tok.IsName("let") && second.Kind == token.Dollar:
			p.s.Consume()
			p.parseLetBindings(flwor)
		case tok.IsName("where"):
			kw := p.next()
			flwor.Append(p.parseExprSingleNode(ast.WhereClause, &kw))
		case tok.IsName("order", "stable") && (second.IsName("by") || second.IsName("order")):
			flwor.Append(p.parseOrderBy())
		case tok.IsName("group") && second.IsName("by"):
			flwor.Append(p.parseGroupBy())
		case tok.IsName("count") && second.Kind == token.Dollar:
			kw := p.next()
			clause := p.anchor(ast.CountClause, &kw)
			p.s.Consume() // $
			clause.Append(p.parseQName(false))
			flwor.Append(clause)
		case tok.IsName("return"):
			kw := p.next()
			flwor.Append(p.parseExprSingleNode(ast.ReturnClause, &kw))
			return flwor
		default:
			p.errorAt(diag.SynExpectedToken, tok, "missing 'return' at %s", describe(tok))
			return flwor
		}
	}
}

// parseForBindings reads `$x (as T)? (allowing empty)? (at $i)? in expr`, comma
// separated.
func (p *Parser) parseForBindings(flwor *ast.Node) {
	for {
		dollar, ok := p.expect(token.Dollar, "$")
		if !ok {
			return
		}
		clause := p.anchor(ast.ForClause, &dollar)
		name := p.node(ast.ForName)
		name.Append(p.parseQName(false))
		clause.Append(name)
		if tok, ok := p.acceptName("as"); ok {
			typ := p.anchor(ast.ForType, &tok)
			p.parseSequenceTypeInto(typ)
			clause.Append(typ)
		}
		if p.atKeywords("allowing", "empty") {
			p.requireDialect(p.peek(1), "'allowing empty'")
			p.s.Consume()
			p.s.Consume()
		}
		if tok, ok := p.acceptName("at"); ok {
			at := p.anchor(ast.ForAt, &tok)
			p.expect(token.Dollar, "$")
			at.Append(p.parseQName(false))
			clause.Append(at)
		}
		in, ok := p.acceptName("in")
		if !ok {
			p.errorAt(diag.SynExpectedToken, p.peek(1), "missing 'in' at %s", describe(p.peek(1)))
			in = *p.peek(1)
		}
		clause.Append(p.parseExprSingleNode(ast.ForBinding, &in))
		flwor.Append(clause)
		if _, ok := p.accept(token.Comma); !ok {
			return
		}
	}
}

// parseLetBindings reads `$x (as T)? := expr`, comma separated.
func (p *Parser) parseLetBindings(flwor *ast.Node) {
	for {
		dollar, ok := p.expect(token.Dollar, "$")
		if !ok {
			return
		}
		clause := p.anchor(ast.LetClause, &dollar)
		name := p.node(ast.LetName)
		name.Append(p.parseQName(false))
		clause.Append(name)
		if tok, ok := p.acceptName("as"); ok {
			typ := p.anchor(ast.LetType, &tok)
			p.parseSequenceTypeInto(typ)
			clause.Append(typ)
		}
		bind, ok := p.expect(token.Assign, ":=")
		if !ok {
			bind = *p.peek(1)
		}
		clause.Append(p.parseExprSingleNode(ast.LetBinding, &bind))
		flwor.Append(clause)
		if _, ok := p.accept(token.Comma); !ok {
			return
		}
	}
}

// parseOrderBy reads `stable? order by spec, spec`.
//
//	OrderByClause[stable?, OrderSpecList[OrderSpec[expr..., OrderModifier?]...]]
func (p *Parser) parseOrderBy() *ast.Node {
	clause := p.node(ast.OrderByClause)
	if p.atName("stable") {
		clause.Append(p.leaf())
	}
	p.expectName("order")
	p.expectName("by")
	list := p.node(ast.OrderSpecList)
	clause.Append(list)
	for {
		spec := p.node(ast.OrderSpec)
		if !p.parseExprSingleInto(spec) {
			p.errorAt(diag.SynExpectedExpr, p.peek(1), "missing expression at %s", describe(p.peek(1)))
			break
		}
		spec.Append(p.parseOrderModifier())
		list.Append(spec)
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	return clause
}

// parseOrderModifier reads `(ascending|descending)? (empty (greatest|least))?
// (collation "uri")?`; nil when none is there.
func (p *Parser) parseOrderModifier() *ast.Node {
	if !p.atName("ascending", "descending", "empty", "collation") {
		return nil
	}
	mod := p.node(ast.OrderModifier)
	if p.atName("ascending", "descending") {
		mod.Append(p.leaf())
	}
	if p.atName("empty") {
		mod.Append(p.leaf())
		if p.atName("greatest", "least") {
			mod.Append(p.leaf())
		} else {
			p.errorAt(diag.SynExpectedToken, p.peek(1), "missing 'greatest' at %s", describe(p.peek(1)))
		}
	}
	if p.atName("collation") {
		mod.Append(p.leaf(), p.parseStringLiteral())
	}
	return mod
}

// parseGroupBy reads `group by $k (as T)? (:= expr)? (collation "uri")?, ...`.
// A GroupingSpec starts with the key's QName.
func (p *Parser) parseGroupBy() *ast.Node {
	clause := p.node(ast.GroupByClause)
	p.requireDialect(p.peek(1), "group by")
	p.s.Consume() // group
	p.s.Consume() // by
	for {
		dollar, ok := p.expect(token.Dollar, "$")
		if !ok {
			break
		}
		spec := p.anchor(ast.GroupingSpec, &dollar)
		spec.Append(p.parseQName(false))
		if tok, ok := p.acceptName("as"); ok {
			typ := p.anchor(ast.TypeDeclaration, &tok)
			p.parseSequenceTypeInto(typ)
			spec.Append(typ)
		}
		if _, ok := p.accept(token.Assign); ok {
			if !p.parseExprSingleInto(spec) {
				p.errorAt(diag.SynExpectedExpr, p.peek(1), "missing expression at %s", describe(p.peek(1)))
			}
		}
		if p.atName("collation") {
			spec.Append(p.leaf(), p.parseStringLiteral())
		}
		clause.Append(spec)
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	return clause
}

// parseQuantified reads `(some|every) $x (as T)? in expr, ... satisfies expr`.
func (p *Parser) parseQuantified() *ast.Node {
	q := p.node(ast.QuantifiedExpr)
	q.Append(p.leaf())
	for {
		dollar, ok := p.expect(token.Dollar, "$")
		if !ok {
			break
		}
		binding := p.anchor(ast.QuantifiedBinding, &dollar)
		name := p.node(ast.QuantifiedName)
		name.Append(p.parseQName(false))
		binding.Append(name)
		if tok, ok := p.acceptName("as"); ok {
			typ := p.anchor(ast.QuantifiedType, &tok)
			p.parseSequenceTypeInto(typ)
			binding.Append(typ)
		}
		in, ok := p.acceptName("in")
		if !ok {
			p.errorAt(diag.SynExpectedToken, p.peek(1), "missing 'in' at %s", describe(p.peek(1)))
			in = *p.peek(1)
		}
		binding.Append(p.parseExprSingleNode(ast.QuantifiedIn, &in))
		q.Append(binding)
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	kw, ok := p.acceptName("satisfies")
	if !ok {
		p.errorAt(diag.SynExpectedToken, p.peek(1), "missing 'satisfies' at %s", describe(p.peek(1)))
		return q
	}
	q.Append(p.parseExprSingleNode(ast.QuantifiedSatisfies, &kw))
	return q
}

// parseIf reads `if (expr) then expr else expr`.
func (p *Parser) parseIf() *ast.Node {
	expr := p.node(ast.IfExpr)
	p.s.Consume() // if
	p.expect(token.LParen, "(")
	pred := p.node(ast.IfPredicate)
	if !p.parseExprInto(pred) {
		p.errorAt(diag.SynExpectedExpr, p.peek(1), "missing expression at %s", describe(p.peek(1)))
	}
	expr.Append(pred)
	p.expect(token.RParen, ")")

	then, ok := p.acceptName("then")
	if !ok {
		p.errorAt(diag.SynExpectedToken, p.peek(1), "missing 'then' at %s", describe(p.peek(1)))
		return expr
	}
	expr.Append(p.parseExprSingleNode(ast.IfThen, &then))
	els, ok := p.acceptName("else")
	if !ok {
		p.errorAt(diag.SynExpectedToken, p.peek(1), "missing 'else' at %s", describe(p.peek(1)))
		return expr
	}
	expr.Append(p.parseExprSingleNode(ast.IfElse, &els))
	return expr
}

// parseSwitch reads `switch (expr) (case expr+ return expr)+ default return expr`.
func (p *Parser) parseSwitch() *ast.Node {
	sw := p.node(ast.SwitchExpr)
	p.requireDialect(p.peek(1), "switch")
	p.s.Consume() // switch
	p.expect(token.LParen, "(")
	operand := p.node(ast.SwitchOperand)
	if !p.parseExprInto(operand) {
		p.errorAt(diag.SynExpectedExpr, p.peek(1), "missing expression at %s", describe(p.peek(1)))
	}
	sw.Append(operand)
	p.expect(token.RParen, ")")

	for p.atName("case") {
		clause := p.node(ast.SwitchCase)
		for {
			kw, ok := p.acceptName("case")
			if !ok {
				break
			}
			clause.Append(p.parseExprSingleNode(ast.SwitchCaseValue, &kw))
		}
		ret, ok := p.acceptName("return")
		if !ok {
			p.errorAt(diag.SynExpectedToken, p.peek(1), "missing 'return' at %s", describe(p.peek(1)))
			sw.Append(clause)
			return sw
		}
		clause.Append(p.parseExprSingleNode(ast.CaseReturn, &ret))
		sw.Append(clause)
	}
	def, ok := p.acceptName("default")
	if !ok {
		p.errorAt(diag.SynExpectedToken, p.peek(1), "missing 'default' at %s", describe(p.peek(1)))
		return sw
	}
	p.expectName("return")
	sw.Append(p.parseExprSingleNode(ast.SwitchDefault, &def))
	return sw
}

// parseTypeswitch reads
// `typeswitch (expr) (case ($v as)? T (| T)* return expr)+ default $v? return expr`.
func (p *Parser) parseTypeswitch() *ast.Node {
	ts := p.node(ast.TypeswitchExpr)
	p.s.Consume() // typeswitch
	p.expect(token.LParen, "(")
	pred := p.node(ast.TypeswitchPredicate)
	if !p.parseExprInto(pred) {
		p.errorAt(diag.SynExpectedExpr, p.peek(1), "missing expression at %s", describe(p.peek(1)))
	}
	ts.Append(pred)
	p.expect(token.RParen, ")")

	if !p.atName("case") {
		p.errorAt(diag.SynExpectedToken, p.peek(1), "missing 'case' at %s", describe(p.peek(1)))
	} else {
		cases := p.node(ast.TypeswitchCases)
		for p.atName("case") {
			cases.Append(p.parseCaseClause())
		}
		ts.Append(cases)
	}

	def, ok := p.acceptName("default")
	if !ok {
		p.errorAt(diag.SynExpectedToken, p.peek(1), "missing 'default' at %s", describe(p.peek(1)))
		return ts
	}
	dflt := p.anchor(ast.TypeswitchDefault, &def)
	if dollar, ok := p.accept(token.Dollar); ok {
		name := p.anchor(ast.CaseName, &dollar)
		name.Append(p.parseQName(false))
		dflt.Append(name)
	}
	p.expectName("return")
	if !p.parseExprSingleInto(dflt) {
		p.errorAt(diag.SynExpectedExpr, p.peek(1), "missing expression at %s", describe(p.peek(1)))
	}
	ts.Append(dflt)
	return ts
}

func (p *Parser) parseCaseClause() *ast.Node {
	kw := p.next()
	clause := p.anchor(ast.CaseClause, &kw)
	if dollar, ok := p.accept(token.Dollar); ok {
		name := p.anchor(ast.CaseName, &dollar)
		name.Append(p.parseQName(false))
		clause.Append(name)
		p.expectName("as")
	}
	typ := p.node(ast.CaseType)
	p.parseSequenceTypeInto(typ)
	for p.at(token.Pipe) {
		typ.Append(p.leaf())
		p.parseSequenceTypeInto(typ)
	}
	clause.Append(typ)
	ret, ok := p.acceptName("return")
	if !ok {
		p.errorAt(diag.SynExpectedToken, p.peek(1), "missing 'return' at %s", describe(p.peek(1)))
		return clause
	}
	clause.Append(p.parseExprSingleNode(ast.CaseReturn, &ret))
	return clause
}

// parseTryCatch reads `try { expr } catch ... { expr }`. Both bodies need an
// expression. MarkLogic writes `catch ($e)`, XQuery 3.0 `catch err:A | err:B`.
//
//	TryCatchExpr[TryClause, CatchClause[CatchError | CatchErrorList, CatchExpr]...]
func (p *Parser) parseTryCatch() *ast.Node {
	expr := p.node(ast.TryCatchExpr)
	p.requireDialect(p.peek(1), "try/catch")
	p.s.Consume() // try
	try := p.node(ast.TryClause)
	p.parseEnclosedInto(try, false)
	expr.Append(try)

	if !p.atName("catch") {
		p.errorAt(diag.SynExpectedToken, p.peek(1), "missing 'catch' at %s", describe(p.peek(1)))
		return expr
	}
	for p.atName("catch") {
		kw := p.next()
		clause := p.anchor(ast.CatchClause, &kw)
		if p.at(token.LParen) && p.peek(2).Kind == token.Dollar {
			open := p.next()
			errVar := p.anchor(ast.CatchError, &open)
			p.s.Consume() // $
			errVar.Append(p.parseQName(false))
			clause.Append(errVar)
			p.expect(token.RParen, ")")
		} else {
			list := p.node(ast.CatchErrorList)
			list.Append(p.parseQName(true))
			for p.at(token.Pipe) {
				list.Append(p.leaf(), p.parseQName(true))
			}
			clause.Append(list)
		}
		body := p.node(ast.CatchExpr)
		p.parseEnclosedInto(body, false)
		clause.Append(body)
		expr.Append(clause)
	}
	return expr
}
