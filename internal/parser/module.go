package parser

import (
	"fmt"

	"xqlint/internal/ast"
	"xqlint/internal/diag"
	"xqlint/internal/lexer"
	"xqlint/internal/token"
	"xqlint/internal/trace"
)

// parseXQuery reads the modules of a file. MarkLogic separates transactions with
// ';', each of them a main module of its own. The dialect carries over from one
// transaction to the next; only a version declaration changes it.
func (p *Parser) parseXQuery(root *ast.Node) {
	for !p.at(token.EOF) {
		errs := p.seen
		root.Append(p.parseModule())
		p.endTransaction(errs)
		if _, ok := p.accept(token.Semicolon); ok {
			continue
		}
		if p.at(token.EOF) {
			break
		}
		p.errorAt(diag.SynTrailingInput, p.peek(1), "no viable alternative at input %s", describe(p.peek(1)))
		p.resync()
		p.accept(token.Semicolon)
	}
}

// endTransaction drops back to the query grammar. A module that parsed without
// errors must have popped every lexer it pushed; anything left is counted in
// Result.Unbalanced.
func (p *Parser) endTransaction(errsBefore uint) {
	if depth := p.modes.Depth(); depth != 0 && p.seen == errsBefore {
		p.unbalanced++
		trace.Point(p.opts.Tracer, trace.ScopeNode, "unbalanced-modes",
			fmt.Sprintf("%s: %d lexers left at %s", p.file.Path, depth, describe(p.peek(1))))
	}
	p.modes.Reset()
}

func (p *Parser) parseModule() *ast.Node {
	var version *ast.Node
	if p.atName("xquery") && p.peek(2).IsName("version", "encoding") {
		version = p.parseVersionDecl()
	}

	if p.atKeywords("module", "namespace") {
		mod := p.b.New(ast.LibraryModule, nil)
		mod.Append(version, p.parseModuleDecl())
		mod.Append(p.parseProlog())
		return mod
	}

	mod := p.b.New(ast.MainModule, nil)
	mod.Append(version, p.parseProlog())
	if p.at(token.EOF) || p.at(token.Semicolon) {
		p.errorAt(diag.SynExpectedExpr, p.peek(1), "missing query body at %s", describe(p.peek(1)))
		return mod
	}
	body := p.node(ast.QueryBody)
	if !p.parseExprInto(body) {
		p.unexpected()
	}
	mod.Append(body)
	return mod
}

// parseVersionDecl reads `xquery version "v" (encoding "e")?;` and switches the
// dialect. The trailing ';' may be missing, as 0.9-ml code often has it.
func (p *Parser) parseVersionDecl() *ast.Node {
	xq := p.next()
	decl := p.anchor(ast.VersionDecl, &xq)
	if tok, ok := p.acceptName("version"); ok {
		value := p.anchor(ast.VersionValue, &tok)
		lit := p.parseStringLiteral()
		value.Append(lit)
		decl.Append(value)
		if lit != nil {
			p.modes.SetLanguageVersion(lit.Value())
		}
	}
	if tok, ok := p.acceptName("encoding"); ok {
		enc := p.anchor(ast.VersionEncoding, &tok)
		enc.Append(p.parseStringLiteral())
		decl.Append(enc)
	}
	p.accept(token.Semicolon)
	return decl
}

// parseModuleDecl reads `module namespace prefix = "uri";`.
func (p *Parser) parseModuleDecl() *ast.Node {
	tok := p.next()
	decl := p.anchor(ast.ModuleDecl, &tok)
	p.next() // namespace
	if p.at(token.NCName) {
		prefix := p.node(ast.ModulePrefix)
		prefix.Append(p.leaf())
		decl.Append(prefix)
	} else {
		p.expect(token.NCName, "prefix")
	}
	p.expect(token.Eq, "=")
	decl.Append(p.parseStringLiteral())
	p.endDecl()
	return decl
}

// endDecl closes a prolog declaration at ';', skipping whatever garbage is left.
func (p *Parser) endDecl() {
	if _, ok := p.accept(token.Semicolon); ok {
		return
	}
	p.expect(token.Semicolon, ";")
	p.resync()
	p.accept(token.Semicolon)
}

var setterNames = map[string]bool{
	"boundary-space":  true,
	"base-uri":        true,
	"construction":    true,
	"ordering":        true,
	"copy-namespaces": true,
	"decimal-format":  true,
	"revalidation":    true,
}

// parseProlog reads the declarations in front of a query body. Variables,
// functions, options and the context item go under OrderedDecls; imports,
// namespaces and setters sit directly in the prolog.
func (p *Parser) parseProlog() *ast.Node {
	var prolog, ordered *ast.Node
	for {
		decl, isOrdered := p.parsePrologDecl()
		if decl == nil {
			break
		}
		if prolog == nil {
			prolog = p.b.New(ast.Prolog, nil)
		}
		if !isOrdered {
			prolog.Append(decl)
			continue
		}
		if ordered == nil {
			ordered = p.b.New(ast.OrderedDecls, nil)
			prolog.Append(ordered)
		}
		ordered.Append(decl)
	}
	return prolog
}

func (p *Parser) parsePrologDecl() (*ast.Node, bool) {
	first := p.peek(1)
	if first.IsName("import") {
		switch {
		case p.peek(2).IsName("module"):
			return p.parseModuleImport(), false
		case p.peek(2).IsName("schema"):
			return p.parseSchemaImport(), false
		}
		return nil, false
	}
	if !first.IsName("declare") {
		return nil, false
	}

	second := p.peek(2)
	switch {
	case second.IsName("namespace"):
		return p.parseNamespaceDecl(), false
	case second.IsName("default"):
		if p.peek(3).IsName("element", "function") {
			return p.parseDefaultNamespaceDecl(), false
		}
		return p.parseSetter(), false
	case second.Kind == token.NCName && setterNames[second.Text]:
		return p.parseSetter(), false
	case second.IsName("option"):
		return p.parseOptionDecl(), true
	case second.IsName("context"):
		return p.parseContextItemDecl(), true
	case second.IsName("variable", "function", "private", "updating") || second.Kind == token.Percent:
		return p.parseAnnotatedDecl(), true
	}
	return nil, false
}

// parseModuleImport reads
// `import module (namespace prefix =)? "uri" (at "hint" ("," "hint")*)?;`.
func (p *Parser) parseModuleImport() *ast.Node {
	tok := p.next()
	imp := p.anchor(ast.ModuleImport, &tok)
	p.next() // module
	p.parseImportTarget(imp)
	p.endDecl()
	return imp
}

func (p *Parser) parseImportTarget(imp *ast.Node) {
	if _, ok := p.acceptName("namespace"); ok {
		if p.at(token.NCName) {
			prefix := p.node(ast.ModulePrefix)
			prefix.Append(p.leaf())
			imp.Append(prefix)
		} else {
			p.expect(token.NCName, "prefix")
		}
		p.expect(token.Eq, "=")
	}
	ns := p.node(ast.ModuleNamespace)
	ns.Append(p.parseStringLiteral())
	imp.Append(ns)
	p.parseAtHints(imp)
}

// parseSchemaImport reads `import schema (namespace p = | default element namespace)? "uri" (at ...)?;`.
func (p *Parser) parseSchemaImport() *ast.Node {
	tok := p.next()
	imp := p.anchor(ast.SchemaImport, &tok)
	p.next() // schema
	if p.atKeywords("default", "element", "namespace") {
		p.s.Consume()
		p.s.Consume()
		p.s.Consume()
		ns := p.node(ast.ModuleNamespace)
		ns.Append(p.parseStringLiteral())
		imp.Append(ns)
		p.parseAtHints(imp)
	} else {
		p.parseImportTarget(imp)
	}
	p.endDecl()
	return imp
}

func (p *Parser) parseAtHints(imp *ast.Node) {
	tok, ok := p.acceptName("at")
	if !ok {
		return
	}
	hints := p.anchor(ast.ModuleAtHints, &tok)
	hints.Append(p.parseStringLiteral())
	for p.at(token.Comma) {
		p.s.Consume()
		hints.Append(p.parseStringLiteral())
	}
	imp.Append(hints)
}

// parseNamespaceDecl reads `declare namespace prefix = "uri";`.
func (p *Parser) parseNamespaceDecl() *ast.Node {
	tok := p.next()
	decl := p.anchor(ast.NamespaceDecl, &tok)
	p.next() // namespace
	if p.at(token.NCName) {
		prefix := p.node(ast.ModulePrefix)
		prefix.Append(p.leaf())
		decl.Append(prefix)
	} else {
		p.expect(token.NCName, "prefix")
	}
	p.expect(token.Eq, "=")
	decl.Append(p.parseStringLiteral())
	p.endDecl()
	return decl
}

// parseDefaultNamespaceDecl reads `declare default (element|function) namespace "uri";`.
func (p *Parser) parseDefaultNamespaceDecl() *ast.Node {
	tok := p.next()
	decl := p.anchor(ast.DefaultNamespaceDecl, &tok)
	p.next() // default
	decl.Append(p.leaf())
	p.expectName("namespace")
	decl.Append(p.parseStringLiteral())
	p.endDecl()
	return decl
}

// parseSetter keeps the words of a setter such as `declare boundary-space
// preserve` or `declare default collation "uri"` as leaves.
func (p *Parser) parseSetter() *ast.Node {
	tok := p.next()
	setter := p.anchor(ast.Setter, &tok)
	for !p.at(token.Semicolon) && !p.at(token.EOF) {
		switch p.peek(1).Kind {
		case token.Apos, token.Quot:
			setter.Append(p.parseStringLiteral())
		case token.LBrace, token.RBrace, token.Dollar:
			p.unexpected()
			p.resync()
		default:
			setter.Append(p.leaf())
		}
	}
	p.endDecl()
	return setter
}

// parseOptionDecl reads `declare option QName "value";`.
func (p *Parser) parseOptionDecl() *ast.Node {
	tok := p.next()
	decl := p.anchor(ast.OptionDecl, &tok)
	p.next() // option
	decl.Append(p.parseQName(false))
	decl.Append(p.parseStringLiteral())
	p.endDecl()
	return decl
}

// parseContextItemDecl reads `declare context item (as ItemType)? (:= expr | external (:= expr)?);`.
func (p *Parser) parseContextItemDecl() *ast.Node {
	tok := p.next()
	decl := p.anchor(ast.ContextItemDecl, &tok)
	p.requireDialect(&tok, "context item declaration")
	p.next() // context
	p.expectName("item")
	if tok, ok := p.acceptName("as"); ok {
		typ := p.anchor(ast.VarType, &tok)
		p.parseItemTypeInto(typ)
		decl.Append(typ)
	}
	decl.Append(p.parseVarInit())
	p.endDecl()
	return decl
}

// parseAnnotatedDecl reads a variable or function declaration with its
// annotations.
func (p *Parser) parseAnnotatedDecl() *ast.Node {
	declare := p.next()
	anns := p.parseAnnotations()
	if tok, ok := p.acceptName("updating"); ok {
		p.unsupported(&tok, "XQuery Update")
	}
	switch {
	case p.atName("variable"):
		return p.parseVarDecl(&declare, anns)
	case p.atName("function"):
		return p.parseFunctionDecl(&declare, anns)
	}
	p.errorAt(diag.SynExpectedToken, p.peek(1), "missing 'function' or 'variable' at %s", describe(p.peek(1)))
	decl := p.anchor(ast.VarDecl, &declare)
	decl.Append(anns)
	p.resync()
	p.accept(token.Semicolon)
	return decl
}

// parseAnnotations reads `%name`, `%name("literal", 1)` and MarkLogic's bare
// `private`. Each becomes an Annotation whose first child is the name.
func (p *Parser) parseAnnotations() *ast.Node {
	var anns *ast.Node
	for {
		var ann *ast.Node
		switch {
		case p.at(token.Percent):
			pct := p.next()
			p.requireDialect(&pct, "annotations")
			ann = p.anchor(ast.Annotation, &pct)
			ann.Append(p.parseQName(false))
			if p.at(token.LParen) {
				p.s.Consume()
				ann.Append(p.parseLiteral())
				for p.at(token.Comma) {
					p.s.Consume()
					ann.Append(p.parseLiteral())
				}
				p.expect(token.RParen, ")")
			}
		case p.atName("private") && p.peek(2).IsName("function", "variable"):
			tok := p.peek(1)
			ann = p.anchor(ast.Annotation, tok)
			name := p.anchor(ast.QName, tok)
			name.Append(p.leaf())
			ann.Append(name)
		default:
			return anns
		}
		if anns == nil {
			anns = p.b.New(ast.Annotations, nil)
		}
		anns.Append(ann)
	}
}

// parseLiteral reads a string or numeric literal.
func (p *Parser) parseLiteral() *ast.Node {
	switch tok := p.peek(1); {
	case tok.Kind == token.Apos || tok.Kind == token.Quot:
		return p.parseStringLiteral()
	case tok.IsLiteral():
		return p.leaf()
	}
	p.errorAt(diag.SynExpectedToken, p.peek(1), "missing literal at %s", describe(p.peek(1)))
	return nil
}

// parseVarDecl reads `variable $name (as Type)? (:= expr | external (:= expr)?)`.
func (p *Parser) parseVarDecl(declare *token.Token, anns *ast.Node) *ast.Node {
	decl := p.anchor(ast.VarDecl, declare)
	decl.Append(anns)
	p.next() // variable
	p.expect(token.Dollar, "$")
	name := p.node(ast.VarName)
	name.Append(p.parseQName(false))
	decl.Append(name)
	if tok, ok := p.acceptName("as"); ok {
		typ := p.anchor(ast.VarType, &tok)
		p.parseSequenceTypeInto(typ)
		decl.Append(typ)
	}
	decl.Append(p.parseVarInit())
	p.endDecl()
	return decl
}

// parseVarInit reads `:= expr` into VarValue or `external (:= expr)?` into
// VarExternal.
func (p *Parser) parseVarInit() *ast.Node {
	if tok, ok := p.acceptName("external"); ok {
		ext := p.anchor(ast.VarExternal, &tok)
		if p.at(token.Assign) {
			ext.Append(p.parseVarValue())
		}
		return ext
	}
	if !p.at(token.Assign) {
		p.expect(token.Assign, ":=")
		return nil
	}
	return p.parseVarValue()
}

func (p *Parser) parseVarValue() *ast.Node {
	p.s.Consume() // :=
	value := p.node(ast.VarValue)
	if !p.parseExprSingleInto(value) {
		p.errorAt(diag.SynExpectedExpr, p.peek(1), "missing expression at %s", describe(p.peek(1)))
	}
	return value
}

// parseFunctionDecl reads `function QName($p as T, ...) as T { body }` or the
// external form.
func (p *Parser) parseFunctionDecl(declare *token.Token, anns *ast.Node) *ast.Node {
	decl := p.anchor(ast.FunctionDecl, declare)
	decl.Append(anns)
	p.next() // function
	name := p.node(ast.FunctionName)
	name.Append(p.parseQName(false))
	decl.Append(name)
	decl.Append(p.parseParamList())
	decl.Append(p.parseReturnType())

	if tok, ok := p.acceptName("external"); ok {
		decl.Append(p.anchor(ast.FunctionExternal, &tok))
	} else {
		decl.Append(p.parseFunctionBody())
	}
	p.endDecl()
	return decl
}

// parseParamList reads `($a as T, $b)`. The list node is there even when empty.
func (p *Parser) parseParamList() *ast.Node {
	list := p.node(ast.ParamList)
	if _, ok := p.expect(token.LParen, "("); !ok {
		return list
	}
	for p.at(token.Dollar) {
		dollar := p.next()
		param := p.anchor(ast.Param, &dollar)
		name := p.node(ast.ParamName)
		name.Append(p.parseQName(false))
		param.Append(name)
		if tok, ok := p.acceptName("as"); ok {
			typ := p.anchor(ast.TypeDeclaration, &tok)
			p.parseSequenceTypeInto(typ)
			param.Append(typ)
		}
		list.Append(param)
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.expect(token.RParen, ")")
	return list
}

func (p *Parser) parseReturnType() *ast.Node {
	tok, ok := p.acceptName("as")
	if !ok {
		return nil
	}
	typ := p.anchor(ast.ReturnType, &tok)
	p.parseSequenceTypeInto(typ)
	return typ
}

// parseFunctionBody reads `{ expr? }`.
func (p *Parser) parseFunctionBody() *ast.Node {
	body := p.node(ast.FunctionBody)
	p.parseEnclosedInto(body, true)
	return body
}

// requireDialect warns about XQuery 3.0 syntax in a query declared as plain
// XQuery 1.0. MarkLogic dialects accept all of it.
func (p *Parser) requireDialect(tok *token.Token, what string) {
	if p.modes.Features().Any(lexer.XQuery30 | lexer.MarkLogic) {
		return
	}
	p.report(diag.SynFeatureDisabled, diag.SevWarning, tok, what+" requires XQuery 3.0 or 1.0-ml")
}
