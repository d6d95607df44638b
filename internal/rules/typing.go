package rules

import (
	"xqlint/internal/ast"
	"xqlint/internal/check"
)

var typingInFLWORRule = check.Rule{
	Key:      KeyStrongTypingInFLWOR,
	Name:     "Use Strong Typing in FLWOR Expressions",
	Severity: check.SevMinor,
	Description: "Declare types for FLWOR 'let' and 'for' clauses to increase readability and catch bugs. " +
		"Scope the types as narrowly as possible and include occurrence indicators.",
}

var typingInFunctionRule = check.Rule{
	Key:      KeyStrongTypingInFunctionDecl,
	Name:     "Use Strong Typing in Function Declarations",
	Severity: check.SevCritical,
	Description: "Declare types for function parameters and return types to increase readability " +
		"and catch bugs. Scope the types as narrowly as possible, e.g. element() instead of item().",
}

var typingInVariablesRule = check.Rule{
	Key:      KeyStrongTypingInModuleVariables,
	Name:     "Use Strong Typing when Declaring Module Variables",
	Severity: check.SevCritical,
	Description: "Declare types for declared variables to increase readability and catch bugs. " +
		"Scope the types as narrowly as possible and include occurrence indicators.",
}

var orderByRangeRule = check.Rule{
	Key:      KeyOrderByRange,
	Name:     "Range Evaluation in Order By Clause",
	Severity: check.SevInfo,
	Description: "Ordering large numbers of documents may perform better with a range index.",
}

// child is the first immediate child of type t.
func child(n *ast.Node, t ast.Type) *ast.Node {
	for _, c := range n.Children {
		if c.Is(t) {
			return c
		}
	}
	return nil
}

// typed reports whether n has a non-empty type child of type t.
func typed(n *ast.Node, t ast.Type) bool {
	typ := child(n, t)
	return typ != nil && typ.Len() > 0
}

type typingInFLWOR struct {
	base
}

func newTypingInFLWOR() *typingInFLWOR {
	return &typingInFLWOR{base: base{rule: typingInFLWORRule}}
}

func (c *typingInFLWOR) EnterExpression(n *ast.Node) {
	if !n.Is(ast.FLWORExpr) {
		return
	}
	for _, clause := range n.Children {
		switch {
		case clause.Is(ast.ForClause) && !typed(clause, ast.ForType),
			clause.Is(ast.LetClause) && !typed(clause, ast.LetType):
			c.report(clause.Line())
		}
	}
}

type typingInFunctionDecl struct {
	base
}

func newTypingInFunctionDecl() *typingInFunctionDecl {
	return &typingInFunctionDecl{base: base{rule: typingInFunctionRule}}
}

func (c *typingInFunctionDecl) EnterExpression(n *ast.Node) {
	if !n.Is(ast.FunctionDecl) {
		return
	}
	if params := child(n, ast.ParamList); params != nil {
		for _, p := range params.Children {
			if !typed(p, ast.TypeDeclaration) {
				c.report(p.Line())
			}
		}
	}
	if !typed(n, ast.ReturnType) {
		c.report(n.Line())
	}
}

type typingInModuleVariables struct {
	base
}

func newTypingInModuleVariables() *typingInModuleVariables {
	return &typingInModuleVariables{base: base{rule: typingInVariablesRule}}
}

func (c *typingInModuleVariables) EnterExpression(n *ast.Node) {
	if n.Is(ast.VarDecl) && !typed(n, ast.VarType) {
		c.report(n.Line())
	}
}

type orderByRange struct {
	base
}

func newOrderByRange() *orderByRange {
	return &orderByRange{base: base{rule: orderByRangeRule}}
}

func (c *orderByRange) EnterExpression(n *ast.Node) {
	if n.Is(ast.OrderSpec) {
		c.report(n.Line())
	}
}
