package rules

import (
	"strings"

	"xqlint/internal/ast"
	"xqlint/internal/check"
	"xqlint/internal/visitor"
)

var operationsInPredicateRule = check.Rule{
	Key:      KeyOperationsInPredicate,
	Name:     "Avoid Operations in Predicates",
	Severity: check.SevMajor,
	Description: "Instead of calling functions or performing operations in predicates, " +
		"assign the result to a variable before the predicate.",
}

// predicateFunctions may be called inside a predicate; matched on the end of
// the name.
var predicateFunctions = []string{
	"data", "last", "not", "exists", "xs:integer", "string", "xs:decimal", "xs:double", "xs:float",
	"xs:date", "xs:dateTime", "xs:time", "xs:dayTimeDuration", "xs:yearMonthDuration", "xs:duration",
}

var predicateOperators = []string{
	"UnaryExpr +", "UnaryExpr -", "UnaryExpr div", "UnaryExpr *", "UnaryExpr mod",
}

type operationsInPredicate struct {
	base
	preds check.PredicateTracker
}

func newOperationsInPredicate() *operationsInPredicate {
	return &operationsInPredicate{base: base{rule: operationsInPredicateRule}}
}

func (c *operationsInPredicate) EnterSource(ctx *visitor.Context) {
	c.base.EnterSource(ctx)
	c.preds.Reset()
}

func (c *operationsInPredicate) EnterExpression(n *ast.Node) {
	if n.Is(ast.Predicate) {
		c.preds.Enter()
		if containsAny(n.Value(), predicateOperators) {
			c.report(n.Line())
		}
	}
	if c.preds.In() && n.Is(ast.FunctionCall) {
		if !hasAnySuffix(n.TextValueOf("FunctionName.QName"), predicateFunctions) {
			c.report(n.Line())
		}
	}
}

func (c *operationsInPredicate) ExitExpression(n *ast.Node) {
	if n.Is(ast.Predicate) {
		c.preds.Exit()
	}
}

var subExpressionsRule = check.Rule{
	Key:      KeyXPathSubExpressionsInPredicate,
	Name:     "Avoid XPath Sub-expressions in XPath Predicates",
	Severity: check.SevInfo,
	Description: "Watch expressions like '[foo/bar]' or '[foo[bar]]', they can be bad for performance. " +
		"If the result is static, bind it to a variable.",
}

// subExpressionsInPredicate flags paths with steps and nested predicates
// inside a predicate.
type subExpressionsInPredicate struct {
	base
	preds check.PredicateTracker
}

func newSubExpressionsInPredicate() *subExpressionsInPredicate {
	return &subExpressionsInPredicate{base: base{rule: subExpressionsRule}}
}

func (c *subExpressionsInPredicate) EnterSource(ctx *visitor.Context) {
	c.base.EnterSource(ctx)
	c.preds.Reset()
}

func (c *subExpressionsInPredicate) EnterExpression(n *ast.Node) {
	switch {
	case n.Is(ast.Predicate):
		if c.preds.In() {
			c.report(n.Line())
		}
		c.preds.Enter()
	case c.preds.In() && n.Is(ast.PathExpr) && strings.Contains(n.Value(), "/"):
		c.report(n.Line())
	}
}

func (c *subExpressionsInPredicate) ExitExpression(n *ast.Node) {
	if n.Is(ast.Predicate) {
		c.preds.Exit()
	}
}
