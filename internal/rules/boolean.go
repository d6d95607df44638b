package rules

import (
	"strings"

	"xqlint/internal/ast"
	"xqlint/internal/check"
)

var effectiveBooleanRule = check.Rule{
	Key:      KeyEffectiveBoolean,
	Name:     "Effective Boolean in Conditional Predicate",
	Severity: check.SevMinor,
	Description: "Unless the value in the conditional is of type xs:boolean, use fn:exists(), fn:empty() " +
		"or another boolean function inside conditional predicates to check values.",
}

// booleanFunctions are matched on the end of the called name, with or
// without prefix.
var booleanFunctions = []string{
	"exists", "empty", "contains", "starts-with", "ends-with", "boolean", "not", "true", "false", "matches",
}

// booleanOperators are matched against the value of the predicate, where
// every operand reads as "UnaryExpr".
var booleanOperators = []string{
	"UnaryExpr =", "UnaryExpr eq", "UnaryExpr !=", "UnaryExpr ne",
	"UnaryExpr <", "UnaryExpr lt", "UnaryExpr <=", "UnaryExpr le",
	"UnaryExpr >", "UnaryExpr gt", "UnaryExpr >=", "UnaryExpr ge",
	"UnaryExpr castable as", "UnaryExpr instance of",
}

const xsBoolean = "xs:boolean"

type effectiveBoolean struct {
	base
}

func newEffectiveBoolean() *effectiveBoolean {
	return &effectiveBoolean{base: base{rule: effectiveBooleanRule}}
}

func (c *effectiveBoolean) EnterExpression(n *ast.Node) {
	if !n.Is(ast.IfPredicate) {
		return
	}
	if !c.booleanCall(n) && !containsAny(n.Value(), booleanOperators) && !c.booleanVariable(n) {
		c.report(n.Line())
	}
}

// booleanCall accepts a predicate that is a single call to a boolean function
// or to a function declared to return xs:boolean.
func (c *effectiveBoolean) booleanCall(pred *ast.Node) bool {
	path := pred.FindPath("IfPredicate.UnaryExpr.PathExpr", false)
	if path == nil || path.Len() != 1 {
		return false
	}
	name := path.ChildTextValue("PathExpr.FunctionCall.FunctionName.QName")
	if name == "" {
		return false
	}
	if fn := c.ctx.Symbols.LookupFunction(name); fn != nil && fn.Type == xsBoolean {
		return true
	}
	return hasAnySuffix(name, booleanFunctions)
}

// booleanVariable accepts a lone reference to a variable in scope declared
// as xs:boolean.
func (c *effectiveBoolean) booleanVariable(pred *ast.Node) bool {
	if pred.TextValueOf("PathExpr") != "$QName" {
		return false
	}
	decl := c.ctx.Symbols.LookupVariable(pred.TextValueOf("PathExpr.QName"))
	return decl != nil && decl.Type == xsBoolean
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}
