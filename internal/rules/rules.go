// Package rules holds the built-in checks. Each check is a visitor over the
// syntax tree of one file and reports through the issue list of its context.
package rules

import (
	"fmt"

	"xqlint/internal/check"
	"xqlint/internal/visitor"
)

// Rule keys. A few keep the historical "Xpath" spelling so existing
// configurations stay valid.
const (
	KeyXQueryVersion                  = "XQueryVersion"
	KeyFunctionMapping                = "FunctionMapping"
	KeyEffectiveBoolean               = "EffectiveBoolean"
	KeyOperationsInPredicate          = "OperationsInPredicate"
	KeyXPathSubExpressionsInPredicate = "XPathSubExpressionsInPredicate"
	KeyXPathDescendantSteps           = "XpathDescendantSteps"
	KeyXPathTextSteps                 = "XpathTextSteps"
	KeyStrongTypingInFLWOR            = "StrongTypingInFLWOR"
	KeyStrongTypingInFunctionDecl     = "StrongTypingInFunctionDeclaration"
	KeyStrongTypingInModuleVariables  = "StrongTypingInModuleVariables"
	KeyDynamicFunction                = "DynamicFunction"
	KeyLogCheck                       = "LogCheck"
	KeyOrderByRange                   = "OrderByRange"
	KeyParseError                     = "ParseError"
	KeyUnresolvedFunction             = "UnresolvedFunction"
	KeyDeprecatedFunction             = "DeprecatedFunction"
	KeyProhibitedNamespace            = "ProhibitedNamespace"
	KeyProhibitedStringValue          = "ProhibitedStringValue"
	KeyProhibitedVariableName         = "ProhibitedVariableName"
)

// Register adds every built-in rule to r.
func Register(r *check.Registry) {
	r.Register(xqueryVersionRule, stateless(newXQueryVersion))
	r.Register(functionMappingRule, stateless(newFunctionMapping))
	r.Register(effectiveBooleanRule, stateless(newEffectiveBoolean))
	r.Register(operationsInPredicateRule, stateless(newOperationsInPredicate))
	r.Register(subExpressionsRule, stateless(newSubExpressionsInPredicate))
	r.Register(descendantStepsRule, stateless(newDescendantSteps))
	r.Register(textStepsRule, stateless(newTextSteps))
	r.Register(typingInFLWORRule, stateless(newTypingInFLWOR))
	r.Register(typingInFunctionRule, stateless(newTypingInFunctionDecl))
	r.Register(typingInVariablesRule, stateless(newTypingInModuleVariables))
	r.Register(dynamicFunctionRule, stateless(newDynamicFunction))
	r.Register(logCheckRule, stateless(newLogCheck))
	r.Register(orderByRangeRule, stateless(newOrderByRange))
	r.Register(parseErrorRule, newParseError)
	r.Register(unresolvedFunctionRule, stateless(newUnresolvedFunction))
	r.Register(deprecatedFunctionRule, newDeprecatedFunction)
	r.Register(prohibitedNamespaceRule, newProhibitedNamespace)
	r.Register(prohibitedStringValueRule, newProhibitedStringValue)
	r.Register(prohibitedVariableNameRule, newProhibitedVariableName)
}

// Default is a registry with every built-in rule.
func Default() *check.Registry {
	r := check.NewRegistry()
	Register(r)
	return r
}

// base carries what every check needs: its rule and the context of the file
// being processed.
type base struct {
	rule check.Rule
	ctx  *visitor.Context
}

func (b *base) Rule() check.Rule { return b.rule }

func (b *base) EnterSource(ctx *visitor.Context) { b.ctx = ctx }

// report adds an issue with the rule description as message.
func (b *base) report(line uint32) {
	b.ctx.Report(b, line, "")
}

func (b *base) reportf(line uint32, format string, args ...any) {
	b.ctx.Report(b, line, fmt.Sprintf(format, args...))
}

// stateless wraps a factory for checks without settings.
func stateless[T check.Check](fn func() T) check.Factory {
	return func(check.Params) (check.Check, error) { return fn(), nil }
}
