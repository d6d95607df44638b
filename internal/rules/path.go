package rules

import (
	"strings"

	"xqlint/internal/ast"
	"xqlint/internal/check"
)

var descendantStepsRule = check.Rule{
	Key:      KeyXPathDescendantSteps,
	Name:     "Avoid Using '//' in XPath",
	Severity: check.SevMinor,
	Description: "Favor fully-qualified paths in XPath for readability " +
		"and to avoid potential performance problems.",
}

var textStepsRule = check.Rule{
	Key:      KeyXPathTextSteps,
	Name:     "Avoid Using text() in XPath",
	Severity: check.SevMinor,
	Description: "Avoid /text() steps in XPath in favor of fn:string() or atomization " +
		"through strong typing.",
}

// pathStep flags a path step and reports it on the line of the step that
// follows it, which is where a multi-line path actually uses it.
type pathStep struct {
	base
	// contains selects the paths to look at by their value.
	contains string
	// step is the text of the offending child.
	step string
}

func newDescendantSteps() *pathStep {
	return &pathStep{base: base{rule: descendantStepsRule}, contains: "//", step: "//"}
}

// text() is flattened into the path as "text ( )"; the name is the child to
// blame.
func newTextSteps() *pathStep {
	return &pathStep{base: base{rule: textStepsRule}, contains: "text ( )", step: "text"}
}

func (c *pathStep) EnterExpression(n *ast.Node) {
	if !n.Is(ast.PathExpr) || !strings.Contains(n.Value(), c.contains) {
		return
	}
	for _, b := range check.PathBlame(n, c.step) {
		if b.Missing {
			c.ctx.Tracef("rule."+c.rule.Key, "no step after %q at child %d, line %d", c.step, b.Index, n.Line())
			continue
		}
		c.report(b.Line)
	}
}
