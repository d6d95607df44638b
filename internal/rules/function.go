package rules

import (
	"fmt"
	"strings"

	"xqlint/internal/ast"
	"xqlint/internal/check"
	"xqlint/internal/visitor"
)

var dynamicFunctionRule = check.Rule{
	Key:      KeyDynamicFunction,
	Name:     "Dynamic Function Usage (MarkLogic)",
	Severity: check.SevMajor,
	Description: "Avoid xdmp:eval() and xdmp:value() where possible. Use xdmp:invoke() or xdmp:unpath(), " +
		"or assign functions to variables to evaluate code dynamically. MarkLogic specific.",
}

type dynamicFunction struct {
	base
}

func newDynamicFunction() *dynamicFunction {
	return &dynamicFunction{base: base{rule: dynamicFunctionRule}}
}

func (c *dynamicFunction) EnterExpression(n *ast.Node) {
	if !n.Is(ast.FunctionCall) {
		return
	}
	// the value keeps the spacing of the name terminals
	switch n.ValueOf("FunctionName.QName") {
	case "xdmp : eval", "xdmp : value":
		c.report(n.Line())
	}
}

var logCheckRule = check.Rule{
	Key:         KeyLogCheck,
	Name:        "Log Function Usage",
	Severity:    check.SevMinor,
	Description: "Favor xdmp:trace() over xdmp:log().",
}

var deprecatedFunctionRule = check.Rule{
	Key:         KeyDeprecatedFunction,
	Name:        "Deprecated Function Usage",
	Severity:    check.SevMajor,
	Description: "The function is deprecated and should be replaced.",
}

// defaultDeprecated is the list used when the configuration names none.
var defaultDeprecated = []string{"xdmp:eval-in", "xdmp:invoke-in", "xdmp:spawn-in"}

// target is a function to look out for. It matches a call by prefix or, when
// the prefix is bound in the file, by namespace.
type target struct {
	prefix    string
	namespace string
	local     string
}

// parseTarget reads "prefix:name", "Q{namespace}name" or "{namespace}name".
func parseTarget(s string) (target, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "Q{") {
		s = s[1:]
	}
	if rest, ok := strings.CutPrefix(s, "{"); ok {
		ns, local, ok := strings.Cut(rest, "}")
		if !ok || ns == "" || local == "" {
			return target{}, fmt.Errorf("bad function name %q", s)
		}
		return target{namespace: ns, local: local}, nil
	}
	prefix, local, ok := strings.Cut(s, ":")
	if !ok || prefix == "" || local == "" {
		return target{}, fmt.Errorf("function name %q needs a prefix or a namespace", s)
	}
	return target{prefix: prefix, local: local}, nil
}

func (t target) String() string {
	if t.prefix != "" {
		return t.prefix + ":" + t.local
	}
	return "Q{" + t.namespace + "}" + t.local
}

// prohibitedFunction reports calls to any of its targets.
type prohibitedFunction struct {
	base
	targets []target
	// describe selects the message; nil uses the rule description.
	describe func(target) string
}

func newLogCheck() *prohibitedFunction {
	return &prohibitedFunction{
		base:    base{rule: logCheckRule},
		targets: []target{{prefix: "xdmp", local: "log"}},
	}
}

func newDeprecatedFunction(params check.Params) (check.Check, error) {
	names, err := params.Strings("functions", defaultDeprecated)
	if err != nil {
		return nil, err
	}
	c := &prohibitedFunction{
		base: base{rule: deprecatedFunctionRule},
		describe: func(t target) string {
			return fmt.Sprintf("%s is deprecated.", t)
		},
	}
	for _, name := range names {
		t, err := parseTarget(name)
		if err != nil {
			return nil, err
		}
		c.targets = append(c.targets, t)
	}
	return c, nil
}

func (c *prohibitedFunction) EnterExpression(n *ast.Node) {
	if !n.Is(ast.FunctionCall) {
		return
	}
	name := n.TextValueOf("FunctionName.QName")
	if name == "" {
		return
	}
	prefix, local, ok := strings.Cut(name, ":")
	if !ok {
		prefix, local = "", name
	}
	var ns string
	if prefix != "" {
		ns, _ = c.ctx.Symbols.ResolveNamespace(name)
	}
	for _, t := range c.targets {
		if t.local != local {
			continue
		}
		if (t.prefix != "" && t.prefix == prefix) || (t.namespace != "" && t.namespace == ns) {
			if c.describe != nil {
				c.reportf(n.Line(), "%s", c.describe(t))
			} else {
				c.report(n.Line())
			}
			return
		}
	}
}

var unresolvedFunctionRule = check.Rule{
	Key:         KeyUnresolvedFunction,
	Name:        "Unresolved Function",
	Severity:    check.SevCritical,
	Description: "The called function is not declared in the module its prefix is bound to.",
}

// unresolvedFunction reports calls into local functions and analyzed library
// modules that declare no function of that name. Calls into modules outside
// the analyzed files are left alone.
type unresolvedFunction struct {
	base
	// local names of the functions the file declares, for forward references
	declared map[string]bool
}

func newUnresolvedFunction() *unresolvedFunction {
	return &unresolvedFunction{base: base{rule: unresolvedFunctionRule}}
}

func (c *unresolvedFunction) EnterSource(ctx *visitor.Context) {
	c.base.EnterSource(ctx)
	c.declared = make(map[string]bool)
	for _, fn := range ctx.Tree.FindAll(ast.FunctionDecl) {
		c.declared[fn.TextValueOf("FunctionName.QName")] = true
	}
}

func (c *unresolvedFunction) EnterExpression(n *ast.Node) {
	if !n.Is(ast.FunctionCall) {
		return
	}
	name := n.TextValueOf("FunctionName.QName")
	prefix, _, ok := strings.Cut(name, ":")
	if !ok {
		return
	}
	if prefix == "local" {
		if !c.declared[name] {
			c.reportf(n.Line(), "%s is not declared in this file.", name)
		}
		return
	}
	ns, ok := c.ctx.Symbols.ResolveNamespace(name)
	if !ok || !c.ctx.Symbols.KnownNamespace(ns) {
		return
	}
	if c.ctx.Symbols.LookupFunction(name) == nil && !c.declared[name] {
		c.reportf(n.Line(), "%s is not declared in %s.", name, ns)
	}
}
