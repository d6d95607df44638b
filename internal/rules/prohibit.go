package rules

import (
	"fmt"
	"regexp"
	"slices"

	"xqlint/internal/ast"
	"xqlint/internal/check"
)

// The prohibition rules stay silent until the configuration gives them
// something to look for.

var prohibitedNamespaceRule = check.Rule{
	Key:         KeyProhibitedNamespace,
	Name:        "Prohibited Library Import",
	Severity:    check.SevMajor,
	Description: "The imported library is not allowed in this code base.",
}

var prohibitedStringValueRule = check.Rule{
	Key:         KeyProhibitedStringValue,
	Name:        "Prohibited String Value",
	Severity:    check.SevMinor,
	Description: "The string literal matches a prohibited pattern.",
}

var prohibitedVariableNameRule = check.Rule{
	Key:         KeyProhibitedVariableName,
	Name:        "Prohibited Variable Name",
	Severity:    check.SevMinor,
	Description: "The variable name matches a prohibited pattern.",
}

type prohibitedNamespace struct {
	base
	namespaces []string
}

func newProhibitedNamespace(params check.Params) (check.Check, error) {
	ns, err := params.Strings("namespaces", nil)
	if err != nil {
		return nil, err
	}
	return &prohibitedNamespace{base: base{rule: prohibitedNamespaceRule}, namespaces: ns}, nil
}

func (c *prohibitedNamespace) EnterExpression(n *ast.Node) {
	if n.Is(ast.ModuleNamespace) && slices.Contains(c.namespaces, n.ValueOf("StringLiteral")) {
		c.report(n.Line())
	}
}

// compilePatterns anchors each pattern, so it has to match the whole value.
func compilePatterns(params check.Params) ([]*regexp.Regexp, error) {
	patterns, err := params.Strings("patterns", nil)
	if err != nil {
		return nil, err
	}
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(`^(?:` + p + `)$`)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

func matchAny(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

type prohibitedStringValue struct {
	base
	patterns []*regexp.Regexp
}

func newProhibitedStringValue(params check.Params) (check.Check, error) {
	res, err := compilePatterns(params)
	if err != nil {
		return nil, err
	}
	return &prohibitedStringValue{base: base{rule: prohibitedStringValueRule}, patterns: res}, nil
}

func (c *prohibitedStringValue) EnterExpression(n *ast.Node) {
	if n.Is(ast.StringLiteral) && matchAny(c.patterns, n.Value()) {
		c.report(n.Line())
	}
}

type prohibitedVariableName struct {
	base
	patterns []*regexp.Regexp
}

func newProhibitedVariableName(params check.Params) (check.Check, error) {
	res, err := compilePatterns(params)
	if err != nil {
		return nil, err
	}
	return &prohibitedVariableName{base: base{rule: prohibitedVariableNameRule}, patterns: res}, nil
}

func (c *prohibitedVariableName) EnterExpression(n *ast.Node) {
	switch n.Type {
	case ast.ParamName, ast.VarName, ast.ForName, ast.ForAt, ast.LetName:
		if name := n.TextValueOf("QName"); name != "" && matchAny(c.patterns, name) {
			c.report(n.Line())
		}
	}
}
