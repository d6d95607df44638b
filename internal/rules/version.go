package rules

import (
	"xqlint/internal/ast"
	"xqlint/internal/check"
)

var xqueryVersionRule = check.Rule{
	Key:      KeyXQueryVersion,
	Name:     "XQuery Version",
	Severity: check.SevMinor,
	Description: "Declare the current XQuery version (1.0-ml or 3.0) at the top of each module " +
		"instead of the old 0.9-ml version or none at all, so code keeps behaving the same after server upgrades.",
}

// isModule reports whether n starts a transaction. The version checks work per
// transaction since a file may hold several main modules separated by ';'.
func isModule(n *ast.Node) bool {
	return n.Is(ast.MainModule) || n.Is(ast.LibraryModule)
}

// moduleLine is where a module level issue goes: the first line of the module,
// never before line 1.
func moduleLine(n *ast.Node) uint32 {
	return max(n.Line(), 1)
}

type xqueryVersion struct {
	base
	hasVersion bool
	line       uint32
}

func newXQueryVersion() *xqueryVersion {
	return &xqueryVersion{base: base{rule: xqueryVersionRule}}
}

func (c *xqueryVersion) EnterExpression(n *ast.Node) {
	switch {
	case isModule(n):
		c.hasVersion = false
		c.line = moduleLine(n)
	case n.Is(ast.VersionValue):
		c.hasVersion = true
		if n.ValueOf("StringLiteral") == "0.9-ml" {
			c.report(n.Line())
		}
	}
}

func (c *xqueryVersion) ExitExpression(n *ast.Node) {
	if isModule(n) && !c.hasVersion {
		c.report(c.line)
	}
}

var functionMappingRule = check.Rule{
	Key:      KeyFunctionMapping,
	Name:     "Function Mapping Usage (MarkLogic)",
	Severity: check.SevMajor,
	Description: "Make sure function mapping is used on purpose. Disable it with " +
		"'declare option xdmp:mapping \"false\";' or, when it is wanted, declare it explicitly " +
		"with 'declare option xdmp:mapping \"true\";'. MarkLogic specific.",
}

// functionMapping flags 1.0-ml modules that leave function mapping implicit.
type functionMapping struct {
	base
	capable bool
	used    bool
	line    uint32
}

func newFunctionMapping() *functionMapping {
	return &functionMapping{base: base{rule: functionMappingRule}}
}

func (c *functionMapping) EnterExpression(n *ast.Node) {
	switch {
	case isModule(n):
		c.capable, c.used = false, false
		c.line = moduleLine(n)
	case n.Is(ast.VersionValue):
		if n.ValueOf("StringLiteral") == "1.0-ml" {
			c.capable = true
		}
	case n.Is(ast.OptionDecl):
		if n.TextValueOf("QName") == "xdmp:mapping" {
			c.used = true
		}
	}
}

func (c *functionMapping) ExitExpression(n *ast.Node) {
	if isModule(n) && c.capable && !c.used {
		c.report(c.line)
	}
}
