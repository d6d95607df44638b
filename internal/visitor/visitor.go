// Package visitor drives checks over a parsed file: a mapping pass that
// fills the shared library, then a processing pass that runs the checks
// alongside a local mapper.
package visitor

import (
	"fmt"

	"xqlint/internal/ast"
	"xqlint/internal/check"
	"xqlint/internal/diag"
	"xqlint/internal/source"
	"xqlint/internal/symbols"
	"xqlint/internal/trace"
)

// Context is what a check sees of the file being processed.
type Context struct {
	File    *source.File
	Tree    *ast.Node
	Symbols symbols.Table
	Issues  *check.Issues
	Tracer  trace.Tracer
	Parent  uint64 // span the pass spans of this file nest under
}

// Report adds an issue for c on line. An empty message uses the rule's
// description.
func (ctx *Context) Report(c check.Check, line uint32, message string) bool {
	rule := c.Rule()
	if message == "" {
		message = rule.Description
	}
	return ctx.Issues.Add(rule.Key, line, message)
}

// Tracef emits a node-level trace point.
func (ctx *Context) Tracef(name, format string, args ...any) {
	if ctx.Tracer == nil || !ctx.Tracer.Enabled() {
		return
	}
	trace.Point(ctx.Tracer, trace.ScopeNode, name, fmt.Sprintf(format, args...))
}

// The callbacks a visitor may implement. The driver calls only those a visitor
// has, so a check that looks at function calls needs only EnterExpression.
type (
	SourceEnterer interface {
		EnterSource(ctx *Context)
	}
	SourceExiter interface {
		ExitSource(ctx *Context)
	}
	ExpressionEnterer interface {
		EnterExpression(n *ast.Node)
	}
	ExpressionExiter interface {
		ExitExpression(n *ast.Node)
	}
	// ReportChecker sees the lexical and syntax problems of the file after the
	// walk.
	ReportChecker interface {
		CheckReport(problems []diag.Problem)
	}
)

type walker struct {
	enter []ExpressionEnterer
	exit  []ExpressionExiter
}

func newWalker(visitors []any) walker {
	var w walker
	for _, v := range visitors {
		if e, ok := v.(ExpressionEnterer); ok {
			w.enter = append(w.enter, e)
		}
	}
	// exits run in reverse so the first visitor wraps the others
	for i := len(visitors) - 1; i >= 0; i-- {
		if e, ok := visitors[i].(ExpressionExiter); ok {
			w.exit = append(w.exit, e)
		}
	}
	return w
}

func (w walker) visit(n *ast.Node) {
	for _, v := range w.enter {
		v.EnterExpression(n)
	}
	for _, c := range n.Children {
		w.visit(c)
	}
	for _, v := range w.exit {
		v.ExitExpression(n)
	}
}

// Walk visits root depth first. Every node is entered on all visitors in
// order before its children, and exited on all visitors in reverse order
// after them.
func Walk(root *ast.Node, visitors ...any) {
	if root == nil {
		return
	}
	newWalker(visitors).visit(root)
}

// MapDependencies runs the mapping pass of one file.
func MapDependencies(ctx *Context, mapper symbols.Mapper) {
	span := trace.Begin(ctx.Tracer, trace.ScopeModule, "map", ctx.Parent)
	if ctx.File != nil {
		span.WithExtra("file", ctx.File.Path)
	}
	mapper.BeginFile()
	Walk(ctx.Tree, mapper)
	mapper.EndFile()
	span.End("")
}

// Process runs the checks over one file. The mapper is walked first, so
// scopes opened by a node are visible to the checks entering it and still
// open while they exit it.
func Process(ctx *Context, mapper symbols.Mapper, problems []diag.Problem, checks ...check.Check) {
	span := trace.Begin(ctx.Tracer, trace.ScopeModule, "process", ctx.Parent)
	if ctx.File != nil {
		span.WithExtra("file", ctx.File.Path)
	}
	if ctx.Issues == nil {
		ctx.Issues = check.NewIssues()
	}
	ctx.Symbols = mapper

	mapper.BeginFile()
	visitors := make([]any, 0, len(checks)+1)
	visitors = append(visitors, mapper)
	for _, c := range checks {
		if v, ok := c.(SourceEnterer); ok {
			v.EnterSource(ctx)
		}
		visitors = append(visitors, c)
	}
	Walk(ctx.Tree, visitors...)
	for _, c := range checks {
		if v, ok := c.(SourceExiter); ok {
			v.ExitSource(ctx)
		}
		if v, ok := c.(ReportChecker); ok {
			v.CheckReport(problems)
		}
	}
	mapper.EndFile()
	span.End(fmt.Sprintf("%d issues", ctx.Issues.Len()))
}
