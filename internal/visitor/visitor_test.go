package visitor_test

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"xqlint/internal/ast"
	"xqlint/internal/check"
	"xqlint/internal/diag"
	"xqlint/internal/lexer"
	"xqlint/internal/parser"
	"xqlint/internal/source"
	"xqlint/internal/symbols"
	"xqlint/internal/visitor"
)

func parse(t *testing.T, lines ...string) *ast.Node {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.xqy", []byte(strings.Join(lines, "\n")))
	res, err := parser.Parse(fs.Get(id), parser.Options{Reporter: diag.NopReporter{}, Features: lexer.MarkLogic})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return res.Root
}

// recorder logs the callbacks it receives for a few node types.
type recorder struct {
	name   string
	events *[]string
}

func (r recorder) EnterExpression(n *ast.Node) {
	if n.Is(ast.FLWORExpr) {
		*r.events = append(*r.events, r.name+" enter")
	}
}

func (r recorder) ExitExpression(n *ast.Node) {
	if n.Is(ast.FLWORExpr) {
		*r.events = append(*r.events, r.name+" exit")
	}
}

// enterOnly implements a single callback.
type enterOnly struct{ count *int }

func (e enterOnly) EnterExpression(*ast.Node) { *e.count++ }

func TestWalkOrder(t *testing.T) {
	root := parse(t, "for $a in (1, 2) return $a")
	var events []string
	count := 0
	visitor.Walk(root, recorder{"a", &events}, enterOnly{&count}, recorder{"b", &events})

	want := []string{"a enter", "b enter", "b exit", "a exit"}
	if !slices.Equal(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}
	nodes := 0
	ast.Inspect(root, func(*ast.Node) bool { nodes++; return true })
	if count != nodes {
		t.Errorf("entered %d nodes, tree has %d", count, nodes)
	}
}

func TestWalkNil(t *testing.T) {
	count := 0
	visitor.Walk(nil, enterOnly{&count})
	if count != 0 {
		t.Error("nil tree was visited")
	}
}

// probe is a check that records what the driver hands it.
type probe struct {
	ctx      *visitor.Context
	calls    []string
	boundAt  string
	problems int
}

func (p *probe) Rule() check.Rule {
	return check.Rule{Key: "Probe", Description: "probe"}
}

func (p *probe) EnterSource(ctx *visitor.Context) {
	p.ctx = ctx
	p.calls = append(p.calls, "enterSource")
}

func (p *probe) EnterExpression(n *ast.Node) {
	if n.Is(ast.ReturnClause) {
		if decl := p.ctx.Symbols.LookupVariable("x"); decl != nil {
			p.boundAt = fmt.Sprint(decl.Line)
		}
		p.ctx.Report(p, n.Line(), "")
	}
}

func (p *probe) ExitSource(*visitor.Context) {
	p.calls = append(p.calls, "exitSource")
}

func (p *probe) CheckReport(problems []diag.Problem) {
	p.calls = append(p.calls, "checkReport")
	p.problems = len(problems)
}

func TestProcess(t *testing.T) {
	root := parse(t,
		"let $x := 1",
		"return $x",
	)
	ctx := &visitor.Context{Tree: root}
	p := &probe{}
	problems := []diag.Problem{{Line: 1, Message: "x"}}
	visitor.Process(ctx, symbols.NewLocalMapper(symbols.NewLibrary()), problems, p)

	if want := []string{"enterSource", "exitSource", "checkReport"}; !slices.Equal(p.calls, want) {
		t.Errorf("calls = %v, want %v", p.calls, want)
	}
	if p.boundAt != "1" {
		t.Errorf("$x bound at %q, want the mapper to run first", p.boundAt)
	}
	if p.problems != 1 {
		t.Errorf("problems = %d", p.problems)
	}
	items := ctx.Issues.Items()
	if len(items) != 1 || items[0].Line != 2 || items[0].Message != "probe" {
		t.Errorf("issues = %v", items)
	}
}

func TestMapDependencies(t *testing.T) {
	root := parse(t,
		"xquery version '1.0-ml';",
		"module namespace t = 'urn:t';",
		"declare function t:f() as xs:string { 'f' };",
	)
	lib := symbols.NewLibrary()
	visitor.MapDependencies(&visitor.Context{Tree: root}, symbols.NewGlobalMapper(lib))
	if lib.Lookup(symbols.FunctionKey("f", "urn:t")) == nil {
		t.Error("t:f is not in the library")
	}
}
