package check_test

import (
	"errors"
	"reflect"
	"slices"
	"testing"

	"xqlint/internal/ast"
	"xqlint/internal/check"
	"xqlint/internal/token"
)

func TestIssuesDedupByRuleAndLine(t *testing.T) {
	is := check.NewIssues()
	if !is.Add("A", 3, "first") {
		t.Fatal("first report was dropped")
	}
	if is.Add("A", 3, "second") {
		t.Error("same rule and line reported twice")
	}
	if !is.Add("B", 3, "other rule") {
		t.Error("other rule on the same line was dropped")
	}
	if !is.Add("A", 4, "next line") {
		t.Error("same rule on another line was dropped")
	}
	if is.Len() != 3 {
		t.Fatalf("len = %d, want 3", is.Len())
	}
	if got := is.Items()[0].Message; got != "first" {
		t.Errorf("kept message %q, want the first one", got)
	}
	if got := is.Lines("A"); !slices.Equal(got, []uint32{3, 4}) {
		t.Errorf("lines of A = %v", got)
	}
	if !is.Has("B", 3) || is.Has("B", 4) {
		t.Error("Has disagrees with Add")
	}
}

func TestNilIssues(t *testing.T) {
	var is *check.Issues
	if is.Len() != 0 || is.Items() != nil {
		t.Error("nil issues are not empty")
	}
}

func TestSeverity(t *testing.T) {
	tests := []struct {
		name string
		want check.Severity
	}{
		{"info", check.SevInfo},
		{"MINOR", check.SevMinor},
		{"Major", check.SevMajor},
		{"critical", check.SevCritical},
		{"blocker", check.SevBlocker},
	}
	for _, tt := range tests {
		got, err := check.ParseSeverity(tt.name)
		if err != nil || got != tt.want {
			t.Errorf("ParseSeverity(%q) = %v, %v", tt.name, got, err)
		}
	}
	if _, err := check.ParseSeverity("fatal"); err == nil {
		t.Error("fatal parsed")
	}
	var s check.Severity
	if err := s.UnmarshalText([]byte("critical")); err != nil || s != check.SevCritical {
		t.Errorf("UnmarshalText = %v, %v", s, err)
	}
	if check.SevMajor.String() != "major" {
		t.Errorf("String = %q", check.SevMajor.String())
	}
}

func TestParamsStrings(t *testing.T) {
	def := []string{"x"}
	tests := []struct {
		name    string
		params  check.Params
		want    []string
		wantErr bool
	}{
		{"missing", nil, def, false},
		{"single", check.Params{"k": "a"}, []string{"a"}, false},
		{"strings", check.Params{"k": []string{"a", "b"}}, []string{"a", "b"}, false},
		{"decoded", check.Params{"k": []any{"a", "b"}}, []string{"a", "b"}, false},
		{"bad element", check.Params{"k": []any{"a", 1}}, nil, true},
		{"bad type", check.Params{"k": 3}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.params.Strings("k", def)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v", err)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

type stub struct{ rule check.Rule }

func (s stub) Rule() check.Rule { return s.rule }

func newRegistry() *check.Registry {
	r := check.NewRegistry()
	for _, key := range []string{"XQueryVersion", "OrderByRange", "LogCheck"} {
		rule := check.Rule{Key: key, Name: key}
		r.Register(rule, func(check.Params) (check.Check, error) { return stub{rule}, nil })
	}
	r.Register(check.Rule{Key: "Broken"}, func(check.Params) (check.Check, error) {
		return nil, errors.New("bad settings")
	})
	return r
}

func TestRegistry(t *testing.T) {
	r := newRegistry()
	if got := r.Keys(); !slices.Equal(got, []string{"Broken", "LogCheck", "OrderByRange", "XQueryVersion"}) {
		t.Errorf("keys = %v", got)
	}
	c, err := r.New("LogCheck", nil)
	if err != nil || c.Rule().Key != "LogCheck" {
		t.Fatalf("New = %v, %v", c, err)
	}
	if _, err := r.New("Broken", nil); err == nil {
		t.Error("factory error was swallowed")
	}
	if _, ok := r.Rule("OrderByRange"); !ok {
		t.Error("OrderByRange is not registered")
	}
}

func TestRegistryUnknownRule(t *testing.T) {
	r := newRegistry()
	_, err := r.New("XQueryVersin", nil)
	if !errors.Is(err, check.ErrUnknownRule) {
		t.Fatalf("err = %v, want ErrUnknownRule", err)
	}
	var unknown *check.UnknownRuleError
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %T", err)
	}
	if len(unknown.Suggestions) == 0 || unknown.Suggestions[0] != "XQueryVersion" {
		t.Errorf("suggestions = %v", unknown.Suggestions)
	}
}

func TestRegisterTwicePanics(t *testing.T) {
	r := newRegistry()
	defer func() {
		if recover() == nil {
			t.Error("duplicate key accepted")
		}
	}()
	r.Register(check.Rule{Key: "LogCheck"}, nil)
}

// path builds a PathExpr of leaves, one per line.
func path(texts ...string) *ast.Node {
	b := ast.NewBuilder(8)
	root := b.New(ast.PathExpr, nil)
	for i, text := range texts {
		root.Append(b.Leaf(&token.Token{Kind: token.NCName, Text: text, Line: uint32(i + 1), Col: 1}))
	}
	return root
}

func TestPathBlame(t *testing.T) {
	tests := []struct {
		name string
		path *ast.Node
		text string
		want []check.Blame
	}{
		{"none", path("a", "/", "b"), "//", nil},
		{"blames next step", path("a", "//", "b", "//", "c"), "//", []check.Blame{
			{Index: 1, Line: 3},
			{Index: 3, Line: 5},
		}},
		{"last child", path("a", "/", "text"), "text", []check.Blame{{Index: 2, Missing: true}}},
		{"nil", nil, "//", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := check.PathBlame(tt.path, tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPredicateTracker(t *testing.T) {
	var pt check.PredicateTracker
	pt.Exit()
	if pt.Level() != 0 || pt.In() {
		t.Fatal("exit below zero")
	}
	pt.Enter()
	pt.Enter()
	if pt.Level() != 2 || !pt.In() {
		t.Fatalf("level = %d", pt.Level())
	}
	pt.Exit()
	if !pt.In() {
		t.Error("left too early")
	}
	pt.Reset()
	if pt.In() {
		t.Error("Reset kept the level")
	}
}
