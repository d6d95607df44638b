package symbols_test

import (
	"strings"
	"testing"

	"xqlint/internal/ast"
	"xqlint/internal/diag"
	"xqlint/internal/lexer"
	"xqlint/internal/parser"
	"xqlint/internal/source"
	"xqlint/internal/symbols"
)

const testNS = "http://lds.org/code/test"

func parse(t *testing.T, lines ...string) *ast.Node {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.xqy", []byte(strings.Join(lines, "\n")))
	bag := diag.NewBag(0)
	res, err := parser.Parse(fs.Get(id), parser.Options{Reporter: diag.BagReporter{Bag: bag}, Features: lexer.MarkLogic})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if bag.HasErrors() {
		t.Fatalf("unexpected problems: %v", bag.Items())
	}
	return res.Root
}

// walk maps a whole file. With open set the exit events are withheld, so the
// scopes around the last node are still on the stack afterwards.
func walk(root *ast.Node, m symbols.Mapper, open bool) {
	m.BeginFile()
	var visit func(n *ast.Node)
	visit = func(n *ast.Node) {
		m.EnterExpression(n)
		for _, c := range n.Children {
			visit(c)
		}
		if !open {
			m.ExitExpression(n)
		}
	}
	visit(root)
	if !open {
		m.EndFile()
	}
}

// importModule runs the mapping pass over one library module.
func importModule(t *testing.T, lines ...string) *symbols.Library {
	t.Helper()
	lib := symbols.NewLibrary()
	walk(parse(t, lines...), symbols.NewGlobalMapper(lib), false)
	return lib
}

func TestFLWORDeclaration(t *testing.T) {
	m := symbols.NewLocalMapper(symbols.NewLibrary())
	walk(parse(t,
		"xquery version '1.0-ml';",
		"for $article as element(article) in /article",
		"let $published as xs:boolean := $article/@published",
		"return",
		"    if ($published) then",
		"        $article",
		"    else",
		"        ()",
	), m, true)

	decl := m.LookupVariable("published")
	if decl == nil {
		t.Fatal("published is not mapped")
	}
	if decl.Line != 3 || decl.Type != "xs:boolean" {
		t.Errorf("published = %s", decl)
	}
	article := m.LookupVariable("article")
	if article == nil || article.Type != "element(article)" || article.Line != 2 {
		t.Errorf("article = %v", article)
	}
}

func TestGlobalVariableVisibleFromImport(t *testing.T) {
	lib := importModule(t,
		"xquery version '1.0-ml';",
		"",
		"module namespace test = 'http://lds.org/code/test';",
		"",
		"declare variable $status as xs:boolean := fn:true();",
	)
	m := symbols.NewLocalMapper(lib)
	walk(parse(t,
		"xquery version '1.0-ml';",
		"import module namespace test = 'http://lds.org/code/test' at '/test.xqy';",
		"if ($test:status) then",
		"    $test:status",
		"else",
		"    ()",
	), m, true)

	decl := m.Lookup(symbols.VariableKey("status", testNS))
	if decl == nil {
		t.Fatal("status is not mapped")
	}
	if d := decl.Decl(); d.Line != 5 || d.Type != "xs:boolean" {
		t.Errorf("status = %s", d)
	}
	if got := m.LookupVariable("test:status"); got != decl.Decl() {
		t.Errorf("LookupVariable(test:status) = %v", got)
	}
}

func TestLocalStackDepth(t *testing.T) {
	lib := importModule(t,
		"xquery version '1.0-ml';",
		"module namespace test = 'http://lds.org/code/test';",
		"declare variable $status as xs:boolean := fn:true();",
	)
	m := symbols.NewLocalMapper(lib)
	walk(parse(t,
		"xquery version '1.0-ml';",
		"if (fn:true()) then",
		"    let $status as xs:boolean := fn:true()",
		"    return",
		"        $status",
		"else",
		"    'false'",
	), m, true)

	// library, file, flwor
	if got := m.Stack().Depth(); got != 3 {
		t.Fatalf("depth = %d, want 3", got)
	}
	if k := m.Stack().Top().Kind; k != symbols.ScopeFLWOR {
		t.Errorf("top frame is %s", k)
	}
}

func TestFunctionBodyBindsParams(t *testing.T) {
	m := symbols.NewLocalMapper(symbols.NewLibrary())
	walk(parse(t,
		"xquery version '1.0-ml';",
		"declare function local:test($id as xs:unsignedLong)",
		"as xs:unsignedLong {",
		"    $id",
		"};",
		"local:test(11111)",
	), m, true)

	decl := m.LookupVariable("id")
	if decl == nil {
		t.Fatal("parameter id is not mapped")
	}
	if decl.Line != 2 || decl.Type != "xs:unsignedLong" {
		t.Errorf("id = %s", decl)
	}
}

func TestFunctionDeclarations(t *testing.T) {
	tests := []struct {
		name  string
		src   []string
		fn    string
		line  uint32
		typ   string
		param map[string]string
	}{
		{
			name: "prefixed name",
			src: []string{
				"xquery version '1.0-ml';",
				"module namespace test = 'http://lds.org/code/test';",
				"declare function test:test()",
				"as xs:string {",
				"    'test'",
				"};",
			},
			fn: "test:test", line: 3, typ: "xs:string",
		},
		{
			name: "parameters",
			src: []string{
				"xquery version '1.0-ml';",
				"module namespace test = 'http://lds.org/code/test';",
				"declare function test:add($a as xs:integer?, $b as xs:integer?)",
				"as xs:integer? {",
				"    $a + $b",
				"};",
			},
			fn: "add", line: 3, typ: "xs:integer",
			param: map[string]string{"a": "xs:integer", "b": "xs:integer"},
		},
		{
			name: "element return type",
			src: []string{
				"xquery version '1.0-ml';",
				"module namespace test = 'http://lds.org/code/test';",
				"declare function test:test()",
				"as element(test) {",
				"    <test/>",
				"};",
			},
			fn: "test", line: 3, typ: "element(test)",
		},
		{
			name: "return type of a nested inline function is not taken",
			src: []string{
				"xquery version '3.0';",
				"module namespace test = 'http://lds.org/code/test';",
				"declare function test:make() {",
				"    function($x) as xs:string { $x }",
				"};",
			},
			fn: "make", line: 3, typ: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := importModule(t, tt.src...)
			sym := lib.Lookup(symbols.FunctionKey(tt.fn, testNS))
			fn, ok := sym.(*symbols.Function)
			if !ok {
				t.Fatalf("%s is not mapped, got %v", tt.fn, sym)
			}
			if fn.Line != tt.line || fn.Type != tt.typ {
				t.Errorf("%s", fn)
			}
			if len(tt.param) == 0 {
				return
			}
			if got := fn.ParamNames(); len(got) != len(tt.param) {
				t.Fatalf("params = %v", got)
			}
			for name, typ := range tt.param {
				if p := fn.Param(name); p == nil || p.Type != typ {
					t.Errorf("param %s = %v, want type %s", name, p, typ)
				}
			}
		})
	}
}

func TestGlobalFunctionVisibleFromImport(t *testing.T) {
	lib := importModule(t,
		"xquery version '1.0-ml';",
		"",
		"module namespace test = 'http://lds.org/code/test';",
		"",
		"declare function test:status()",
		"as xs:boolean",
		"{",
		"    fn:true()",
		"};",
	)
	m := symbols.NewLocalMapper(lib)
	walk(parse(t,
		"xquery version '1.0-ml';",
		"import module namespace test = 'http://lds.org/code/test' at '/test.xqy';",
		"if (test:status()) then",
		"    $test:status",
		"else",
		"    ()",
	), m, true)

	fn := m.LookupFunction("test:status")
	if fn == nil {
		t.Fatal("test:status() is not mapped")
	}
	if fn.Line != 5 || fn.Type != "xs:boolean" {
		t.Errorf("status = %s", fn)
	}
	// the function does not declare a variable of the same name
	if v := m.LookupVariable("test:status"); v != nil {
		t.Errorf("variable test:status = %s", v)
	}
}

func TestGlobalMapperSkipsMainModules(t *testing.T) {
	tests := [][]string{
		{
			"xquery version '1.0-ml';",
			"declare function local:test()",
			"as xs:string {",
			"    'test'",
			"};",
			"()",
		},
		{
			"xquery version '1.0-ml';",
			"declare variable $test as xs:string := 'bubba';",
			"()",
		},
	}
	for _, src := range tests {
		if lib := importModule(t, src...); lib.Len() != 0 {
			t.Errorf("%q: library has %d declarations", src[1], lib.Len())
		}
	}
}

func TestGlobalVariableDeclaration(t *testing.T) {
	lib := importModule(t,
		"xquery version '1.0-ml';",
		"module namespace test = 'http://lds.org/code/test';",
		"declare variable $test as xs:string := 'test';",
	)
	sym := lib.Lookup(symbols.VariableKey("test", testNS))
	if sym == nil {
		t.Fatal("test is not mapped")
	}
	if d := sym.Decl(); d.Line != 3 || d.Type != "xs:string" {
		t.Errorf("test = %s", d)
	}
}

func TestImports(t *testing.T) {
	m := symbols.NewLocalMapper(symbols.NewLibrary())
	walk(parse(t,
		"xquery version '1.0-ml';",
		"import module namespace test = 'http://lds.org/code/test' at '/test.xqy';",
		"import module namespace rest = 'http://lds.org/code/rest' at '/rest.xqy', '/rest2.xqy';",
		"rest:test()",
	), m, true)

	imports := m.Imports()
	if len(imports) != 2 {
		t.Fatalf("imports = %d, want 2", len(imports))
	}
	if imports[0].Prefix != "rest" || imports[1].Prefix != "test" {
		t.Errorf("imports not sorted: %s, %s", imports[0].Prefix, imports[1].Prefix)
	}
	rest := m.Import("rest")
	if rest.Line != 3 || rest.Namespace != "http://lds.org/code/rest" {
		t.Errorf("rest = %+v", rest)
	}
	if rest.Hint() != "/rest.xqy" || len(rest.Hints) != 2 {
		t.Errorf("hints = %v", rest.Hints)
	}
}

func TestLocalDeclarations(t *testing.T) {
	m := symbols.NewLocalMapper(symbols.NewLibrary())
	walk(parse(t,
		"xquery version '1.0-ml';",
		"declare variable $test as xs:string := 'bubba';",
		"declare function local:test()",
		"as xs:string {",
		"    'test'",
		"};",
		"()",
	), m, true)

	if v := m.LookupVariable("test"); v == nil || v.Line != 2 || v.Type != "xs:string" {
		t.Errorf("variable test = %v", v)
	}
	if fn := m.LookupFunction("local:test"); fn == nil || fn.Line != 3 || fn.Type != "xs:string" {
		t.Errorf("function local:test = %v", fn)
	}
}

func TestLocalVariableInLibraryModule(t *testing.T) {
	m := symbols.NewLocalMapper(symbols.NewLibrary())
	walk(parse(t,
		"xquery version '1.0-ml';",
		"module namespace test = 'http://lds.org/code/test';",
		"declare variable $test:test as xs:string := 'bubba';",
	), m, true)

	ns, ok := m.ResolveNamespace("test:test")
	if !ok || ns != testNS {
		t.Fatalf("ResolveNamespace(test:test) = %q, %v", ns, ok)
	}
	if v := m.LookupVariable("test:test"); v == nil || v.Line != 3 || v.Type != "xs:string" {
		t.Errorf("test:test = %v", v)
	}
	if prefix, got, ok := m.ModuleNamespace(); !ok || prefix != "test" || got != testNS {
		t.Errorf("ModuleNamespace = %q %q %v", prefix, got, ok)
	}
}

func TestResolveNamespace(t *testing.T) {
	m := symbols.NewLocalMapper(symbols.NewLibrary())
	walk(parse(t,
		"xquery version '1.0-ml';",
		"import module namespace test = 'http://lds.org/code/test' at '/test.xqy';",
		"import module namespace a = 'urn:x' at '/rest.xqy';",
		"a:test()",
	), m, true)

	tests := []struct {
		qname string
		want  string
		ok    bool
	}{
		{"test", testNS, true},
		{"a", "urn:x", true},
		{"a:f", "urn:x", true},
		{"b", "", false},
		{"fn:true", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := m.ResolveNamespace(tt.qname)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ResolveNamespace(%q) = %q, %v; want %q, %v", tt.qname, got, ok, tt.want, tt.ok)
		}
	}
}

func TestImportsResetPerFile(t *testing.T) {
	m := symbols.NewLocalMapper(symbols.NewLibrary())
	walk(parse(t,
		"xquery version '1.0-ml';",
		"import module namespace a = 'urn:x' at '/a.xqy';",
		"a:f()",
	), m, false)
	walk(parse(t, "xquery version '1.0-ml';", "()"), m, true)

	if _, ok := m.ResolveNamespace("a"); ok {
		t.Error("import of the previous file is still visible")
	}
}

// lookupAt records what the mapper resolves for name whenever the walk enters
// a node of type at.
func lookupAt(t *testing.T, root *ast.Node, m *symbols.LocalMapper, at ast.Type, name string) []*symbols.Declaration {
	t.Helper()
	var seen []*symbols.Declaration
	m.BeginFile()
	var visit func(n *ast.Node)
	visit = func(n *ast.Node) {
		m.EnterExpression(n)
		if n.Type == at {
			seen = append(seen, m.LookupVariable(name))
		}
		for _, c := range n.Children {
			visit(c)
		}
		m.ExitExpression(n)
	}
	visit(root)
	m.EndFile()
	return seen
}

func TestScopeShadowing(t *testing.T) {
	root := parse(t,
		"xquery version '1.0-ml';",
		"(",
		"  let $x as xs:string := 'a'",
		"  return fn:string-length($x),",
		"  let $x as xs:integer := 1",
		"  return $x + 1,",
		"  fn:count($x)",
		")",
	)
	m := symbols.NewLocalMapper(symbols.NewLibrary())
	seen := lookupAt(t, root, m, ast.ReturnClause, "x")
	if len(seen) != 2 {
		t.Fatalf("saw %d return clauses", len(seen))
	}
	if seen[0] == nil || seen[0].Type != "xs:string" {
		t.Errorf("first block resolves %v", seen[0])
	}
	if seen[1] == nil || seen[1].Type != "xs:integer" {
		t.Errorf("second block resolves %v", seen[1])
	}

	// after both blocks the name is gone
	calls := lookupAt(t, root, m, ast.FunctionCall, "x")
	if last := calls[len(calls)-1]; last != nil {
		t.Errorf("x still resolves after its blocks: %s", last)
	}
}

func TestNestedScopes(t *testing.T) {
	root := parse(t,
		"xquery version '1.0-ml';",
		"declare function local:f($x as xs:string) as xs:string {",
		"  let $x as xs:integer := 1",
		"  return",
		"    typeswitch ($x)",
		"      case $x as element(a) return $x",
		"      default return $x",
		"};",
		"some $x as xs:date in () satisfies fn:true()",
	)
	m := symbols.NewLocalMapper(symbols.NewLibrary())

	tests := []struct {
		at   ast.Type
		want []string
	}{
		{ast.FunctionBody, []string{"xs:string"}},
		{ast.ReturnClause, []string{"xs:integer"}},
		{ast.CaseReturn, []string{"element(a)"}},
		{ast.TypeswitchDefault, []string{"xs:integer"}}, // the case frame is gone
		{ast.QuantifiedSatisfies, []string{"xs:date"}},
	}
	for _, tt := range tests {
		seen := lookupAt(t, root, m, tt.at, "x")
		if len(seen) != len(tt.want) {
			t.Fatalf("%s: saw %d", tt.at, len(seen))
		}
		for i, want := range tt.want {
			if seen[i] == nil || seen[i].Type != want {
				t.Errorf("%s: x = %v, want type %q", tt.at, seen[i], want)
			}
		}
	}
}

func TestCatchAndInlineFunctionScopes(t *testing.T) {
	root := parse(t,
		"xquery version '1.0-ml';",
		"try { fn:error() } catch ($e) { $e },",
		"function($e as xs:int) { $e },",
		"$e",
	)
	m := symbols.NewLocalMapper(symbols.NewLibrary())

	if seen := lookupAt(t, root, m, ast.CatchExpr, "e"); len(seen) != 1 || seen[0] == nil {
		t.Errorf("catch variable not bound: %v", seen)
	}
	if seen := lookupAt(t, root, m, ast.FunctionBody, "e"); len(seen) != 1 || seen[0] == nil || seen[0].Type != "xs:int" {
		t.Errorf("inline function parameter not bound: %v", seen)
	}
	seen := lookupAt(t, root, m, ast.PathExpr, "e")
	if last := seen[len(seen)-1]; last != nil {
		t.Errorf("$e outside its scopes resolves to %s", last)
	}
}

func TestTransactionIsolation(t *testing.T) {
	root := parse(t,
		"xquery version '1.0-ml';",
		"declare variable $first := 1;",
		"$first;",
		"xquery version '1.0-ml';",
		"$first",
	)
	if n := root.Len(); n != 2 {
		t.Fatalf("transactions = %d", n)
	}
	m := symbols.NewLocalMapper(symbols.NewLibrary())
	seen := lookupAt(t, root, m, ast.QueryBody, "first")
	if len(seen) != 2 {
		t.Fatalf("saw %d query bodies", len(seen))
	}
	if seen[0] == nil {
		t.Error("first transaction cannot see its own variable")
	}
	if seen[1] != nil {
		t.Errorf("second transaction sees %s", seen[1])
	}
	if d := m.Stack().Depth(); d != m.Stack().Reserved() {
		t.Errorf("depth after file = %d", d)
	}
}

func TestStackKeepsReservedFrames(t *testing.T) {
	lib := symbols.NewLibrary()
	lib.Define(symbols.NewVariable("v", "urn:x", "", 1))
	m := symbols.NewLocalMapper(lib)

	m.BeginFile()
	for i := 0; i < 5; i++ {
		m.ExitExpression(&ast.Node{Type: ast.FLWORExpr})
	}
	if d := m.Stack().Depth(); d != 1 {
		t.Fatalf("depth = %d, want the reserved frame only", d)
	}
	if m.Lookup(symbols.VariableKey("v", "urn:x")) == nil {
		t.Error("library frame lost")
	}
	m.EndFile()
	m.EndFile()
	if d := m.Stack().Depth(); d != 1 {
		t.Errorf("depth after EndFile = %d", d)
	}
}

func TestGlobalBeforeLocal(t *testing.T) {
	library := []string{
		"xquery version '1.0-ml';",
		"module namespace n = 'urn:n';",
		"declare function n:f() { 1 };",
	}
	caller := []string{
		"xquery version '1.0-ml';",
		"import module namespace n = 'urn:n' at '/n.xqy';",
		"n:f()",
	}

	lib := symbols.NewLibrary()
	early := symbols.NewLocalMapper(lib)
	walk(parse(t, caller...), early, true)
	if fn := early.LookupFunction("n:f"); fn != nil {
		t.Fatalf("n:f resolved before the mapping pass: %s", fn)
	}

	walk(parse(t, library...), symbols.NewGlobalMapper(lib), false)
	late := symbols.NewLocalMapper(lib)
	walk(parse(t, caller...), late, true)
	if fn := late.LookupFunction("n:f"); fn == nil {
		t.Fatal("n:f unresolved after the mapping pass")
	}
}

func TestDeclarationString(t *testing.T) {
	d := symbols.NewVariable("p:name", "urn:x", "xs:string", 4)
	if got, want := d.String(), "variable {urn:x}name as xs:string (4)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if d.Name != "name" {
		t.Errorf("prefix kept: %q", d.Name)
	}
}

func TestKnownNamespace(t *testing.T) {
	lib := importModule(t,
		"xquery version '1.0-ml';",
		"module namespace test = '"+testNS+"';",
		"declare variable $test:a as xs:string := 'a';",
	)
	m := symbols.NewLocalMapper(lib)
	if !m.KnownNamespace(testNS) {
		t.Errorf("%s is not known", testNS)
	}
	if m.KnownNamespace("urn:elsewhere") {
		t.Error("unmapped namespace is known")
	}
	if lib := importModule(t, "xquery version '1.0-ml';", "()"); lib.HasNamespace("") {
		t.Error("main module recorded a namespace")
	}
}

func TestGlobalMapperDropsUnfinishedFile(t *testing.T) {
	lib := symbols.NewLibrary()
	m := symbols.NewGlobalMapper(lib)

	// the walk stops before EndFile, as it does when a file panics
	walk(parse(t,
		"module namespace a = 'urn:a';",
		"declare function a:f() { 1 };",
	), m, true)
	if m.LookupFunction("a:f") == nil {
		t.Fatal("a:f not visible while its file is mapped")
	}
	if lib.Len() != 0 {
		t.Fatalf("library has %d declarations before EndFile", lib.Len())
	}

	walk(parse(t,
		"module namespace b = 'urn:b';",
		"declare variable $b:v := 1;",
	), m, false)
	if lib.Len() != 1 {
		t.Fatalf("library has %d declarations, want 1", lib.Len())
	}
	if lib.Lookup(symbols.FunctionKey("a:f", "urn:a")) != nil || lib.HasNamespace("urn:a") {
		t.Error("unfinished file leaked into the library")
	}
	if lib.Lookup(symbols.VariableKey("b:v", "urn:b")) == nil || !lib.HasNamespace("urn:b") {
		t.Error("finished file missing from the library")
	}
}
