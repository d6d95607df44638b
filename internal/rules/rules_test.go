package rules_test

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"xqlint/internal/ast"
	"xqlint/internal/check"
	"xqlint/internal/diag"
	"xqlint/internal/lexer"
	"xqlint/internal/parser"
	"xqlint/internal/rules"
	"xqlint/internal/source"
	"xqlint/internal/symbols"
	"xqlint/internal/visitor"
)

const testNS = "http://lds.org/code/test"

type parsed struct {
	root     *ast.Node
	problems []diag.Problem
}

func parse(t *testing.T, lines ...string) parsed {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.xqy", []byte(strings.Join(lines, "\n")))
	bag := diag.NewBag(0)
	res, err := parser.Parse(fs.Get(id), parser.Options{Reporter: diag.BagReporter{Bag: bag}, Features: lexer.MarkLogic})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return parsed{root: res.Root, problems: bag.Items()}
}

// importModule maps a library module the way the mapping pass does for every
// other file of a run.
func importModule(t *testing.T, lines ...string) *symbols.Library {
	t.Helper()
	lib := symbols.NewLibrary()
	visitor.MapDependencies(&visitor.Context{Tree: parse(t, lines...).root}, symbols.NewGlobalMapper(lib))
	return lib
}

// run maps the file itself into lib, then processes it with the rule.
func run(t *testing.T, key string, params check.Params, lib *symbols.Library, lines ...string) []uint32 {
	t.Helper()
	c, err := rules.Default().New(key, params)
	if err != nil {
		t.Fatalf("new %s: %v", key, err)
	}
	if lib == nil {
		lib = symbols.NewLibrary()
	}
	src := parse(t, lines...)
	visitor.MapDependencies(&visitor.Context{Tree: src.root}, symbols.NewGlobalMapper(lib))
	ctx := &visitor.Context{Tree: src.root}
	visitor.Process(ctx, symbols.NewLocalMapper(lib), src.problems, c)
	for _, it := range ctx.Issues.Items() {
		if it.RuleKey != key {
			t.Errorf("issue under rule %s", it.RuleKey)
		}
	}
	return ctx.Issues.Lines(key)
}

type ruleTest struct {
	name string
	src  []string
	// want lists the issue lines; none means the code is valid
	want []uint32
	lib  []string
}

func runAll(t *testing.T, key string, tests []ruleTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var lib *symbols.Library
			if tt.lib != nil {
				lib = importModule(t, tt.lib...)
			}
			if got := run(t, key, nil, lib, tt.src...); !slices.Equal(got, tt.want) {
				t.Errorf("issue lines = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestXQueryVersion(t *testing.T) {
	runAll(t, rules.KeyXQueryVersion, []ruleTest{
		{"old version", []string{`xquery version "0.9-ml";`, "fn:current-dateTime()"}, []uint32{1}, nil},
		{"multi transaction", []string{"fn:current-dateTime()", ";", "fn:current-dateTime()"}, []uint32{1, 3}, nil},
		{"no version", []string{"fn:current-dateTime()"}, []uint32{1}, nil},
		{"valid", []string{`xquery version "1.0-ml";`, "fn:current-dateTime()"}, nil, nil},
		{"library module", []string{"xquery version '1.0-ml';", "module namespace t = 'urn:t';", "declare variable $t:a as xs:string := 'a';"}, nil, nil},
	})
}

func TestFunctionMapping(t *testing.T) {
	runAll(t, rules.KeyFunctionMapping, []ruleTest{
		{"implicit", []string{"xquery version '1.0-ml';", "let $test := 'test'", "return $test"}, []uint32{1}, nil},
		{"multi transaction", []string{
			"xquery version '1.0-ml';",
			"let $test := 'test'",
			"return $test",
			";",
			"xquery version '1.0-ml';",
			"let $test := 'test'",
			"return $test",
		}, []uint32{1, 5}, nil},
		{"old version", []string{"xquery version '0.9-ml';", "let $test := 'test'", "return $test"}, nil, nil},
		{"declared", []string{
			"xquery version '1.0-ml';",
			"declare option xdmp:mapping 'false';",
			"let $test := 'test'",
			"return $test",
		}, nil, nil},
	})
}

// ifStatus wraps a condition into the usual test query.
func ifStatus(cond string) []string {
	return []string{
		"xquery version '1.0-ml';",
		"if (" + cond + ") then",
		"    $status",
		"else",
		"    ()",
	}
}

func TestEffectiveBoolean(t *testing.T) {
	tests := []ruleTest{
		{"flwor in predicate", ifStatus("let $check as xs:boolean := fn:true() return $check"), []uint32{2}, nil},
		{"global function", []string{
			"xquery version '1.0-ml';",
			"import module namespace test = '" + testNS + "' at '/test.xqy';",
			"if (test:status()) then",
			"    $test:status",
			"else",
			"    ()",
		}, nil, []string{
			"xquery version '1.0-ml';",
			"",
			"module namespace test = '" + testNS + "';",
			"",
			"declare function test:status()",
			"as xs:boolean",
			"{",
			"    fn:true()",
			"};",
		}},
		{"local function", []string{
			"xquery version '1.0-ml';",
			"declare function local:checkStatus()",
			"as xs:boolean?",
			"{",
			"    fn:true()",
			"};",
			"if (local:checkStatus()) then",
			"    'hi'",
			"else",
			"    'bye'",
		}, nil, nil},
		{"function body", []string{
			"xquery version '1.0-ml';",
			"module namespace layout = 'http://lds.org/code/test/layout';",
			"declare function layout:check($monitored as xs:boolean)",
			"as xs:string",
			"{",
			"    if ($monitored) then",
			"        'yes'",
			"    else",
			"       'no'",
			"};",
		}, nil, nil},
		{"function body flwor", []string{
			"xquery version '1.0-ml';",
			"module namespace layout = 'http://lds.org/code/test/layout';",
			"declare function layout:check($servers as xs:string*)",
			"as xs:string",
			"{",
			"    for $server in $servers",
			"    let $monitored as xs:boolean := $server/monitored",
			"    return",
			"        if ($monitored) then",
			"            'yes'",
			"        else",
			"           'no'",
			"};",
		}, nil, nil},
		{"positive flwor", ifStatus("(let $test := 1 return 1) = 1"), nil, nil},
		{"variable", []string{
			"xquery version '1.0-ml';",
			"let $status as xs:boolean := fn:true()",
			"return",
			"    if ($status) then",
			"        $status",
			"    else",
			"        ()",
		}, nil, nil},
		{"function parameter", []string{
			"xquery version '1.0-ml';",
			"declare function local:checkStatus($status as xs:boolean)",
			"as xs:boolean?",
			"{",
			"    if ($status) then",
			"        $status",
			"    else",
			"        ()",
			"};",
			"local:checkStatus(fn:true())",
		}, nil, nil},
		{"function parameter redefined", []string{
			"xquery version '1.0-ml';",
			"declare function local:checkStatus($status as xs:boolean)",
			"as xs:string",
			"{",
			"    let $status as xs:string := 'published'",
			"    return",
			"        if ($status) then",
			"            $status",
			"        else",
			"            'no'",
			"};",
			"local:checkStatus(fn:true())",
		}, []uint32{7}, nil},
		{"global variable", []string{
			"xquery version '1.0-ml';",
			"import module namespace test = '" + testNS + "' at '/test.xqy';",
			"if ($test:status) then",
			"    $test:status",
			"else",
			"    ()",
		}, nil, []string{
			"xquery version '1.0-ml';",
			"module namespace test = '" + testNS + "';",
			"declare variable $status as xs:boolean := fn:true();",
		}},
		{"expression in html", []string{
			"xquery version '1.0-ml';",
			"<td style='background-color: { if (fn:exists($error)) then '#FF0000' else '#FFFF00' };'>{",
			"    if ($percentage lt 100) then",
			"        '&nbsp;'",
			"    else ()",
			"}</td>",
		}, nil, nil},
		{"invalid", []string{
			"xquery version '1.0-ml';",
			"if (",
			"        $status",
			") then",
			"    $status",
			"else",
			"    ()",
		}, []uint32{3}, nil},
		{"invalid one line", ifStatus("$status"), []uint32{2}, nil},
		{"nested function", []string{
			"xquery version '1.0-ml';",
			"if ($status) then",
			"    fn:exists($status)",
			"else",
			"    ()",
		}, []uint32{2}, nil},
		{"nested if", ifStatus("if (starts-with($status, 'bubba')) then 'yes' else 'no'"), []uint32{2}, nil},
		{"instance of", []string{
			"xquery version '1.0-ml';",
			"declare variable $count as xs:integer := 1;",
			"if ($check instance of xs:integer) then",
			"    $check + 1",
			"else",
			"    ()",
		}, nil, nil},
		{"castable as", []string{
			"xquery version '1.0-ml';",
			"declare variable $count as xs:integer := 1;",
			"if ($check castable as xs:integer) then",
			"    $check + 1",
			"else",
			"    ()",
		}, nil, nil},
	}
	for _, cond := range []string{
		"$status eq 'published'",
		"$status = ('published', 'preview')",
		"$status ge 1", "$status > 1", "$status >= 1", "$status gt 1",
		"$status le 1", "$status < 1", "$status <= 1", "$status lt 1",
		"$status ne ('published', 'preview')", "$status != ('published', 'preview')",
		"contains($status, 'bubba')", "fn:empty($status)", "empty($status)",
		"ends-with($status, 'bubba')", "fn:exists($status)", "exists($status)",
		"boolean($status)", "fn:matches($status, 'published')", "starts-with($status, 'bubba')",
	} {
		tests = append(tests, ruleTest{cond, ifStatus(cond), nil, nil})
	}
	runAll(t, rules.KeyEffectiveBoolean, tests)
}

func TestOperationsInPredicate(t *testing.T) {
	version := "xquery version '1.0-ml';"
	runAll(t, rules.KeyOperationsInPredicate, []ruleTest{
		{"addition", []string{version, "/article[1 to $index + $buffer]"}, []uint32{2}, nil},
		{"function in comparison", []string{version, "/article[@locale = fn:concat('e', 'n', 'g')]"}, []uint32{2}, nil},
		{"division", []string{version, "/article[1 to $index div $buffer]"}, []uint32{2}, nil},
		{"allowed calls in if", []string{version, "/article[if (fn:not(@locale = ('eng', 'spa'))) then fn:exists(@lang) else fn:exists(@country)]"}, nil, nil},
		{"wildcard namespace", []string{version, "/forest-status[(./*:forest-name eq $forest)]"}, nil, nil},
		{"star literal", []string{version, "/expressions/expression[pattern eq '*']"}, nil, nil},
		{"function call", []string{version, "/article[1 to xdmp:random()]"}, []uint32{2}, nil},
		{"function call multiline", []string{version, "/article", "    [", "        title eq getTitle()", "    ]"}, []uint32{4}, nil},
		{"last", []string{version, "fn:tokenize($name, '_')[1 to fn:last()]"}, nil, nil},
		{"type function", []string{version, "/article[xs:integer(sequence) gt 3]"}, nil, nil},
		{"last with operation", []string{version, "fn:tokenize($name, '_')[1 to fn:last() - 1]"}, []uint32{2}, nil},
		{"local function", []string{version, "/article[title eq getTitle()]"}, []uint32{2}, nil},
		{"mod", []string{version, "/article[1 to $index mod $buffer]"}, []uint32{2}, nil},
		{"multiplication", []string{version, "/article[1 to $index * $buffer]"}, []uint32{2}, nil},
		{"nested multiline", []string{version, "/article", "    [", "        1 + 1 [", "            2 - 2", "        ]", "    ]"}, []uint32{4, 5}, nil},
		{"data", []string{version, "/article[fn:data()]"}, nil, nil},
		{"not", []string{version, "/article[fn:not(@locale = ('eng', 'spa'))]"}, nil, nil},
		{"outside predicate", []string{version, "let $sequence := 1 to $index + $buffer", "return", "    $sequence"}, nil, nil},
	})
}

func TestXPathSubExpressionsInPredicate(t *testing.T) {
	version := `xquery version "1.0-ml";`
	runAll(t, rules.KeyXPathSubExpressionsInPredicate, []ruleTest{
		{"path in predicate", []string{version, "/ldswebml[search-meta/title]"}, []uint32{2}, nil},
		{"nested predicate", []string{version, "/ldswebml[search-meta[title]]"}, []uint32{2}, nil},
		{"nested predicates on later lines", []string{version, "/a[b[c]],", "/d[e[f]]"}, []uint32{2, 3}, nil},
		{"simple", []string{version, "/article[title]"}, nil, nil},
	})
}

func TestXPathDescendantSteps(t *testing.T) {
	version := "xquery version '1.0-ml';"
	runAll(t, rules.KeyXPathDescendantSteps, []ruleTest{
		{"descendant", []string{version, "/article//title"}, []uint32{2}, nil},
		{"multiline", []string{
			version,
			"xdmp:http-get(",
			"    fn:concat('http://', $current, ':8013/status/cluster-status.xqy?mode=performance')",
			")[2]//ss:server-status/ss:server-name",
		}, []uint32{4}, nil},
		{"multiple", []string{
			version,
			"$sample//status[",
			"    @active eq 'true'",
			"]//ss:server-status/ss:server-name",
		}, []uint32{2, 4}, nil},
		{"valid", []string{version, "/article/title"}, nil, nil},
	})
}

func TestXPathTextSteps(t *testing.T) {
	version := "xquery version '1.0-ml';"
	runAll(t, rules.KeyXPathTextSteps, []ruleTest{
		{"atomization", []string{version, "/article[title eq 'Title']"}, nil, nil},
		{"element named textarea", []string{version, "<textarea>Hi</textarea>"}, nil, nil},
		{"element named text", []string{version, "fn:string(/article/text)"}, nil, nil},
		{"in predicate", []string{version, "/article[title/text() eq 'Title']"}, []uint32{2}, nil},
		{"text step", []string{version, "/article/title/text()"}, []uint32{2}, nil},
		{"multiline", []string{
			version,
			"xdmp:http-get(",
			"    fn:concat('http://', $current, ':8013/status/cluster-status.xqy?mode=performance')",
			")[2]/ss:server-status/ss:server-name/text()",
		}, []uint32{4}, nil},
		{"text element and text step", []string{version, "/article", "    /text", "    /nodes", "    /text()"}, []uint32{5}, nil},
		{"no path", []string{version, "if (fn:empty($status)) then $status else ()"}, nil, nil},
		{"string function", []string{version, "fn:string(/article/title)"}, nil, nil},
	})
}

func TestStrongTypingInFLWOR(t *testing.T) {
	version := `xquery version "1.0-ml";`
	runAll(t, rules.KeyStrongTypingInFLWOR, []ruleTest{
		{"untyped for", []string{
			version,
			`for $article in /ldswebml[@type = "article"]`,
			"let $title as xs:string := $article/search-meta/title",
			"return",
			"    $title",
		}, []uint32{2}, nil},
		{"untyped let", []string{
			version,
			`for $article as element(ldswebml) in /ldswebml[@type = "article"]`,
			"let $title := $article/search-meta/title",
			"return",
			"    $title",
		}, []uint32{3}, nil},
		{"typed", []string{
			version,
			`for $article as element(ldswebml) in /ldswebml[@type = "article"]`,
			"let $title as xs:string := $article/search-meta/title",
			"return",
			"    $title",
		}, nil, nil},
	})
}

func TestStrongTypingInFunctionDeclaration(t *testing.T) {
	version := `xquery version "1.0-ml";`
	body := []string{"{", "    $a + $b", "};", "test:add(1, 1)"}
	src := func(head ...string) []string {
		return append(append([]string{version}, head...), body...)
	}
	runAll(t, rules.KeyStrongTypingInFunctionDecl, []ruleTest{
		{"both parameters", src("declare function test:add($a, $b)", "as xs:integer"), []uint32{2}, nil},
		{"first parameter", src("declare function test:add($a, $b as xs:integer)", "as xs:integer"), []uint32{2}, nil},
		{"parameter multiline", src("declare function test:add(", "    $a,", "    $b as xs:integer)", "as xs:integer"), []uint32{3}, nil},
		{"return type", src("declare function test:add($a as xs:integer, $b as xs:integer)"), []uint32{2}, nil},
		{"second parameter", src("declare function test:add($a as xs:integer, $b)", "as xs:integer"), []uint32{2}, nil},
		{"typed", src("declare function test:add($a as xs:integer, $b as xs:integer)", "as xs:integer"), nil, nil},
	})
}

func TestStrongTypingInModuleVariables(t *testing.T) {
	version := `xquery version "1.0-ml";`
	runAll(t, rules.KeyStrongTypingInModuleVariables, []ruleTest{
		{"untyped", []string{version, "declare variable $a := 2;", "$a"}, []uint32{2}, nil},
		{"typed", []string{version, "declare variable $a as xs:integer := 2;", "$a"}, nil, nil},
	})
}

func TestOrderByRange(t *testing.T) {
	version := `xquery version "1.0-ml";`
	runAll(t, rules.KeyOrderByRange, []ruleTest{
		{"order by", []string{version, "for $article in /article", "order by $article/title", "return $article"}, []uint32{3}, nil},
		{"valid", []string{version, "fn:current-dateTime()"}, nil, nil},
	})
}

func TestDynamicFunction(t *testing.T) {
	version := `xquery version "1.0-ml";`
	runAll(t, rules.KeyDynamicFunction, []ruleTest{
		{"eval", []string{version, "let $date := xdmp:eval('fn:current-dateTime()')", "return", "    $date"}, []uint32{2}, nil},
		{"value", []string{version, "xdmp:value('1')"}, []uint32{2}, nil},
		{"valid", []string{version, "fn:current-dateTime()"}, nil, nil},
	})
}

func TestLogCheck(t *testing.T) {
	version := `xquery version "1.0-ml";`
	runAll(t, rules.KeyLogCheck, []ruleTest{
		{"log", []string{version, "xdmp:log('We should not have this')"}, []uint32{2}, nil},
		{"trace", []string{version, "xdmp:trace('event', 'fine')"}, nil, nil},
		{"valid", []string{version, "fn:current-dateTime()"}, nil, nil},
	})
}

func TestParseError(t *testing.T) {
	runAll(t, rules.KeyParseError, []ruleTest{
		{"missing brace in catch", []string{
			"xquery version '1.0-ml';",
			"declare variable $year := try { xs:int('2000') } catch ($e)  };",
			"$year",
		}, []uint32{2}, nil},
		{"doctype in string", []string{
			"xquery version '1.0-ml';",
			`"<!DOCTYPE html PUBLIC '-//W3C//DTD XHTML 1.0 Transitional//EN' 'http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd'>",`,
			"'hi'",
		}, nil, nil},
		{"valid", []string{`xquery version "1.0-ml";`, "fn:current-dateTime()"}, nil, nil},
	})
}

func TestParseErrorAllowList(t *testing.T) {
	c, err := rules.Default().New(rules.KeyParseError, check.Params{"allow": []any{"unexpected"}})
	if err != nil {
		t.Fatal(err)
	}
	ctx := &visitor.Context{Tree: parse(t, "()").root}
	problems := []diag.Problem{
		{Line: 1, Message: "unexpected token ')'"},
		{Line: 2, Message: "missing expression"},
		{Line: 0, Message: "missing expression"},
		{Line: 3, Message: "unexpected end of input"},
	}
	visitor.Process(ctx, symbols.NewLocalMapper(symbols.NewLibrary()), problems, c)
	items := ctx.Issues.Items()
	if len(items) != 1 || items[0].Line != 2 {
		t.Fatalf("issues = %v", items)
	}
	if want := " - line 2:0 - missing expression"; items[0].Message != want {
		t.Errorf("message = %q, want %q", items[0].Message, want)
	}
}

var testLibrary = []string{
	"xquery version '1.0-ml';",
	"module namespace test = '" + testNS + "';",
	"declare function test:status() as xs:boolean { fn:true() };",
}

func TestUnresolvedFunction(t *testing.T) {
	imp := "import module namespace test = '" + testNS + "' at '/test.xqy';"
	runAll(t, rules.KeyUnresolvedFunction, []ruleTest{
		{"declared in import", []string{"xquery version '1.0-ml';", imp, "test:status()"}, nil, testLibrary},
		{"missing in import", []string{"xquery version '1.0-ml';", imp, "test:status(),", "test:state()"}, []uint32{4}, testLibrary},
		{"import not analyzed", []string{"xquery version '1.0-ml';", imp, "test:state()"}, nil, nil},
		{"builtin prefix", []string{"xquery version '1.0-ml';", "fn:current-dateTime()"}, nil, nil},
		{"local forward reference", []string{
			"xquery version '1.0-ml';",
			"declare function local:a() as xs:string { local:b() };",
			"declare function local:b() as xs:string { 'b' };",
			"local:a()",
		}, nil, nil},
		{"local missing", []string{"xquery version '1.0-ml';", "local:nothing()"}, []uint32{2}, nil},
		{"own module", []string{
			"xquery version '1.0-ml';",
			"module namespace test = '" + testNS + "';",
			"declare function test:a() as xs:string { test:b() };",
			"declare function test:b() as xs:string { test:c() };",
		}, []uint32{4}, nil},
	})
}

func TestDeprecatedFunction(t *testing.T) {
	version := "xquery version '1.0-ml';"
	runAll(t, rules.KeyDeprecatedFunction, []ruleTest{
		{"default list", []string{version, "xdmp:eval-in('1', 1),", "xdmp:eval('1')"}, []uint32{2}, nil},
		{"valid", []string{version, "xdmp:invoke('/a.xqy')"}, nil, nil},
	})

	params := check.Params{"functions": []any{"Q{" + testNS + "}status", "fn:doc"}}
	got := run(t, rules.KeyDeprecatedFunction, params, nil,
		version,
		"import module namespace t = '"+testNS+"' at '/test.xqy';",
		"t:status(),",
		"fn:doc('/a.xml'),",
		"xdmp:eval-in('1', 1)",
	)
	if !slices.Equal(got, []uint32{3, 4}) {
		t.Errorf("configured list: issue lines = %v", got)
	}

	if _, err := rules.Default().New(rules.KeyDeprecatedFunction, check.Params{"functions": "nope"}); err == nil {
		t.Error("unprefixed name accepted")
	}
}

func TestProhibitedRules(t *testing.T) {
	version := "xquery version '1.0-ml';"
	tests := []struct {
		name   string
		key    string
		params check.Params
		src    []string
		want   []uint32
	}{
		{"namespace", rules.KeyProhibitedNamespace, check.Params{"namespaces": []any{testNS}},
			[]string{version, "import module namespace test = '" + testNS + "' at '/test.xqy';", "()"}, []uint32{2}},
		{"namespace unconfigured", rules.KeyProhibitedNamespace, nil,
			[]string{version, "import module namespace test = '" + testNS + "' at '/test.xqy';", "()"}, nil},
		{"string value", rules.KeyProhibitedStringValue, check.Params{"patterns": []any{"/ldsorg/.*"}},
			[]string{version, "fn:doc('/ldsorg/a.xml'),", "fn:doc('/other/ldsorg/a.xml')"}, []uint32{2}},
		{"variable name", rules.KeyProhibitedVariableName, check.Params{"patterns": "tmp[0-9]*"},
			[]string{version, "declare variable $tmp1 := 1;", "let $tmp := 2", "let $temp := 3", "return ($tmp1, $tmp, $temp)"}, []uint32{2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run(t, tt.key, tt.params, nil, tt.src...); !slices.Equal(got, tt.want) {
				t.Errorf("issue lines = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := rules.Default().New(rules.KeyProhibitedStringValue, check.Params{"patterns": "("}); err == nil {
		t.Error("broken pattern accepted")
	}
}

func TestDefaultRegistry(t *testing.T) {
	r := rules.Default()
	checks, err := r.NewAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(checks) != len(r.Keys()) {
		t.Errorf("built %d of %d rules", len(checks), len(r.Keys()))
	}
	for _, c := range checks {
		rule := c.Rule()
		if rule.Name == "" || rule.Description == "" {
			t.Errorf("%s has no name or description", rule.Key)
		}
	}
	_, err = r.New("XPathDescendantSteps", nil)
	if !errors.Is(err, check.ErrUnknownRule) {
		t.Fatalf("err = %v", err)
	}
	var unknown *check.UnknownRuleError
	if errors.As(err, &unknown) && !slices.Contains(unknown.Suggestions, rules.KeyXPathDescendantSteps) {
		t.Errorf("suggestions = %v", unknown.Suggestions)
	}
}

// Every rule together over one file: issues from different rules on the same
// line are all kept.
func TestAllRulesTogether(t *testing.T) {
	checks, err := rules.Default().NewAll()
	if err != nil {
		t.Fatal(err)
	}
	src := parse(t,
		"declare variable $a := xdmp:eval('1');",
		"/article//title[1 + 1]",
	)
	lib := symbols.NewLibrary()
	visitor.MapDependencies(&visitor.Context{Tree: src.root}, symbols.NewGlobalMapper(lib))
	ctx := &visitor.Context{Tree: src.root}
	visitor.Process(ctx, symbols.NewLocalMapper(lib), src.problems, checks...)

	got := map[string][]uint32{}
	for _, it := range ctx.Issues.Items() {
		got[it.RuleKey] = append(got[it.RuleKey], it.Line)
	}
	want := map[string][]uint32{
		rules.KeyXQueryVersion:                 {1},
		rules.KeyStrongTypingInModuleVariables: {1},
		rules.KeyDynamicFunction:               {1},
		rules.KeyXPathDescendantSteps:          {2},
		rules.KeyOperationsInPredicate:         {2},
	}
	for key, lines := range want {
		if !slices.Equal(got[key], lines) {
			t.Errorf("%s: lines = %v, want %v", key, got[key], lines)
		}
	}
	if len(got) != len(want) {
		t.Errorf("rules with issues = %v", got)
	}
}
