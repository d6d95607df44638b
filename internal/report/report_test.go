package report_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"xqlint/internal/check"
	"xqlint/internal/diag"
	"xqlint/internal/driver"
	"xqlint/internal/report"
	"xqlint/internal/rules"
	"xqlint/internal/source"
	"xqlint/internal/token"
)

func sampleResult() *driver.Result {
	fs := source.NewFileSet()
	id := fs.AddVirtual("q.xqy", []byte("declare variable $a := xdmp:eval('1');\n/article//title\n"))
	file := fs.Get(id)
	return &driver.Result{
		FileSet: fs,
		Files: []driver.FileResult{
			{
				Path: "q.xqy",
				Hash: file.Hash,
				File: file,
				Issues: []check.Issue{
					{RuleKey: rules.KeyXPathDescendantSteps, Line: 2, Message: "avoid //"},
					{RuleKey: rules.KeyDynamicFunction, Line: 1, Message: "no eval"},
				},
				Problems: []diag.Problem{{Code: diag.SynUnexpectedToken, Severity: diag.SevError, Line: 2, Column: 3, Message: "unexpected token"}},
			},
			{Path: "gone.xqy", Failed: errors.New("load: no such file")},
		},
	}
}

func TestShort(t *testing.T) {
	var buf bytes.Buffer
	if err := report.Short(&buf, sampleResult(), report.Options{}); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"q.xqy:1: [DynamicFunction] no eval",
		"q.xqy:2: [XpathDescendantSteps] avoid //",
		"gone.xqy: error: load: no such file",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("short output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPretty(t *testing.T) {
	var buf bytes.Buffer
	opts := report.Options{ShowPreview: true, Problems: true}
	if err := report.Pretty(&buf, sampleResult(), rules.Default(), opts); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"q.xqy:1: MAJOR [DynamicFunction] no eval",
		"     2 | /article//title",
		"q.xqy:2:3: ERROR SYN",
		"gone.xqy: error: load: no such file",
		"2 issues in 2 files, 1 syntax problem, 1 failed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("colour codes without Color:\n%q", out)
	}

	buf.Reset()
	opts.Quiet = true
	if err := report.Pretty(&buf, sampleResult(), nil, opts); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "issues in") || !strings.Contains(buf.String(), "ISSUE [DynamicFunction]") {
		t.Errorf("quiet output:\n%s", buf.String())
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := report.JSON(&buf, sampleResult(), rules.Default(), report.Options{PathMode: report.PathModeBasename}); err != nil {
		t.Fatal(err)
	}
	var out report.Output
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Summary != (report.Summary{Files: 2, Issues: 2, Problems: 1, Failed: 1}) {
		t.Fatalf("summary = %+v", out.Summary)
	}
	first := out.Files[0]
	if first.Hash == "" || first.Issues[0].Rule != rules.KeyDynamicFunction || first.Issues[0].Severity != "major" {
		t.Fatalf("first file = %+v", first)
	}
	if first.Problems != nil {
		t.Fatalf("problems without Options.Problems: %+v", first.Problems)
	}
	if out.Files[1].Hash != "" || out.Files[1].Error == "" {
		t.Fatalf("failed file = %+v", out.Files[1])
	}
}

func TestMsgpackStream(t *testing.T) {
	var buf bytes.Buffer
	if err := report.Write(&buf, report.FormatMsgpack, sampleResult(), nil, report.Options{}); err != nil {
		t.Fatal(err)
	}
	dec := msgpack.NewDecoder(&buf)
	var files []report.FileOut
	for range 2 {
		var fo report.FileOut
		if err := dec.Decode(&fo); err != nil {
			t.Fatal(err)
		}
		files = append(files, fo)
	}
	var sum report.Summary
	if err := dec.Decode(&sum); err != nil {
		t.Fatal(err)
	}
	if files[0].Path != "q.xqy" || len(files[0].Issues) != 2 || sum.Issues != 2 {
		t.Fatalf("files=%+v summary=%+v", files, sum)
	}
}

func TestSarif(t *testing.T) {
	var buf bytes.Buffer
	opts := report.Options{
		Problems: true,
		Sarif:    report.SarifRunMeta{ToolVersion: "1.2.3", InvocationArgs: []string{"analyze", "."}},
	}
	if err := report.Write(&buf, report.FormatSarif, sampleResult(), rules.Default(), opts); err != nil {
		t.Fatal(err)
	}

	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name    string `json:"name"`
					Version string `json:"version"`
					Rules   []struct {
						ID                   string `json:"id"`
						DefaultConfiguration struct {
							Level string `json:"level"`
						} `json:"defaultConfiguration"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Invocations []struct {
				ExecutionSuccessful bool `json:"executionSuccessful"`
			} `json:"invocations"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				RuleIndex int    `json:"ruleIndex"`
				Level     string `json:"level"`
				Locations []struct {
					PhysicalLocation struct {
						ArtifactLocation struct {
							URI string `json:"uri"`
						} `json:"artifactLocation"`
						Region struct {
							StartLine   uint32 `json:"startLine"`
							StartColumn uint32 `json:"startColumn"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatal(err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("log = %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "xqlint" || run.Tool.Driver.Version != "1.2.3" {
		t.Errorf("driver = %+v", run.Tool.Driver)
	}
	if len(run.Invocations) != 1 || run.Invocations[0].ExecutionSuccessful {
		t.Errorf("a failed file makes the run unsuccessful: %+v", run.Invocations)
	}

	var got []string
	for _, r := range run.Results {
		rule := run.Tool.Driver.Rules[r.RuleIndex]
		if rule.ID != r.RuleID {
			t.Errorf("result %s points at rule %s", r.RuleID, rule.ID)
		}
		loc := r.Locations[0].PhysicalLocation
		got = append(got, fmt.Sprintf("%s %s %s:%d:%d", r.RuleID, r.Level,
			loc.ArtifactLocation.URI, loc.Region.StartLine, loc.Region.StartColumn))
	}
	want := []string{
		"DynamicFunction warning q.xqy:1:0",
		"XpathDescendantSteps note q.xqy:2:0",
		"SYN2001 error q.xqy:2:3",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("results:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]report.Format{
		"":        report.FormatPretty,
		"SHORT":   report.FormatShort,
		"json":    report.FormatJSON,
		"msgpack": report.FormatMsgpack,
		"sarif":   report.FormatSarif,
	} {
		got, err := report.ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := report.ParseFormat("xml"); err == nil {
		t.Error("expected an error for xml")
	}
}

func TestTokens(t *testing.T) {
	toks := []token.Token{
		{Kind: token.NCName, Text: "let", Line: 1, Col: 1},
		{Kind: token.Whitespace, Text: " ", Line: 1, Col: 4, Channel: token.Hidden},
	}
	var buf bytes.Buffer
	if err := report.TokensPretty(&buf, toks, false); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 1 || !strings.Contains(buf.String(), `"let" at 1:1`) {
		t.Fatalf("pretty tokens:\n%s", buf.String())
	}

	buf.Reset()
	if err := report.TokensJSON(&buf, toks, true); err != nil {
		t.Fatal(err)
	}
	var out []report.TokenOut
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || !out[1].Hidden {
		t.Fatalf("json tokens = %+v", out)
	}
}
