package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--color", "off", "--ui", "off"}, args...))
	err := root.Execute()
	return out.String(), err
}

func writeQuery(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAnalyzeCommand(t *testing.T) {
	dir := t.TempDir()
	writeQuery(t, dir, "q.xqy", "xquery version '1.0-ml';\nxdmp:log('x')\n")

	out, err := run(t, "analyze", "--format", "short", "--path-mode", "basename", dir)
	if !errors.Is(err, errIssuesFound) {
		t.Fatalf("err = %v, want issues found", err)
	}
	if !strings.Contains(out, "q.xqy:2: [LogCheck]") {
		t.Fatalf("output:\n%s", out)
	}

	out, err = run(t, "analyze", "--format", "short", "--disable", "LogCheck,FunctionMapping", dir)
	if err != nil {
		t.Fatalf("err = %v, output:\n%s", err, out)
	}
	if out != "" {
		t.Fatalf("expected no issues, got:\n%s", out)
	}
}

func TestAnalyzeCommandConfig(t *testing.T) {
	dir := t.TempDir()
	writeQuery(t, dir, "q.xqy", "xquery version '1.0-ml';\nxdmp:log('x')\n")
	writeQuery(t, dir, "xqlint.toml", "[rules]\nenable = [\"LogCheck\"]\n")

	out, err := run(t, "analyze", "--format", "json", "--exit-zero", dir)
	if err != nil {
		t.Fatal(err)
	}
	var payload struct {
		Summary struct{ Issues int } `json:"summary"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("%v:\n%s", err, out)
	}
	if payload.Summary.Issues != 1 {
		t.Fatalf("issues = %d", payload.Summary.Issues)
	}

	_, err = run(t, "analyze", "--rules", "LogChek", dir)
	if err == nil || !strings.Contains(err.Error(), "LogCheck") {
		t.Fatalf("err = %v, want a suggestion", err)
	}
}

func TestRulesCommand(t *testing.T) {
	out, err := run(t, "rules")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "XQueryVersion") || !strings.Contains(out, "OrderByRange") {
		t.Fatalf("rules output:\n%s", out)
	}

	out, err = run(t, "rules", "LogCheck")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "xdmp:trace()") {
		t.Fatalf("rule detail:\n%s", out)
	}
}

func TestParseAndTokenizeCommands(t *testing.T) {
	path := writeQuery(t, t.TempDir(), "q.xqy", "1 + 2\n")

	out, err := run(t, "parse", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "MainModule") {
		t.Fatalf("parse output:\n%s", out)
	}

	out, err = run(t, "tokenize", "--format", "json", path)
	if err != nil {
		t.Fatal(err)
	}
	var toks []map[string]any
	if err := json.Unmarshal([]byte(out), &toks); err != nil || len(toks) < 3 {
		t.Fatalf("tokens %v (%v):\n%s", toks, err, out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"tool": "xqlint"`) {
		t.Fatalf("version output:\n%s", out)
	}
}

func TestWrap(t *testing.T) {
	got := wrap("one two three four", 9)
	if got != "one two\nthree\nfour" {
		t.Fatalf("wrap = %q", got)
	}
}
