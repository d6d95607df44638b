package dialect_test

import (
	"testing"

	"xqlint/internal/dialect"
	"xqlint/internal/lexer"
	"xqlint/internal/source"
)

func detect(src string) dialect.Classification {
	fs := source.NewFileSet()
	return dialect.Detect(fs.Get(fs.AddVirtual("test.xqy", []byte(src))))
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		want       dialect.Kind
		extensions lexer.Features
	}{
		{"empty", "", dialect.Unknown, 0},
		{"plain", "for $x in (1, 2) return $x", dialect.Unknown, 0},
		{"marklogic builtins", "xdmp:log(cts:search(fn:doc(), cts:word-query('a')))", dialect.MarkLogic, 0},
		{"arrow and concat", "'a' || 'b' => fn:upper-case()", dialect.XQuery30, 0},
		{"version wins", "xquery version '3.0';\nxdmp:log(1), xdmp:eval('1')", dialect.XQuery30, 0},
		{"version 1.0", `xquery version "1.0"; 1`, dialect.XQuery10, 0},
		{"strings are skipped", `let $s := "xdmp:log() cts:search()" return $s`, dialect.Unknown, 0},
		{"update", "copy $c := <a/> modify insert node <b/> into $c return $c", dialect.Unknown, lexer.Update},
		{"full text", "//p[. contains text 'x']", dialect.Unknown, lexer.FullText},
		{"group by", "for $x in (1, 2) group by $k := $x return $k", dialect.XQuery30, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detect(tt.src)
			if got.Kind != tt.want {
				t.Errorf("Kind = %v, want %v (score %d of %d)", got.Kind, tt.want, got.Score, got.TotalScore)
			}
			if got.Extensions != tt.extensions {
				t.Errorf("Extensions = %#x, want %#x", got.Extensions, tt.extensions)
			}
		})
	}
}

func TestClassifyConfidence(t *testing.T) {
	e := dialect.NewEvidence()
	e.Add(dialect.Hint{Dialect: dialect.MarkLogic, Score: 6})
	e.Add(dialect.Hint{Dialect: dialect.MarkLogic, Score: 2})
	e.Add(dialect.Hint{Dialect: dialect.XQuery30, Score: 2})
	e.Add(dialect.Hint{Dialect: dialect.XQuery30, Score: -1})

	got := dialect.Classifier{}.Classify(e)
	if got.Kind != dialect.MarkLogic || got.Score != 8 || got.TotalScore != 10 {
		t.Fatalf("got %+v", got)
	}
	if got.RunnerUp != dialect.XQuery30 || got.RunnerUpScore != 2 {
		t.Errorf("runner-up %v/%d", got.RunnerUp, got.RunnerUpScore)
	}
	if got.Confidence != 0.8 {
		t.Errorf("confidence %v, want 0.8", got.Confidence)
	}
	if got.ObservedSignals != 4 {
		t.Errorf("observed %d, want 4", got.ObservedSignals)
	}

	var nilEvidence *dialect.Evidence
	if k := (dialect.Classifier{}).Classify(nilEvidence).Kind; k != dialect.Unknown {
		t.Errorf("nil evidence gave %v", k)
	}
}

func TestClassificationFeatures(t *testing.T) {
	c := dialect.Classification{Kind: dialect.Unknown, Extensions: lexer.Update}
	if got := c.Features(lexer.MarkLogic); got != lexer.MarkLogic|lexer.Update {
		t.Errorf("unknown keeps the fallback: got %#x", got)
	}
	c.Kind = dialect.XQuery30
	if got := c.Features(lexer.MarkLogic); got != lexer.XQuery30|lexer.Update {
		t.Errorf("detected kind replaces the fallback: got %#x", got)
	}
}
