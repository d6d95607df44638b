package directive_test

import (
	"slices"
	"testing"

	"xqlint/internal/check"
	"xqlint/internal/diag"
	"xqlint/internal/directive"
	"xqlint/internal/token"
)

func TestParseComment(t *testing.T) {
	tests := []struct {
		text    string
		ok      bool
		wantErr bool
		action  directive.Action
		rules   []string
	}{
		{"(: plain comment :)", false, false, 0, nil},
		{"(: xqlint:disable :)", true, false, directive.Disable, nil},
		{"(: xqlint:disable LogCheck, DynamicFunction :)", true, false, directive.Disable, []string{"LogCheck", "DynamicFunction"}},
		{"(:xqlint:enable LogCheck:)", true, false, directive.Enable, []string{"LogCheck"}},
		{"(: xqlint:disable-next-line XpathTextSteps :)", true, false, directive.DisableNextLine, []string{"XpathTextSteps"}},
		{"(: xqlint:silence LogCheck :)", true, true, 0, nil},
	}
	for _, tt := range tests {
		d, ok, err := directive.ParseComment(tt.text)
		if ok != tt.ok || (err != nil) != tt.wantErr {
			t.Errorf("%q: ok=%v err=%v", tt.text, ok, err)
			continue
		}
		if !ok || err != nil {
			continue
		}
		if d.Action != tt.action || !slices.Equal(d.Rules, tt.rules) {
			t.Errorf("%q: got %v %v", tt.text, d.Action, d.Rules)
		}
	}
}

func comment(text string, line uint32) token.Token {
	return token.Token{Kind: token.Comment, Text: text, Line: line, Col: 1, Channel: token.Hidden}
}

func TestSuppressed(t *testing.T) {
	set, problems := directive.Collect([]token.Token{
		comment("(: xqlint:disable LogCheck :)", 2),
		{Kind: token.NCName, Text: "xdmp", Line: 3},
		comment("(: xqlint:enable LogCheck :)", 5),
		comment("(: xqlint:disable-line\n   :)", 7),
		comment("(: xqlint:disable-next-line DynamicFunction :)", 10),
		comment("(: xqlint:bogus :)", 12),
		comment("(: xqlint:disable :)", 20),
	})
	if set.Len() != 5 {
		t.Fatalf("want 5 directives, got %v", set.Directives())
	}
	if len(problems) != 1 || problems[0].Code != diag.DirUnknown || problems[0].Line != 12 {
		t.Fatalf("problems = %v", problems)
	}

	tests := []struct {
		rule string
		line uint32
		want bool
	}{
		{"LogCheck", 1, false},
		{"LogCheck", 2, true},
		{"LogCheck", 4, true},
		{"LogCheck", 5, false},
		{"DynamicFunction", 4, false},
		{"DynamicFunction", 7, true},
		{"DynamicFunction", 8, true}, // the comment ends on line 8
		{"DynamicFunction", 9, false},
		{"DynamicFunction", 11, true},
		{"LogCheck", 11, false},
		{"DynamicFunction", 12, false},
		{"LogCheck", 25, true},
	}
	for _, tt := range tests {
		if got := set.Suppressed(tt.rule, tt.line); got != tt.want {
			t.Errorf("Suppressed(%s, %d) = %v, want %v", tt.rule, tt.line, got, tt.want)
		}
	}
}

func TestFilter(t *testing.T) {
	set, _ := directive.Collect([]token.Token{comment("(: xqlint:disable-next-line :)", 1)})
	issues := []check.Issue{
		{RuleKey: "LogCheck", Line: 2},
		{RuleKey: "DynamicFunction", Line: 2},
		{RuleKey: "LogCheck", Line: 3},
	}
	kept, dropped := set.Filter(issues)
	if dropped != 2 || len(kept) != 1 || kept[0].Line != 3 {
		t.Fatalf("kept %v, dropped %d", kept, dropped)
	}
	if len(issues) != 3 || issues[0].RuleKey != "LogCheck" {
		t.Errorf("input modified: %v", issues)
	}

	var none *directive.Set
	if kept, dropped := none.Filter(issues); dropped != 0 || len(kept) != 3 {
		t.Errorf("nil set filtered %d", dropped)
	}
}
