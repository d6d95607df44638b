package directive

import (
	"strings"

	"xqlint/internal/check"
	"xqlint/internal/diag"
	"xqlint/internal/token"
)

// Set holds the directives of one file in source order.
type Set struct {
	directives []Directive
}

// Collect reads the directives from the comment tokens of a file. Malformed
// directives are returned as problems and otherwise ignored.
func Collect(tokens []token.Token) (*Set, []diag.Problem) {
	s := &Set{}
	var problems []diag.Problem
	for i := range tokens {
		tok := &tokens[i]
		if tok.Kind != token.Comment {
			continue
		}
		d, ok, err := ParseComment(tok.Text)
		if !ok {
			continue
		}
		if err != nil {
			problems = append(problems, diag.Problem{
				Code:     diag.DirUnknown,
				Severity: diag.SevWarning,
				Message:  err.Error(),
				Line:     tok.Line,
				Column:   tok.Col,
				Span:     tok.Span,
			})
			continue
		}
		d.Line = tok.Line
		d.EndLine = tok.Line + uint32(strings.Count(tok.Text, "\n"))
		s.directives = append(s.directives, d)
	}
	return s, problems
}

// Directives returns the collected directives.
func (s *Set) Directives() []Directive {
	if s == nil {
		return nil
	}
	return s.directives
}

// Len is the number of directives.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.directives)
}

// Suppressed reports whether an issue of rule on line is covered. The last
// disable or enable before the line decides; line directives win over both.
func (s *Set) Suppressed(rule string, line uint32) bool {
	if s == nil {
		return false
	}
	off := false
	for _, d := range s.directives {
		if !d.Applies(rule) {
			continue
		}
		switch d.Action {
		case DisableLine:
			if line >= d.Line && line <= d.EndLine {
				return true
			}
		case DisableNextLine:
			if line == d.EndLine+1 {
				return true
			}
		case Disable:
			if d.Line <= line {
				off = true
			}
		case Enable:
			if d.Line <= line {
				off = false
			}
		}
	}
	return off
}

// Filter drops the issues the directives cover and returns the rest along
// with the number dropped.
func (s *Set) Filter(issues []check.Issue) ([]check.Issue, int) {
	if s.Len() == 0 {
		return issues, 0
	}
	kept := issues[:0:0]
	for _, is := range issues {
		if s.Suppressed(is.RuleKey, is.Line) {
			continue
		}
		kept = append(kept, is)
	}
	return kept, len(issues) - len(kept)
}
