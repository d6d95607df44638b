// Package directive reads the suppression comments of a file and filters the
// issues they cover.
//
//	(: xqlint:disable LogCheck, DynamicFunction :)   until enabled again
//	(: xqlint:enable LogCheck :)
//	(: xqlint:disable-line :)                        lines of the comment, every rule
//	(: xqlint:disable-next-line XpathTextSteps :)
//
// A directive without rule keys applies to every rule.
package directive

import (
	"fmt"
	"strings"
	"unicode"
)

// Prefix starts every directive inside a comment.
const Prefix = "xqlint:"

// Action is what a directive does.
type Action uint8

const (
	Disable Action = iota + 1
	Enable
	DisableLine
	DisableNextLine
)

var actionNames = map[string]Action{
	"disable":           Disable,
	"enable":            Enable,
	"disable-line":      DisableLine,
	"disable-next-line": DisableNextLine,
}

func (a Action) String() string {
	switch a {
	case Disable:
		return "disable"
	case Enable:
		return "enable"
	case DisableLine:
		return "disable-line"
	case DisableNextLine:
		return "disable-next-line"
	default:
		return "unknown"
	}
}

// Directive is one suppression comment.
type Directive struct {
	Action Action
	Rules  []string // empty means every rule
	// Line and EndLine are the lines the comment spans.
	Line    uint32
	EndLine uint32
}

func (d Directive) String() string {
	rules := "*"
	if len(d.Rules) > 0 {
		rules = strings.Join(d.Rules, ",")
	}
	return fmt.Sprintf("%d: %s %s", d.Line, d.Action, rules)
}

// Applies reports whether d names rule.
func (d Directive) Applies(rule string) bool {
	if len(d.Rules) == 0 {
		return true
	}
	for _, r := range d.Rules {
		if r == rule {
			return true
		}
	}
	return false
}

// ParseComment reads the directive of a comment, "(: ... :)" delimiters
// included. ok is false for ordinary comments.
func ParseComment(text string) (Directive, bool, error) {
	body := strings.TrimSuffix(strings.TrimPrefix(text, "(:"), ":)")
	body = strings.TrimSpace(body)
	rest, ok := strings.CutPrefix(body, Prefix)
	if !ok {
		return Directive{}, false, nil
	}
	fields := strings.FieldsFunc(rest, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(fields) == 0 {
		return Directive{}, true, fmt.Errorf("empty directive %q", Prefix)
	}
	act, ok := actionNames[fields[0]]
	if !ok {
		return Directive{}, true, fmt.Errorf("unknown directive %q", Prefix+fields[0])
	}
	d := Directive{Action: act}
	if len(fields) > 1 {
		d.Rules = fields[1:]
	}
	return d, true, nil
}
