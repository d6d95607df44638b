package check

import (
	"fmt"
	"strings"
)

// Severity ranks rules the way the report orders and colours them.
type Severity uint8

const (
	SevInfo Severity = iota
	SevMinor
	SevMajor
	SevCritical
	SevBlocker
)

var severityNames = [...]string{
	SevInfo:     "info",
	SevMinor:    "minor",
	SevMajor:    "major",
	SevCritical: "critical",
	SevBlocker:  "blocker",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return fmt.Sprintf("severity(%d)", uint8(s))
}

// ParseSeverity accepts the lower-case names, case-insensitively.
func ParseSeverity(name string) (Severity, error) {
	for i, n := range severityNames {
		if strings.EqualFold(n, name) {
			return Severity(i), nil
		}
	}
	return SevInfo, fmt.Errorf("unknown severity %q (expected info|minor|major|critical|blocker)", name)
}

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Rule describes a check.
type Rule struct {
	Key         string
	Name        string
	Severity    Severity
	Description string
}

// Check is a configured rule instance. Beyond Rule it implements whichever
// visitor callbacks it needs.
type Check interface {
	Rule() Rule
}

// Params are the per-rule settings from the configuration file.
type Params map[string]any

// Strings reads a list setting. A single string counts as a one-element
// list; a missing key gives def.
func (p Params) Strings(key string, def []string) ([]string, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	switch v := v.(type) {
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d]: want a string, got %T", key, i, e)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%s: want a list of strings, got %T", key, v)
}
