package rules

import (
	"strings"

	"xqlint/internal/check"
	"xqlint/internal/diag"
)

var parseErrorRule = check.Rule{
	Key:      KeyParseError,
	Name:     "Code Parsing Error",
	Severity: check.SevInfo,
	Description: "The file has a syntax error, or uses syntax the analyzer cannot process. " +
		"Checks may have missed the part of the file that did not parse.",
}

// defaultAllowed are problem messages known to be harmless.
var defaultAllowed = []string{"no viable alternative at character 'D'"}

// parseError turns the lexical and syntax problems of a file into issues.
type parseError struct {
	base
	allowed []string
}

func newParseError(params check.Params) (check.Check, error) {
	allowed, err := params.Strings("allow", defaultAllowed)
	if err != nil {
		return nil, err
	}
	return &parseError{base: base{rule: parseErrorRule}, allowed: allowed}, nil
}

func (c *parseError) CheckReport(problems []diag.Problem) {
	for _, p := range problems {
		if p.Line == 0 || c.isAllowed(p.Message) {
			continue
		}
		c.reportf(p.Line, "%s", p.String())
	}
}

func (c *parseError) isAllowed(message string) bool {
	for _, a := range c.allowed {
		if strings.Contains(message, a) {
			return true
		}
	}
	return false
}
