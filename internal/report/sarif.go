package report

import (
	"encoding/json"
	"io"
	"path/filepath"

	"xqlint/internal/check"
	"xqlint/internal/diag"
	"xqlint/internal/driver"
)

// SarifRunMeta describes the tool in SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
}

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID                   string       `json:"id"`
	Name                 string       `json:"name,omitempty"`
	ShortDescription     sarifMessage `json:"shortDescription"`
	DefaultConfiguration sarifConfig  `json:"defaultConfiguration"`
}

type sarifConfig struct {
	Level string `json:"level"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           *sarifRegion  `json:"region,omitempty"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn,omitempty"`
}

// checkLevel maps a rule severity to a SARIF level.
func checkLevel(s check.Severity) string {
	switch {
	case s >= check.SevCritical:
		return "error"
	case s == check.SevMajor:
		return "warning"
	default:
		return "note"
	}
}

func problemLevel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

// sarifRules indexes the rule table of the run. Rules enter in order of first
// use, so the table only lists what the results refer to.
type sarifRules struct {
	rules []sarifRule
	index map[string]int
}

func (t *sarifRules) add(r sarifRule) int {
	if i, ok := t.index[r.ID]; ok {
		return i
	}
	if t.index == nil {
		t.index = make(map[string]int)
	}
	t.index[r.ID] = len(t.rules)
	t.rules = append(t.rules, r)
	return len(t.rules) - 1
}

// Sarif writes the run as a SARIF 2.1.0 log with a single run. Syntax problems
// are results too, under their LEX, SYN or DIR code, when opts.Problems is set.
func Sarif(w io.Writer, res *driver.Result, reg *check.Registry, opts Options) error {
	var table sarifRules
	results := make([]sarifResult, 0, res.IssueCount())

	for i := range res.Files {
		fr := &res.Files[i]
		uri := filepath.ToSlash(displayPath(fr, opts))
		for _, is := range sortedIssues(fr.Issues) {
			rule := sarifRule{ID: is.RuleKey, DefaultConfiguration: sarifConfig{Level: "warning"}}
			if reg != nil {
				if r, ok := reg.Rule(is.RuleKey); ok {
					rule.Name = r.Name
					rule.ShortDescription.Text = r.Description
					rule.DefaultConfiguration.Level = checkLevel(r.Severity)
				}
			}
			idx := table.add(rule)
			results = append(results, sarifResult{
				RuleID:    is.RuleKey,
				RuleIndex: idx,
				Level:     table.rules[idx].DefaultConfiguration.Level,
				Message:   sarifMessage{Text: is.Message},
				Locations: []sarifLocation{location(uri, is.Line, 0)},
			})
		}
		if !opts.Problems {
			continue
		}
		for _, p := range fr.Problems {
			id := p.Code.ID()
			idx := table.add(sarifRule{
				ID:                   id,
				ShortDescription:     sarifMessage{Text: p.Code.Title()},
				DefaultConfiguration: sarifConfig{Level: problemLevel(p.Severity)},
			})
			results = append(results, sarifResult{
				RuleID:    id,
				RuleIndex: idx,
				Level:     problemLevel(p.Severity),
				Message:   sarifMessage{Text: p.Message},
				Locations: []sarifLocation{location(uri, p.Line, p.Column)},
			})
		}
	}

	name := opts.Sarif.ToolName
	if name == "" {
		name = "xqlint"
	}
	log := sarifLog{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:    name,
				Version: opts.Sarif.ToolVersion,
				Rules:   append([]sarifRule{}, table.rules...),
			}},
			Invocations: []sarifInvocation{{
				Arguments:           opts.Sarif.InvocationArgs,
				ExecutionSuccessful: res.FailedCount() == 0,
			}},
			Results: results,
		}},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(log)
}

func location(uri string, line, col uint32) sarifLocation {
	loc := sarifLocation{PhysicalLocation: sarifPhysical{ArtifactLocation: sarifArtifact{URI: uri}}}
	if line > 0 {
		loc.PhysicalLocation.Region = &sarifRegion{StartLine: line, StartColumn: col}
	}
	return loc
}
