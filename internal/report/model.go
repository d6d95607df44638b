// Package report renders analysis results for people and for tools.
package report

import (
	"fmt"
	"path/filepath"
	"sort"

	"xqlint/internal/check"
	"xqlint/internal/dialect"
	"xqlint/internal/driver"
)

// IssueOut is one issue as written by the JSON and msgpack writers.
type IssueOut struct {
	Rule     string `json:"rule" msgpack:"rule"`
	Name     string `json:"name,omitempty" msgpack:"name,omitempty"`
	Severity string `json:"severity,omitempty" msgpack:"severity,omitempty"`
	Line     uint32 `json:"line" msgpack:"line"`
	Message  string `json:"message" msgpack:"message"`
}

// ProblemOut is one syntax problem.
type ProblemOut struct {
	Code     string `json:"code" msgpack:"code"`
	Severity string `json:"severity" msgpack:"severity"`
	Line     uint32 `json:"line" msgpack:"line"`
	Column   uint32 `json:"column" msgpack:"column"`
	Message  string `json:"message" msgpack:"message"`
}

// FileOut is the report of one file.
type FileOut struct {
	Path        string       `json:"path" msgpack:"path"`
	Hash        string       `json:"hash,omitempty" msgpack:"hash,omitempty"`
	DuplicateOf string       `json:"duplicate_of,omitempty" msgpack:"duplicate_of,omitempty"`
	Dialect     string       `json:"dialect,omitempty" msgpack:"dialect,omitempty"`
	Error       string       `json:"error,omitempty" msgpack:"error,omitempty"`
	Issues      []IssueOut   `json:"issues" msgpack:"issues"`
	Problems    []ProblemOut `json:"problems,omitempty" msgpack:"problems,omitempty"`
}

// Summary counts the whole run.
type Summary struct {
	Files      int `json:"files" msgpack:"files"`
	Issues     int `json:"issues" msgpack:"issues"`
	Problems   int `json:"problems" msgpack:"problems"`
	Failed     int `json:"failed" msgpack:"failed"`
	Suppressed int `json:"suppressed,omitempty" msgpack:"suppressed,omitempty"`
}

// Output is the serializable form of a run.
type Output struct {
	Files   []FileOut `json:"files" msgpack:"files"`
	Summary Summary   `json:"summary" msgpack:"summary"`
}

// Build converts a driver result. reg supplies rule names and severities and
// may be nil.
func Build(res *driver.Result, reg *check.Registry, opts Options) Output {
	out := Output{Files: make([]FileOut, 0, len(res.Files))}
	for i := range res.Files {
		fr := &res.Files[i]
		fo := FileOut{
			Path:   displayPath(fr, opts),
			Issues: make([]IssueOut, 0, len(fr.Issues)),
		}
		if fr.File != nil {
			fo.Hash = fmt.Sprintf("%016x", fr.Hash)
		}
		if fr.DuplicateOf != "" {
			fo.DuplicateOf = formatPath(fr.DuplicateOf, opts)
		}
		if fr.Dialect != dialect.Unknown {
			fo.Dialect = fr.Dialect.String()
		}
		if fr.Failed != nil {
			fo.Error = fr.Failed.Error()
			out.Summary.Failed++
		}
		for _, is := range sortedIssues(fr.Issues) {
			item := IssueOut{Rule: is.RuleKey, Line: is.Line, Message: is.Message}
			if reg != nil {
				if rule, ok := reg.Rule(is.RuleKey); ok {
					item.Name = rule.Name
					item.Severity = rule.Severity.String()
				}
			}
			fo.Issues = append(fo.Issues, item)
		}
		if opts.Problems {
			for _, p := range fr.Problems {
				fo.Problems = append(fo.Problems, ProblemOut{
					Code:     p.Code.ID(),
					Severity: p.Severity.String(),
					Line:     p.Line,
					Column:   p.Column,
					Message:  p.Message,
				})
			}
		}
		out.Summary.Issues += len(fo.Issues)
		out.Summary.Problems += len(fr.Problems)
		out.Summary.Suppressed += fr.Suppressed
		out.Files = append(out.Files, fo)
	}
	out.Summary.Files = len(out.Files)
	return out
}

// sortedIssues orders by line then rule; the driver reports in visit order.
func sortedIssues(in []check.Issue) []check.Issue {
	out := append([]check.Issue(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].RuleKey < out[j].RuleKey
	})
	return out
}

func displayPath(fr *driver.FileResult, opts Options) string {
	if fr.File != nil && opts.PathMode != PathModeAuto {
		return fr.File.FormatPath(opts.PathMode.mode(), opts.BaseDir)
	}
	return formatPath(fr.Path, opts)
}

func formatPath(path string, opts Options) string {
	switch opts.PathMode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeRelative:
		if rel, err := filepath.Rel(opts.BaseDir, path); err == nil {
			return filepath.ToSlash(rel)
		}
	case PathModeBasename:
		return filepath.Base(path)
	}
	return filepath.ToSlash(path)
}
