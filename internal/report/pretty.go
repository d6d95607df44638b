package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"xqlint/internal/check"
	"xqlint/internal/driver"
)

type palette struct {
	path, line, rule, dim, err *color.Color
	sev                        map[check.Severity]*color.Color
}

func newPalette(on bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		path: mk(color.Bold),
		line: mk(color.FgCyan),
		rule: mk(color.FgMagenta),
		dim:  mk(color.Faint),
		err:  mk(color.FgRed, color.Bold),
		sev: map[check.Severity]*color.Color{
			check.SevInfo:     mk(color.FgBlue),
			check.SevMinor:    mk(color.FgGreen),
			check.SevMajor:    mk(color.FgYellow),
			check.SevCritical: mk(color.FgRed),
			check.SevBlocker:  mk(color.FgRed, color.Bold),
		},
	}
}

// Pretty writes a human-readable report:
//
//	path:line: MAJOR [Rule] message
//	    12 | offending line
//
// followed by a summary unless opts.Quiet is set.
func Pretty(w io.Writer, res *driver.Result, reg *check.Registry, opts Options) error {
	pal := newPalette(opts.Color)
	out := Build(res, reg, opts)
	var b strings.Builder

	for i, fo := range out.Files {
		fr := &res.Files[i]
		if fo.Error != "" {
			fmt.Fprintf(&b, "%s: %s %s\n", pal.path.Sprint(fo.Path), pal.err.Sprint("error:"), fo.Error)
		}
		if fo.DuplicateOf != "" {
			fmt.Fprintf(&b, "%s: %s\n", pal.path.Sprint(fo.Path), pal.dim.Sprintf("same content as %s", fo.DuplicateOf))
		}
		for _, is := range fo.Issues {
			sev := strings.ToUpper(is.Severity)
			if sev == "" {
				sev = "ISSUE"
			}
			sevColor := pal.dim
			if s, err := check.ParseSeverity(is.Severity); err == nil {
				sevColor = pal.sev[s]
			}
			fmt.Fprintf(&b, "%s:%s: %s %s %s\n",
				pal.path.Sprint(fo.Path),
				pal.line.Sprint(is.Line),
				sevColor.Sprint(sev),
				pal.rule.Sprintf("[%s]", is.Rule),
				is.Message)
			if opts.ShowPreview && fr.File != nil {
				if src := fr.File.GetLine(is.Line); strings.TrimSpace(src) != "" {
					fmt.Fprintf(&b, "%s %s\n", pal.dim.Sprintf("%6d |", is.Line), src)
				}
			}
		}
		for _, p := range fo.Problems {
			fmt.Fprintf(&b, "%s:%d:%d: %s %s: %s\n",
				pal.path.Sprint(fo.Path), p.Line, p.Column,
				pal.err.Sprint(p.Severity), p.Code, p.Message)
		}
	}

	if !opts.Quiet {
		s := out.Summary
		line := fmt.Sprintf("%s in %s", plural(s.Issues, "issue"), plural(s.Files, "file"))
		if s.Problems > 0 {
			line += fmt.Sprintf(", %s", plural(s.Problems, "syntax problem"))
		}
		if s.Suppressed > 0 {
			line += fmt.Sprintf(", %d suppressed", s.Suppressed)
		}
		if s.Failed > 0 {
			line += ", " + pal.err.Sprintf("%d failed", s.Failed)
		}
		b.WriteString(line + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Short writes one line per issue, "path:line: [Rule] message", and nothing
// else. Stable enough for golden files.
func Short(w io.Writer, res *driver.Result, opts Options) error {
	out := Build(res, nil, opts)
	var b strings.Builder
	for _, fo := range out.Files {
		if fo.Error != "" {
			fmt.Fprintf(&b, "%s: error: %s\n", fo.Path, fo.Error)
		}
		for _, is := range fo.Issues {
			fmt.Fprintf(&b, "%s:%d: [%s] %s\n", fo.Path, is.Line, is.Rule, is.Message)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
