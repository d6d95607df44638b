package report

import (
	"fmt"
	"strings"
)

// Format selects the output writer.
type Format uint8

const (
	FormatPretty Format = iota
	FormatShort
	FormatJSON
	FormatMsgpack
	FormatSarif
)

// ParseFormat reads a --format value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pretty":
		return FormatPretty, nil
	case "short":
		return FormatShort, nil
	case "json":
		return FormatJSON, nil
	case "msgpack":
		return FormatMsgpack, nil
	case "sarif":
		return FormatSarif, nil
	default:
		return 0, fmt.Errorf("unknown format %q (want pretty, short, json, msgpack or sarif)", s)
	}
}

func (f Format) String() string {
	switch f {
	case FormatShort:
		return "short"
	case FormatJSON:
		return "json"
	case FormatMsgpack:
		return "msgpack"
	case FormatSarif:
		return "sarif"
	default:
		return "pretty"
	}
}

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto prints the path as it was given.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ParsePathMode reads a --path-mode value.
func ParsePathMode(s string) (PathMode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return PathModeAuto, nil
	case "absolute":
		return PathModeAbsolute, nil
	case "relative":
		return PathModeRelative, nil
	case "basename":
		return PathModeBasename, nil
	default:
		return 0, fmt.Errorf("unknown path mode %q", s)
	}
}

func (m PathMode) mode() string {
	switch m {
	case PathModeAbsolute:
		return "absolute"
	case PathModeRelative:
		return "relative"
	case PathModeBasename:
		return "basename"
	default:
		return "auto"
	}
}

// Options configures every writer.
type Options struct {
	Color       bool
	PathMode    PathMode
	BaseDir     string // for PathModeRelative
	ShowPreview bool   // pretty: print the offending source line
	Quiet       bool   // pretty: omit the summary
	Problems    bool   // include syntax problems next to issues
	Sarif       SarifRunMeta
}
