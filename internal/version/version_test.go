package version

import (
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestInfo(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate }()

	Version, GitCommit, BuildDate = "1.2.3", "", ""
	if got := Info(false); got != "xqlint 1.2.3\n" {
		t.Errorf("Info = %q", got)
	}

	GitCommit, BuildDate = "abc123", "2024-01-15"
	got := Info(false)
	if !strings.Contains(got, "commit: abc123\n") || !strings.Contains(got, "built:  2024-01-15\n") {
		t.Errorf("Info = %q", got)
	}
}

func TestColored(t *testing.T) {
	origVersion, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = origVersion, origNoColor }()
	color.NoColor = true

	tests := []struct{ in, want string }{
		{"1.2.3", "1.2.3"},
		{"0.1.0-dev", "0.1.0-dev"},
		{"nightly", "nightly"},
	}
	for _, tc := range tests {
		Version = tc.in
		if got := Colored(); got != tc.want {
			t.Errorf("Colored(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	if os.Getenv("NO_COLOR") != "" {
		return
	}
	color.NoColor = false
	Version = "1.2.3"
	if got := Colored(); !strings.Contains(got, "\x1b[") {
		t.Errorf("Colored with colour on = %q", got)
	}
}
