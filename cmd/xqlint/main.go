package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"xqlint/internal/version"
)

// exitError carries a process exit code without an error message of its own.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// errIssuesFound makes analyze exit with status 1 after a clean report.
var errIssuesFound = exitError{code: 1}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "xqlint",
		Short:         "Static analysis for XQuery",
		Long:          `xqlint parses XQuery modules (W3C and MarkLogic dialects) and reports rule violations`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-problems", 100, "maximum number of syntax problems kept per file (0 = unlimited)")
	flags.String("config", "", "configuration file (default: xqlint.toml or xqlint.yaml found upwards)")
	flags.String("ui", "auto", "progress UI (auto|on|off)")
	flags.String("trace", "", "trace output file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	flags.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval")

	flags.String("cpu-profile", "", "write a CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to this file")

	var cleanups []func()
	finish := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
		cleanups = nil
	}
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		stopProfiling, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, stopProfiling)
		stopTracing, err := setupTracing(cmd)
		if err != nil {
			finish()
			return err
		}
		cleanups = append(cleanups, stopTracing)
		return nil
	}
	root.AddCommand(newAnalyzeCmd(), newTokenizeCmd(), newParseCmd(), newRulesCmd(), newVersionCmd())

	// PersistentPostRun is skipped when RunE fails, and analyze fails
	// whenever it finds issues.
	for _, sub := range root.Commands() {
		runE := sub.RunE
		sub.RunE = func(cmd *cobra.Command, args []string) error {
			defer finish()
			return runE(cmd, args)
		}
	}
	return root
}

func main() {
	defer dumpTraceOnPanic()
	if err := newRootCmd().Execute(); err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves --color for the stream w is written to.
func useColor(cmd *cobra.Command, f *os.File) bool {
	mode, _ := cmd.Root().PersistentFlags().GetString("color")
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return f != nil && isTerminal(f) && os.Getenv("NO_COLOR") == ""
	}
}
