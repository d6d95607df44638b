package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"xqlint/internal/config"
	"xqlint/internal/driver"
	"xqlint/internal/pipeline"
	"xqlint/internal/report"
	"xqlint/internal/rules"
	"xqlint/internal/ui"
	"xqlint/internal/version"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [flags] <file|directory>...",
		Short: "Run the rule checks over XQuery files",
		Long: `Analyze parses every file, maps the declarations of all of them, then runs
the rule checks file by file. It exits with status 1 when any issue is found.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAnalyze,
	}
	f := cmd.Flags()
	f.String("format", "pretty", "output format (pretty|short|json|msgpack|sarif)")
	f.StringSlice("rules", nil, "run only these rules (comma-separated keys)")
	f.StringSlice("disable", nil, "skip these rules")
	f.StringSlice("ext", nil, "file extensions picked up in directories")
	f.Int("jobs", 0, "concurrent file reads (0 = GOMAXPROCS)")
	f.String("dialect", "", "dialect before any version declaration (xquery|marklogic|1.0-ml|3.0|auto)")
	f.Bool("fail-on-error", false, "stop parsing a file at its first syntax error")
	f.Bool("nfc", false, "normalize sources to Unicode NFC")
	f.Bool("no-directives", false, "ignore xqlint: suppression comments")
	f.Bool("preview", false, "print the offending source line under each issue")
	f.Bool("problems", false, "list syntax problems next to issues")
	f.String("path-mode", "auto", "how paths are printed (auto|absolute|relative|basename)")
	f.Bool("exit-zero", false, "exit with status 0 even when issues are found")
	return cmd
}

func loadConfig(cmd *cobra.Command, start string) (*config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, err
	}
	if path != "" {
		return config.Load(path)
	}
	return config.Discover(start)
}

// applyFlags lays the command line over the configuration; flags win.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("rules") {
		cfg.Rules.Enable, _ = f.GetStringSlice("rules")
	}
	if f.Changed("disable") {
		extra, _ := f.GetStringSlice("disable")
		cfg.Rules.Disable = append(cfg.Rules.Disable, extra...)
	}
	if f.Changed("ext") {
		cfg.Analyze.Extensions, _ = f.GetStringSlice("ext")
	}
	if f.Changed("jobs") {
		cfg.Analyze.Jobs, _ = f.GetInt("jobs")
	}
	if f.Changed("dialect") {
		cfg.Analyze.Dialect, _ = f.GetString("dialect")
	}
	if f.Changed("fail-on-error") {
		cfg.Analyze.FailOnError, _ = f.GetBool("fail-on-error")
	}
	if f.Changed("nfc") {
		cfg.Analyze.NormalizeNFC, _ = f.GetBool("nfc")
	}
	if f.Changed("no-directives") {
		cfg.Analyze.NoDirectives, _ = f.GetBool("no-directives")
	}
	if pf := cmd.Root().PersistentFlags(); pf.Changed("max-problems") {
		cfg.Analyze.MaxProblems, _ = pf.GetInt("max-problems")
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	start := args[0]
	if info, err := os.Stat(start); err == nil && !info.IsDir() {
		start = filepath.Dir(start)
	}
	cfg, err := loadConfig(cmd, start)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	registry := rules.Default()
	keys, params, err := cfg.Select(registry)
	if err != nil {
		return err
	}
	features, err := cfg.Features()
	if err != nil {
		return err
	}

	formatStr, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	pathModeStr, _ := cmd.Flags().GetString("path-mode")
	pathMode, err := report.ParsePathMode(pathModeStr)
	if err != nil {
		return err
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	uiStr, _ := cmd.Root().PersistentFlags().GetString("ui")
	mode, err := readUIMode(uiStr)
	if err != nil {
		return err
	}

	baseDir := cfg.Dir()
	if baseDir == "" {
		baseDir, _ = os.Getwd()
	}
	req := driver.Request{
		Paths:        args,
		Extensions:   cfg.Analyze.Extensions,
		Jobs:         cfg.Analyze.Jobs,
		Registry:     registry,
		Rules:        keys,
		Params:       params,
		Features:     features,
		Detect:       cfg.DetectDialect(),
		NoDirectives: cfg.Analyze.NoDirectives,
		MaxProblems:  cfg.Analyze.MaxProblems,
		FailOnError:  cfg.Analyze.FailOnError,
		NormalizeNFC: cfg.Analyze.NormalizeNFC,
		BaseDir:      baseDir,
	}

	var res *driver.Result
	if format == report.FormatPretty && !quiet && shouldUseTUI(mode) {
		res, err = analyzeWithUI(cmd.Context(), req)
	} else {
		res, err = driver.Analyze(cmd.Context(), req)
	}
	if err != nil {
		return err
	}

	preview, _ := cmd.Flags().GetBool("preview")
	problems, _ := cmd.Flags().GetBool("problems")
	opts := report.Options{
		Color:       format == report.FormatPretty && useColor(cmd, os.Stdout),
		PathMode:    pathMode,
		BaseDir:     baseDir,
		ShowPreview: preview,
		Quiet:       quiet,
		Problems:    problems,
		Sarif: report.SarifRunMeta{
			ToolName:       "xqlint",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
		},
	}
	if err := report.Write(cmd.OutOrStdout(), format, res, registry, opts); err != nil {
		return err
	}

	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
		fmt.Fprint(cmd.ErrOrStderr(), res.Timer.Summary())
	}

	exitZero, _ := cmd.Flags().GetBool("exit-zero")
	if !exitZero && (res.IssueCount() > 0 || res.FailedCount() > 0) {
		return errIssuesFound
	}
	return nil
}

type analyzeOutcome struct {
	res *driver.Result
	err error
}

// analyzeWithUI runs the analysis while the progress model renders its events.
func analyzeWithUI(ctx context.Context, req driver.Request) (*driver.Result, error) {
	files, err := driver.ListFiles(req.Paths, req.Extensions)
	if err != nil {
		return nil, err
	}
	events := make(chan pipeline.Event, 256)
	outcome := make(chan analyzeOutcome, 1)
	go func() {
		req.Progress = pipeline.ChannelSink{Ch: events}
		res, err := driver.Analyze(ctx, req)
		outcome <- analyzeOutcome{res: res, err: err}
		close(events)
	}()

	title := fmt.Sprintf("analyzing %d files", len(files))
	uiErr := ui.Run(title, files, events, os.Stdout)
	if uiErr != nil {
		// keep the producer from blocking on a dead UI
		go func() {
			for range events {
			}
		}()
	}
	out := <-outcome
	if uiErr != nil && out.err == nil {
		return out.res, uiErr
	}
	return out.res, out.err
}
