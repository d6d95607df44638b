package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"xqlint/internal/ast"
	"xqlint/internal/diag"
	"xqlint/internal/driver"
	"xqlint/internal/report"
	"xqlint/internal/trace"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] <file>",
		Short: "Print the tokens of an XQuery file",
		Long: `Tokenize prints the token stream the parser consumed, with string and markup
bodies split by the lexer that scanned them.`,
		Args: cobra.ExactArgs(1),
		RunE: runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().Bool("hidden", false, "include whitespace and comments")
	cmd.Flags().String("dialect", "", "dialect before any version declaration")
	return cmd
}

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] <file>",
		Short: "Print the syntax tree of an XQuery file",
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	cmd.Flags().String("dialect", "", "dialect before any version declaration")
	return cmd
}

func singleOptions(cmd *cobra.Command) (driver.SingleOptions, error) {
	maxProblems, err := cmd.Root().PersistentFlags().GetInt("max-problems")
	if err != nil {
		return driver.SingleOptions{}, fmt.Errorf("failed to get max-problems flag: %w", err)
	}
	cfg, err := loadConfig(cmd, ".")
	if err != nil {
		return driver.SingleOptions{}, err
	}
	if dialect, _ := cmd.Flags().GetString("dialect"); dialect != "" {
		cfg.Analyze.Dialect = dialect
	}
	features, err := cfg.Features()
	if err != nil {
		return driver.SingleOptions{}, err
	}
	return driver.SingleOptions{
		MaxDiagnostics: maxProblems,
		Features:       features,
		Detect:         cfg.DetectDialect(),
		NormalizeNFC:   cfg.Analyze.NormalizeNFC,
		Tracer:         trace.FromContext(cmd.Context()),
	}, nil
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	hidden, _ := cmd.Flags().GetBool("hidden")
	opts, err := singleOptions(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(args[0], opts)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	printProblems(cmd.ErrOrStderr(), result.File.Path, result.Bag)

	switch format {
	case "pretty":
		return report.TokensPretty(cmd.OutOrStdout(), result.Tokens, hidden)
	case "json":
		return report.TokensJSON(cmd.OutOrStdout(), result.Tokens, hidden)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func runParse(cmd *cobra.Command, args []string) error {
	opts, err := singleOptions(cmd)
	if err != nil {
		return err
	}
	result, err := driver.Parse(args[0], opts)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	printProblems(cmd.ErrOrStderr(), result.File.Path, result.Bag)
	if err := ast.Dump(cmd.OutOrStdout(), result.Root); err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return exitError{code: 1}
	}
	return nil
}

func printProblems(w io.Writer, path string, bag *diag.Bag) {
	bag.Sort()
	for _, p := range bag.Items() {
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", path, p.Line, p.Column, p.Severity, p.Code.ID(), p.Message)
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "%s: %d more problems not shown\n", path, n)
	}
}
