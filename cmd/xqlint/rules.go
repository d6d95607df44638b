package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"xqlint/internal/check"
	"xqlint/internal/rules"
)

type rulePayload struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules [flags] [key]",
		Short: "List the built-in rules",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRules,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runRules(cmd *cobra.Command, args []string) error {
	registry := rules.Default()
	list := registry.Rules()
	if len(args) == 1 {
		rule, ok := registry.Rule(args[0])
		if !ok {
			return &check.UnknownRuleError{Key: args[0], Suggestions: registry.Suggest(args[0])}
		}
		list = []check.Rule{rule}
	}

	format, _ := cmd.Flags().GetString("format")
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		payload := make([]rulePayload, 0, len(list))
		for _, r := range list {
			payload = append(payload, rulePayload{Key: r.Key, Name: r.Name, Severity: r.Severity.String(), Description: r.Description})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case "pretty":
		width := 0
		for _, r := range list {
			width = max(width, len(r.Key))
		}
		for _, r := range list {
			fmt.Fprintf(out, "%-*s  %-8s  %s\n", width, r.Key, r.Severity, r.Name)
			if len(args) == 1 {
				fmt.Fprintf(out, "\n%s\n", wrap(r.Description, 78))
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func wrap(text string, width int) string {
	var b strings.Builder
	col := 0
	for _, word := range strings.Fields(text) {
		if col > 0 && col+1+len(word) > width {
			b.WriteByte('\n')
			col = 0
		} else if col > 0 {
			b.WriteByte(' ')
			col++
		}
		b.WriteString(word)
		col += len(word)
	}
	return b.String()
}
