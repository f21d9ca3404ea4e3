package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/rafabd1/LintHound/config"
	"github.com/rafabd1/LintHound/core/lint"
	"github.com/rafabd1/LintHound/core/secret"
	"github.com/rafabd1/LintHound/output"
	"github.com/spf13/cobra"
)

func newRulesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the rules and secret detectors",
		Long: `List every registered rule with its category and state, followed by the
secret detectors in the order the api-keys rule tries them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.vip, opts.cfgFile)
			if err != nil {
				return err
			}
			logger := output.NewLoggerTo(cmd.ErrOrStderr(), cfg.Verbose, cfg.Silent, cfg.NoColor)
			reg, err := buildRegistry(cfg, logger)
			if err != nil {
				return err
			}
			printRules(cmd.OutOrStdout(), reg, cfg.NoColor || !output.IsTerminal(cmd.OutOrStdout()))
			return nil
		},
	}
}

// printRules prints the rules of reg sorted by name, then the detectors of
// the api-keys rule in evaluation order.
func printRules(w io.Writer, reg *lint.Registry, noColor bool) {
	cyan := color.New(color.FgCyan)
	dim := color.New(color.FgHiBlack)
	if noColor {
		cyan.DisableColor()
		dim.DisableColor()
	}

	fmt.Fprintln(w, cyan.Sprint("Rules:"))
	for _, r := range reg.All() {
		m := r.Meta()
		state := "on"
		if !reg.Enabled(m.Name) {
			state = "off"
		} else if sev, ok := reg.Severity(m.Name); ok {
			state = sev.String()
		}
		fmt.Fprintf(w, "  - %-28s %-12s %-5s %s\n", m.Name, m.Category, state, m.Summary)
	}

	rule, ok := reg.Get(secret.RuleName)
	if !ok {
		return
	}
	agg, ok := rule.(*secret.Aggregator)
	if !ok {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, cyan.Sprint("Secret detectors (first match wins):"))
	for i, d := range agg.Detectors() {
		fmt.Fprintf(w, "  %2d. %-28s %s\n", i+1, d.RuleName(),
			dim.Sprintf("min_len %d, min_entropy %.2f", d.MinLen(), d.MinEntropy()))
	}
	fmt.Fprintln(w, dim.Sprintf("\nCandidates shorter than %d characters or below %.2f bits of entropy are never checked.",
		agg.MinLen(), agg.MinEntropy()))
}
