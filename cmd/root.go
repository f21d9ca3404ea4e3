package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rafabd1/LintHound/config"
	"github.com/rafabd1/LintHound/core/lint"
	"github.com/rafabd1/LintHound/core/rules"
	"github.com/rafabd1/LintHound/core/scanner"
	"github.com/rafabd1/LintHound/output"
	"github.com/rafabd1/LintHound/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ErrProblemsFound is returned when a diagnostic reaches the fail_on
// severity. Its message is not printed; the report already says it.
var ErrProblemsFound = errors.New("problems found")

// rootOptions is shared by every command of one command tree.
type rootOptions struct {
	cfgFile string
	vip     *viper.Viper
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{vip: viper.New()}

	cmd := &cobra.Command{
		Use:   "linthound [paths...]",
		Short: "LintHound - Lint JavaScript and TypeScript sources for hard-coded secrets",
		Long: `LintHound walks JavaScript and TypeScript sources and reports string literals
that look like credentials, plus expressions that automatic semicolon
insertion is likely to misread. Paths default to the current directory.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, opts, args)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return utils.NewError(utils.ConfigError, "invalid flags", err)
	})

	initPersistentFlags(cmd, opts)
	initLintFlags(cmd, opts.vip)

	cmd.AddCommand(newRulesCmd(opts), newInitCmd(opts), newVersionCmd())
	return cmd
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context) int {
	err := newRootCmd().ExecuteContext(ctx)
	if err != nil && !errors.Is(err, ErrProblemsFound) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return utils.ExitCode(err)
}

func initPersistentFlags(cmd *cobra.Command, opts *rootOptions) {
	vip := opts.vip
	flags := cmd.PersistentFlags()

	flags.StringVar(&opts.cfgFile, "config", "", "config file (default is ./.linthound.yaml, then ~/.linthound.yaml)")
	flags.BoolP("verbose", "v", false, "Enable verbose logging output")
	flags.BoolP("silent", "s", false, "Only log successes and errors")
	flags.Bool("no-color", false, "Disable colored output")
	flags.StringP("detectors", "d", "", "YAML, TOML or JSON file with extra secret detectors")
	vip.BindPFlag("verbose", flags.Lookup("verbose"))
	vip.BindPFlag("silent", flags.Lookup("silent"))
	vip.BindPFlag("no_color", flags.Lookup("no-color"))
	vip.BindPFlag("detectors_file", flags.Lookup("detectors"))
}

func initLintFlags(cmd *cobra.Command, vip *viper.Viper) {
	flags := cmd.Flags()

	flags.IntP("concurrency", "c", 0, "Number of files linted at once (default: number of CPUs)")
	flags.Int64("max-file-size", 0, "Skip files larger than this many bytes (default 5MiB)")
	flags.StringSlice("ext", nil, "File extensions linted when walking directories (e.g. .js,.ts)")
	vip.BindPFlag("concurrency", flags.Lookup("concurrency"))
	vip.BindPFlag("max_file_size", flags.Lookup("max-file-size"))
	vip.BindPFlag("extensions", flags.Lookup("ext"))

	flags.StringP("format", "f", "text", "Report format: text, json or sarif")
	flags.StringP("output", "o", "", "Write the report to a file instead of stdout")
	flags.String("fail-on", "error", "Lowest severity that makes the run fail: warn or error")
	vip.BindPFlag("format", flags.Lookup("format"))
	vip.BindPFlag("output", flags.Lookup("output"))
	vip.BindPFlag("fail_on", flags.Lookup("fail-on"))

	flags.StringSlice("disable", nil, "Rules to turn off (e.g. no-unexpected-multiline)")
	flags.StringToString("severity", nil, "Per-rule severity overrides (e.g. api-keys=error)")
	vip.BindPFlag("disabled_rules", flags.Lookup("disable"))
	vip.BindPFlag("severity", flags.Lookup("severity"))
}

// buildRegistry assembles the rule set described by cfg.
func buildRegistry(cfg config.Configuration, logger *output.Logger) (*lint.Registry, error) {
	opts := rules.Options{Disabled: cfg.DisabledRules}

	if cfg.DetectorsFile != "" {
		dets, err := config.LoadDetectors(cfg.DetectorsFile)
		if err != nil {
			return nil, utils.NewError(utils.ConfigError, "loading detectors", err)
		}
		logger.Debug("Loaded %d detectors from %s", len(dets), cfg.DetectorsFile)
		opts.Detectors = dets
	}

	sev, err := cfg.SeverityOverrides()
	if err != nil {
		return nil, err
	}
	opts.Severity = sev

	reg, err := rules.NewRegistry(opts)
	if err != nil {
		return nil, utils.NewError(utils.ConfigError, "building rule set", err)
	}
	return reg, nil
}

func runLint(cmd *cobra.Command, opts *rootOptions, args []string) error {
	cfg, err := config.Load(opts.vip, opts.cfgFile)
	if err != nil {
		return err
	}
	logger := output.NewLoggerTo(cmd.ErrOrStderr(), cfg.Verbose, cfg.Silent, cfg.NoColor)

	reg, err := buildRegistry(cfg, logger)
	if err != nil {
		return err
	}
	linter := lint.NewLinter(reg)

	var metas []lint.Meta
	for _, r := range linter.Rules() {
		metas = append(metas, r.Meta())
	}
	logger.Debug("Enabled rules: %d", len(metas))

	if len(args) == 0 {
		args = []string{"."}
	}
	sc := scanner.New(linter, scanner.Config{
		Concurrency: cfg.Concurrency,
		MaxFileSize: cfg.MaxFileSize,
		Extensions:  cfg.Extensions,
	}, logger)
	res, scanErr := sc.Scan(cmd.Context(), args)
	if scanErr != nil && res.Stats.StartTime.IsZero() {
		return scanErr
	}

	files, waived := config.ApplyWaivers(res.Files, cfg.Waivers)
	if waived > 0 {
		logger.Info("Waived %d diagnostics", waived)
	}

	format, err := output.ParseFormat(cfg.Format)
	if err != nil {
		return utils.NewError(utils.ConfigError, "format", err)
	}
	report := &output.Report{Tool: "linthound", Version: Version, Files: files, Rules: metas}
	if err := writeReport(cmd.OutOrStdout(), cfg, format, report); err != nil {
		return err
	}
	if err := scanFailure(res.Stats, scanErr); err != nil {
		return err
	}

	if failing(files, cfg.FailSeverity()) {
		return ErrProblemsFound
	}
	return nil
}

func writeReport(stdout io.Writer, cfg config.Configuration, format output.Format, report *output.Report) error {
	w := stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return utils.NewError(utils.IOError, "failed to create output file", err)
		}
		defer f.Close()
		w = f
	}
	colored := format == output.FormatText && !cfg.NoColor && output.IsTerminal(w)
	if err := output.Write(w, format, report, colored); err != nil {
		return utils.NewError(utils.IOError, "writing report", err)
	}
	return nil
}

// scanFailure turns an interrupted scan or unreadable files into the error
// that ends the run.
func scanFailure(st scanner.Stats, scanErr error) error {
	if scanErr != nil {
		return scanErr
	}
	if st.FailedFiles > 0 {
		return utils.NewError(utils.IOError, fmt.Sprintf("%d of %d files could not be read", st.FailedFiles, st.TotalFiles), nil)
	}
	return nil
}

func failing(files []lint.FileDiagnostics, threshold lint.Severity) bool {
	for _, f := range files {
		for _, d := range f.Diagnostics {
			if d.Severity >= threshold {
				return true
			}
		}
	}
	return false
}
