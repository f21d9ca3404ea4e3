package cmd

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Build information
var (
	Version   = "0.1.0"
	BuildDate = "undefined"
	GitCommit = "undefined"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Display build, version, and runtime information about LintHound.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cyan := color.New(color.FgCyan).SprintFunc()
			green := color.New(color.FgGreen).SprintFunc()
			w := cmd.OutOrStdout()

			fmt.Fprintln(w, cyan("LintHound Version Information"))
			fmt.Fprintf(w, "%s: %s\n", cyan("Version"), green(Version))
			fmt.Fprintf(w, "%s: %s\n", cyan("Build Date"), green(BuildDate))
			fmt.Fprintf(w, "%s: %s\n", cyan("Git Commit"), green(GitCommit))
			fmt.Fprintf(w, "%s: %s\n", cyan("Go Version"), green(runtime.Version()))
			fmt.Fprintf(w, "%s: %s/%s\n", cyan("Platform"), green(runtime.GOOS), green(runtime.GOARCH))
		},
	}
}
