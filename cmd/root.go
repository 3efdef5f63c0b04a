// Package cmd implements the CLI commands for hreflint.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:           "hreflint",
	Short:         "hreflint — a static-site internal link and anchor checker",
	SilenceErrors: true,
	SilenceUsage:  true,
	Long: `hreflint validates every internal hyperlink and URL fragment across a
directory of statically generated HTML by cross-referencing every link use
against every link definition found in the same corpus. Given a directory of
Markdown sources, it additionally attributes a broken link back to the
source paragraph that most likely produced it.

No network request is ever made; only the filesystem is read.`,
}

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version of hreflint",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("hreflint", Version)
		},
	})
}

// checkExitCode carries the check command's exit code (0/1/2) out of Cobra's
// RunE, which can only signal failure as an error — and a run that found
// broken links is not itself an error, it is the tool working as intended.
var checkExitCode int

// Execute runs the command tree and returns the process exit code: non-zero
// on an argument or I/O error, otherwise whatever the check command decided
// (0 clean, 1 hard 404s found, 2 clean on links but bad anchors found).
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return checkExitCode
}
