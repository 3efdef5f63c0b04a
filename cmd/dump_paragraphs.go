package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hreflint/hreflint/internal/fingerprint"
	"github.com/hreflint/hreflint/internal/mdextract"
)

func init() {
	cmd := &cobra.Command{
		Use:   "dump-paragraphs <FILE>",
		Short: "Print every fingerprinted paragraph found in a Markdown file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			dbg := fingerprint.NewDebug()
			for _, p := range mdextract.Extract(data, dbg) {
				fmt.Printf("%d-%d %x %q\n", p.StartLine, p.EndLine, p.Fingerprint, p.Text)
			}
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}
