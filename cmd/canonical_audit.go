package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hreflint/hreflint/internal/canonicalaudit"
	"github.com/hreflint/hreflint/internal/pipeline"
)

func init() {
	var exclude []string

	c := &cobra.Command{
		Use:   "canonical-audit <BASE_PATH>",
		Short: "Validate link rel=\"canonical\" tags across BASE_PATH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := args[0]

			res, err := pipeline.Run(cmd.Context(), pipeline.Options{SiteRoot: base, Exclude: exclude})
			if err != nil {
				return err
			}

			issues, err := canonicalaudit.Audit(base, exclude, res.Broken.Defined)
			if err != nil {
				return err
			}

			for _, issue := range issues {
				fmt.Printf("%s: %s", issue.PageHref, issue.Type)
				if issue.CanonicalHref != "" {
					fmt.Printf(" (%s)", issue.CanonicalHref)
				}
				fmt.Println()
			}
			fmt.Printf("Found %d canonical-tag issues across %d documents\n", len(issues), res.DocumentCount)
			return nil
		},
	}
	c.Flags().StringArrayVar(&exclude, "exclude", nil, "Glob pattern of paths to skip (repeatable)")

	rootCmd.AddCommand(c)
}
