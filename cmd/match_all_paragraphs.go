package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hreflint/hreflint/internal/pipeline"
)

func init() {
	cmd := &cobra.Command{
		Use:   "match-all-paragraphs <BASE_PATH> <SOURCES_PATH>",
		Short: "Report how many paragraph-tracked links matched a Markdown source paragraph",
		Long: `match-all-paragraphs runs the same extraction and correlation
the check command does, but reports on the correlation itself: every link
found inside a tracked paragraph that failed to match any Markdown paragraph
fingerprint is a regression in the fingerprint-equivalence contract binding
the HTML and Markdown extractors.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := pipeline.Run(cmd.Context(), pipeline.Options{
				SiteRoot:    args[0],
				SourcesRoot: args[1],
			})
			if err != nil {
				return err
			}

			index, err := pipeline.BuildSourceIndex(args[1])
			if err != nil {
				return err
			}

			var tracked, matched int
			for _, u := range res.Used.Links() {
				if !u.HasParagraph {
					continue
				}
				tracked++
				if _, ok := index[u.Paragraph]; ok {
					matched++
					continue
				}
				fmt.Printf("unmatched: href %s in %s\n", u.Href, u.Source.String())
			}

			fmt.Printf("%d/%d paragraph-tracked links matched a Markdown source\n", matched, tracked)
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}
