package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hreflint/hreflint/internal/pipeline"
	"github.com/hreflint/hreflint/internal/sitemap"
)

type sitemapOptions struct {
	output       string
	tasksOutput  string
	jobs         int
	exclude      []string
	checkAnchors bool
}

func init() {
	opts := &sitemapOptions{}

	c := &cobra.Command{
		Use:   "sitemap <BASE_PATH>",
		Short: "Write a sitemap.xml and a broken-link-tasks.md for BASE_PATH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := args[0]

			entries, err := sitemap.Discover(base, opts.exclude)
			if err != nil {
				return err
			}
			if err := sitemap.WriteSitemap(opts.output, entries); err != nil {
				return err
			}

			res, err := pipeline.Run(cmd.Context(), pipeline.Options{
				SiteRoot:     base,
				CheckAnchors: opts.checkAnchors,
				Exclude:      opts.exclude,
				Jobs:         opts.jobs,
			})
			if err != nil {
				return err
			}
			broken := res.CorrelatedBroken
			if err := sitemap.WriteBrokenLinkTasks(opts.tasksOutput, broken); err != nil {
				return err
			}

			targets := make(map[string]bool, len(broken))
			for _, b := range broken {
				targets[b.Used.Href] = true
			}

			fmt.Printf("Sitemap written to %s (%d URLs)\n", opts.output, len(entries))
			fmt.Printf("Broken-link tasks written to %s (%d tasks)\n", opts.tasksOutput, len(targets))
			return nil
		},
	}

	c.Flags().StringVarP(&opts.output, "output", "o", "./sitemap.xml", "Output sitemap file path")
	c.Flags().StringVar(&opts.tasksOutput, "tasks-output", "./broken-link-tasks.md", "Output file for the broken-link checklist")
	c.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "Worker count (default max(2, 4*ncpu))")
	c.Flags().StringArrayVar(&opts.exclude, "exclude", nil, "Glob pattern of paths to skip (repeatable)")
	c.Flags().BoolVar(&opts.checkAnchors, "check-anchors", false, "Also validate URL fragments in the broken-link checklist")

	rootCmd.AddCommand(c)
}
