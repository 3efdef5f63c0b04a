package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hreflint/hreflint/internal/pipeline"
)

type checkOptions struct {
	jobs          int
	checkAnchors  bool
	sources       string
	githubActions bool
	exclude       []string
}

func init() {
	opts := &checkOptions{}

	checkCmd := &cobra.Command{
		Use:   "check [BASE_PATH]",
		Short: "Check every internal link and anchor under BASE_PATH",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}
	registerCheckFlags(checkCmd, opts)
	rootCmd.AddCommand(checkCmd)

	// The bare invocation behaves exactly like `check`, so `<tool> .` works
	// without naming a subcommand.
	registerCheckFlags(rootCmd, opts)
	rootCmd.Args = cobra.MaximumNArgs(1)
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd, args, opts)
	}
}

func registerCheckFlags(c *cobra.Command, opts *checkOptions) {
	c.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "Worker count (default max(2, 4*ncpu))")
	c.Flags().BoolVar(&opts.checkAnchors, "check-anchors", false, "Also validate URL fragments; exit 2 on anchor-only failures")
	c.Flags().StringVar(&opts.sources, "sources", "", "Markdown sources directory, enabling paragraph-to-source attribution")
	c.Flags().BoolVar(&opts.githubActions, "github-actions", false, "Also emit GitHub Actions annotation lines")
	c.Flags().StringArrayVar(&opts.exclude, "exclude", nil, "Glob pattern of paths to skip during the site walk (repeatable)")
}

func runCheck(cmd *cobra.Command, args []string, opts *checkOptions) error {
	base := "."
	if len(args) == 1 {
		base = args[0]
	}

	fmt.Println("Reading files")

	res, err := pipeline.Run(cmd.Context(), pipeline.Options{
		SiteRoot:     base,
		SourcesRoot:  opts.sources,
		CheckAnchors: opts.checkAnchors,
		Exclude:      opts.exclude,
		Jobs:         opts.jobs,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Checking %d links from %d files (%d documents)\n",
		res.Broken.UsedLinkCount(), res.FileCount, res.DocumentCount)

	broken := res.CorrelatedBroken
	hardCount, softCount := 0, 0
	for _, b := range broken {
		if b.HardNotFound {
			hardCount++
		} else {
			softCount++
		}
	}

	if len(broken) > 0 {
		fmt.Println()
		writeHumanReport(os.Stdout, groupBrokenLinks(broken))
	}

	fmt.Printf("\nFound %d bad links\n", hardCount)
	if opts.checkAnchors {
		fmt.Printf("Found %d bad anchors\n", softCount)
	}

	if opts.githubActions {
		writeGitHubAnnotations(os.Stdout, groupBrokenLinks(broken))
	}

	switch {
	case hardCount > 0:
		checkExitCode = 1
	case opts.checkAnchors && softCount > 0:
		checkExitCode = 2
	default:
		checkExitCode = 0
	}
	return nil
}
