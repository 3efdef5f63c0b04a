package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hreflint/hreflint/internal/pipeline"
)

func init() {
	cmd := &cobra.Command{
		Use:   "dump-external-links <BASE_PATH>",
		Short: "List every external href found under BASE_PATH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := pipeline.Run(cmd.Context(), pipeline.Options{SiteRoot: args[0]})
			if err != nil {
				return err
			}
			for _, u := range res.External.Links() {
				fmt.Printf("%s\t%s\n", u.Href, u.Source.String())
			}
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}
