package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/subscout/subscout/internal/brand"
)

func brandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "brands",
		Short: "List the built-in subscription brand lexicon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolver, err := brand.NewResolver(brand.DefaultRules())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render("Brand lexicon"))
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, headerStyle.Render("BRAND\tCATEGORY\tPATTERN"))
			for _, r := range resolver.Rules() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.Category, subtleStyle.Render(r.Pattern))
			}
			return tw.Flush()
		},
	}
}
