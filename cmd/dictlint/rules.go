package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dkoosis/dictlint/pkg/lint"
)

func (a *app) rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the rules and processors of the configured plugins",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			plugins, err := a.plugins()
			if err != nil {
				return err
			}

			var rows []string
			for _, p := range plugins {
				for name, r := range p.Rules {
					rows = append(rows, fmt.Sprintf("%s\trule\t%s", lint.RuleID(p.Name, name), r.Meta().Description))
				}
				for name := range p.Processors {
					rows = append(rows, fmt.Sprintf("%s\tprocessor\t%s %s", lint.RuleID(p.Name, name), p.Meta.Name, p.Meta.Version))
				}
			}
			sort.Strings(rows)

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			for _, row := range rows {
				fmt.Fprintln(tw, row)
			}
			return tw.Flush()
		},
	}
}
