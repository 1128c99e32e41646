package main

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/spf13/cobra"

	"github.com/dkoosis/dictlint/pkg/rules/matchdict"
)

func (a *app) keysCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "keys <dictionary-file>",
		Short: "Print the top-level keys of a dictionary file",
		Long: `Prints the keys of the first object literal in a JSON, JavaScript or
TypeScript dictionary, in source order. The JSON form can be pasted into
the options of the match-dictionaries rule.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			parser, ok := parserFor(path)
			if !ok {
				return fmt.Errorf("no parser for %s", path)
			}
			list, err := matchdict.LoadDictionaryKeys(cmd.Context(), path, parser)
			if err != nil {
				return err
			}

			if asJSON {
				if list == nil {
					list = []string{}
				}
				return json.MarshalEncode(jsontext.NewEncoder(a.out, jsontext.WithIndent("  ")), list)
			}
			for _, k := range list {
				if _, err := fmt.Fprintln(a.out, k); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the keys as a JSON array")
	return cmd
}
