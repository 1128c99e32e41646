package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dkoosis/dictlint/pkg/translate"
)

func (a *app) translateCmd() *cobra.Command {
	var (
		dir           string
		locale        string
		defaultLocale string
		count         int
		vars          []string
	)

	cmd := &cobra.Command{
		Use:   "translate <key>",
		Short: "Translate a key with the dictionaries in a directory",
		Long: `Loads <locale>.json dictionaries from --dir, overlays --locale on
--default and prints the phrase for key. Unknown keys are printed as is.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dicts, err := translate.LoadDictionaries(dir)
			if err != nil {
				return err
			}
			if locale == "" {
				locale = defaultLocale
			}

			cache := translate.NewCache(dicts, defaultLocale, translate.WithLogger(a.logger))
			engine, err := cache.Engine(locale)
			if err != nil {
				return err
			}

			opts := translate.Options{}
			if cmd.Flags().Changed("count") {
				opts.Count = &count
			}
			if len(vars) > 0 {
				opts.Vars = make(map[string]any, len(vars))
				for _, kv := range vars {
					name, value, ok := strings.Cut(kv, "=")
					if !ok || name == "" {
						return fmt.Errorf("invalid --var %q, want name=value", kv)
					}
					opts.Vars[name] = value
				}
			}

			ctx := translate.WithTranslator(cmd.Context(), engine)
			_, err = fmt.Fprintln(a.out, translate.Translate(ctx, args[0], opts))
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&dir, "dir", "locales", "directory holding <locale>.json dictionaries")
	flags.StringVar(&locale, "locale", "", "locale to translate into (default: --default)")
	flags.StringVar(&defaultLocale, "default", "en", "locale whose phrases fill gaps")
	flags.IntVar(&count, "count", 0, "count selecting the plural form")
	flags.StringArrayVar(&vars, "var", nil, "interpolation variable as name=value (repeatable)")
	return cmd
}
