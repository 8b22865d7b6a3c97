package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/docsift/internal/common"
	"github.com/Veraticus/docsift/internal/pattern"
)

func patternsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "patterns",
		Aliases: []string{"pattern"},
		Short:   "Inspect document type pattern records",
	}

	cmd.AddCommand(patternsListCmd())

	return cmd
}

func patternsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List loaded pattern records",
		Long: `List pattern records in load order. Ties between equally scored document
types go to the record listed first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := pattern.Load(cfg.PatternsDir, common.NewLogObserver(nil))
			if err != nil {
				return err
			}

			if store.Len() == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No pattern records found in %s (run 'docsift init')\n", cfg.PatternsDir)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "TYPE\tKEYWORDS\tPATTERNS\tMAX SCORE")
			for _, rec := range store.Records() {
				_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%d\n",
					rec.DocumentType,
					len(rec.Keywords),
					len(rec.Patterns),
					rec.MaxScore())
			}
			return w.Flush()
		},
	}
}
