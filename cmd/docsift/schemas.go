package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/Veraticus/docsift/internal/common"
	"github.com/Veraticus/docsift/internal/schema"
)

func schemasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schemas",
		Aliases: []string{"schema"},
		Short:   "Inspect validation schemas",
	}

	cmd.AddCommand(schemasListCmd())
	cmd.AddCommand(schemasShowCmd())

	return cmd
}

func loadSchemas() (*schema.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return schema.Load(cfg.SchemasDir, common.NewLogObserver(nil))
}

func schemasListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List loaded schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := loadSchemas()
			if err != nil {
				return err
			}

			if store.Len() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No schemas found")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "NAME\tVERSION\tFIELDS\tRULES\tSTRICT\tDESCRIPTION")
			for _, name := range store.Names() {
				s, _ := store.Get(name)
				_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%t\t%s\n",
					name,
					s.Version,
					len(s.Fields),
					len(s.CustomValidations),
					s.Strict,
					s.Description)
			}
			return w.Flush()
		},
	}
}

func schemasShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Print a schema as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadSchemas()
			if err != nil {
				return err
			}

			s, ok := store.Get(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", common.ErrSchemaNotFound, args[0])
			}

			out, err := yaml.Marshal(s)
			if err != nil {
				return fmt.Errorf("failed to render schema: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
