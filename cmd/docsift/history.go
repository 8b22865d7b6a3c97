package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/docsift/internal/cli"
	"github.com/Veraticus/docsift/internal/common"
	"github.com/Veraticus/docsift/internal/engine"
	"github.com/Veraticus/docsift/internal/service"
)

const dateLayout = "2006-01-02"

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the run journal",
		Long: `Inspect classifications and validations recorded with --record (or
journal.enabled in the config file).`,
	}

	cmd.PersistentFlags().String("since", "", "only runs on or after this date (YYYY-MM-DD)")
	cmd.PersistentFlags().String("until", "", "only runs on or before this date (YYYY-MM-DD)")
	cmd.PersistentFlags().String("type", "", "document type or schema name")

	cmd.AddCommand(historyListCmd())
	cmd.AddCommand(historyStatsCmd())

	return cmd
}

func historyListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			validations, _ := cmd.Flags().GetBool("validations")
			asJSON, _ := cmd.Flags().GetBool("json")
			limit, _ := cmd.Flags().GetInt("limit")

			filter, err := runFilter(cmd)
			if err != nil {
				return err
			}
			filter.Limit = limit

			return withJournal(cmd, func(journal service.Journal) error {
				var rows any
				var rendered string
				if validations {
					runs, err := journal.ListValidations(cmd.Context(), filter)
					if err != nil {
						return err
					}
					rows, rendered = runs, cli.RenderValidationRuns(runs)
				} else {
					runs, err := journal.ListClassifications(cmd.Context(), filter)
					if err != nil {
						return err
					}
					rows, rendered = runs, cli.RenderClassificationRuns(runs)
				}

				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(rows)
				}
				fmt.Fprintln(cmd.OutOrStdout(), rendered)
				return nil
			})
		},
	}

	cmd.Flags().Bool("validations", false, "list validations instead of classifications")
	cmd.Flags().Bool("json", false, "print runs as JSON")
	cmd.Flags().IntP("limit", "n", 50, "maximum number of runs (0 = all)")

	return cmd
}

func historyStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := runFilter(cmd)
			if err != nil {
				return err
			}

			return withJournal(cmd, func(journal service.Journal) error {
				stats, err := journal.Stats(cmd.Context(), filter)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.RenderStats(stats))
				return nil
			})
		},
	}
}

// withJournal opens the configured journal whether or not recording is enabled.
func withJournal(cmd *cobra.Command, fn func(service.Journal) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	journal, err := engine.OpenJournal(cmd.Context(), cfg.JournalPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := journal.Close(); closeErr != nil {
			slog.Error("Failed to close journal", "error", closeErr)
		}
	}()

	return fn(journal)
}

func runFilter(cmd *cobra.Command) (service.RunFilter, error) {
	var filter service.RunFilter
	filter.Type, _ = cmd.Flags().GetString("type")

	since, _ := cmd.Flags().GetString("since")
	if since != "" {
		t, err := time.ParseInLocation(dateLayout, since, time.Local)
		if err != nil {
			return filter, common.NewUserError("--since must be YYYY-MM-DD", err)
		}
		filter.Since = &t
	}

	until, _ := cmd.Flags().GetString("until")
	if until != "" {
		t, err := time.ParseInLocation(dateLayout, until, time.Local)
		if err != nil {
			return filter, common.NewUserError("--until must be YYYY-MM-DD", err)
		}
		// inclusive of the whole day
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.Until = &end
	}

	return filter, nil
}
