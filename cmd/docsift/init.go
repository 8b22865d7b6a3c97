package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/Veraticus/docsift/internal/cli"
	"github.com/Veraticus/docsift/internal/pattern"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the built-in pattern records",
		Long: `Write the built-in pattern records (invoice, receipt, contract, bank
statement, payment slip) to the patterns directory, one YAML file per document
type. Existing files are kept unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}

	cmd.Flags().Bool("force", false, "overwrite existing pattern files")

	return cmd
}

func runInit(cmd *cobra.Command, _ []string) error {
	force, _ := cmd.Flags().GetBool("force")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	written, err := writeDefaultPatterns(cfg.PatternsDir, force)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
		fmt.Sprintf("Wrote %d pattern records to %s", written, cfg.PatternsDir)))
	return nil
}

// writeDefaultPatterns writes one file per built-in record. Files are prefixed
// with their position so that load order matches declaration order.
func writeDefaultPatterns(dir string, force bool) (int, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return 0, fmt.Errorf("failed to create patterns directory: %w", err)
	}

	written := 0
	for i, rec := range pattern.DefaultRecords() {
		path := filepath.Join(dir, fmt.Sprintf("%02d_%s.yaml", i+1, rec.DocumentType))

		if !force {
			if _, err := os.Stat(path); err == nil {
				continue
			} else if !errors.Is(err, fs.ErrNotExist) {
				return written, fmt.Errorf("failed to check %s: %w", path, err)
			}
		}

		data, err := yaml.Marshal(rec)
		if err != nil {
			return written, fmt.Errorf("failed to encode %s: %w", rec.DocumentType, err)
		}
		if err := os.WriteFile(path, data, 0600); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written++
	}
	return written, nil
}
