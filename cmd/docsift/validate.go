package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/docsift/internal/cli"
	"github.com/Veraticus/docsift/internal/common"
	"github.com/Veraticus/docsift/internal/model"
)

type validateOutput struct {
	Source string `json:"source"`
	*model.ValidationResult
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate --schema NAME [files...|-]",
		Short: "Validate extracted fields against a schema",
		Long: `Validate extracted field data against a named schema.

Each file holds a JSON or YAML object (one record), a JSON or YAML list of
objects, or a CSV table with a header row. Tables are validated row by row.
The command exits non-zero when any document is invalid.

Examples:
  docsift validate --schema invoice nf-001.json
  docsift validate --schema receipt --json lote.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: runValidate,
	}

	cmd.Flags().StringP("schema", "s", "", "schema name")
	cmd.Flags().Bool("json", false, "print results as JSON")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	schemaName, _ := cmd.Flags().GetString("schema")
	asJSON, _ := cmd.Flags().GetBool("json")

	eng, err := openEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := eng.Close(); closeErr != nil {
			slog.Error("Failed to close journal", "error", closeErr)
		}
	}()

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := interrupts.HandleInterrupts(cmd.Context(), eng.Journaled())

	outputs := make([]validateOutput, 0, len(args))
	invalid := 0
	for _, name := range args {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		raw, err := readInput(ctx, name)
		if err != nil {
			return err
		}
		data, err := decodeData(name, raw)
		if err != nil {
			return common.NewUserError(fmt.Sprintf("cannot parse %s", name), err)
		}

		result := eng.Validate(ctx, name, data, schemaName)
		if !result.Valid {
			invalid++
		}
		outputs = append(outputs, validateOutput{Source: name, ValidationResult: result})
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(outputs); err != nil {
			return err
		}
	} else {
		for _, o := range outputs {
			fmt.Fprintln(out, cli.RenderValidation(o.Source, o.ValidationResult))
		}
	}

	if invalid > 0 {
		return common.NewUserError(fmt.Sprintf("%d of %d documents failed validation", invalid, len(outputs)), nil)
	}
	return nil
}
