package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/docsift/internal/cli"
	"github.com/Veraticus/docsift/internal/engine"
	"github.com/Veraticus/docsift/internal/model"
)

type classifyOutput struct {
	Source string            `json:"source"`
	RunID  string            `json:"run_id,omitempty"`
	Scores []model.TypeScore `json:"scores,omitempty"`
	model.Classification
}

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [files...|-]",
		Short: "Detect the document type of extracted text",
		Long: `Classify extracted document text by keyword and regex rules, combined with
a trained model when one is configured.

Examples:
  docsift classify nf-001.txt recibo.txt
  pdftotext nota.pdf - | docsift classify -
  docsift classify --explain --json nf-001.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: runClassify,
	}

	cmd.Flags().Bool("json", false, "print results as JSON")
	cmd.Flags().Bool("explain", false, "include the rule score of every document type")

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	explain, _ := cmd.Flags().GetBool("explain")

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

	docs, err := readDocuments(ctx, args)
	if err != nil {
		return err
	}

	var progress *cli.Progress
	if !asJSON {
		progress = cli.NewProgress(cmd.ErrOrStderr(), len(docs), "Classifying documents...")
	}

	results, err := eng.ClassifyAll(ctx, docs, func(engine.Result) { progress.Step() })
	progress.Finish()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		outputs := make([]classifyOutput, len(results))
		for i, r := range results {
			outputs[i] = classifyOutput{Source: r.Source, RunID: r.RunID, Classification: r.Classification}
			if explain {
				outputs[i].Scores = eng.Explain(docs[i].Text)
			}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(outputs)
	}

	for i, r := range results {
		fmt.Fprintln(out, cli.RenderClassification(r.Source, r.Classification))
		if explain {
			fmt.Fprintln(out, cli.RenderScores(eng.Explain(docs[i].Text)))
		}
	}
	return nil
}
