package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/helixbill/denialflow/internal/cli"
	"github.com/helixbill/denialflow/internal/engine"
	"github.com/helixbill/denialflow/internal/model"
)

func processCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <denials.json>",
		Short: "Process a batch of denied claims end to end",
		Long: `Read denial cases from a JSON file, classify each one, and execute
the matching remediation workflow. Every case lands in a terminal
status: resolved, escalated to manual review, or failed.

The input file holds a JSON array of denial cases:

  [{"claim_id": "CLM-1001",
    "denial_codes": ["CO_197"],
    "denial_reason_text": "prior authorization not obtained",
    "claim_snapshot": {"patient_id": "PAT-1", "provider_id": "PRV-1",
                       "claim_amount": 1250.00, "service_date": "2024-05-01T00:00:00Z"}}]`,
		Args: cobra.ExactArgs(1),
		RunE: runProcess,
	}

	cmd.Flags().Int("concurrency", engine.DefaultBatchConcurrency, "Maximum denials processed in parallel")

	return cmd
}

func runProcess(cmd *cobra.Command, args []string) error {
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	denials, err := readDenialFile(args[0])
	if err != nil {
		return err
	}
	if len(denials) == 0 {
		slog.Info("No denial cases found in input file", "file", args[0])
		return nil
	}

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	orchestrator, err := initOrchestrator(store)
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(denials),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Processing denials...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)

	summary, err := orchestrator.ProcessBatch(ctx, denials, engine.BatchOptions{
		Concurrency: concurrency,
		OnDone: func(_ engine.BatchItem) {
			_ = bar.Add(1)
		},
	})
	if err != nil {
		return fmt.Errorf("batch processing aborted: %w", err)
	}

	fmt.Println(renderBatchSummary(summary))

	for _, item := range summary.Items {
		if item.Err != nil {
			slog.Warn("Denial case did not complete",
				"claim_id", item.Case.ClaimID,
				"error", item.Err)
		}
	}
	return nil
}

func readDenialFile(path string) ([]model.DenialCase, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied input file
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	var denials []model.DenialCase
	if err := json.Unmarshal(data, &denials); err != nil {
		return nil, fmt.Errorf("failed to parse input file: %w", err)
	}
	return denials, nil
}

func renderBatchSummary(summary *engine.BatchSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %d\n", cli.TableCellStyle.Render("Resolved"), summary.Resolved)
	fmt.Fprintf(&b, "%s %d\n", cli.TableCellStyle.Render("Escalated"), summary.Escalated)
	if summary.Failed > 0 {
		fmt.Fprintf(&b, "%s    %s\n", cli.TableCellStyle.Render("Failed"), cli.StyleError(fmt.Sprintf("%d", summary.Failed)))
	} else {
		fmt.Fprintf(&b, "%s    %d\n", cli.TableCellStyle.Render("Failed"), summary.Failed)
	}
	if summary.Rejected > 0 {
		fmt.Fprintf(&b, "%s  %s", cli.TableCellStyle.Render("Rejected"), cli.StyleWarning(fmt.Sprintf("%d", summary.Rejected)))
	} else {
		fmt.Fprintf(&b, "%s  %d", cli.TableCellStyle.Render("Rejected"), summary.Rejected)
	}

	return cli.RenderBox(cli.ChartIcon+" Batch Summary", b.String())
}
