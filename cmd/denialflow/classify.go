package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/helixbill/denialflow/internal/cli"
	"github.com/helixbill/denialflow/internal/model"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify one denial without persisting anything",
		Long: `Dry-run classification: extract signals from the denial codes and
reason text, combine them, and print the classification with the
workflow that would run. No record is created and no workflow executes.`,
		RunE: runClassify,
	}

	cmd.Flags().String("claim-id", "", "Claim identifier (required)")
	cmd.Flags().StringSlice("codes", nil, "Payer denial codes, comma separated (e.g. CO_197,M62)")
	cmd.Flags().String("reason", "", "Free-text denial reason")
	cmd.Flags().Float64("amount", 0, "Claim amount in dollars")
	cmd.Flags().Bool("json", false, "Emit the raw JSON response")
	_ = cmd.MarkFlagRequired("claim-id")

	return cmd
}

func runClassify(cmd *cobra.Command, _ []string) error {
	claimID, _ := cmd.Flags().GetString("claim-id")
	codes, _ := cmd.Flags().GetStringSlice("codes")
	reason, _ := cmd.Flags().GetString("reason")
	amount, _ := cmd.Flags().GetFloat64("amount")
	asJSON, _ := cmd.Flags().GetBool("json")

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

	response, err := orchestrator.ClassifyOnly(model.DenialCase{
		ClaimID:          claimID,
		DenialCodes:      codes,
		DenialReasonText: reason,
		Claim: model.ClaimSnapshot{
			ClaimAmount: amount,
			ServiceDate: time.Now().UTC(),
		},
	})
	if err != nil {
		return err
	}

	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(response)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Cause       %s\n", cli.BoldStyle.Render(string(response.CauseCategory)))
	fmt.Fprintf(&b, "Subcategory %s\n", response.Subcategory)
	fmt.Fprintf(&b, "Confidence  %.2f\n", response.Confidence)
	fmt.Fprintf(&b, "Workflow    %s\n", response.ResolutionWorkflow)
	fmt.Fprintf(&b, "Priority    %d\n", response.PriorityScore)
	fmt.Fprintf(&b, "Appeal odds %.0f%%\n", response.AppealSuccessProbability*100)
	fmt.Fprintf(&b, "Est. hours  %d\n", response.EstimatedResolutionHours)
	fmt.Fprintf(&b, "\nRecommended actions:\n")
	for _, action := range response.RecommendedActions {
		fmt.Fprintf(&b, "  %s %s\n", cli.SuccessIcon, action)
	}

	fmt.Println(cli.RenderBox("Classification for "+claimID, strings.TrimRight(b.String(), "\n")))
	return nil
}
