package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/helixbill/denialflow/internal/cli"
	"github.com/helixbill/denialflow/internal/model"
)

func recordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "List denial records",
		Long:  `List denial records filtered by lifecycle status or by claim.`,
		RunE:  runRecords,
	}

	cmd.Flags().String("status", "", "Filter by status (received, classifying, classified, executing_workflow, resolved, escalated, failed)")
	cmd.Flags().String("claim-id", "", "Filter by claim identifier")

	return cmd
}

func runRecords(cmd *cobra.Command, _ []string) error {
	statusFlag, _ := cmd.Flags().GetString("status")
	claimID, _ := cmd.Flags().GetString("claim-id")
	if (statusFlag == "") == (claimID == "") {
		return fmt.Errorf("exactly one of --status or --claim-id is required")
	}

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	var records []model.DenialRecord
	if claimID != "" {
		records, err = store.GetDenialRecordsByClaimID(ctx, claimID)
	} else {
		records, err = store.GetDenialRecordsByStatus(ctx, model.DenialRecordStatus(statusFlag))
	}
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println(cli.SubtleStyle.Render("no matching denial records"))
		return nil
	}

	header := fmt.Sprintf("%-36s  %-12s  %-18s  %-24s  %s",
		"RECORD", "CLAIM", "STATUS", "CAUSE", "WORKFLOW")
	fmt.Println(cli.TableHeaderStyle.Render(header))
	for _, record := range records {
		cause := ""
		if record.Classification != nil {
			cause = string(record.Classification.Cause)
		}
		fmt.Printf("%-36s  %-12s  %-18s  %-24s  %s\n",
			record.ID, record.Case.ClaimID, record.Status, cause, record.AssignedWorkflow)
	}
	return nil
}
