package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/helixbill/denialflow/internal/cli"
	"github.com/helixbill/denialflow/internal/model"
)

func auditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit <record-id>",
		Short: "Show a denial record and its remediation audit trail",
		Args:  cobra.ExactArgs(1),
		RunE:  runAudit,
	}

	cmd.Flags().Bool("json", false, "Emit the record and actions as JSON")

	return cmd
}

func runAudit(cmd *cobra.Command, args []string) error {
	recordID := args[0]
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	record, err := store.GetDenialRecord(ctx, recordID)
	if err != nil {
		return err
	}
	actions, err := store.GetActions(ctx, recordID)
	if err != nil {
		return err
	}

	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(struct {
			Record  *model.DenialRecord       `json:"record"`
			Actions []model.RemediationAction `json:"actions"`
		}{record, actions})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Claim    %s\n", record.Case.ClaimID)
	fmt.Fprintf(&b, "Status   %s\n", renderStatus(record.Status))
	if record.Classification != nil {
		fmt.Fprintf(&b, "Cause    %s (%.2f)\n", record.Classification.Cause, record.Classification.Confidence)
		fmt.Fprintf(&b, "Workflow %s\n", record.AssignedWorkflow)
		fmt.Fprintf(&b, "Priority %d\n", record.PriorityScore)
	}
	fmt.Fprintf(&b, "Created  %s\n", record.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Updated  %s\n", record.UpdatedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(&b, "\nActions (%d):\n", len(actions))
	if len(actions) == 0 {
		fmt.Fprintf(&b, "  %s\n", cli.SubtleStyle.Render("none recorded"))
	}
	for _, action := range actions {
		icon := cli.SuccessIcon
		if action.Status == model.ActionFailed {
			icon = cli.ErrorIcon
		}
		fmt.Fprintf(&b, "  %s %s  %s\n", icon, action.ExecutedAt.Format("15:04:05"), action.ActionType)
	}

	fmt.Println(cli.RenderBox("Denial Record "+record.ID, strings.TrimRight(b.String(), "\n")))
	return nil
}

func renderStatus(status model.DenialRecordStatus) string {
	switch status {
	case model.StatusResolved:
		return cli.StyleSuccess(string(status))
	case model.StatusEscalated:
		return cli.StyleWarning(string(status))
	case model.StatusFailed:
		return cli.StyleError(string(status))
	default:
		return string(status)
	}
}
