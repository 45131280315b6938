package workflow

import (
	"context"
	"time"

	"github.com/helixbill/denialflow/internal/model"
)

const appealCompletionOffset = 168 * time.Hour

// AppealFilingHandler gathers evidence and files a formal appeal. Its success
// probability is the classification's own appeal-success prior rather than a
// workflow constant.
type AppealFilingHandler struct {
	baseHandler
}

// Workflow implements Handler.
func (h *AppealFilingHandler) Workflow() model.ResolutionWorkflow {
	return model.WorkflowAppealFiling
}

// Execute implements Handler.
func (h *AppealFilingHandler) Execute(ctx context.Context, req Request) (model.WorkflowOutcome, error) {
	if err := h.appendAction(ctx, req.RecordID, "appeal_evidence_gathered", model.ActionCompleted, map[string]any{
		"claim_id":     req.Case.ClaimID,
		"denial_codes": req.Case.DenialCodes,
	}); err != nil {
		return model.WorkflowOutcome{}, err
	}
	if err := h.appendAction(ctx, req.RecordID, "appeal_letter_drafted", model.ActionCompleted, map[string]any{
		"claim_id":    req.Case.ClaimID,
		"subcategory": req.Classification.Subcategory,
	}); err != nil {
		return model.WorkflowOutcome{}, err
	}
	if err := h.appendAction(ctx, req.RecordID, "appeal_filed", model.ActionCompleted, map[string]any{
		"claim_id":                req.Case.ClaimID,
		"appeal_success_estimate": req.Entry.AppealSuccessProb,
	}); err != nil {
		return model.WorkflowOutcome{}, err
	}

	return model.WorkflowOutcome{
		Workflow: model.WorkflowAppealFiling,
		ActionsTaken: []string{
			"Gathered submission evidence for the appeal",
			"Drafted appeal letter",
			"Filed appeal with the payer",
		},
		EstimatedCompletion: h.now().Add(appealCompletionOffset),
		SuccessProbability:  req.Entry.AppealSuccessProb,
		Details:             map[string]any{"appeal_level": "first"},
	}, nil
}
