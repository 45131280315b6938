package workflow

import (
	"context"
	"time"

	"github.com/helixbill/denialflow/internal/model"
)

const (
	cobSuccessProbability = 0.80
	cobCompletionOffset   = 72 * time.Hour
)

// COBCoordinationHandler identifies the primary payer and prepares the rebill
// with coordination-of-benefits details.
type COBCoordinationHandler struct {
	baseHandler
}

// Workflow implements Handler.
func (h *COBCoordinationHandler) Workflow() model.ResolutionWorkflow {
	return model.WorkflowCOBCoordination
}

// Execute implements Handler.
func (h *COBCoordinationHandler) Execute(ctx context.Context, req Request) (model.WorkflowOutcome, error) {
	if err := h.appendAction(ctx, req.RecordID, "primary_payer_identified", model.ActionCompleted, map[string]any{
		"claim_id":   req.Case.ClaimID,
		"patient_id": req.Case.Claim.PatientID,
	}); err != nil {
		return model.WorkflowOutcome{}, err
	}
	if err := h.appendAction(ctx, req.RecordID, "cob_rebill_prepared", model.ActionCompleted, map[string]any{
		"claim_id":     req.Case.ClaimID,
		"claim_amount": req.Case.Claim.ClaimAmount,
	}); err != nil {
		return model.WorkflowOutcome{}, err
	}

	return model.WorkflowOutcome{
		Workflow: model.WorkflowCOBCoordination,
		ActionsTaken: []string{
			"Identified the primary payer for the patient",
			"Prepared rebill with coordination-of-benefits details",
		},
		EstimatedCompletion: h.now().Add(cobCompletionOffset),
		SuccessProbability:  cobSuccessProbability,
	}, nil
}
