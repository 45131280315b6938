package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/helixbill/denialflow/internal/model"
	"github.com/helixbill/denialflow/internal/service"
)

const (
	duplicateSuccessProbability = 0.20
	duplicateCompletionOffset   = 12 * time.Hour
)

// InvestigateDuplicateHandler searches prior denial records for the claim and
// prepares the duplicate comparison.
type InvestigateDuplicateHandler struct {
	baseHandler
	records  service.RecordFinder
	fallback *ManualReviewHandler
}

// Workflow implements Handler.
func (h *InvestigateDuplicateHandler) Workflow() model.ResolutionWorkflow {
	return model.WorkflowInvestigateDuplicate
}

// Execute implements Handler.
func (h *InvestigateDuplicateHandler) Execute(ctx context.Context, req Request) (model.WorkflowOutcome, error) {
	prior, err := h.records.GetDenialRecordsByClaimID(ctx, req.Case.ClaimID)
	if err != nil {
		reason := fmt.Sprintf("prior submission lookup failed: %v", err)
		if recordErr := h.appendAction(ctx, req.RecordID, "duplicate_search", model.ActionFailed, map[string]any{
			"claim_id": req.Case.ClaimID,
			"reason":   reason,
		}); recordErr != nil {
			return model.WorkflowOutcome{}, recordErr
		}
		return h.fallback.Escalate(ctx, req, reason)
	}

	// The record for this very submission is already persisted.
	priorSubmissions := 0
	for _, rec := range prior {
		if rec.ID != req.RecordID {
			priorSubmissions++
		}
	}

	if err := h.appendAction(ctx, req.RecordID, "duplicate_search", model.ActionCompleted, map[string]any{
		"claim_id":          req.Case.ClaimID,
		"prior_submissions": priorSubmissions,
	}); err != nil {
		return model.WorkflowOutcome{}, err
	}
	if err := h.appendAction(ctx, req.RecordID, "original_claim_comparison", model.ActionCompleted, map[string]any{
		"claim_id":     req.Case.ClaimID,
		"claim_amount": req.Case.Claim.ClaimAmount,
		"service_date": req.Case.Claim.ServiceDate,
	}); err != nil {
		return model.WorkflowOutcome{}, err
	}

	return model.WorkflowOutcome{
		Workflow: model.WorkflowInvestigateDuplicate,
		ActionsTaken: []string{
			fmt.Sprintf("Searched for prior submissions of the claim (%d found)", priorSubmissions),
			"Prepared service-line comparison against the original claim",
		},
		EstimatedCompletion: h.now().Add(duplicateCompletionOffset),
		SuccessProbability:  duplicateSuccessProbability,
		Details:             map[string]any{"prior_submissions": priorSubmissions},
	}, nil
}
