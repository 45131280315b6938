package workflow

import (
	"context"
	"time"

	"github.com/helixbill/denialflow/internal/model"
)

const (
	manualReviewSuccessProbability = 0.50
	manualReviewCompletionOffset   = 48 * time.Hour
)

// ManualReviewHandler is the universal fallback: it queues the denial for a
// human specialist. Every other handler delegates here when a required
// precondition cannot be satisfied.
type ManualReviewHandler struct {
	baseHandler
}

// Workflow implements Handler.
func (h *ManualReviewHandler) Workflow() model.ResolutionWorkflow {
	return model.WorkflowManualReview
}

// Execute implements Handler for denials whose assigned workflow is manual
// review from the start (the OTHER cause).
func (h *ManualReviewHandler) Execute(ctx context.Context, req Request) (model.WorkflowOutcome, error) {
	return h.Escalate(ctx, req, "no automated workflow for cause "+string(req.Classification.Cause))
}

// Escalate queues the record for manual review, recording why automation
// stopped. Delegating handlers call this directly so their outcome is exactly
// the manual-review outcome.
func (h *ManualReviewHandler) Escalate(ctx context.Context, req Request, reason string) (model.WorkflowOutcome, error) {
	err := h.appendAction(ctx, req.RecordID, "manual_review_queued", model.ActionCompleted, map[string]any{
		"claim_id": req.Case.ClaimID,
		"cause":    string(req.Classification.Cause),
		"reason":   reason,
	})
	if err != nil {
		return model.WorkflowOutcome{}, err
	}

	return model.WorkflowOutcome{
		Workflow:            model.WorkflowManualReview,
		ActionsTaken:        []string{"Queued denial for manual review"},
		EstimatedCompletion: h.now().Add(manualReviewCompletionOffset),
		SuccessProbability:  manualReviewSuccessProbability,
		Details:             map[string]any{"reason": reason},
	}, nil
}
