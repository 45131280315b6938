package workflow

import (
	"context"
	"time"

	"github.com/helixbill/denialflow/internal/model"
)

const (
	documentationSuccessProbability = 0.75
	documentationCompletionOffset   = 96 * time.Hour
)

// RequestDocumentationHandler identifies the documentation gap and sends a
// records request to the provider.
type RequestDocumentationHandler struct {
	baseHandler
}

// Workflow implements Handler.
func (h *RequestDocumentationHandler) Workflow() model.ResolutionWorkflow {
	return model.WorkflowRequestDocumentation
}

// Execute implements Handler.
func (h *RequestDocumentationHandler) Execute(ctx context.Context, req Request) (model.WorkflowOutcome, error) {
	if err := h.appendAction(ctx, req.RecordID, "documentation_gap_identified", model.ActionCompleted, map[string]any{
		"claim_id":     req.Case.ClaimID,
		"denial_codes": req.Case.DenialCodes,
		"subcategory":  req.Classification.Subcategory,
	}); err != nil {
		return model.WorkflowOutcome{}, err
	}
	if err := h.appendAction(ctx, req.RecordID, "records_request_sent", model.ActionCompleted, map[string]any{
		"claim_id":    req.Case.ClaimID,
		"provider_id": req.Case.Claim.ProviderID,
	}); err != nil {
		return model.WorkflowOutcome{}, err
	}

	return model.WorkflowOutcome{
		Workflow: model.WorkflowRequestDocumentation,
		ActionsTaken: []string{
			"Identified the documentation the payer requires",
			"Sent records request to the rendering provider",
		},
		EstimatedCompletion: h.now().Add(documentationCompletionOffset),
		SuccessProbability:  documentationSuccessProbability,
		Details:             map[string]any{"provider_id": req.Case.Claim.ProviderID},
	}, nil
}
