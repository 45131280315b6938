package workflow

import (
	"context"
	"time"

	"github.com/helixbill/denialflow/internal/model"
)

const (
	medicalReviewSuccessProbability = 0.60
	medicalReviewCompletionOffset   = 120 * time.Hour
)

// MedicalReviewHandler pulls clinical notes and queues the denial for
// clinical review of medical necessity.
type MedicalReviewHandler struct {
	baseHandler
}

// Workflow implements Handler.
func (h *MedicalReviewHandler) Workflow() model.ResolutionWorkflow {
	return model.WorkflowMedicalReview
}

// Execute implements Handler.
func (h *MedicalReviewHandler) Execute(ctx context.Context, req Request) (model.WorkflowOutcome, error) {
	if err := h.appendAction(ctx, req.RecordID, "clinical_notes_requested", model.ActionCompleted, map[string]any{
		"claim_id":     req.Case.ClaimID,
		"patient_id":   req.Case.Claim.PatientID,
		"service_date": req.Case.Claim.ServiceDate,
	}); err != nil {
		return model.WorkflowOutcome{}, err
	}
	if err := h.appendAction(ctx, req.RecordID, "medical_review_queued", model.ActionCompleted, map[string]any{
		"claim_id":    req.Case.ClaimID,
		"subcategory": req.Classification.Subcategory,
	}); err != nil {
		return model.WorkflowOutcome{}, err
	}

	return model.WorkflowOutcome{
		Workflow: model.WorkflowMedicalReview,
		ActionsTaken: []string{
			"Requested clinical notes supporting medical necessity",
			"Queued denial for clinical review",
		},
		EstimatedCompletion: h.now().Add(medicalReviewCompletionOffset),
		SuccessProbability:  medicalReviewSuccessProbability,
	}, nil
}
