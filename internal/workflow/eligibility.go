package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/helixbill/denialflow/internal/model"
	"github.com/helixbill/denialflow/internal/service"
)

const (
	eligibilitySuccessProbability = 0.30
	eligibilityCompletionOffset   = 72 * time.Hour
)

// VerifyEligibilityHandler checks patient eligibility for the service date.
// Eligible and ineligible are both normal completions; only an unreachable
// eligibility system escalates.
type VerifyEligibilityHandler struct {
	baseHandler
	eligibility service.EligibilityClient
	fallback    *ManualReviewHandler
	callTimeout time.Duration
	retry       service.RetryOptions
}

// Workflow implements Handler.
func (h *VerifyEligibilityHandler) Workflow() model.ResolutionWorkflow {
	return model.WorkflowVerifyEligibility
}

// Execute implements Handler.
func (h *VerifyEligibilityHandler) Execute(ctx context.Context, req Request) (model.WorkflowOutcome, error) {
	var result service.EligibilityResult
	err := callExternal(ctx, h.callTimeout, h.retry, func(callCtx context.Context) error {
		var callErr error
		result, callErr = h.eligibility.CheckEligibility(callCtx, req.Case.Claim.PatientID, req.Case.Claim.ServiceDate)
		return callErr
	})
	if err != nil {
		reason := fmt.Sprintf("eligibility check failed: %v", err)
		if recordErr := h.appendAction(ctx, req.RecordID, "eligibility_check", model.ActionFailed, map[string]any{
			"claim_id":   req.Case.ClaimID,
			"patient_id": req.Case.Claim.PatientID,
			"reason":     reason,
		}); recordErr != nil {
			return model.WorkflowOutcome{}, recordErr
		}
		return h.fallback.Escalate(ctx, req, reason)
	}

	if err := h.appendAction(ctx, req.RecordID, "eligibility_verified", model.ActionCompleted, map[string]any{
		"claim_id":     req.Case.ClaimID,
		"patient_id":   req.Case.Claim.PatientID,
		"service_date": req.Case.Claim.ServiceDate,
		"eligible":     result.Eligible,
		"plan_name":    result.PlanName,
	}); err != nil {
		return model.WorkflowOutcome{}, err
	}

	return model.WorkflowOutcome{
		Workflow: model.WorkflowVerifyEligibility,
		ActionsTaken: []string{
			fmt.Sprintf("Verified patient eligibility for service date (eligible=%t)", result.Eligible),
		},
		EstimatedCompletion: h.now().Add(eligibilityCompletionOffset),
		SuccessProbability:  eligibilitySuccessProbability,
		Details: map[string]any{
			"eligible":  result.Eligible,
			"plan_name": result.PlanName,
		},
	}, nil
}
