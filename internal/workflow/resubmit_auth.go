package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/helixbill/denialflow/internal/model"
	"github.com/helixbill/denialflow/internal/service"
)

const (
	resubmitSuccessProbability = 0.85
	resubmitCompletionOffset   = 48 * time.Hour
)

// ResubmitWithAuthHandler requests retroactive authorization from the payer
// and prepares the claim for resubmission. If authorization cannot be
// requested, the denial goes to manual review.
type ResubmitWithAuthHandler struct {
	baseHandler
	authorizer  service.AuthorizationClient
	fallback    *ManualReviewHandler
	callTimeout time.Duration
	retry       service.RetryOptions
}

// Workflow implements Handler.
func (h *ResubmitWithAuthHandler) Workflow() model.ResolutionWorkflow {
	return model.WorkflowResubmitWithAuth
}

// Execute implements Handler.
func (h *ResubmitWithAuthHandler) Execute(ctx context.Context, req Request) (model.WorkflowOutcome, error) {
	var auth service.AuthorizationResult
	err := callExternal(ctx, h.callTimeout, h.retry, func(callCtx context.Context) error {
		var callErr error
		auth, callErr = h.authorizer.RequestAuthorization(callCtx, req.Case.ClaimID, req.Case.Claim)
		return callErr
	})

	if err != nil || !auth.Requestable {
		reason := "authorization is not requestable for this claim"
		if err != nil {
			reason = fmt.Sprintf("authorization request failed: %v", err)
		}
		if recordErr := h.appendAction(ctx, req.RecordID, "authorization_request", model.ActionFailed, map[string]any{
			"claim_id": req.Case.ClaimID,
			"reason":   reason,
		}); recordErr != nil {
			return model.WorkflowOutcome{}, recordErr
		}
		slog.Warn("Authorization not requestable, escalating",
			"claim_id", req.Case.ClaimID,
			"record_id", req.RecordID,
			"reason", reason)
		return h.fallback.Escalate(ctx, req, reason)
	}

	if err := h.appendAction(ctx, req.RecordID, "authorization_requested", model.ActionCompleted, map[string]any{
		"claim_id":             req.Case.ClaimID,
		"authorization_number": auth.AuthorizationNumber,
	}); err != nil {
		return model.WorkflowOutcome{}, err
	}
	if err := h.appendAction(ctx, req.RecordID, "claim_resubmission_prepared", model.ActionCompleted, map[string]any{
		"claim_id":             req.Case.ClaimID,
		"authorization_number": auth.AuthorizationNumber,
		"claim_amount":         req.Case.Claim.ClaimAmount,
	}); err != nil {
		return model.WorkflowOutcome{}, err
	}

	return model.WorkflowOutcome{
		Workflow: model.WorkflowResubmitWithAuth,
		ActionsTaken: []string{
			"Requested retroactive authorization " + auth.AuthorizationNumber,
			"Prepared claim for resubmission with authorization attached",
		},
		EstimatedCompletion: h.now().Add(resubmitCompletionOffset),
		SuccessProbability:  resubmitSuccessProbability,
		Details:             map[string]any{"authorization_number": auth.AuthorizationNumber},
	}, nil
}
