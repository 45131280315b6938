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
	codeCorrectSuccessProbability = 0.70
	codeCorrectCompletionOffset   = 24 * time.Hour
)

// CodeReviewHandler analyzes the denied claim's coding and applies suggested
// corrections. If no corrections can be identified, the denial goes to
// manual review.
type CodeReviewHandler struct {
	baseHandler
	reviewer    service.CodingReviewer
	fallback    *ManualReviewHandler
	callTimeout time.Duration
	retry       service.RetryOptions
}

// Workflow implements Handler.
func (h *CodeReviewHandler) Workflow() model.ResolutionWorkflow {
	return model.WorkflowCodeReviewAndCorrect
}

// Execute implements Handler.
func (h *CodeReviewHandler) Execute(ctx context.Context, req Request) (model.WorkflowOutcome, error) {
	var corrections []service.CodeCorrection
	err := callExternal(ctx, h.callTimeout, h.retry, func(callCtx context.Context) error {
		var callErr error
		corrections, callErr = h.reviewer.SuggestCorrections(callCtx, req.Case)
		return callErr
	})

	if err != nil || len(corrections) == 0 {
		reason := "no coding corrections could be identified"
		if err != nil {
			reason = fmt.Sprintf("coding analysis failed: %v", err)
		}
		if recordErr := h.appendAction(ctx, req.RecordID, "coding_analysis", model.ActionFailed, map[string]any{
			"claim_id":     req.Case.ClaimID,
			"denial_codes": req.Case.DenialCodes,
			"reason":       reason,
		}); recordErr != nil {
			return model.WorkflowOutcome{}, recordErr
		}
		slog.Warn("Coding review found nothing to correct, escalating",
			"claim_id", req.Case.ClaimID,
			"record_id", req.RecordID,
			"reason", reason)
		return h.fallback.Escalate(ctx, req, reason)
	}

	corrected := make([]string, 0, len(corrections))
	correctionPayload := make([]map[string]any, 0, len(corrections))
	for _, c := range corrections {
		corrected = append(corrected, c.CorrectedCode)
		correctionPayload = append(correctionPayload, map[string]any{
			"original_code":  c.OriginalCode,
			"corrected_code": c.CorrectedCode,
			"rationale":      c.Rationale,
		})
	}

	if err := h.appendAction(ctx, req.RecordID, "coding_analysis", model.ActionCompleted, map[string]any{
		"claim_id":     req.Case.ClaimID,
		"denial_codes": req.Case.DenialCodes,
		"corrections":  correctionPayload,
	}); err != nil {
		return model.WorkflowOutcome{}, err
	}
	if err := h.appendAction(ctx, req.RecordID, "codes_corrected", model.ActionCompleted, map[string]any{
		"claim_id":        req.Case.ClaimID,
		"corrected_codes": corrected,
	}); err != nil {
		return model.WorkflowOutcome{}, err
	}

	return model.WorkflowOutcome{
		Workflow: model.WorkflowCodeReviewAndCorrect,
		ActionsTaken: []string{
			fmt.Sprintf("Analyzed coding issue and identified %d correction(s)", len(corrections)),
			"Applied corrected codes to claim",
		},
		EstimatedCompletion: h.now().Add(codeCorrectCompletionOffset),
		SuccessProbability:  codeCorrectSuccessProbability,
		Details:             map[string]any{"corrected_codes": corrected},
	}, nil
}
