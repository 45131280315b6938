// Package workflow implements the nine remediation workflow handlers and the
// dispatcher that routes classified denials to them. Every handler appends its
// sub-steps to the audit trail before returning, and any handler that cannot
// satisfy a required precondition delegates to the manual-review fallback.
package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/helixbill/denialflow/internal/common"
	"github.com/helixbill/denialflow/internal/knowledge"
	"github.com/helixbill/denialflow/internal/model"
	"github.com/helixbill/denialflow/internal/service"
)

// Request carries everything a handler needs to execute its workflow.
type Request struct {
	RecordID       string
	Case           model.DenialCase
	Classification model.ClassificationResult
	Entry          knowledge.Entry
}

// Handler executes one resolution workflow for a classified denial.
type Handler interface {
	// Workflow identifies which workflow this handler implements.
	Workflow() model.ResolutionWorkflow
	// Execute performs the workflow's sub-steps, appending each to the audit
	// trail. A failed precondition is not an error: the handler returns the
	// manual-review outcome instead. Errors are reserved for failures that
	// must reach the orchestrator, audit persistence above all.
	Execute(ctx context.Context, req Request) (model.WorkflowOutcome, error)
}

// baseHandler carries the audit recorder and clock shared by all handlers.
type baseHandler struct {
	audit service.AuditRecorder
	now   func() time.Time
}

// appendAction writes one audit entry. A persistence failure wraps
// ErrAuditPersistence so the orchestrator can refuse to mark the record
// resolved.
func (b baseHandler) appendAction(ctx context.Context, recordID, actionType string, status model.ActionStatus, payload map[string]any) error {
	action := &model.RemediationAction{
		ID:             uuid.NewString(),
		DenialRecordID: recordID,
		ActionType:     actionType,
		Payload:        payload,
		Status:         status,
		ExecutedAt:     b.now(),
	}
	if err := b.audit.AppendAction(ctx, action); err != nil {
		return fmt.Errorf("%w: append %s: %v", common.ErrAuditPersistence, actionType, err)
	}
	return nil
}

// callExternal runs one collaborator call with a per-attempt timeout and
// bounded retries. Exhausting the retries is a failed precondition for the
// calling handler, never an indefinite block.
func callExternal(ctx context.Context, timeout time.Duration, retry service.RetryOptions, call func(context.Context) error) error {
	return common.WithRetry(ctx, func() error {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return call(callCtx)
	}, retry)
}
