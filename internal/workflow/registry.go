package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/helixbill/denialflow/internal/common"
	"github.com/helixbill/denialflow/internal/knowledge"
	"github.com/helixbill/denialflow/internal/model"
	"github.com/helixbill/denialflow/internal/service"
)

// DefaultCallTimeout bounds each external collaborator call attempt.
const DefaultCallTimeout = 10 * time.Second

// Config carries the collaborators the handlers depend on.
type Config struct {
	Audit       service.AuditRecorder
	Records     service.RecordFinder
	Authorizer  service.AuthorizationClient
	Coding      service.CodingReviewer
	Eligibility service.EligibilityClient
	Now         func() time.Time
	CallTimeout time.Duration
	Retry       service.RetryOptions
}

// Registry maps each resolution workflow to its handler. It is built once at
// startup and validated for completeness before any dispatch.
type Registry struct {
	handlers map[model.ResolutionWorkflow]Handler
	manual   *ManualReviewHandler
}

// NewRegistry builds all nine handlers and checks that every enumerated
// workflow has exactly one.
func NewRegistry(cfg Config) (*Registry, error) {
	if cfg.Audit == nil {
		return nil, errors.New("workflow registry requires an audit recorder")
	}
	if cfg.Records == nil {
		return nil, errors.New("workflow registry requires a record finder")
	}
	if cfg.Authorizer == nil {
		return nil, errors.New("workflow registry requires an authorization client")
	}
	if cfg.Coding == nil {
		return nil, errors.New("workflow registry requires a coding reviewer")
	}
	if cfg.Eligibility == nil {
		return nil, errors.New("workflow registry requires an eligibility client")
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}

	base := baseHandler{audit: cfg.Audit, now: cfg.Now}
	manual := &ManualReviewHandler{baseHandler: base}

	handlers := []Handler{
		&ResubmitWithAuthHandler{
			baseHandler: base,
			authorizer:  cfg.Authorizer,
			fallback:    manual,
			callTimeout: cfg.CallTimeout,
			retry:       cfg.Retry,
		},
		&CodeReviewHandler{
			baseHandler: base,
			reviewer:    cfg.Coding,
			fallback:    manual,
			callTimeout: cfg.CallTimeout,
			retry:       cfg.Retry,
		},
		&VerifyEligibilityHandler{
			baseHandler: base,
			eligibility: cfg.Eligibility,
			fallback:    manual,
			callTimeout: cfg.CallTimeout,
			retry:       cfg.Retry,
		},
		&InvestigateDuplicateHandler{
			baseHandler: base,
			records:     cfg.Records,
			fallback:    manual,
		},
		&RequestDocumentationHandler{baseHandler: base},
		&MedicalReviewHandler{baseHandler: base},
		&AppealFilingHandler{baseHandler: base},
		&COBCoordinationHandler{baseHandler: base},
		manual,
	}

	registry := &Registry{
		handlers: make(map[model.ResolutionWorkflow]Handler, len(handlers)),
		manual:   manual,
	}
	for _, h := range handlers {
		if _, dup := registry.handlers[h.Workflow()]; dup {
			return nil, fmt.Errorf("duplicate handler registered for workflow %s", h.Workflow())
		}
		registry.handlers[h.Workflow()] = h
	}

	for _, w := range model.AllWorkflows() {
		if _, ok := registry.handlers[w]; !ok {
			return nil, fmt.Errorf("no handler registered for workflow %s", w)
		}
	}

	return registry, nil
}

// ValidateAgainst checks the completeness invariant end to end: every denial
// cause resolves through the knowledge base to a registered handler. Run at
// startup.
func (r *Registry) ValidateAgainst(kb *knowledge.Base) error {
	if err := kb.Validate(); err != nil {
		return err
	}
	for _, cause := range model.AllCauses() {
		entry, ok := kb.Lookup(cause)
		if !ok {
			return fmt.Errorf("knowledge base has no row for cause %s", cause)
		}
		if _, ok := r.handlers[entry.Workflow]; !ok {
			return fmt.Errorf("cause %s resolves to workflow %s which has no handler", cause, entry.Workflow)
		}
	}
	return nil
}

// Dispatch routes a classified denial to its handler. An unexpected handler
// error escalates to manual review; audit persistence failures propagate so
// the record is never marked resolved on a broken trail.
func (r *Registry) Dispatch(ctx context.Context, w model.ResolutionWorkflow, req Request) (model.WorkflowOutcome, error) {
	handler, ok := r.handlers[w]
	if !ok {
		return model.WorkflowOutcome{}, fmt.Errorf("no handler registered for workflow %s", w)
	}

	outcome, err := handler.Execute(ctx, req)
	if err == nil {
		return outcome, nil
	}
	if errors.Is(err, common.ErrAuditPersistence) {
		return model.WorkflowOutcome{}, err
	}
	if w == model.WorkflowManualReview {
		// The fallback itself failed; nothing further to fall back to.
		return model.WorkflowOutcome{}, err
	}

	slog.Error("Workflow handler failed, escalating to manual review",
		"workflow", w,
		"record_id", req.RecordID,
		"error", err)
	return r.manual.Escalate(ctx, req, fmt.Sprintf("workflow %s failed: %v", w, err))
}
