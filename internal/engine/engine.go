// Package engine orchestrates the denial remediation pipeline: record
// creation, classification, workflow dispatch, and the final status.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/helixbill/denialflow/internal/common"
	"github.com/helixbill/denialflow/internal/knowledge"
	"github.com/helixbill/denialflow/internal/model"
	"github.com/helixbill/denialflow/internal/service"
	"github.com/helixbill/denialflow/internal/signal"
	"github.com/helixbill/denialflow/internal/workflow"
)

// Result is the outcome of processing one denial case end to end.
type Result struct {
	Classification *model.ClassificationResult
	Response       *model.ClassificationResponse
	Outcome        *model.WorkflowOutcome
	DenialRecordID string
	Status         model.DenialRecordStatus
}

// Orchestrator runs denial cases through classification and remediation. It is
// safe for concurrent use; an in-memory guard rejects a second pipeline for a
// claim that already has one in flight.
type Orchestrator struct {
	storage    service.Storage
	classifier *signal.Classifier
	kb         *knowledge.Base
	registry   *workflow.Registry
	now        func() time.Time

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// New builds an orchestrator and validates the cause-to-workflow routing end
// to end before accepting any work.
func New(store service.Storage, kb *knowledge.Base, registry *workflow.Registry) (*Orchestrator, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: storage is required", common.ErrMissingConfig)
	}
	if kb == nil {
		return nil, fmt.Errorf("%w: knowledge base is required", common.ErrMissingConfig)
	}
	if registry == nil {
		return nil, fmt.Errorf("%w: workflow registry is required", common.ErrMissingConfig)
	}
	if err := registry.ValidateAgainst(kb); err != nil {
		return nil, fmt.Errorf("workflow routing validation failed: %w", err)
	}

	classifier, err := signal.NewClassifier(kb)
	if err != nil {
		return nil, fmt.Errorf("failed to build classifier: %w", err)
	}

	return &Orchestrator{
		storage:    store,
		classifier: classifier,
		kb:         kb,
		registry:   registry,
		now:        func() time.Time { return time.Now().UTC() },
		inFlight:   make(map[string]struct{}),
	}, nil
}

// ProcessDenial runs one denial case through the full pipeline. Validation
// failures reject the case before any record exists. After the record is
// created, every failure path lands the record in a terminal status.
func (o *Orchestrator) ProcessDenial(ctx context.Context, denial model.DenialCase) (*Result, error) {
	if err := denial.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrValidation, err)
	}

	if err := o.acquire(denial.ClaimID); err != nil {
		return nil, err
	}
	defer o.release(denial.ClaimID)

	now := o.now()
	record := &model.DenialRecord{
		ID:        uuid.NewString(),
		Case:      denial,
		Status:    model.StatusReceived,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := o.storage.CreateDenialRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create denial record: %w", err)
	}

	result := &Result{DenialRecordID: record.ID}

	if err := o.transition(ctx, record.ID, model.StatusClassifying); err != nil {
		return o.fail(ctx, result, err)
	}

	classification := o.classifier.Classify(denial)
	entry, ok := o.kb.Lookup(classification.Cause)
	if !ok {
		return o.fail(ctx, result, fmt.Errorf("%w: no knowledge for cause %s",
			common.ErrClassification, classification.Cause))
	}
	priority := o.kb.PriorityFor(classification.Cause, denial.Claim.ClaimAmount)

	if err := o.storage.SaveClassification(ctx, record.ID, classification, entry.Workflow, priority); err != nil {
		return o.fail(ctx, result, fmt.Errorf("failed to save classification: %w", err))
	}
	result.Classification = &classification
	result.Response = buildResponse(denial.ClaimID, classification, entry, priority)

	slog.Info("Denial classified",
		"record_id", record.ID,
		"claim_id", denial.ClaimID,
		"cause", classification.Cause,
		"confidence", classification.Confidence,
		"workflow", entry.Workflow,
		"priority", priority)

	if err := o.transition(ctx, record.ID, model.StatusExecutingWorkflow); err != nil {
		return o.fail(ctx, result, err)
	}

	outcome, err := o.registry.Dispatch(ctx, entry.Workflow, workflow.Request{
		RecordID:       record.ID,
		Case:           denial,
		Classification: classification,
		Entry:          entry,
	})
	if err != nil {
		return o.fail(ctx, result, fmt.Errorf("workflow execution failed: %w", err))
	}
	result.Outcome = &outcome

	final := model.StatusResolved
	if outcome.Escalated() {
		final = model.StatusEscalated
	}
	if err := o.transition(ctx, record.ID, final); err != nil {
		return o.fail(ctx, result, err)
	}
	result.Status = final

	slog.Info("Denial pipeline finished",
		"record_id", record.ID,
		"claim_id", denial.ClaimID,
		"status", final,
		"workflow", outcome.Workflow)
	return result, nil
}

// ClassifyOnly classifies a denial case without creating a record or running
// any workflow. Used for dry runs and API previews.
func (o *Orchestrator) ClassifyOnly(denial model.DenialCase) (*model.ClassificationResponse, error) {
	if err := denial.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrValidation, err)
	}

	classification := o.classifier.Classify(denial)
	entry, ok := o.kb.Lookup(classification.Cause)
	if !ok {
		return nil, fmt.Errorf("%w: no knowledge for cause %s",
			common.ErrClassification, classification.Cause)
	}
	priority := o.kb.PriorityFor(classification.Cause, denial.Claim.ClaimAmount)
	return buildResponse(denial.ClaimID, classification, entry, priority), nil
}

func (o *Orchestrator) acquire(claimID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.inFlight[claimID]; busy {
		return fmt.Errorf("claim %s: %w", claimID, common.ErrAlreadyInFlight)
	}
	o.inFlight[claimID] = struct{}{}
	return nil
}

func (o *Orchestrator) release(claimID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.inFlight, claimID)
}

func (o *Orchestrator) transition(ctx context.Context, id string, status model.DenialRecordStatus) error {
	if err := o.storage.UpdateDenialRecordStatus(ctx, id, status); err != nil {
		return fmt.Errorf("failed to move record %s to %s: %w", id, status, err)
	}
	return nil
}

// fail lands the record in the failed status and returns the original error.
// The write uses a context detached from cancellation so a canceled pipeline
// still leaves a terminal record behind.
func (o *Orchestrator) fail(ctx context.Context, result *Result, cause error) (*Result, error) {
	result.Status = model.StatusFailed
	markCtx := context.WithoutCancel(ctx)
	if err := o.storage.UpdateDenialRecordStatus(markCtx, result.DenialRecordID, model.StatusFailed); err != nil {
		slog.Error("Failed to mark denial record failed",
			"record_id", result.DenialRecordID,
			"error", err)
	}
	return result, cause
}

func buildResponse(claimID string, classification model.ClassificationResult, entry knowledge.Entry, priority int) *model.ClassificationResponse {
	return &model.ClassificationResponse{
		ClaimID:                   claimID,
		CauseCategory:             classification.Cause,
		Confidence:                classification.Confidence,
		Subcategory:               classification.Subcategory,
		ResolutionWorkflow:        entry.Workflow,
		RecommendedActions:        entry.RecommendedActions,
		AppealSuccessProbability:  entry.AppealSuccessProb,
		PriorityScore:             priority,
		EstimatedResolutionHours:  entry.ResolutionHours,
		AutomatedActionsAvailable: entry.Workflow != model.WorkflowManualReview,
	}
}
