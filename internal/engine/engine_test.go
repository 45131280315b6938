package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixbill/denialflow/internal/common"
	"github.com/helixbill/denialflow/internal/knowledge"
	"github.com/helixbill/denialflow/internal/model"
	"github.com/helixbill/denialflow/internal/service"
	"github.com/helixbill/denialflow/internal/storage"
	"github.com/helixbill/denialflow/internal/testutil"
	"github.com/helixbill/denialflow/internal/workflow"
)

type engineFixture struct {
	orchestrator *Orchestrator
	store        *storage.SQLiteStorage
	auth         *workflow.MockAuthorizationClient
	coding       *workflow.MockCodingReviewer
	elig         service.EligibilityClient
}

type fixtureOption func(*engineFixture)

func withEligibility(client service.EligibilityClient) fixtureOption {
	return func(f *engineFixture) { f.elig = client }
}

func newEngineFixture(t *testing.T, opts ...fixtureOption) *engineFixture {
	t.Helper()

	f := &engineFixture{
		store: testutil.SetupTestDB(t),
		auth: &workflow.MockAuthorizationClient{
			Result: service.AuthorizationResult{Requestable: true, AuthorizationNumber: "AUTH-7001"},
		},
		coding: &workflow.MockCodingReviewer{
			Corrections: []service.CodeCorrection{
				{OriginalCode: "99213", CorrectedCode: "99214"},
			},
		},
		elig: &workflow.MockEligibilityClient{
			Result: service.EligibilityResult{Eligible: true, PlanName: "PPO Gold"},
		},
	}
	for _, opt := range opts {
		opt(f)
	}

	kb := knowledge.New()
	registry, err := workflow.NewRegistry(workflow.Config{
		Audit:       f.store,
		Records:     f.store,
		Authorizer:  f.auth,
		Coding:      f.coding,
		Eligibility: f.elig,
		CallTimeout: 2 * time.Second,
		Retry:       service.RetryOptions{MaxAttempts: 1, InitialDelay: time.Millisecond},
	})
	require.NoError(t, err)

	f.orchestrator, err = New(f.store, kb, registry)
	require.NoError(t, err)
	return f
}

func authDenial(claimID string) model.DenialCase {
	return model.DenialCase{
		ClaimID:          claimID,
		DenialCodes:      []string{"CO_197"},
		DenialReasonText: "prior authorization was not obtained for this service",
		Claim: model.ClaimSnapshot{
			PatientID:   "PAT-1",
			ProviderID:  "PRV-1",
			ClaimAmount: 1800,
			ServiceDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestProcessDenial_AuthorizationResolved(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	result, err := f.orchestrator.ProcessDenial(ctx, authDenial("CLM-1001"))
	require.NoError(t, err)

	assert.Equal(t, model.StatusResolved, result.Status)
	require.NotNil(t, result.Classification)
	assert.Equal(t, model.CauseMissingAuthorization, result.Classification.Cause)
	require.NotNil(t, result.Outcome)
	assert.Equal(t, model.WorkflowResubmitWithAuth, result.Outcome.Workflow)

	record, err := f.store.GetDenialRecord(ctx, result.DenialRecordID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, record.Status)
	assert.Equal(t, model.WorkflowResubmitWithAuth, record.AssignedWorkflow)
	require.NotNil(t, record.Classification)
	assert.Equal(t, model.CauseMissingAuthorization, record.Classification.Cause)

	actions, err := f.store.GetActions(ctx, result.DenialRecordID)
	require.NoError(t, err)
	assert.NotEmpty(t, actions, "every processed denial leaves an audit trail")
}

func TestProcessDenial_NotRequestableEscalates(t *testing.T) {
	f := newEngineFixture(t)
	f.auth.Result.Requestable = false
	ctx := context.Background()

	result, err := f.orchestrator.ProcessDenial(ctx, authDenial("CLM-1002"))
	require.NoError(t, err)

	assert.Equal(t, model.StatusEscalated, result.Status)
	require.NotNil(t, result.Outcome)
	assert.True(t, result.Outcome.Escalated())

	record, err := f.store.GetDenialRecord(ctx, result.DenialRecordID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusEscalated, record.Status)

	actions, err := f.store.GetActions(ctx, result.DenialRecordID)
	require.NoError(t, err)
	require.NotEmpty(t, actions)
	assert.Equal(t, "manual_review_queued", actions[len(actions)-1].ActionType)
}

func TestProcessDenial_ValidationCreatesNoRecord(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	_, err := f.orchestrator.ProcessDenial(ctx, model.DenialCase{ClaimID: "CLM-1003"})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)

	records, err := f.store.GetDenialRecordsByClaimID(ctx, "CLM-1003")
	require.NoError(t, err)
	assert.Empty(t, records, "validation failures must not create records")
}

// gatedEligibility blocks inside the eligibility call until released, so a
// test can observe the pipeline mid-flight.
type gatedEligibility struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedEligibility) CheckEligibility(ctx context.Context, _ string, _ time.Time) (service.EligibilityResult, error) {
	g.once.Do(func() { close(g.entered) })
	select {
	case <-g.release:
		return service.EligibilityResult{Eligible: true}, nil
	case <-ctx.Done():
		return service.EligibilityResult{}, ctx.Err()
	}
}

func TestProcessDenial_RejectsClaimAlreadyInFlight(t *testing.T) {
	gate := &gatedEligibility{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	f := newEngineFixture(t, withEligibility(gate))
	ctx := context.Background()

	denial := model.DenialCase{
		ClaimID:          "CLM-2001",
		DenialReasonText: "patient not eligible on date of service, coverage terminated",
		Claim: model.ClaimSnapshot{
			PatientID:   "PAT-2",
			ServiceDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	done := make(chan error, 1)
	go func() {
		_, err := f.orchestrator.ProcessDenial(ctx, denial)
		done <- err
	}()

	<-gate.entered
	_, err := f.orchestrator.ProcessDenial(ctx, denial)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrAlreadyInFlight)

	close(gate.release)
	require.NoError(t, <-done)

	// Once the first pipeline finishes the claim may be processed again.
	result, err := f.orchestrator.ProcessDenial(ctx, denial)
	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, result.Status)
}

// failingAudit wraps real storage and fails every audit append.
type failingAudit struct {
	service.Storage
}

func (f *failingAudit) AppendAction(context.Context, *model.RemediationAction) error {
	return common.ErrAuditPersistence
}

func TestProcessDenial_AuditFailureLandsRecordInFailed(t *testing.T) {
	store := testutil.SetupTestDB(t)
	kb := knowledge.New()

	registry, err := workflow.NewRegistry(workflow.Config{
		Audit:       &failingAudit{Storage: store},
		Records:     store,
		Authorizer:  &workflow.MockAuthorizationClient{Result: service.AuthorizationResult{Requestable: true}},
		Coding:      &workflow.MockCodingReviewer{},
		Eligibility: &workflow.MockEligibilityClient{},
		Retry:       service.RetryOptions{MaxAttempts: 1, InitialDelay: time.Millisecond},
	})
	require.NoError(t, err)

	orchestrator, err := New(store, kb, registry)
	require.NoError(t, err)

	ctx := context.Background()
	result, err := orchestrator.ProcessDenial(ctx, authDenial("CLM-3001"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrAuditPersistence)
	assert.Equal(t, model.StatusFailed, result.Status)

	record, getErr := store.GetDenialRecord(ctx, result.DenialRecordID)
	require.NoError(t, getErr)
	assert.Equal(t, model.StatusFailed, record.Status, "a broken audit trail must never leave a record resolved")
}

func TestProcessDenial_ExternalErrorEscalates(t *testing.T) {
	f := newEngineFixture(t)
	f.auth.Err = errors.New("payer portal unavailable")
	ctx := context.Background()

	result, err := f.orchestrator.ProcessDenial(ctx, authDenial("CLM-4001"))
	require.NoError(t, err)
	assert.Equal(t, model.StatusEscalated, result.Status)
}

func TestClassifyOnly_MedicalNecessity(t *testing.T) {
	f := newEngineFixture(t)

	response, err := f.orchestrator.ClassifyOnly(model.DenialCase{
		ClaimID:          "CLM-5001",
		DenialReasonText: "claim denied: not medically necessary",
		Claim:            model.ClaimSnapshot{ClaimAmount: 900},
	})
	require.NoError(t, err)

	assert.Equal(t, model.CauseMedicalNecessity, response.CauseCategory)
	assert.Equal(t, model.WorkflowMedicalReview, response.ResolutionWorkflow)
	assert.Equal(t, "Clinical Review", response.Subcategory)
	assert.Equal(t, 120, response.EstimatedResolutionHours)
	assert.True(t, response.AutomatedActionsAvailable)
	assert.NotEmpty(t, response.RecommendedActions)

	records, err := f.store.GetDenialRecordsByClaimID(context.Background(), "CLM-5001")
	require.NoError(t, err)
	assert.Empty(t, records, "dry runs must not persist anything")
}

func TestClassifyOnly_HighAmountRaisesPriority(t *testing.T) {
	f := newEngineFixture(t)

	response, err := f.orchestrator.ClassifyOnly(model.DenialCase{
		ClaimID:     "CLM-5002",
		DenialCodes: []string{"CO_18"},
		Claim:       model.ClaimSnapshot{ClaimAmount: 15000},
	})
	require.NoError(t, err)

	assert.Equal(t, model.CauseDuplicateClaim, response.CauseCategory)
	assert.Equal(t, 6, response.PriorityScore)
}

func TestProcessBatch(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	denials := []model.DenialCase{
		authDenial("CLM-6001"),
		{ClaimID: "CLM-6002"}, // no evidence, rejected up front
		{
			ClaimID:          "CLM-6003",
			DenialReasonText: "service is not medically necessary per policy",
			Claim:            model.ClaimSnapshot{PatientID: "PAT-3"},
		},
	}

	var mu sync.Mutex
	var seen []string
	summary, err := f.orchestrator.ProcessBatch(ctx, denials, BatchOptions{
		Concurrency: 2,
		OnDone: func(item BatchItem) {
			mu.Lock()
			seen = append(seen, item.Case.ClaimID)
			mu.Unlock()
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.Rejected)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 2, summary.Resolved)
	assert.Len(t, seen, 3)

	require.Len(t, summary.Items, 3)
	assert.ErrorIs(t, summary.Items[1].Err, common.ErrValidation)
}
