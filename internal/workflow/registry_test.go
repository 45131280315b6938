package workflow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/helixbill/denialflow/internal/knowledge"
	"github.com/helixbill/denialflow/internal/model"
	"github.com/helixbill/denialflow/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryAudit collects appended actions in memory and can be told to fail.
type memoryAudit struct {
	mu      sync.Mutex
	actions []model.RemediationAction
	failErr error
}

func (a *memoryAudit) AppendAction(_ context.Context, action *model.RemediationAction) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failErr != nil {
		return a.failErr
	}
	a.actions = append(a.actions, *action)
	return nil
}

func (a *memoryAudit) Actions() []model.RemediationAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]model.RemediationAction, len(a.actions))
	copy(out, a.actions)
	return out
}

// memoryRecords is a RecordFinder double.
type memoryRecords struct {
	records []model.DenialRecord
	err     error
}

func (r *memoryRecords) GetDenialRecordsByClaimID(_ context.Context, claimID string) ([]model.DenialRecord, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []model.DenialRecord
	for _, rec := range r.records {
		if rec.Case.ClaimID == claimID {
			out = append(out, rec)
		}
	}
	return out, nil
}

var testClock = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type testFixture struct {
	registry *Registry
	audit    *memoryAudit
	auth     *MockAuthorizationClient
	coding   *MockCodingReviewer
	elig     *MockEligibilityClient
	records  *memoryRecords
}

func newFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{
		audit: &memoryAudit{},
		auth: &MockAuthorizationClient{
			Result: service.AuthorizationResult{Requestable: true, AuthorizationNumber: "AUTH-9001"},
		},
		coding: &MockCodingReviewer{
			Corrections: []service.CodeCorrection{
				{OriginalCode: "99213", CorrectedCode: "99214", Rationale: "documentation supports higher level"},
			},
		},
		elig:    &MockEligibilityClient{Result: service.EligibilityResult{Eligible: true, PlanName: "PPO Gold"}},
		records: &memoryRecords{},
	}

	registry, err := NewRegistry(Config{
		Audit:       f.audit,
		Records:     f.records,
		Authorizer:  f.auth,
		Coding:      f.coding,
		Eligibility: f.elig,
		Now:         func() time.Time { return testClock },
		CallTimeout: 200 * time.Millisecond,
		Retry:       service.RetryOptions{MaxAttempts: 1, InitialDelay: time.Millisecond},
	})
	require.NoError(t, err)
	f.registry = registry
	return f
}

func testRequest(cause model.DenialCause) Request {
	kb := knowledge.New()
	entry, _ := kb.Lookup(cause)
	return Request{
		RecordID: "rec-1",
		Case: model.DenialCase{
			ClaimID:     "CLM-5001",
			DenialCodes: []string{"CO_16"},
			Claim: model.ClaimSnapshot{
				PatientID:   "PAT-1",
				ProviderID:  "PRV-1",
				ClaimAmount: 1200,
				ServiceDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		Classification: model.ClassificationResult{
			Cause:       cause,
			Confidence:  0.5,
			Subcategory: entry.Subcategory,
		},
		Entry: entry,
	}
}

func TestNewRegistry_CompleteAndValidated(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.registry.ValidateAgainst(knowledge.New()))

	for _, w := range model.AllWorkflows() {
		handler, ok := f.registry.handlers[w]
		require.True(t, ok, "no handler for workflow %s", w)
		assert.Equal(t, w, handler.Workflow())
	}
}

func TestNewRegistry_MissingCollaborator(t *testing.T) {
	_, err := NewRegistry(Config{})
	require.Error(t, err)
}

func TestDispatch_UnknownWorkflow(t *testing.T) {
	f := newFixture(t)

	_, err := f.registry.Dispatch(context.Background(), "NOT_A_WORKFLOW", testRequest(model.CauseOther))
	require.Error(t, err)
}

func TestDispatch_EveryWorkflowAppendsAudit(t *testing.T) {
	kb := knowledge.New()

	for _, cause := range model.AllCauses() {
		f := newFixture(t)
		entry, _ := kb.Lookup(cause)

		outcome, err := f.registry.Dispatch(context.Background(), entry.Workflow, testRequest(cause))
		require.NoError(t, err, "workflow %s", entry.Workflow)

		assert.NotEmpty(t, outcome.ActionsTaken, "workflow %s", entry.Workflow)
		assert.GreaterOrEqual(t, outcome.SuccessProbability, 0.0)
		assert.LessOrEqual(t, outcome.SuccessProbability, 1.0)
		assert.NotEmpty(t, f.audit.Actions(), "workflow %s must append at least one action", entry.Workflow)
	}
}
