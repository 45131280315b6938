package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/helixbill/denialflow/internal/model"
	"github.com/helixbill/denialflow/internal/service"
)

// MockAuthorizationClient is a test double for the payer authorization
// system.
type MockAuthorizationClient struct {
	Err    error
	Result service.AuthorizationResult
	mu     sync.Mutex
	calls  int
}

// RequestAuthorization implements service.AuthorizationClient.
func (m *MockAuthorizationClient) RequestAuthorization(_ context.Context, _ string, _ model.ClaimSnapshot) (service.AuthorizationResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.Err != nil {
		return service.AuthorizationResult{}, m.Err
	}
	return m.Result, nil
}

// Calls returns how many times the client was invoked.
func (m *MockAuthorizationClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockCodingReviewer is a test double for the coding analysis system.
type MockCodingReviewer struct {
	Err         error
	Corrections []service.CodeCorrection
	mu          sync.Mutex
	calls       int
}

// SuggestCorrections implements service.CodingReviewer.
func (m *MockCodingReviewer) SuggestCorrections(_ context.Context, _ model.DenialCase) ([]service.CodeCorrection, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Corrections, nil
}

// Calls returns how many times the reviewer was invoked.
func (m *MockCodingReviewer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockEligibilityClient is a test double for the eligibility system.
type MockEligibilityClient struct {
	Err    error
	Result service.EligibilityResult
	Delay  time.Duration
	mu     sync.Mutex
	calls  int
}

// CheckEligibility implements service.EligibilityClient.
func (m *MockEligibilityClient) CheckEligibility(ctx context.Context, _ string, _ time.Time) (service.EligibilityResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return service.EligibilityResult{}, ctx.Err()
		case <-time.After(m.Delay):
		}
	}
	if m.Err != nil {
		return service.EligibilityResult{}, m.Err
	}
	return m.Result, nil
}

// Calls returns how many times the client was invoked.
func (m *MockEligibilityClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
