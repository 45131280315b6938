// Package service defines the contracts between the denialflow engine and its
// collaborators: persistence, and the external systems workflow handlers call.
package service

import (
	"context"
	"time"

	"github.com/helixbill/denialflow/internal/model"
)

// Storage defines the contract for the persistence layer.
type Storage interface {
	// Denial record operations
	CreateDenialRecord(ctx context.Context, record *model.DenialRecord) error
	GetDenialRecord(ctx context.Context, id string) (*model.DenialRecord, error)
	GetDenialRecordsByClaimID(ctx context.Context, claimID string) ([]model.DenialRecord, error)
	GetDenialRecordsByStatus(ctx context.Context, status model.DenialRecordStatus) ([]model.DenialRecord, error)
	UpdateDenialRecordStatus(ctx context.Context, id string, status model.DenialRecordStatus) error
	SaveClassification(ctx context.Context, id string, result model.ClassificationResult, workflow model.ResolutionWorkflow, priority int) error

	// Audit trail operations
	AppendAction(ctx context.Context, action *model.RemediationAction) error
	GetActions(ctx context.Context, denialRecordID string) ([]model.RemediationAction, error)

	// Database management
	Migrate(ctx context.Context) error
	SchemaVersion(ctx context.Context) (int, error)
	Close() error
}

// AuditRecorder is the append-only audit trail as handlers see it.
type AuditRecorder interface {
	AppendAction(ctx context.Context, action *model.RemediationAction) error
}

// RecordFinder looks up prior denial records for a claim. The duplicate
// investigation workflow uses it to find earlier submissions.
type RecordFinder interface {
	GetDenialRecordsByClaimID(ctx context.Context, claimID string) ([]model.DenialRecord, error)
}

// AuthorizationResult is the payer authorization system's answer.
type AuthorizationResult struct {
	AuthorizationNumber string
	Requestable         bool
}

// AuthorizationClient requests retroactive authorization from the payer.
type AuthorizationClient interface {
	RequestAuthorization(ctx context.Context, claimID string, claim model.ClaimSnapshot) (AuthorizationResult, error)
}

// CodeCorrection is one suggested replacement for a billed code.
type CodeCorrection struct {
	OriginalCode  string `json:"original_code"`
	CorrectedCode string `json:"corrected_code"`
	Rationale     string `json:"rationale"`
}

// CodingReviewer analyzes a denied claim's coding and suggests corrections.
// An empty suggestion list means no corrections could be identified.
type CodingReviewer interface {
	SuggestCorrections(ctx context.Context, denial model.DenialCase) ([]CodeCorrection, error)
}

// EligibilityResult is the eligibility system's answer for one patient and
// service date. Ineligible is a normal answer, not an error.
type EligibilityResult struct {
	PlanName string
	Notes    string
	Eligible bool
}

// EligibilityClient checks patient eligibility for a service date.
type EligibilityClient interface {
	CheckEligibility(ctx context.Context, patientID string, serviceDate time.Time) (EligibilityResult, error)
}

// RetryOptions configures retry behavior for external collaborator calls.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
