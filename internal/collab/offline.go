package collab

import (
	"context"
	"log/slog"
	"time"

	"github.com/helixbill/denialflow/internal/model"
	"github.com/helixbill/denialflow/internal/service"
)

// Offline collaborators stand in when no external system is configured. Each
// returns the conservative answer for its workflow, so unresolvable cases land
// in manual review instead of being resolved on made-up data.

// OfflineAuthorizationClient reports every authorization as not requestable.
type OfflineAuthorizationClient struct{}

// RequestAuthorization implements service.AuthorizationClient.
func (OfflineAuthorizationClient) RequestAuthorization(_ context.Context, claimID string, _ model.ClaimSnapshot) (service.AuthorizationResult, error) {
	slog.Debug("Offline authorization client invoked", "claim_id", claimID)
	return service.AuthorizationResult{Requestable: false}, nil
}

// OfflineEligibilityClient reports coverage as unverifiable.
type OfflineEligibilityClient struct{}

// CheckEligibility implements service.EligibilityClient.
func (OfflineEligibilityClient) CheckEligibility(_ context.Context, patientID string, _ time.Time) (service.EligibilityResult, error) {
	slog.Debug("Offline eligibility client invoked", "patient_id", patientID)
	return service.EligibilityResult{
		Eligible: false,
		Notes:    "eligibility not verified: no eligibility service configured",
	}, nil
}

// OfflineCodingReviewer suggests no corrections.
type OfflineCodingReviewer struct{}

// SuggestCorrections implements service.CodingReviewer.
func (OfflineCodingReviewer) SuggestCorrections(_ context.Context, denial model.DenialCase) ([]service.CodeCorrection, error) {
	slog.Debug("Offline coding reviewer invoked", "claim_id", denial.ClaimID)
	return nil, nil
}
