package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Denial case validation errors.
var (
	ErrMissingClaimID = errors.New("claim ID is required")
	ErrNoEvidence     = errors.New("denial case carries no evidence: no denial codes and no reason text")
)

// ClaimSnapshot captures the claim fields relevant to remediation. Beyond the
// amount, which feeds priority adjustment, the snapshot is carried opaquely
// for collaborators and the audit trail.
type ClaimSnapshot struct {
	ServiceDate time.Time `json:"service_date"`
	ProviderID  string    `json:"provider_id"`
	PatientID   string    `json:"patient_id"`
	ClaimAmount float64   `json:"claim_amount"`
}

// DenialCase is the immutable input to the remediation pipeline: one rejected
// claim with its payer remark codes and free-text denial reason.
type DenialCase struct {
	ClaimID          string        `json:"claim_id"`
	DenialCodes      []string      `json:"denial_codes"`
	DenialReasonText string        `json:"denial_reason_text"`
	Claim            ClaimSnapshot `json:"claim_snapshot"`
}

// Validate rejects cases that cannot enter the pipeline. A case with no codes
// and no reason text has nothing for any extractor to work with and is
// rejected before a denial record is created.
func (c *DenialCase) Validate() error {
	if strings.TrimSpace(c.ClaimID) == "" {
		return ErrMissingClaimID
	}
	if len(c.DenialCodes) == 0 && strings.TrimSpace(c.DenialReasonText) == "" {
		return fmt.Errorf("claim %s: %w", c.ClaimID, ErrNoEvidence)
	}
	return nil
}
