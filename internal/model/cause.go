// Package model defines the core domain models for the denialflow engine.
package model

// DenialCause is the classified root reason a claim was denied.
type DenialCause string

// Denial cause constants. The declaration order here is load-bearing:
// extractor and combiner tie-breaks resolve to the earliest declared cause.
const (
	CauseMissingAuthorization      DenialCause = "MISSING_AUTHORIZATION"
	CauseInvalidCode               DenialCause = "INVALID_CODE"
	CauseEligibilityIssue          DenialCause = "ELIGIBILITY_ISSUE"
	CauseDuplicateClaim            DenialCause = "DUPLICATE_CLAIM"
	CauseInsufficientDocumentation DenialCause = "INSUFFICIENT_DOCUMENTATION"
	CauseMedicalNecessity          DenialCause = "MEDICAL_NECESSITY"
	CauseTimelyFiling              DenialCause = "TIMELY_FILING"
	CauseCoordinationOfBenefits    DenialCause = "COORDINATION_OF_BENEFITS"
	CauseOther                     DenialCause = "OTHER"
)

// AllCauses returns every denial cause in declaration order.
func AllCauses() []DenialCause {
	return []DenialCause{
		CauseMissingAuthorization,
		CauseInvalidCode,
		CauseEligibilityIssue,
		CauseDuplicateClaim,
		CauseInsufficientDocumentation,
		CauseMedicalNecessity,
		CauseTimelyFiling,
		CauseCoordinationOfBenefits,
		CauseOther,
	}
}

// Valid reports whether c is one of the enumerated denial causes.
func (c DenialCause) Valid() bool {
	switch c {
	case CauseMissingAuthorization,
		CauseInvalidCode,
		CauseEligibilityIssue,
		CauseDuplicateClaim,
		CauseInsufficientDocumentation,
		CauseMedicalNecessity,
		CauseTimelyFiling,
		CauseCoordinationOfBenefits,
		CauseOther:
		return true
	default:
		return false
	}
}
