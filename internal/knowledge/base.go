// Package knowledge holds the static cause knowledge base: one row per denial
// cause with its subcategory, assigned workflow, recommended action templates,
// base priority, appeal-success prior, and resolution-time estimate. The base
// is built once at process start and never mutated.
package knowledge

import (
	"fmt"
	"math"

	"github.com/helixbill/denialflow/internal/model"
)

// Claim-amount thresholds for priority adjustment.
const (
	highAmountThreshold = 10000.0
	midAmountThreshold  = 5000.0
)

// Entry is one knowledge-base row.
type Entry struct {
	Cause              model.DenialCause
	Subcategory        string
	Workflow           model.ResolutionWorkflow
	RecommendedActions []string
	AppealSuccessProb  float64
	BasePriority       int
	ResolutionHours    int
}

// Base is the immutable cause knowledge base.
type Base struct {
	entries map[model.DenialCause]Entry
}

// New builds the knowledge base.
func New() *Base {
	rows := []Entry{
		{
			Cause:       model.CauseMissingAuthorization,
			Subcategory: "Authorization & Referral",
			Workflow:    model.WorkflowResubmitWithAuth,
			RecommendedActions: []string{
				"Request retroactive authorization from payer",
				"Attach authorization number to claim",
				"Resubmit claim with authorization",
			},
			BasePriority:      7,
			AppealSuccessProb: 0.75,
			ResolutionHours:   48,
		},
		{
			Cause:       model.CauseInvalidCode,
			Subcategory: "Coding & Billing",
			Workflow:    model.WorkflowCodeReviewAndCorrect,
			RecommendedActions: []string{
				"Review procedure and diagnosis codes against documentation",
				"Apply corrected codes",
				"Resubmit corrected claim",
			},
			BasePriority:      6,
			AppealSuccessProb: 0.65,
			ResolutionHours:   24,
		},
		{
			Cause:       model.CauseEligibilityIssue,
			Subcategory: "Coverage & Eligibility",
			Workflow:    model.WorkflowVerifyEligibility,
			RecommendedActions: []string{
				"Verify patient eligibility for the service date",
				"Confirm plan coverage and benefits",
				"Bill patient or secondary payer if not eligible",
			},
			BasePriority:      8,
			AppealSuccessProb: 0.40,
			ResolutionHours:   72,
		},
		{
			Cause:       model.CauseDuplicateClaim,
			Subcategory: "Billing Integrity",
			Workflow:    model.WorkflowInvestigateDuplicate,
			RecommendedActions: []string{
				"Locate the original claim",
				"Compare service lines for true duplication",
				"Void or appeal as appropriate",
			},
			BasePriority:      5,
			AppealSuccessProb: 0.25,
			ResolutionHours:   12,
		},
		{
			Cause:       model.CauseInsufficientDocumentation,
			Subcategory: "Clinical Documentation",
			Workflow:    model.WorkflowRequestDocumentation,
			RecommendedActions: []string{
				"Identify the missing documentation",
				"Request records from the provider",
				"Submit documentation to payer",
			},
			BasePriority:      6,
			AppealSuccessProb: 0.70,
			ResolutionHours:   96,
		},
		{
			Cause:       model.CauseMedicalNecessity,
			Subcategory: "Clinical Review",
			Workflow:    model.WorkflowMedicalReview,
			RecommendedActions: []string{
				"Obtain clinical notes supporting necessity",
				"Schedule peer-to-peer review",
				"Prepare medical necessity appeal",
			},
			BasePriority:      9,
			AppealSuccessProb: 0.55,
			ResolutionHours:   120,
		},
		{
			Cause:       model.CauseTimelyFiling,
			Subcategory: "Filing Deadlines",
			Workflow:    model.WorkflowAppealFiling,
			RecommendedActions: []string{
				"Gather proof of timely submission",
				"Draft timely filing appeal letter",
				"File appeal with supporting evidence",
			},
			BasePriority:      4,
			AppealSuccessProb: 0.35,
			ResolutionHours:   168,
		},
		{
			Cause:       model.CauseCoordinationOfBenefits,
			Subcategory: "Payer Coordination",
			Workflow:    model.WorkflowCOBCoordination,
			RecommendedActions: []string{
				"Identify the primary payer",
				"Obtain the primary payer's EOB",
				"Rebill with coordination details",
			},
			BasePriority:      6,
			AppealSuccessProb: 0.60,
			ResolutionHours:   72,
		},
		{
			Cause:       model.CauseOther,
			Subcategory: "Unclassified",
			Workflow:    model.WorkflowManualReview,
			RecommendedActions: []string{
				"Route to denial management specialist",
				"Review payer correspondence manually",
			},
			BasePriority:      5,
			AppealSuccessProb: 0.50,
			ResolutionHours:   48,
		},
	}

	entries := make(map[model.DenialCause]Entry, len(rows))
	for _, row := range rows {
		entries[row.Cause] = row
	}
	return &Base{entries: entries}
}

// Lookup returns the row for a cause.
func (b *Base) Lookup(cause model.DenialCause) (Entry, bool) {
	entry, ok := b.entries[cause]
	return entry, ok
}

// Validate checks the completeness invariant: every enumerated cause has
// exactly one row, and every row's workflow is a valid workflow. Run at
// startup, not per classification.
func (b *Base) Validate() error {
	for _, cause := range model.AllCauses() {
		entry, ok := b.entries[cause]
		if !ok {
			return fmt.Errorf("knowledge base has no row for cause %s", cause)
		}
		if !entry.Workflow.Valid() {
			return fmt.Errorf("knowledge base row for cause %s has invalid workflow %s", cause, entry.Workflow)
		}
		if entry.BasePriority < 1 || entry.BasePriority > 10 {
			return fmt.Errorf("knowledge base row for cause %s has base priority %d outside [1,10]", cause, entry.BasePriority)
		}
		if entry.AppealSuccessProb < 0 || entry.AppealSuccessProb > 1 {
			return fmt.Errorf("knowledge base row for cause %s has appeal prior %f outside [0,1]", cause, entry.AppealSuccessProb)
		}
	}
	if len(b.entries) != len(model.AllCauses()) {
		return fmt.Errorf("knowledge base has %d rows, want %d", len(b.entries), len(model.AllCauses()))
	}
	return nil
}

// PriorityFor returns the claim-amount adjusted priority score: +1 above
// 10000, +0.5 above 5000, floored to an integer and clamped to [1,10].
func (b *Base) PriorityFor(cause model.DenialCause, claimAmount float64) int {
	entry, ok := b.entries[cause]
	if !ok {
		entry = b.entries[model.CauseOther]
	}

	priority := float64(entry.BasePriority)
	switch {
	case claimAmount > highAmountThreshold:
		priority++
	case claimAmount > midAmountThreshold:
		priority += 0.5
	}

	score := int(math.Floor(priority))
	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}
	return score
}
