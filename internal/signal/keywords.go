package signal

import "github.com/helixbill/denialflow/internal/model"

// keywordRow holds the case-insensitive substrings that indicate one cause.
type keywordRow struct {
	cause    model.DenialCause
	keywords []string
}

// keywordTable is scanned in declaration order; the first cause with a hit
// wins. Rows follow the cause declaration order in model.
var keywordTable = []keywordRow{
	{model.CauseMissingAuthorization, []string{
		"authorization",
		"prior auth",
		"pre-auth",
		"precertification",
		"pre-certification",
		"referral required",
	}},
	{model.CauseInvalidCode, []string{
		"invalid code",
		"incorrect code",
		"invalid procedure",
		"invalid diagnosis",
		"modifier missing",
		"modifier invalid",
		"unbundl",
	}},
	{model.CauseEligibilityIssue, []string{
		"eligib",
		"not covered",
		"coverage terminated",
		"coverage lapsed",
		"member not found",
		"policy lapsed",
	}},
	{model.CauseDuplicateClaim, []string{
		"duplicate",
		"already adjudicated",
		"previously processed",
		"already paid",
	}},
	{model.CauseInsufficientDocumentation, []string{
		"documentation",
		"medical records",
		"records requested",
		"itemized bill",
		"operative report",
	}},
	{model.CauseMedicalNecessity, []string{
		"medically necessary",
		"medical necessity",
		"not necessary",
		"experimental",
		"investigational",
	}},
	{model.CauseTimelyFiling, []string{
		"timely filing",
		"filing limit",
		"filing deadline",
		"submitted late",
		"past the deadline",
	}},
	{model.CauseCoordinationOfBenefits, []string{
		"coordination of benefits",
		"other insurance",
		"primary payer",
		"secondary payer",
		"primary carrier",
	}},
}
