package signal

import "github.com/helixbill/denialflow/internal/model"

// codeMapping associates one payer remark code with a denial cause.
type codeMapping struct {
	code  string
	cause model.DenialCause
}

// codeTable maps CARC-style payer remark codes to causes. It is a slice, not
// a map: plurality ties in the code extractor resolve to the cause whose
// first code is declared earliest in this table.
var codeTable = []codeMapping{
	{"CO_16", model.CauseMissingAuthorization},
	{"CO_197", model.CauseMissingAuthorization},

	{"CO_11", model.CauseInvalidCode},
	{"CO_181", model.CauseInvalidCode},
	{"CO_182", model.CauseInvalidCode},

	{"CO_26", model.CauseEligibilityIssue},
	{"CO_27", model.CauseEligibilityIssue},
	{"PR_31", model.CauseEligibilityIssue},
	{"CO_177", model.CauseEligibilityIssue},

	{"CO_18", model.CauseDuplicateClaim},

	{"CO_252", model.CauseInsufficientDocumentation},
	{"CO_226", model.CauseInsufficientDocumentation},

	{"CO_50", model.CauseMedicalNecessity},
	{"CO_56", model.CauseMedicalNecessity},

	{"CO_29", model.CauseTimelyFiling},

	{"CO_22", model.CauseCoordinationOfBenefits},
	{"CO_23", model.CauseCoordinationOfBenefits},
}
