package model

// ResolutionWorkflow is the bounded remediation procedure assigned to a
// classified denial.
type ResolutionWorkflow string

// Resolution workflow constants. MANUAL_REVIEW is the universal fallback and
// is reachable from any handler, not only from the OTHER cause.
const (
	WorkflowResubmitWithAuth     ResolutionWorkflow = "RESUBMIT_WITH_AUTH"
	WorkflowCodeReviewAndCorrect ResolutionWorkflow = "CODE_REVIEW_AND_CORRECT"
	WorkflowVerifyEligibility    ResolutionWorkflow = "VERIFY_ELIGIBILITY"
	WorkflowInvestigateDuplicate ResolutionWorkflow = "INVESTIGATE_DUPLICATE"
	WorkflowRequestDocumentation ResolutionWorkflow = "REQUEST_DOCUMENTATION"
	WorkflowMedicalReview        ResolutionWorkflow = "MEDICAL_REVIEW"
	WorkflowAppealFiling         ResolutionWorkflow = "APPEAL_FILING"
	WorkflowCOBCoordination      ResolutionWorkflow = "COB_COORDINATION"
	WorkflowManualReview         ResolutionWorkflow = "MANUAL_REVIEW"
)

// AllWorkflows returns every resolution workflow in declaration order.
func AllWorkflows() []ResolutionWorkflow {
	return []ResolutionWorkflow{
		WorkflowResubmitWithAuth,
		WorkflowCodeReviewAndCorrect,
		WorkflowVerifyEligibility,
		WorkflowInvestigateDuplicate,
		WorkflowRequestDocumentation,
		WorkflowMedicalReview,
		WorkflowAppealFiling,
		WorkflowCOBCoordination,
		WorkflowManualReview,
	}
}

// Valid reports whether w is one of the enumerated workflows.
func (w ResolutionWorkflow) Valid() bool {
	switch w {
	case WorkflowResubmitWithAuth,
		WorkflowCodeReviewAndCorrect,
		WorkflowVerifyEligibility,
		WorkflowInvestigateDuplicate,
		WorkflowRequestDocumentation,
		WorkflowMedicalReview,
		WorkflowAppealFiling,
		WorkflowCOBCoordination,
		WorkflowManualReview:
		return true
	default:
		return false
	}
}
