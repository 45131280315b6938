package model

// SignalSource identifies one of the three independent evidence extractors.
type SignalSource string

// Signal source constants, in combiner priority order.
const (
	SignalCode    SignalSource = "code"
	SignalText    SignalSource = "text"
	SignalPattern SignalSource = "pattern"
)

// Signal is one extractor's verdict: a cause and how sure the extractor is.
type Signal struct {
	Source     SignalSource `json:"source"`
	Cause      DenialCause  `json:"cause"`
	Confidence float64      `json:"confidence"`
}

// ClassificationResult is the combined verdict over all three signals. The
// per-signal breakdown is retained for traceability.
type ClassificationResult struct {
	Cause       DenialCause `json:"cause"`
	Confidence  float64     `json:"confidence"`
	Subcategory string      `json:"subcategory"`
	Signals     []Signal    `json:"signals"`
}

// ClassificationResponse is the outbound shape produced for API and reporting
// collaborators.
type ClassificationResponse struct {
	ClaimID                   string             `json:"claim_id"`
	CauseCategory             DenialCause        `json:"cause_category"`
	Confidence                float64            `json:"confidence"`
	Subcategory               string             `json:"subcategory"`
	ResolutionWorkflow        ResolutionWorkflow `json:"resolution_workflow"`
	AppealSuccessProbability  float64            `json:"appeal_success_probability"`
	RecommendedActions        []string           `json:"recommended_actions"`
	PriorityScore             int                `json:"priority_score"`
	EstimatedResolutionHours  int                `json:"estimated_resolution_time_hours"`
	AutomatedActionsAvailable bool               `json:"automated_actions_available"`
}
