package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ActionStatus is the completion state of one remediation sub-step.
type ActionStatus string

// Action status constants.
const (
	ActionPending   ActionStatus = "pending"
	ActionCompleted ActionStatus = "completed"
	ActionFailed    ActionStatus = "failed"
)

// Valid reports whether s is one of the enumerated action statuses.
func (s ActionStatus) Valid() bool {
	switch s {
	case ActionPending, ActionCompleted, ActionFailed:
		return true
	default:
		return false
	}
}

// RemediationAction is one append-only audit entry: a single workflow sub-step
// with its structured inputs and outputs.
type RemediationAction struct {
	ExecutedAt     time.Time      `json:"executed_at"`
	Payload        map[string]any `json:"payload"`
	ID             string         `json:"id"`
	DenialRecordID string         `json:"denial_record_id"`
	ActionType     string         `json:"action_type"`
	Status         ActionStatus   `json:"status"`
}

// Validate checks the action is well-formed before it enters the audit trail.
func (a *RemediationAction) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return errors.New("action ID is required")
	}
	if strings.TrimSpace(a.DenialRecordID) == "" {
		return errors.New("denial record ID is required")
	}
	if strings.TrimSpace(a.ActionType) == "" {
		return errors.New("action type is required")
	}
	if !a.Status.Valid() {
		return fmt.Errorf("invalid action status: %s", a.Status)
	}
	if a.ExecutedAt.IsZero() {
		return errors.New("executed at is required")
	}
	return nil
}

// WorkflowOutcome is what a handler produces: the human-readable steps taken,
// an estimated completion time and success probability, and any
// workflow-specific extras (authorization numbers, corrected codes).
type WorkflowOutcome struct {
	EstimatedCompletion time.Time          `json:"estimated_completion"`
	Details             map[string]any     `json:"details,omitempty"`
	Workflow            ResolutionWorkflow `json:"workflow_type"`
	ActionsTaken        []string           `json:"actions_taken"`
	SuccessProbability  float64            `json:"success_probability"`
}

// Escalated reports whether the outcome is the manual-review fallback.
func (o *WorkflowOutcome) Escalated() bool {
	return o.Workflow == WorkflowManualReview
}
