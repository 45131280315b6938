package model

import "time"

// DenialRecordStatus tracks a denial record through its forward-only
// lifecycle. There is no reopen transition out of a terminal status.
type DenialRecordStatus string

// Denial record status constants.
const (
	StatusReceived          DenialRecordStatus = "received"
	StatusClassifying       DenialRecordStatus = "classifying"
	StatusClassified        DenialRecordStatus = "classified"
	StatusExecutingWorkflow DenialRecordStatus = "executing_workflow"
	StatusResolved          DenialRecordStatus = "resolved"
	StatusEscalated         DenialRecordStatus = "escalated"
	StatusFailed            DenialRecordStatus = "failed"
)

// Valid reports whether s is one of the enumerated statuses.
func (s DenialRecordStatus) Valid() bool {
	switch s {
	case StatusReceived, StatusClassifying, StatusClassified,
		StatusExecutingWorkflow, StatusResolved, StatusEscalated, StatusFailed:
		return true
	default:
		return false
	}
}

// Terminal reports whether s ends the lifecycle.
func (s DenialRecordStatus) Terminal() bool {
	switch s {
	case StatusResolved, StatusEscalated, StatusFailed:
		return true
	default:
		return false
	}
}

// CanTransition reports whether moving from s to next follows the lifecycle.
// Any non-terminal status may move to failed so a canceled or crashed pipeline
// never leaves a record dangling in an intermediate status.
func (s DenialRecordStatus) CanTransition(next DenialRecordStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == StatusFailed {
		return true
	}
	switch s {
	case StatusReceived:
		return next == StatusClassifying
	case StatusClassifying:
		return next == StatusClassified
	case StatusClassified:
		return next == StatusExecutingWorkflow
	case StatusExecutingWorkflow:
		return next == StatusResolved || next == StatusEscalated
	default:
		return false
	}
}

// DenialRecord is the persisted, mutable record of one denial case moving
// through classification and remediation.
type DenialRecord struct {
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Classification   *ClassificationResult
	ID               string
	Status           DenialRecordStatus
	AssignedWorkflow ResolutionWorkflow
	Case             DenialCase
	PriorityScore    int
}
