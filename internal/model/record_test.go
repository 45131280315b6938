package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDenialRecordStatus_CanTransition(t *testing.T) {
	tests := []struct {
		name string
		from DenialRecordStatus
		to   DenialRecordStatus
		want bool
	}{
		{"received to classifying", StatusReceived, StatusClassifying, true},
		{"classifying to classified", StatusClassifying, StatusClassified, true},
		{"classified to executing", StatusClassified, StatusExecutingWorkflow, true},
		{"executing to resolved", StatusExecutingWorkflow, StatusResolved, true},
		{"executing to escalated", StatusExecutingWorkflow, StatusEscalated, true},
		{"any non-terminal to failed", StatusReceived, StatusFailed, true},
		{"classifying to failed", StatusClassifying, StatusFailed, true},
		{"executing to failed", StatusExecutingWorkflow, StatusFailed, true},
		{"no skipping classification", StatusReceived, StatusClassified, false},
		{"no skipping to resolution", StatusClassified, StatusResolved, false},
		{"no backwards transition", StatusClassified, StatusClassifying, false},
		{"resolved is terminal", StatusResolved, StatusEscalated, false},
		{"escalated is terminal", StatusEscalated, StatusResolved, false},
		{"failed is terminal", StatusFailed, StatusReceived, false},
		{"no reopen from resolved", StatusResolved, StatusClassifying, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestDenialRecordStatus_Terminal(t *testing.T) {
	terminal := []DenialRecordStatus{StatusResolved, StatusEscalated, StatusFailed}
	for _, s := range terminal {
		assert.True(t, s.Terminal(), "status %s should be terminal", s)
	}

	active := []DenialRecordStatus{StatusReceived, StatusClassifying, StatusClassified, StatusExecutingWorkflow}
	for _, s := range active {
		assert.False(t, s.Terminal(), "status %s should not be terminal", s)
	}
}

func TestAllCauses(t *testing.T) {
	causes := AllCauses()
	assert.Len(t, causes, 9)
	assert.Equal(t, CauseMissingAuthorization, causes[0], "missing authorization must be declared first")
	assert.Equal(t, CauseOther, causes[len(causes)-1], "OTHER must be declared last")

	for _, c := range causes {
		assert.True(t, c.Valid())
	}
	assert.False(t, DenialCause("BAD_CAUSE").Valid())
}

func TestAllWorkflows(t *testing.T) {
	workflows := AllWorkflows()
	assert.Len(t, workflows, 9)
	assert.Equal(t, WorkflowManualReview, workflows[len(workflows)-1])

	for _, w := range workflows {
		assert.True(t, w.Valid())
	}
	assert.False(t, ResolutionWorkflow("BAD_WORKFLOW").Valid())
}
