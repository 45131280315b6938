package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDenialCase_Validate(t *testing.T) {
	tests := []struct {
		name    string
		wantErr error
		c       DenialCase
	}{
		{
			name: "valid with codes only",
			c:    DenialCase{ClaimID: "CLM-1001", DenialCodes: []string{"CO_16"}},
		},
		{
			name: "valid with text only",
			c:    DenialCase{ClaimID: "CLM-1002", DenialReasonText: "not medically necessary"},
		},
		{
			name:    "missing claim ID",
			c:       DenialCase{DenialCodes: []string{"CO_16"}},
			wantErr: ErrMissingClaimID,
		},
		{
			name:    "whitespace claim ID",
			c:       DenialCase{ClaimID: "   ", DenialCodes: []string{"CO_16"}},
			wantErr: ErrMissingClaimID,
		},
		{
			name:    "no evidence at all",
			c:       DenialCase{ClaimID: "CLM-1003"},
			wantErr: ErrNoEvidence,
		},
		{
			name:    "whitespace text is not evidence",
			c:       DenialCase{ClaimID: "CLM-1004", DenialReasonText: "  \t "},
			wantErr: ErrNoEvidence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRemediationAction_Validate(t *testing.T) {
	valid := RemediationAction{
		ID:             "act-1",
		DenialRecordID: "rec-1",
		ActionType:     "authorization_requested",
		Status:         ActionCompleted,
		ExecutedAt:     time.Now(),
	}
	assert.NoError(t, valid.Validate())

	missingID := valid
	missingID.ID = ""
	assert.Error(t, missingID.Validate())

	missingRecord := valid
	missingRecord.DenialRecordID = ""
	assert.Error(t, missingRecord.Validate())

	badStatus := valid
	badStatus.Status = "done"
	assert.Error(t, badStatus.Validate())

	zeroTime := valid
	zeroTime.ExecutedAt = time.Time{}
	assert.Error(t, zeroTime.Validate())
}

func TestWorkflowOutcome_Escalated(t *testing.T) {
	manual := WorkflowOutcome{Workflow: WorkflowManualReview}
	assert.True(t, manual.Escalated())

	auto := WorkflowOutcome{Workflow: WorkflowResubmitWithAuth}
	assert.False(t, auto.Escalated())
}
