package signal

import (
	"testing"

	"github.com/helixbill/denialflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeExtractor_Extract(t *testing.T) {
	extractor := NewCodeExtractor()

	tests := []struct {
		name           string
		codes          []string
		wantCause      model.DenialCause
		wantConfidence float64
	}{
		{
			name:           "single mapped code",
			codes:          []string{"CO_16"},
			wantCause:      model.CauseMissingAuthorization,
			wantConfidence: 1.0,
		},
		{
			name:           "no codes",
			codes:          nil,
			wantCause:      model.CauseOther,
			wantConfidence: 0.0,
		},
		{
			name:           "unmapped code is not evidence",
			codes:          []string{"XX_99"},
			wantCause:      model.CauseOther,
			wantConfidence: 0.0,
		},
		{
			name:           "unmapped codes are ignored, not counted",
			codes:          []string{"XX_99", "CO_18"},
			wantCause:      model.CauseDuplicateClaim,
			wantConfidence: 1.0,
		},
		{
			name:           "plurality wins",
			codes:          []string{"CO_50", "CO_56", "CO_18"},
			wantCause:      model.CauseMedicalNecessity,
			wantConfidence: 2.0 / 3.0,
		},
		{
			name:           "tie resolves to first-declared cause",
			codes:          []string{"CO_18", "CO_16"},
			wantCause:      model.CauseMissingAuthorization,
			wantConfidence: 0.5,
		},
		{
			name:           "tie resolves by table order not input order",
			codes:          []string{"CO_29", "CO_11"},
			wantCause:      model.CauseInvalidCode,
			wantConfidence: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractor.Extract(model.DenialCase{ClaimID: "CLM-1", DenialCodes: tt.codes})
			assert.Equal(t, model.SignalCode, got.Source)
			assert.Equal(t, tt.wantCause, got.Cause)
			assert.InDelta(t, tt.wantConfidence, got.Confidence, 1e-9)
		})
	}
}

func TestCodeExtractor_Pure(t *testing.T) {
	extractor := NewCodeExtractor()
	denial := model.DenialCase{ClaimID: "CLM-1", DenialCodes: []string{"CO_16", "CO_18", "CO_18"}}

	first := extractor.Extract(denial)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, extractor.Extract(denial))
	}
}

func TestTextExtractor_Extract(t *testing.T) {
	extractor := NewTextExtractor()

	tests := []struct {
		name           string
		text           string
		wantCause      model.DenialCause
		wantConfidence float64
	}{
		{
			name:           "empty text",
			text:           "",
			wantCause:      model.CauseOther,
			wantConfidence: 0.0,
		},
		{
			name:           "no keyword hit",
			text:           "claim rejected for reasons unknown",
			wantCause:      model.CauseOther,
			wantConfidence: 0.3,
		},
		{
			name:           "medical necessity keyword",
			text:           "claim denied: not medically necessary",
			wantCause:      model.CauseMedicalNecessity,
			wantConfidence: 0.8,
		},
		{
			name:           "case insensitive match",
			text:           "DUPLICATE of claim 123",
			wantCause:      model.CauseDuplicateClaim,
			wantConfidence: 0.8,
		},
		{
			name:           "authorization keyword",
			text:           "service requires prior authorization",
			wantCause:      model.CauseMissingAuthorization,
			wantConfidence: 0.8,
		},
		{
			name:           "first-declared cause wins on multiple hits",
			text:           "authorization missing and claim is a duplicate",
			wantCause:      model.CauseMissingAuthorization,
			wantConfidence: 0.8,
		},
		{
			name:           "timely filing keyword",
			text:           "denied: past timely filing limit",
			wantCause:      model.CauseTimelyFiling,
			wantConfidence: 0.8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractor.Extract(model.DenialCase{ClaimID: "CLM-1", DenialReasonText: tt.text})
			assert.Equal(t, model.SignalText, got.Source)
			assert.Equal(t, tt.wantCause, got.Cause)
			assert.InDelta(t, tt.wantConfidence, got.Confidence, 1e-9)
		})
	}
}

func TestPatternExtractor_Extract(t *testing.T) {
	extractor, err := NewPatternExtractor()
	require.NoError(t, err)

	tests := []struct {
		name           string
		text           string
		wantCause      model.DenialCause
		wantConfidence float64
	}{
		{
			name:           "empty text",
			text:           "",
			wantCause:      model.CauseOther,
			wantConfidence: 0.0,
		},
		{
			name:           "no pattern match",
			text:           "claim rejected for reasons unknown",
			wantCause:      model.CauseOther,
			wantConfidence: 0.2,
		},
		{
			name:           "medical necessity pattern",
			text:           "claim denied: not medically necessary",
			wantCause:      model.CauseMedicalNecessity,
			wantConfidence: 0.9,
		},
		{
			name:           "prior auth pattern",
			text:           "PRE-AUTH required for this procedure",
			wantCause:      model.CauseMissingAuthorization,
			wantConfidence: 0.9,
		},
		{
			name:           "eligibility pattern",
			text:           "patient not eligible on date of service",
			wantCause:      model.CauseEligibilityIssue,
			wantConfidence: 0.9,
		},
		{
			name:           "duplicate pattern",
			text:           "exact duplicate of a claim already paid",
			wantCause:      model.CauseDuplicateClaim,
			wantConfidence: 0.9,
		},
		{
			name:           "cob pattern",
			text:           "other insurance primary, submit EOB from primary",
			wantCause:      model.CauseCoordinationOfBenefits,
			wantConfidence: 0.9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractor.Extract(model.DenialCase{ClaimID: "CLM-1", DenialReasonText: tt.text})
			assert.Equal(t, model.SignalPattern, got.Source)
			assert.Equal(t, tt.wantCause, got.Cause)
			assert.InDelta(t, tt.wantConfidence, got.Confidence, 1e-9)
		})
	}
}
