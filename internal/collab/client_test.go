package collab

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixbill/denialflow/internal/common"
	"github.com/helixbill/denialflow/internal/model"
	"github.com/helixbill/denialflow/internal/service"
)

func TestAuthorizationClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/authorizations", r.URL.Path)

		var req authorizationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "CLM-1001", req.ClaimID)
		assert.Equal(t, "2024-05-01", req.ServiceDate)

		_ = json.NewEncoder(w).Encode(authorizationResponse{
			Requestable:         true,
			AuthorizationNumber: "AUTH-42",
		})
	}))
	defer server.Close()

	client, err := NewAuthorizationClient(server.URL)
	require.NoError(t, err)

	result, err := client.RequestAuthorization(context.Background(), "CLM-1001", model.ClaimSnapshot{
		PatientID:   "PAT-1",
		ProviderID:  "PRV-1",
		ClaimAmount: 1200,
		ServiceDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, result.Requestable)
	assert.Equal(t, "AUTH-42", result.AuthorizationNumber)
}

func TestAuthorizationClient_RequiresURL(t *testing.T) {
	_, err := NewAuthorizationClient("  ")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestEligibilityClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/eligibility", r.URL.Path)
		_ = json.NewEncoder(w).Encode(eligibilityResponse{
			Eligible: true,
			PlanName: "PPO Gold",
		})
	}))
	defer server.Close()

	client, err := NewEligibilityClient(server.URL)
	require.NoError(t, err)

	result, err := client.CheckEligibility(context.Background(), "PAT-1",
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, result.Eligible)
	assert.Equal(t, "PPO Gold", result.PlanName)
}

func TestCodingReviewer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/coding/review", r.URL.Path)

		var denial model.DenialCase
		require.NoError(t, json.NewDecoder(r.Body).Decode(&denial))
		assert.Equal(t, "CLM-2001", denial.ClaimID)

		_ = json.NewEncoder(w).Encode(codingReviewResponse{
			Corrections: []service.CodeCorrection{
				{OriginalCode: "99213", CorrectedCode: "99214", Rationale: "level supported"},
			},
		})
	}))
	defer server.Close()

	reviewer, err := NewCodingReviewer(server.URL)
	require.NoError(t, err)

	corrections, err := reviewer.SuggestCorrections(context.Background(), model.DenialCase{
		ClaimID:     "CLM-2001",
		DenialCodes: []string{"CO_11"},
	})
	require.NoError(t, err)
	require.Len(t, corrections, 1)
	assert.Equal(t, "99214", corrections[0].CorrectedCode)
}

func TestServerErrorIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewEligibilityClient(server.URL)
	require.NoError(t, err)

	_, err = client.CheckEligibility(context.Background(), "PAT-1", time.Now())
	require.Error(t, err)
	assert.True(t, common.IsRetryable(err))
}

func TestClientErrorIsNotRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client, err := NewEligibilityClient(server.URL)
	require.NoError(t, err)

	_, err = client.CheckEligibility(context.Background(), "PAT-1", time.Now())
	require.Error(t, err)
	assert.False(t, common.IsRetryable(err))
}

func TestOfflineCollaborators(t *testing.T) {
	ctx := context.Background()

	auth, err := OfflineAuthorizationClient{}.RequestAuthorization(ctx, "CLM-1", model.ClaimSnapshot{})
	require.NoError(t, err)
	assert.False(t, auth.Requestable)

	elig, err := OfflineEligibilityClient{}.CheckEligibility(ctx, "PAT-1", time.Now())
	require.NoError(t, err)
	assert.False(t, elig.Eligible)
	assert.NotEmpty(t, elig.Notes)

	corrections, err := OfflineCodingReviewer{}.SuggestCorrections(ctx, model.DenialCase{ClaimID: "CLM-1"})
	require.NoError(t, err)
	assert.Empty(t, corrections)
}
