// Package collab provides clients for the external systems the remediation
// workflows call: payer authorization, eligibility verification, and coding
// review. Each client implements the matching interface in service.
package collab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/helixbill/denialflow/internal/common"
	"github.com/helixbill/denialflow/internal/model"
	"github.com/helixbill/denialflow/internal/service"
)

const defaultHTTPTimeout = 30 * time.Second

// postJSON sends a JSON payload and decodes a JSON response. Non-2xx statuses
// become errors; 5xx and 429 are marked retryable.
func postJSON(ctx context.Context, client *http.Client, url string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return common.NewRetryableError(fmt.Errorf("request failed: %w", err), true)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiErr := fmt.Errorf("API error: %d - %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return common.NewRetryableError(apiErr, true)
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// AuthorizationClient calls the payer authorization portal over HTTP.
type AuthorizationClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAuthorizationClient creates an authorization client for the given portal
// base URL.
func NewAuthorizationClient(baseURL string) (*AuthorizationClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("%w: authorization portal URL is required", common.ErrMissingConfig)
	}
	return &AuthorizationClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}, nil
}

type authorizationRequest struct {
	ClaimID     string  `json:"claim_id"`
	PatientID   string  `json:"patient_id"`
	ProviderID  string  `json:"provider_id"`
	ServiceDate string  `json:"service_date"`
	ClaimAmount float64 `json:"claim_amount"`
}

type authorizationResponse struct {
	AuthorizationNumber string `json:"authorization_number"`
	Requestable         bool   `json:"requestable"`
}

// RequestAuthorization asks the payer for retroactive authorization.
func (c *AuthorizationClient) RequestAuthorization(ctx context.Context, claimID string, claim model.ClaimSnapshot) (service.AuthorizationResult, error) {
	var resp authorizationResponse
	err := postJSON(ctx, c.httpClient, c.baseURL+"/authorizations", authorizationRequest{
		ClaimID:     claimID,
		PatientID:   claim.PatientID,
		ProviderID:  claim.ProviderID,
		ServiceDate: claim.ServiceDate.Format("2006-01-02"),
		ClaimAmount: claim.ClaimAmount,
	}, &resp)
	if err != nil {
		return service.AuthorizationResult{}, fmt.Errorf("authorization request for claim %s: %w", claimID, err)
	}
	return service.AuthorizationResult{
		Requestable:         resp.Requestable,
		AuthorizationNumber: resp.AuthorizationNumber,
	}, nil
}

// EligibilityClient calls the eligibility verification service over HTTP.
type EligibilityClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewEligibilityClient creates an eligibility client for the given service
// base URL.
func NewEligibilityClient(baseURL string) (*EligibilityClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("%w: eligibility service URL is required", common.ErrMissingConfig)
	}
	return &EligibilityClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}, nil
}

type eligibilityRequest struct {
	PatientID   string `json:"patient_id"`
	ServiceDate string `json:"service_date"`
}

type eligibilityResponse struct {
	PlanName string `json:"plan_name"`
	Notes    string `json:"notes"`
	Eligible bool   `json:"eligible"`
}

// CheckEligibility verifies coverage for a patient on a service date.
func (c *EligibilityClient) CheckEligibility(ctx context.Context, patientID string, serviceDate time.Time) (service.EligibilityResult, error) {
	var resp eligibilityResponse
	err := postJSON(ctx, c.httpClient, c.baseURL+"/eligibility", eligibilityRequest{
		PatientID:   patientID,
		ServiceDate: serviceDate.Format("2006-01-02"),
	}, &resp)
	if err != nil {
		return service.EligibilityResult{}, fmt.Errorf("eligibility check for patient %s: %w", patientID, err)
	}
	return service.EligibilityResult{
		Eligible: resp.Eligible,
		PlanName: resp.PlanName,
		Notes:    resp.Notes,
	}, nil
}

// CodingReviewer calls the coding analysis service over HTTP.
type CodingReviewer struct {
	baseURL    string
	httpClient *http.Client
}

// NewCodingReviewer creates a coding reviewer for the given service base URL.
func NewCodingReviewer(baseURL string) (*CodingReviewer, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("%w: coding service URL is required", common.ErrMissingConfig)
	}
	return &CodingReviewer{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}, nil
}

type codingReviewResponse struct {
	Corrections []service.CodeCorrection `json:"corrections"`
}

// SuggestCorrections submits the denial for coding analysis. An empty
// correction list is a valid answer meaning nothing correctable was found.
func (c *CodingReviewer) SuggestCorrections(ctx context.Context, denial model.DenialCase) ([]service.CodeCorrection, error) {
	var resp codingReviewResponse
	err := postJSON(ctx, c.httpClient, c.baseURL+"/coding/review", denial, &resp)
	if err != nil {
		return nil, fmt.Errorf("coding review for claim %s: %w", denial.ClaimID, err)
	}
	return resp.Corrections, nil
}
