package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Facilitator verifies and settles payment proofs over HTTPS. The
// cryptographic work happens entirely on the remote side.
type Facilitator struct {
	baseURL    string
	credential Credential
	httpClient *http.Client
}

// NewFacilitator creates a facilitator client. credential may be nil
// for unauthenticated facilitators.
func NewFacilitator(baseURL string, credential Credential) *Facilitator {
	return &Facilitator{
		baseURL:    baseURL,
		credential: credential,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// facilitatorRequest is the body for both /verify and /settle.
type facilitatorRequest struct {
	X402Version         int             `json:"x402Version"`
	PaymentPayload      json.RawMessage `json:"paymentPayload"`
	PaymentRequirements Requirement     `json:"paymentRequirements"`
}

// VerifyResult is the facilitator's verdict on a payment proof.
type VerifyResult struct {
	IsValid       bool   `json:"isValid"`
	InvalidReason string `json:"invalidReason,omitempty"`
	Payer         string `json:"payer,omitempty"`
}

// SettleResult is the facilitator's settlement receipt.
type SettleResult struct {
	Success     bool   `json:"success"`
	ErrorReason string `json:"errorReason,omitempty"`
	Transaction string `json:"transaction,omitempty"`
	Network     string `json:"network,omitempty"`
	Payer       string `json:"payer,omitempty"`
}

// Verify asks the facilitator whether the proof covers the requirement.
func (f *Facilitator) Verify(ctx context.Context, payload json.RawMessage, requirement Requirement) (*VerifyResult, error) {
	var result VerifyResult
	if err := f.post(ctx, "/verify", payload, requirement, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Settle submits the proof for on-chain settlement.
func (f *Facilitator) Settle(ctx context.Context, payload json.RawMessage, requirement Requirement) (*SettleResult, error) {
	var result SettleResult
	if err := f.post(ctx, "/settle", payload, requirement, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (f *Facilitator) post(ctx context.Context, path string, payload json.RawMessage, requirement Requirement, out interface{}) error {
	body, err := json.Marshal(facilitatorRequest{
		X402Version:         X402Version,
		PaymentPayload:      payload,
		PaymentRequirements: requirement,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal facilitator request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create facilitator request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if f.credential != nil {
		bearer, err := f.credential.Bearer()
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("facilitator unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("facilitator returned %d: %s", resp.StatusCode, string(raw))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode facilitator response: %w", err)
	}

	return nil
}
