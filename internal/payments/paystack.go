package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// VerifyResult is the provider's view of a transaction after server-side
// verification.
type VerifyResult struct {
	Reference     string
	Status        string
	Amount        int64 // minor currency units
	Currency      string
	Channel       string
	CustomerEmail string
	PaidAt        *time.Time
	Raw           json.RawMessage
}

// Success reports whether the provider confirmed the payment.
func (r *VerifyResult) Success() bool {
	return r != nil && r.Status == "success"
}

// Verifier confirms a transaction reference against the provider before
// any order is trusted.
type Verifier interface {
	Verify(ctx context.Context, reference string) (*VerifyResult, error)
}

// PaystackClient calls the Paystack REST API.
type PaystackClient struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewPaystackClient builds a client for the given API base URL and secret key.
func NewPaystackClient(baseURL, secretKey string) *PaystackClient {
	return &PaystackClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type paystackVerifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status    string `json:"status"`
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
		Channel   string `json:"channel"`
		PaidAt    string `json:"paid_at"`
		Customer  struct {
			Email string `json:"email"`
		} `json:"customer"`
	} `json:"data"`
}

// Verify fetches the transaction state for a reference from Paystack.
func (c *PaystackClient) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	if c.secretKey == "" {
		return nil, ErrNotConfigured
	}

	url := fmt.Sprintf("%s/transaction/verify/%s", c.baseURL, reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("paystack verify request build: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paystack verify request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("paystack verify read: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("paystack verify returned status %d", resp.StatusCode)
	}

	var parsed paystackVerifyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("paystack verify decode: %w", err)
	}

	if !parsed.Status {
		return nil, fmt.Errorf("paystack verify rejected: %s", parsed.Message)
	}

	result := &VerifyResult{
		Reference:     parsed.Data.Reference,
		Status:        parsed.Data.Status,
		Amount:        parsed.Data.Amount,
		Currency:      parsed.Data.Currency,
		Channel:       parsed.Data.Channel,
		CustomerEmail: parsed.Data.Customer.Email,
		Raw:           body,
	}
	if result.Reference == "" {
		result.Reference = reference
	}

	if parsed.Data.PaidAt != "" {
		if t, err := time.Parse(time.RFC3339, parsed.Data.PaidAt); err == nil {
			result.PaidAt = &t
		}
	}

	return result, nil
}
