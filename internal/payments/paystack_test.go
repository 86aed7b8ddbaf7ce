package payments

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaystackVerifySuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/ref_123", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_abc", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{
			"status": true,
			"message": "Verification successful",
			"data": {
				"status": "success",
				"reference": "ref_123",
				"amount": 12750,
				"currency": "GHS",
				"channel": "card",
				"paid_at": "2026-08-30T14:10:00Z",
				"customer": {"email": "ama@example.com"}
			}
		}`)
	}))
	defer server.Close()

	client := NewPaystackClient(server.URL, "sk_test_abc")
	result, err := client.Verify(context.Background(), "ref_123")
	require.NoError(t, err)

	assert.True(t, result.Success())
	assert.Equal(t, "ref_123", result.Reference)
	assert.Equal(t, int64(12750), result.Amount)
	assert.Equal(t, "GHS", result.Currency)
	assert.Equal(t, "ama@example.com", result.CustomerEmail)
	require.NotNil(t, result.PaidAt)
	assert.Equal(t, 2026, result.PaidAt.Year())
}

func TestPaystackVerifyFailedTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": true, "data": {"status": "failed", "reference": "ref_123", "amount": 12750}}`)
	}))
	defer server.Close()

	client := NewPaystackClient(server.URL, "sk_test_abc")
	result, err := client.Verify(context.Background(), "ref_123")
	require.NoError(t, err)
	assert.False(t, result.Success())
}

func TestPaystackVerifyAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewPaystackClient(server.URL, "sk_test_abc")
	_, err := client.Verify(context.Background(), "ref_missing")
	assert.Error(t, err)
}

func TestPaystackVerifyWithoutSecretKey(t *testing.T) {
	client := NewPaystackClient("https://api.paystack.co", "")
	_, err := client.Verify(context.Background(), "ref_123")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
