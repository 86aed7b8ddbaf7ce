package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/cart"
	"github.com/example/storefront/internal/checkout"
	"github.com/example/storefront/internal/models"
)

type fakeVerifier struct {
	result *VerifyResult
	err    error
	calls  []string
}

func (f *fakeVerifier) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	f.calls = append(f.calls, reference)
	return f.result, f.err
}

type fakeOrderWriter struct {
	err     error
	created []*models.Order
}

func (f *fakeOrderWriter) CreatePaidOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	order.ID = uuid.New()
	f.created = append(f.created, order)
	return order, nil
}

type fakeRecorder struct {
	err  error
	txns []*models.PaymentTransaction
}

func (f *fakeRecorder) RecordTransaction(ctx context.Context, txn *models.PaymentTransaction) error {
	if f.err != nil {
		return f.err
	}
	f.txns = append(f.txns, txn)
	return nil
}

func testPricing() cart.PricingConfig {
	return cart.PricingConfig{
		TaxRate:               decimal.RequireFromString("0.125"),
		FreeShippingThreshold: decimal.RequireFromString("200"),
		FlatShippingCost:      decimal.RequireFromString("15"),
	}
}

func testAttempt(t *testing.T) Attempt {
	t.Helper()

	c := cart.New(nil)
	c.AddItem(cart.Line{
		ProductID: uuid.New(),
		Title:     "canvas tote",
		UnitPrice: decimal.RequireFromString("50.00"),
		Variant:   cart.Variant{Color: "black"},
	}, 2)

	s := checkout.NewSession()
	s.SetShipping(checkout.ShippingDetails{
		FirstName: "Ama",
		LastName:  "Mensah",
		Email:     "ama@example.com",
		Phone:     "0241234567",
		Street:    "12 Independence Ave",
		City:      "Accra",
		Region:    "Greater Accra",
	})
	require.Empty(t, s.Advance())
	s.SetPayment(checkout.PaymentSelection{Channel: checkout.ChannelCard})
	require.Empty(t, s.Advance())

	userID := uuid.New()
	return Attempt{
		Cart:           c,
		Session:        s,
		UserID:         &userID,
		IdempotencyKey: uuid.NewString(),
	}
}

func successResult(amount int64) *VerifyResult {
	paidAt := time.Now()
	return &VerifyResult{
		Reference:     "ref_123",
		Status:        "success",
		Amount:        amount,
		Currency:      "GHS",
		Channel:       "card",
		CustomerEmail: "ama@example.com",
		PaidAt:        &paidAt,
	}
}

func TestHandlePaymentSuccessCreatesPaidOrder(t *testing.T) {
	// 50.00 x 2 at 12.5% tax plus flat shipping: total 127.50, 12750 minor
	verifier := &fakeVerifier{result: successResult(12750)}
	orders := &fakeOrderWriter{}
	recorder := &fakeRecorder{}
	r := NewReconciler(verifier, orders, recorder, testPricing(), "GHS")

	attempt := testAttempt(t)
	order, err := r.HandlePaymentSuccess(context.Background(), map[string]any{"reference": "ref_123"}, attempt)
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, []string{"ref_123"}, verifier.calls)
	assert.Equal(t, models.PaymentPaid, order.PaymentStatus)
	assert.Equal(t, models.OrderPending, order.OrderStatus)
	assert.Equal(t, "ref_123", order.PaymentReference)
	assert.Equal(t, "127.50", order.TotalAmount.StringFixed(2))
	assert.Equal(t, attempt.IdempotencyKey, order.IdempotencyKey)
	assert.Equal(t, "Accra", order.ShippingAddress.City)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "100.00", order.Items[0].LineTotal.StringFixed(2))

	require.Len(t, recorder.txns, 1)
	assert.Equal(t, "ref_123", recorder.txns[0].Reference)
	assert.Equal(t, &order.ID, recorder.txns[0].OrderID)
}

func TestHandlePaymentSuccessMissingReference(t *testing.T) {
	verifier := &fakeVerifier{result: successResult(12750)}
	orders := &fakeOrderWriter{}
	r := NewReconciler(verifier, orders, nil, testPricing(), "GHS")

	order, err := r.HandlePaymentSuccess(context.Background(), map[string]any{"status": "success"}, testAttempt(t))
	assert.Nil(t, order)
	assert.ErrorIs(t, err, ErrReferenceMissing)

	// no verification, no write
	assert.Empty(t, verifier.calls)
	assert.Empty(t, orders.created)
}

func TestHandlePaymentSuccessVerificationError(t *testing.T) {
	verifier := &fakeVerifier{err: errors.New("connection refused")}
	orders := &fakeOrderWriter{}
	r := NewReconciler(verifier, orders, nil, testPricing(), "GHS")

	order, err := r.HandlePaymentSuccess(context.Background(), map[string]any{"reference": "ref_123"}, testAttempt(t))
	assert.Nil(t, order)
	assert.ErrorIs(t, err, ErrVerificationFailed)
	assert.Empty(t, orders.created)
}

func TestHandlePaymentSuccessProviderDecline(t *testing.T) {
	declined := successResult(12750)
	declined.Status = "failed"
	verifier := &fakeVerifier{result: declined}
	orders := &fakeOrderWriter{}
	r := NewReconciler(verifier, orders, nil, testPricing(), "GHS")

	order, err := r.HandlePaymentSuccess(context.Background(), map[string]any{"reference": "ref_123"}, testAttempt(t))
	assert.Nil(t, order)
	assert.ErrorIs(t, err, ErrVerificationFailed)
	assert.Empty(t, orders.created)
}

func TestHandlePaymentSuccessAmountMismatch(t *testing.T) {
	verifier := &fakeVerifier{result: successResult(9999)}
	orders := &fakeOrderWriter{}
	r := NewReconciler(verifier, orders, nil, testPricing(), "GHS")

	order, err := r.HandlePaymentSuccess(context.Background(), map[string]any{"reference": "ref_123"}, testAttempt(t))
	assert.Nil(t, order)
	assert.ErrorIs(t, err, ErrVerificationFailed)
	assert.Empty(t, orders.created)
}

func TestHandlePaymentSuccessUnconfiguredProviderIsNotADecline(t *testing.T) {
	// a misconfigured provider must surface as ErrNotConfigured so the
	// shopper is told to contact support, not that the payment failed
	verifier := &fakeVerifier{err: ErrNotConfigured}
	orders := &fakeOrderWriter{}
	r := NewReconciler(verifier, orders, nil, testPricing(), "GHS")

	order, err := r.HandlePaymentSuccess(context.Background(), map[string]any{"reference": "ref_123"}, testAttempt(t))
	assert.Nil(t, order)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.NotErrorIs(t, err, ErrVerificationFailed)
	assert.Empty(t, orders.created)
}

func TestHandlePaymentSuccessOrderWriteFailureIsDistinct(t *testing.T) {
	verifier := &fakeVerifier{result: successResult(12750)}
	orders := &fakeOrderWriter{err: errors.New("deadlock detected")}
	r := NewReconciler(verifier, orders, nil, testPricing(), "GHS")

	order, err := r.HandlePaymentSuccess(context.Background(), map[string]any{"reference": "ref_123"}, testAttempt(t))
	assert.Nil(t, order)
	assert.ErrorIs(t, err, ErrOrderRecordingFailed)
	assert.NotErrorIs(t, err, ErrVerificationFailed)
}

func TestHandlePaymentSuccessTransactionLogFailureIsBestEffort(t *testing.T) {
	verifier := &fakeVerifier{result: successResult(12750)}
	orders := &fakeOrderWriter{}
	recorder := &fakeRecorder{err: errors.New("table missing")}
	r := NewReconciler(verifier, orders, recorder, testPricing(), "GHS")

	order, err := r.HandlePaymentSuccess(context.Background(), map[string]any{"reference": "ref_123"}, testAttempt(t))
	require.NoError(t, err)
	assert.NotNil(t, order)
	assert.Len(t, orders.created, 1)
}

func TestHandlePaymentSuccessAcceptsReferenceAlias(t *testing.T) {
	verifier := &fakeVerifier{result: successResult(12750)}
	orders := &fakeOrderWriter{}
	r := NewReconciler(verifier, orders, nil, testPricing(), "GHS")

	order, err := r.HandlePaymentSuccess(context.Background(), map[string]any{"trxref": "ref_123"}, testAttempt(t))
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, []string{"ref_123"}, verifier.calls)
}
