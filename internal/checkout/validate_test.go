package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateShippingAcceptsCompleteForm(t *testing.T) {
	assert.Empty(t, ValidateShipping(validShipping()))
}

func TestValidateShippingPhoneShapes(t *testing.T) {
	tests := []struct {
		phone string
		ok    bool
	}{
		{"0241234567", true},
		{"+233241234567", true},
		{"12345", false},
		{"024123456", false},    // too short
		{"02412345678", false},  // too long
		{"24-123-4567", false},  // punctuation
		{"+23324123456", false}, // short international
		{"", false},
	}

	for _, tt := range tests {
		d := validShipping()
		d.Phone = tt.phone
		errs := ValidateShipping(d)
		if tt.ok {
			assert.NotContains(t, errs, "phone", "phone %q should be accepted", tt.phone)
		} else {
			assert.Contains(t, errs, "phone", "phone %q should be rejected", tt.phone)
		}
	}
}

func TestValidateShippingCollectsAllFieldErrors(t *testing.T) {
	errs := ValidateShipping(ShippingDetails{})
	require.NotEmpty(t, errs)
	for _, field := range []string{"first_name", "last_name", "email", "phone", "street", "city", "region"} {
		assert.Contains(t, errs, field)
	}
}

func TestValidateShippingRejectsBadEmail(t *testing.T) {
	for _, email := range []string{"plain", "missing@tld", "two@@example.com", "spaced @example.com"} {
		d := validShipping()
		d.Email = email
		assert.Contains(t, ValidateShipping(d), "email", "email %q should be rejected", email)
	}
}

func TestValidatePaymentCard(t *testing.T) {
	assert.Empty(t, ValidatePayment(PaymentSelection{Channel: ChannelCard}))
}

func TestValidatePaymentMobileMoney(t *testing.T) {
	errs := ValidatePayment(PaymentSelection{Channel: ChannelMobileMoney})
	assert.Contains(t, errs, "provider")
	assert.Contains(t, errs, "mobile_number")

	ok := ValidatePayment(PaymentSelection{
		Channel:      ChannelMobileMoney,
		Provider:     ProviderMTN,
		MobileNumber: "0551234567",
	})
	assert.Empty(t, ok)
}

func TestValidatePaymentUnknownChannel(t *testing.T) {
	assert.Contains(t, ValidatePayment(PaymentSelection{}), "channel")
	assert.Contains(t, ValidatePayment(PaymentSelection{Channel: "cash"}), "channel")
}

func TestDetectProvider(t *testing.T) {
	tests := []struct {
		number string
		want   string
	}{
		{"0241234567", ProviderMTN},
		{"0551234567", ProviderMTN},
		{"0591234567", ProviderMTN},
		{"0201234567", ProviderVodafone},
		{"0501234567", ProviderVodafone},
		{"0271234567", ProviderAirtelTigo},
		{"0561234567", ProviderAirtelTigo},
		{"+233241234567", ProviderMTN},
		{"+233271234567", ProviderAirtelTigo},
		{" 0241234567 ", ProviderMTN},
		{"0991234567", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectProvider(tt.number), "number %q", tt.number)
	}
}
