package checkout

import (
	"regexp"
	"sort"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// Accepted local phone shapes: 0XXXXXXXXX or +233XXXXXXXXX.
	localPhonePattern = regexp.MustCompile(`^0\d{9}$`)
	intlPhonePattern  = regexp.MustCompile(`^\+233\d{9}$`)

	mobileNumberPattern = regexp.MustCompile(`^0\d{9}$`)
)

// Mobile-money providers.
const (
	ProviderMTN        = "mtn"
	ProviderVodafone   = "vodafone"
	ProviderAirtelTigo = "airteltigo"
)

// carrierPrefixes maps dialing prefixes to the carrier that owns them.
var carrierPrefixes = map[string]string{
	"024": ProviderMTN,
	"025": ProviderMTN,
	"053": ProviderMTN,
	"054": ProviderMTN,
	"055": ProviderMTN,
	"059": ProviderMTN,
	"020": ProviderVodafone,
	"050": ProviderVodafone,
	"026": ProviderAirtelTigo,
	"027": ProviderAirtelTigo,
	"056": ProviderAirtelTigo,
	"057": ProviderAirtelTigo,
}

// DetectProvider suggests a mobile-money provider by longest-prefix match
// against the carrier tables. The suggestion is advisory; an explicit user
// selection always takes precedence. Returns "" when no prefix matches.
func DetectProvider(number string) string {
	number = strings.TrimSpace(number)
	if strings.HasPrefix(number, "+233") {
		number = "0" + strings.TrimPrefix(number, "+233")
	}

	prefixes := make([]string, 0, len(carrierPrefixes))
	for p := range carrierPrefixes {
		prefixes = append(prefixes, p)
	}
	// longest first so a more specific prefix beats a shorter one
	sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })

	for _, p := range prefixes {
		if strings.HasPrefix(number, p) {
			return carrierPrefixes[p]
		}
	}
	return ""
}

// ValidateShipping checks the shipping form, returning one message per
// offending field.
func ValidateShipping(d ShippingDetails) FieldErrors {
	errs := FieldErrors{}

	if len(strings.TrimSpace(d.FirstName)) < 2 {
		errs["first_name"] = "first name must be at least 2 characters"
	}
	if len(strings.TrimSpace(d.LastName)) < 2 {
		errs["last_name"] = "last name must be at least 2 characters"
	}
	if !emailPattern.MatchString(strings.TrimSpace(d.Email)) {
		errs["email"] = "enter a valid email address"
	}
	phone := strings.TrimSpace(d.Phone)
	if !localPhonePattern.MatchString(phone) && !intlPhonePattern.MatchString(phone) {
		errs["phone"] = "enter a valid phone number (0XXXXXXXXX or +233XXXXXXXXX)"
	}
	if len(strings.TrimSpace(d.Street)) < 5 {
		errs["street"] = "street address must be at least 5 characters"
	}
	if len(strings.TrimSpace(d.City)) < 2 {
		errs["city"] = "city must be at least 2 characters"
	}
	if strings.TrimSpace(d.Region) == "" {
		errs["region"] = "region is required"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidatePayment checks the payment selection.
func ValidatePayment(p PaymentSelection) FieldErrors {
	errs := FieldErrors{}

	switch p.Channel {
	case ChannelCard:
		// nothing further; card details are collected by the provider UI
	case ChannelMobileMoney:
		if p.Provider == "" {
			errs["provider"] = "select a mobile money provider"
		}
		if !mobileNumberPattern.MatchString(strings.TrimSpace(p.MobileNumber)) {
			errs["mobile_number"] = "enter a valid 10-digit mobile number"
		}
	default:
		errs["channel"] = "select a payment method"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
