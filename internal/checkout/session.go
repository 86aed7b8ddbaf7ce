package checkout

// Step identifies a stage of the checkout wizard. Steps are linear:
// forward movement requires the current step to validate, backward
// movement is always allowed.
type Step int

const (
	StepShipping Step = iota
	StepPayment
	StepReview
)

// String returns the step name used in responses and logs.
func (s Step) String() string {
	switch s {
	case StepShipping:
		return "shipping"
	case StepPayment:
		return "payment"
	case StepReview:
		return "review"
	default:
		return "unknown"
	}
}

// ShippingDetails is the address form captured on the first step.
type ShippingDetails struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Street    string `json:"street"`
	City      string `json:"city"`
	Region    string `json:"region"`
}

// Payment channels.
const (
	ChannelCard        = "card"
	ChannelMobileMoney = "mobile_money"
)

// PaymentSelection is the payment form captured on the second step.
type PaymentSelection struct {
	Channel      string `json:"channel"`
	Provider     string `json:"provider,omitempty"`
	MobileNumber string `json:"mobile_number,omitempty"`
}

// FieldErrors maps an offending field to one human-readable message.
type FieldErrors map[string]string

// Session is the checkout wizard's form-state holder.
type Session struct {
	step Step

	shipping ShippingDetails
	billing  ShippingDetails
	// billing mirrors shipping until the user decouples it explicitly
	billingDecoupled bool

	payment          PaymentSelection
	providerExplicit bool
}

// NewSession starts a checkout at the shipping step.
func NewSession() *Session {
	return &Session{step: StepShipping}
}

// Step returns the wizard's current step.
func (s *Session) Step() Step {
	return s.step
}

// SetShipping records the shipping form. Billing follows along unless it
// has been decoupled.
func (s *Session) SetShipping(d ShippingDetails) {
	s.shipping = d
	if !s.billingDecoupled {
		s.billing = d
	}
}

// Shipping returns the captured shipping details.
func (s *Session) Shipping() ShippingDetails {
	return s.shipping
}

// DecoupleBilling records a billing address distinct from shipping.
func (s *Session) DecoupleBilling(d ShippingDetails) {
	s.billingDecoupled = true
	s.billing = d
}

// Billing returns the effective billing address.
func (s *Session) Billing() ShippingDetails {
	return s.billing
}

// SetPayment records the payment selection. When the shopper has not
// picked a mobile-money provider, one is suggested from the number's
// carrier prefix; an explicit pick always wins.
func (s *Session) SetPayment(p PaymentSelection) {
	if p.Provider != "" {
		s.providerExplicit = true
	}
	if p.Channel == ChannelMobileMoney && p.Provider == "" && !s.providerExplicit {
		p.Provider = DetectProvider(p.MobileNumber)
	}
	s.payment = p
}

// Payment returns the captured payment selection.
func (s *Session) Payment() PaymentSelection {
	return s.payment
}

// Advance validates the current step and moves forward on success.
// A non-empty FieldErrors blocks advancement.
func (s *Session) Advance() FieldErrors {
	switch s.step {
	case StepShipping:
		if errs := ValidateShipping(s.shipping); len(errs) > 0 {
			return errs
		}
		s.step = StepPayment
	case StepPayment:
		if errs := ValidatePayment(s.payment); len(errs) > 0 {
			return errs
		}
		s.step = StepReview
	case StepReview:
		// terminal step; submission happens outside the wizard
	}
	return nil
}

// Back moves one step towards shipping. Always allowed.
func (s *Session) Back() {
	if s.step > StepShipping {
		s.step--
	}
}

// ReadyForPayment reports whether both earlier steps have passed
// validation and the session sits at review.
func (s *Session) ReadyForPayment() bool {
	return s.step == StepReview
}
