package payments

import "errors"

// Payment error taxonomy. The three conditions are deliberately distinct:
// a missing reference and a failed verification mean no money moved, while
// a recording failure after a verified payment means money moved without a
// matching order and needs manual reconciliation.
var (
	// ErrNotConfigured signals the provider client is missing credentials.
	// Fatal for the attempt; the shopper is told to contact support.
	ErrNotConfigured = errors.New("payment provider not configured")

	// ErrReferenceMissing signals the provider response carried no
	// transaction reference under any accepted field name.
	ErrReferenceMissing = errors.New("payment reference missing")

	// ErrVerificationFailed signals the provider did not confirm the
	// payment. No order is created.
	ErrVerificationFailed = errors.New("payment verification failed")

	// ErrOrderRecordingFailed signals the payment was verified but the
	// order write failed.
	ErrOrderRecordingFailed = errors.New("payment succeeded but order recording failed")
)
