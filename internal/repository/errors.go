package repository

import (
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Domain-facing repository errors. Raw driver errors never cross the
// repository boundary.
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already exists")

	ErrOTPNotIssued        = errors.New("no verification code issued")
	ErrOTPExpired          = errors.New("verification code expired")
	ErrOTPMismatch         = errors.New("invalid verification code")
	ErrOTPAttemptsExceeded = errors.New("too many verification attempts, request a new code")

	ErrInvalidTransition = errors.New("invalid order status transition")
)

// isUniqueViolation reports whether err is a database unique-constraint
// violation, under either gorm's translated error or the raw pq error
// (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
