package models

import (
	"time"
)

// User roles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents a registered customer or administrator.
type User struct {
	BaseModel
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `gorm:"uniqueIndex" json:"email"`
	PasswordHash    string `json:"-"`
	Role            string `gorm:"default:customer" json:"role"`
	IsActive        bool   `gorm:"default:true" json:"is_active"`
	IsEmailVerified bool   `json:"is_email_verified"`

	OTPCode      string     `json:"-"`
	OTPExpiresAt *time.Time `json:"-"`
	OTPAttempts  int        `json:"-"`

	ResetTokenHash      string     `json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`

	Orders []Order `json:"orders,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
