package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/utils"
)

// UserRepository wraps parameterized queries over the users table.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. Emails are stored lowercased so uniqueness is
// case-insensitive; a duplicate insert surfaces as ErrDuplicateEmail via
// the unique index rather than a check-then-insert.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// FindByID loads a user by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail loads a user by email, case-insensitively.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UserFilter narrows FindAll results.
type UserFilter struct {
	Role   string
	Active *bool
	Search string
}

// FindAll returns users matching the filter with bounded pagination.
func (r *UserRepository) FindAll(ctx context.Context, filter UserFilter, limit, offset int) ([]models.User, int64, error) {
	limit = utils.ClampLimit(limit)
	offset = utils.ClampOffset(offset)

	query := r.db.WithContext(ctx).Model(&models.User{})

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Active != nil {
		query = query.Where("is_active = ?", *filter.Active)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		q := "%" + search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?", q, q, q)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Update applies the given column updates to a user.
func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if email, ok := updates["email"].(string); ok {
		updates["email"] = strings.ToLower(strings.TrimSpace(email))
	}
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates).Error
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

// Delete deactivates a user. Users are never hard-deleted.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

// IssueOTP stores a fresh verification code, resetting the attempt counter.
func (r *UserRepository) IssueOTP(ctx context.Context, id uuid.UUID, code string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"otp_code":       code,
			"otp_expires_at": expiresAt,
			"otp_attempts":   0,
		}).Error
}

// EvaluateOTP applies the verification rules to a loaded user: the code
// must match, be unexpired, and the attempt counter must be below the
// maximum. Once the counter is exhausted even the correct code fails until
// a new one is issued.
func EvaluateOTP(user *models.User, code string, maxAttempts int, now time.Time) error {
	if user.OTPCode == "" || user.OTPExpiresAt == nil {
		return ErrOTPNotIssued
	}
	if user.OTPAttempts >= maxAttempts {
		return ErrOTPAttemptsExceeded
	}
	if user.OTPExpiresAt.Before(now) {
		return ErrOTPExpired
	}
	if user.OTPCode != code {
		return ErrOTPMismatch
	}
	return nil
}

// VerifyOTP checks the presented code. A failed attempt increments the
// counter; success clears the code, expiry and counter and marks the email
// verified.
func (r *UserRepository) VerifyOTP(ctx context.Context, id uuid.UUID, code string, maxAttempts int) error {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := EvaluateOTP(user, code, maxAttempts, time.Now()); err != nil {
		if errors.Is(err, ErrOTPMismatch) || errors.Is(err, ErrOTPExpired) {
			if uerr := r.db.WithContext(ctx).Model(&models.User{}).
				Where("id = ?", id).
				Update("otp_attempts", gorm.Expr("otp_attempts + 1")).Error; uerr != nil {
				return uerr
			}
		}
		return err
	}

	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"otp_code":          "",
			"otp_expires_at":    nil,
			"otp_attempts":      0,
			"is_email_verified": true,
		}).Error
}

// SetResetToken stores the digest of a password-reset token with expiry.
func (r *UserRepository) SetResetToken(ctx context.Context, id uuid.UUID, digest string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"reset_token_hash":       digest,
			"reset_token_expires_at": expiresAt,
		}).Error
}

// FindByResetToken re-hashes the presented token and matches it against an
// unexpired digest on an active account.
func (r *UserRepository) FindByResetToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("reset_token_hash = ? AND reset_token_expires_at > ? AND is_active = true",
			utils.HashResetToken(token), time.Now()).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdatePassword replaces the password hash and clears any reset token.
func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password_hash":          passwordHash,
			"reset_token_hash":       "",
			"reset_token_expires_at": nil,
		}).Error
}
