package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/repository"
	"github.com/example/storefront/internal/services"
	"github.com/example/storefront/internal/utils"
)

// PasswordResetHandler manages forgot-password endpoints.
type PasswordResetHandler struct {
	users  *repository.UserRepository
	mailer *services.Mailer
	cfg    *config.Config
}

// NewPasswordResetHandler constructs a PasswordResetHandler.
func NewPasswordResetHandler(users *repository.UserRepository, mailer *services.Mailer, cfg *config.Config) *PasswordResetHandler {
	return &PasswordResetHandler{users: users, mailer: mailer, cfg: cfg}
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword initiates the reset flow: a random token is generated,
// only its digest is stored, and the plaintext is mailed to the account.
// The response is identical whether or not the account exists.
func (h *PasswordResetHandler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email is required")
	}

	user, err := h.users.FindByEmail(c.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(fiber.Map{"success": true, "message": "if the account exists, a reset email has been sent"})
		}
		return err
	}

	if !user.IsActive {
		return c.JSON(fiber.Map{"success": true, "message": "if the account exists, a reset email has been sent"})
	}

	token, digest, err := utils.GenerateResetToken()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	expiresAt := time.Now().Add(h.cfg.ResetExpires)
	if err := h.users.SetResetToken(c.Context(), user.ID, digest, expiresAt); err != nil {
		return err
	}

	if err := h.mailer.SendPasswordReset(user.Email, token); err != nil {
		log.Printf("[PasswordReset] mail to %s failed: %v", user.Email, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "if the account exists, a reset email has been sent"})
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ResetPassword updates the password for the account whose stored digest
// matches the presented token.
func (h *PasswordResetHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Token == "" || req.NewPassword == "" {
		return fiber.NewError(fiber.StatusBadRequest, "token and new_password are required")
	}
	if len(req.NewPassword) < 6 {
		return fiber.NewError(fiber.StatusBadRequest, "password must be at least 6 characters")
	}

	user, err := h.users.FindByResetToken(c.Context(), req.Token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid or expired reset token")
		}
		return err
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	if err := h.users.UpdatePassword(c.Context(), user.ID, hash); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "password updated successfully"})
}
