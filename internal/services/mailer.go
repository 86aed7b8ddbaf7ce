package services

import (
	"fmt"
	"log"

	"github.com/keighl/postmark"
)

// Mailer delivers transactional email through Postmark. When no server
// token is configured it logs and drops the message instead of failing the
// surrounding request.
type Mailer struct {
	client *postmark.Client
	sender string
}

// NewMailer creates a Mailer. serverToken may be empty in development.
func NewMailer(serverToken, sender string) *Mailer {
	m := &Mailer{sender: sender}
	if serverToken != "" {
		m.client = postmark.NewClient(serverToken, "")
	}
	return m
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	if m.client == nil {
		log.Printf("[Mailer] not configured, dropping %q to %s", subject, to)
		return nil
	}

	_, err := m.client.SendEmail(postmark.Email{
		From:     m.sender,
		To:       to,
		Subject:  subject,
		HtmlBody: htmlBody,
		TextBody: htmlBody,
	})
	if err != nil {
		log.Printf("[Mailer] send failed: %v", err)
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// SendOTP delivers an email-verification code.
func (m *Mailer) SendOTP(to, code string) error {
	body := fmt.Sprintf("<strong>Your verification code is %s.</strong> It expires in 10 minutes.", code)
	return m.send(to, "Verify your email", body)
}

// SendPasswordReset delivers a password-reset link carrying the plaintext
// token. The token is never stored server-side.
func (m *Mailer) SendPasswordReset(to, token string) error {
	body := fmt.Sprintf("<strong>Reset your password</strong> using this token: %s. It expires in 1 hour.", token)
	return m.send(to, "Password reset", body)
}

// SendOrderConfirmation tells the customer their order was recorded.
func (m *Mailer) SendOrderConfirmation(to, orderNumber string, total string) error {
	body := fmt.Sprintf("<strong>Thank you for your purchase!</strong><br>Order %s has been placed. Total: %s.", orderNumber, total)
	return m.send(to, "Order confirmation", body)
}
