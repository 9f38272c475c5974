package mail

import (
	"fmt"
	"net/smtp"

	"telemed-platform/config"
)

// Mailer delivers transactional email for the auth flows.
type Mailer interface {
	SendVerificationCode(to, code string) error
	SendPasswordResetCode(to, code string) error
}

// EmailService sends mail over plain SMTP.
type EmailService struct {
	config config.SMTPConfig
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{config: cfg}
}

func (e *EmailService) SendVerificationCode(to, code string) error {
	subject := "Verify your email address"
	body := fmt.Sprintf(`Hello,

Welcome to the telemedicine platform.

Your email verification code is: %s

This code will expire in 15 minutes.

If you didn't create an account, please ignore this email.
`, code)

	return e.sendEmail(to, subject, body)
}

func (e *EmailService) SendPasswordResetCode(to, code string) error {
	subject := "Password Reset Verification Code"
	body := fmt.Sprintf(`Hello,

You requested to reset your password.

Your verification code is: %s

This code will expire in 3 minutes.

If you didn't request this, please ignore this email.
`, code)

	return e.sendEmail(to, subject, body)
}

func (e *EmailService) sendEmail(to, subject, body string) error {
	if e.config.Username == "" || e.config.Password == "" {
		return fmt.Errorf("email credentials not configured")
	}

	auth := smtp.PlainAuth("", e.config.Username, e.config.Password, e.config.Host)

	fromEmail := e.config.From
	if fromEmail == "" {
		fromEmail = e.config.Username
	}

	message := []byte(fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"\r\n"+
			"%s\r\n",
		e.config.FromName, fromEmail, to, subject, body))

	addr := e.config.Host + ":" + e.config.Port
	if err := smtp.SendMail(addr, auth, fromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
