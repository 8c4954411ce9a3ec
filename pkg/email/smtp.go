package email

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// SMTPMailer implements Mailer over a plain SMTP gateway, for deployments
// without a transactional email provider.
type SMTPMailer struct {
	dialer    *gomail.Dialer
	fromEmail string
	fromName  string
	logger    *zap.Logger
}

// NewSMTPMailer creates a new SMTPMailer.
func NewSMTPMailer(host string, port int, username, password, fromEmail, fromName string, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer:    gomail.NewDialer(host, port, username, password),
		fromEmail: fromEmail,
		fromName:  fromName,
		logger:    logger.Named("smtp"),
	}
}

func (m *SMTPMailer) send(_ context.Context, to Recipient, msg message) error {
	mail := gomail.NewMessage()
	mail.SetAddressHeader("From", m.fromEmail, m.fromName)
	mail.SetHeader("To", to.Email)
	mail.SetHeader("Subject", msg.Subject)
	mail.SetBody("text/plain", msg.Text)
	mail.AddAlternative("text/html", msg.HTML)

	if err := m.dialer.DialAndSend(mail); err != nil {
		m.logger.Error("smtp send failed", zap.Error(err), zap.String("to", to.Email))
		return fmt.Errorf("send email via smtp: %w", err)
	}
	m.logger.Info("email sent", zap.String("to", to.Email), zap.String("subject", msg.Subject))
	return nil
}

// SendOTPEmail sends the verification code mail.
func (m *SMTPMailer) SendOTPEmail(ctx context.Context, to Recipient, otp string) error {
	return m.send(ctx, to, otpTemplate(to, otp))
}

// SendVerificationSuccessEmail sends the post-verification confirmation mail.
func (m *SMTPMailer) SendVerificationSuccessEmail(ctx context.Context, to Recipient) error {
	return m.send(ctx, to, verificationSuccessTemplate(to))
}

// SendWelcomeEmail sends the account-approved welcome mail.
func (m *SMTPMailer) SendWelcomeEmail(ctx context.Context, to Recipient) error {
	return m.send(ctx, to, welcomeTemplate(to))
}
