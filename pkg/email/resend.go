package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const resendAPIURL = "https://api.resend.com/emails"

// ResendMailer implements Mailer against the Resend transactional email API.
type ResendMailer struct {
	apiKey    string
	fromEmail string
	fromName  string
	client    *http.Client
	logger    *zap.Logger
}

// NewResendMailer creates a new ResendMailer.
func NewResendMailer(apiKey, fromEmail, fromName string, logger *zap.Logger) *ResendMailer {
	return &ResendMailer{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger.Named("resend"),
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
}

type resendResponse struct {
	ID string `json:"id"`
}

func (m *ResendMailer) send(ctx context.Context, to Recipient, msg message) error {
	payload := resendRequest{
		From:    fmt.Sprintf("%s <%s>", m.fromName, m.fromEmail),
		To:      []string{to.Email},
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal resend payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendAPIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create resend request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		m.logger.Error("resend request failed", zap.Error(err), zap.String("to", to.Email))
		return fmt.Errorf("send request to resend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		m.logger.Error("resend API rejected email",
			zap.Int("statusCode", resp.StatusCode),
			zap.String("to", to.Email),
			zap.ByteString("body", raw))
		return fmt.Errorf("resend API returned status %d", resp.StatusCode)
	}

	var result resendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil && result.ID != "" {
		m.logger.Info("email sent", zap.String("to", to.Email), zap.String("messageId", result.ID))
	} else {
		m.logger.Info("email sent", zap.String("to", to.Email))
	}
	return nil
}

// SendOTPEmail sends the verification code mail.
func (m *ResendMailer) SendOTPEmail(ctx context.Context, to Recipient, otp string) error {
	return m.send(ctx, to, otpTemplate(to, otp))
}

// SendVerificationSuccessEmail sends the post-verification confirmation mail.
func (m *ResendMailer) SendVerificationSuccessEmail(ctx context.Context, to Recipient) error {
	return m.send(ctx, to, verificationSuccessTemplate(to))
}

// SendWelcomeEmail sends the account-approved welcome mail.
func (m *ResendMailer) SendWelcomeEmail(ctx context.Context, to Recipient) error {
	return m.send(ctx, to, welcomeTemplate(to))
}
