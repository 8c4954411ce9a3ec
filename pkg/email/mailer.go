package email

import "context"

// Recipient identifies who a transactional mail goes to.
type Recipient struct {
	Email     string
	FirstName string
	LastName  string
}

// Mailer sends fully-rendered transactional mail to a single recipient.
// Failures are reported synchronously; the caller decides whether to roll
// back the operation that triggered the send.
type Mailer interface {
	SendOTPEmail(ctx context.Context, to Recipient, otp string) error
	SendVerificationSuccessEmail(ctx context.Context, to Recipient) error
	SendWelcomeEmail(ctx context.Context, to Recipient) error
}
