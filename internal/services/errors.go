package services

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors the handlers translate into HTTP status codes.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotApproved        = errors.New("account not yet approved")
	ErrAccountDisabled    = errors.New("account deactivated")
	ErrEmailTaken         = errors.New("email already in use")
	ErrTokenNotFound      = errors.New("invalid or expired verification link")
	ErrOTPExpired         = errors.New("code has expired, request a new one")
	ErrOTPMismatch        = errors.New("invalid code")
	ErrEmailSendFailed    = errors.New("email could not be sent")
	ErrUserNotFound       = errors.New("user not found")
	ErrSelfDelete         = errors.New("cannot delete your own account")
	ErrCampaignNotFound   = errors.New("campaign not found")
	ErrAuctionNumberTaken = errors.New("a campaign with this auction number already exists")
)

// ValidationError carries a field-level validation message surfaced as 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErr(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// RateLimitedError tells the caller to retry after the given wait, surfaced
// as 429.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	minutes := int(e.RetryAfter.Minutes())
	if e.RetryAfter > time.Duration(minutes)*time.Minute {
		minutes++
	}
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("please wait %d minute(s) before requesting a new code", minutes)
}
