package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OTP lifecycle constants. OTPResendInterval is measured from the issue time,
// which is reconstructed as otpExpires - OTPTTL (issued-at is not stored, see
// DESIGN.md).
const (
	OTPTTL            = 15 * time.Minute
	OTPResendInterval = 2 * time.Minute
	PendingMaxAge     = 24 * time.Hour
	OTPExpiredGrace   = 30 * time.Minute
)

// PendingUser is a transient registration awaiting email verification. It is
// promoted to a User on a successful OTP match and deleted afterwards, on
// expiry, or when the registration is retried.
type PendingUser struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email             string             `bson:"email" json:"email"`
	Password          string             `bson:"password" json:"-"` // already hashed
	FirstName         string             `bson:"firstName" json:"firstName"`
	LastName          string             `bson:"lastName" json:"lastName"`
	OTP               string             `bson:"otp" json:"-"`
	OTPExpires        time.Time          `bson:"otpExpires" json:"otpExpires"`
	VerificationToken string             `bson:"verificationToken" json:"-"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IssueOTP stores a fresh code and restarts the expiry window.
func (p *PendingUser) IssueOTP(otp string, now time.Time) {
	p.OTP = otp
	p.OTPExpires = now.Add(OTPTTL)
}

// VerifyOTP reports whether input matches the stored code and the code is
// still live at now. A matching but expired code is rejected.
func (p *PendingUser) VerifyOTP(input string, now time.Time) bool {
	if p.OTP == "" || p.OTPExpires.IsZero() {
		return false
	}
	if now.After(p.OTPExpires) {
		return false
	}
	return p.OTP == input
}

// IsOTPExpired reports whether the current code is past its expiry at now.
func (p *PendingUser) IsOTPExpired(now time.Time) bool {
	if p.OTPExpires.IsZero() {
		return true
	}
	return now.After(p.OTPExpires)
}

// OTPIssuedAt reconstructs when the current code was issued.
func (p *PendingUser) OTPIssuedAt() time.Time {
	return p.OTPExpires.Add(-OTPTTL)
}

// CleanupResult reports how many pending records a sweep removed per bucket.
type CleanupResult struct {
	ExpiredByAge int64 `json:"expiredByAge"`
	ExpiredByOTP int64 `json:"expiredByOtp"`
	BrokenData   int64 `json:"brokenData"`
	Total        int64 `json:"total"`
}

// PendingUserStats summarizes the pending_users collection.
type PendingUserStats struct {
	Total      int64             `json:"total"`
	Last24h    int64             `json:"last24h"`
	LastHour   int64             `json:"lastHour"`
	ExpiredOTP int64             `json:"expiredOtp"`
	ValidOTP   int64             `json:"validOtp"`
	Oldest     *PendingUserBrief `json:"oldest"`
	Newest     *PendingUserBrief `json:"newest"`
}

// PendingUserBrief identifies the oldest/newest pending record in stats.
type PendingUserBrief struct {
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"createdAt"`
	AgeMinutes int64     `json:"ageInMinutes"`
}
