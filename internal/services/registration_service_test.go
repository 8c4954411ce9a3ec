package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/restlos-studio/dashboard-backend/internal/models"
)

type registrationFixture struct {
	svc      *RegistrationService
	users    *fakeUserRepo
	pending  *fakePendingRepo
	mailer   *fakeMailer
	setClock func(time.Time)
}

func newRegistrationFixture(t *testing.T) *registrationFixture {
	t.Helper()

	users := newFakeUserRepo()
	pending := newFakePendingRepo()
	mailer := &fakeMailer{}
	svc := NewRegistrationService(users, pending, mailer, zap.NewNop())

	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }

	return &registrationFixture{
		svc:     svc,
		users:   users,
		pending: pending,
		mailer:  mailer,
		setClock: func(at time.Time) {
			svc.now = func() time.Time { return at }
		},
	}
}

func registerRequest() *models.RegisterRequest {
	return &models.RegisterRequest{
		FirstName: "Jonas",
		LastName:  "Weber",
		Email:     "Jonas.Weber@example.de",
		Password:  "korrekt-horse",
	}
}

func TestRegisterCreatesPendingAndSendsOTP(t *testing.T) {
	f := newRegistrationFixture(t)

	token, err := f.svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	p, err := f.pending.FindByToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "jonas.weber@example.de", p.Email)
	assert.Len(t, p.OTP, 6)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(p.Password), []byte("korrekt-horse")))

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "otp", f.mailer.sent[0].kind)
	assert.Equal(t, p.OTP, f.mailer.sent[0].otp)

	// no real account exists yet
	_, err = f.users.FindByEmail(context.Background(), "jonas.weber@example.de")
	assert.Error(t, err)
}

func TestRegisterRejectsExistingAccount(t *testing.T) {
	f := newRegistrationFixture(t)
	seedUser(t, f.users, "jonas.weber@example.de", "whatever", nil)

	_, err := f.svc.Register(context.Background(), registerRequest())
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterRetryReplacesPreviousAttempt(t *testing.T) {
	f := newRegistrationFixture(t)

	first, err := f.svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	second, err := f.svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, err = f.pending.FindByToken(context.Background(), first)
	assert.Error(t, err, "the superseded attempt must be gone")

	total, err := f.pending.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestRegisterRollsBackWhenEmailFails(t *testing.T) {
	f := newRegistrationFixture(t)
	f.mailer.failNext = true

	_, err := f.svc.Register(context.Background(), registerRequest())
	assert.ErrorIs(t, err, ErrEmailSendFailed)

	total, err := f.pending.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total, "no unusable pending record may remain")
}

func TestVerifyOTPPromotesPendingUser(t *testing.T) {
	f := newRegistrationFixture(t)

	token, err := f.svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	require.NoError(t, f.svc.VerifyOTP(context.Background(), token, f.mailer.lastOTP()))

	user, err := f.users.FindByEmail(context.Background(), "jonas.weber@example.de")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.False(t, user.Approved, "verification must not grant login eligibility")
	assert.True(t, user.IsVerified)
	assert.True(t, user.IsActive)

	total, err := f.pending.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total)

	last := f.mailer.sent[len(f.mailer.sent)-1]
	assert.Equal(t, "success", last.kind)
}

func TestVerifyOTPErrors(t *testing.T) {
	f := newRegistrationFixture(t)

	token, err := f.svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.VerifyOTP(context.Background(), "no-such-token", "123456"), ErrTokenNotFound)
	assert.ErrorIs(t, f.svc.VerifyOTP(context.Background(), token, "000000"), ErrOTPMismatch)

	// correct code, but past the TTL
	f.setClock(f.svc.now().Add(models.OTPTTL + time.Minute))
	assert.ErrorIs(t, f.svc.VerifyOTP(context.Background(), token, f.mailer.lastOTP()), ErrOTPExpired)
}

func TestVerifyOTPDetectsEmailTakenMeanwhile(t *testing.T) {
	f := newRegistrationFixture(t)

	token, err := f.svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	// the address gets claimed between register and verify
	seedUser(t, f.users, "jonas.weber@example.de", "other-pass", nil)

	assert.ErrorIs(t, f.svc.VerifyOTP(context.Background(), token, f.mailer.lastOTP()), ErrEmailTaken)

	total, err := f.pending.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total, "the stale pending record is removed")
}

func TestResendOTPIsRateLimited(t *testing.T) {
	f := newRegistrationFixture(t)

	token, err := f.svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	firstOTP := f.mailer.lastOTP()

	err = f.svc.ResendOTP(context.Background(), token)
	var rateLimited *RateLimitedError
	require.ErrorAs(t, err, &rateLimited)
	assert.Equal(t, models.OTPResendInterval, rateLimited.RetryAfter)

	// once the interval has passed a fresh code goes out
	f.setClock(f.svc.now().Add(models.OTPResendInterval))
	require.NoError(t, f.svc.ResendOTP(context.Background(), token))

	p, err := f.pending.FindByToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, f.mailer.lastOTP(), p.OTP)
	assert.NotEmpty(t, firstOTP)
}

func TestResendOTPUnknownToken(t *testing.T) {
	f := newRegistrationFixture(t)
	assert.ErrorIs(t, f.svc.ResendOTP(context.Background(), "missing"), ErrTokenNotFound)
}

func TestCleanupSweepsStaleRecords(t *testing.T) {
	f := newRegistrationFixture(t)
	now := f.svc.now()
	ctx := context.Background()

	// too old
	require.NoError(t, f.pending.Create(ctx, &models.PendingUser{
		Email: "old@example.de", OTP: "111111",
		OTPExpires: now.Add(-20 * time.Hour),
		CreatedAt:  now.Add(-(models.PendingMaxAge + time.Hour)),
	}))
	// OTP long expired
	require.NoError(t, f.pending.Create(ctx, &models.PendingUser{
		Email: "stale@example.de", OTP: "222222",
		OTPExpires: now.Add(-(models.OTPExpiredGrace + time.Minute)),
		CreatedAt:  now.Add(-2 * time.Hour),
	}))
	// missing OTP fields
	require.NoError(t, f.pending.Create(ctx, &models.PendingUser{
		Email: "broken@example.de", CreatedAt: now.Add(-time.Hour),
	}))
	// healthy
	healthy := &models.PendingUser{Email: "fresh@example.de", CreatedAt: now.Add(-time.Minute)}
	healthy.IssueOTP("333333", now)
	require.NoError(t, f.pending.Create(ctx, healthy))

	result, err := f.svc.Cleanup(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.ExpiredByAge)
	assert.EqualValues(t, 1, result.ExpiredByOTP)
	assert.EqualValues(t, 1, result.BrokenData)
	assert.EqualValues(t, 3, result.Total)

	total, err := f.pending.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestPendingStats(t *testing.T) {
	f := newRegistrationFixture(t)
	now := f.svc.now()
	ctx := context.Background()

	oldest := &models.PendingUser{Email: "oldest@example.de", CreatedAt: now.Add(-10 * time.Hour)}
	oldest.IssueOTP("111111", now.Add(-10*time.Hour))
	require.NoError(t, f.pending.Create(ctx, oldest))

	newest := &models.PendingUser{Email: "newest@example.de", CreatedAt: now.Add(-10 * time.Minute)}
	newest.IssueOTP("222222", now.Add(-10*time.Minute))
	require.NoError(t, f.pending.Create(ctx, newest))

	stats, err := f.svc.PendingStats(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 2, stats.Total)
	assert.EqualValues(t, 2, stats.Last24h)
	assert.EqualValues(t, 1, stats.LastHour)
	assert.EqualValues(t, 1, stats.ExpiredOTP) // the 10h old code is long past its TTL
	assert.EqualValues(t, 1, stats.ValidOTP)

	require.NotNil(t, stats.Oldest)
	assert.Equal(t, "oldest@example.de", stats.Oldest.Email)
	assert.EqualValues(t, 600, stats.Oldest.AgeMinutes)
	require.NotNil(t, stats.Newest)
	assert.Equal(t, "newest@example.de", stats.Newest.Email)
}
