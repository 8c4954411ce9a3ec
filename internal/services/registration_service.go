package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/restlos-studio/dashboard-backend/internal/models"
	"github.com/restlos-studio/dashboard-backend/internal/repositories"
	"github.com/restlos-studio/dashboard-backend/internal/utils"
	"github.com/restlos-studio/dashboard-backend/pkg/email"
)

// RegistrationService drives the pending-registration / OTP lifecycle:
// register, verify (promotion to a real account), resend and cleanup.
type RegistrationService struct {
	userRepo    repositories.UserRepository
	pendingRepo repositories.PendingUserRepository
	mailer      email.Mailer
	logger      *zap.Logger
	now         func() time.Time
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(userRepo repositories.UserRepository, pendingRepo repositories.PendingUserRepository, mailer email.Mailer, logger *zap.Logger) *RegistrationService {
	return &RegistrationService{
		userRepo:    userRepo,
		pendingRepo: pendingRepo,
		mailer:      mailer,
		logger:      logger.Named("registration"),
		now:         time.Now,
	}
}

// Register starts a registration: the account only exists as a PendingUser
// until the emailed OTP is verified. A retry for the same email replaces the
// previous pending record. When the OTP mail cannot be sent the pending
// record is rolled back so no unusable registration is left behind.
func (s *RegistrationService) Register(ctx context.Context, req *models.RegisterRequest) (string, error) {
	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.userRepo.FindByEmail(ctx, emailAddr); err == nil {
		return "", ErrEmailTaken
	} else if err != mongo.ErrNoDocuments {
		return "", err
	}

	// a duplicate registration supersedes the previous attempt
	if err := s.pendingRepo.DeleteByEmail(ctx, emailAddr); err != nil {
		return "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	token, err := utils.GenerateVerificationToken()
	if err != nil {
		return "", err
	}
	otp, err := utils.GenerateOTP()
	if err != nil {
		return "", err
	}

	pending := &models.PendingUser{
		Email:             emailAddr,
		Password:          string(hashed),
		FirstName:         strings.TrimSpace(req.FirstName),
		LastName:          strings.TrimSpace(req.LastName),
		VerificationToken: token,
	}
	pending.IssueOTP(otp, s.now())

	if err := s.pendingRepo.Create(ctx, pending); err != nil {
		return "", err
	}

	recipient := email.Recipient{Email: pending.Email, FirstName: pending.FirstName, LastName: pending.LastName}
	if err := s.mailer.SendOTPEmail(ctx, recipient, otp); err != nil {
		s.logger.Error("OTP email failed, rolling back pending registration",
			zap.Error(err), zap.String("email", pending.Email))
		if delErr := s.pendingRepo.Delete(ctx, pending.ID); delErr != nil {
			s.logger.Error("failed to roll back pending registration", zap.Error(delErr))
		}
		return "", ErrEmailSendFailed
	}

	s.logger.Info("pending registration created", zap.String("email", pending.Email))
	return token, nil
}

// VerifyOTP promotes a pending registration to a real account when the code
// matches and is still live. The new account stays unapproved: an admin has
// to grant login eligibility separately.
func (s *RegistrationService) VerifyOTP(ctx context.Context, token, otp string) error {
	pending, err := s.pendingRepo.FindByToken(ctx, token)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrTokenNotFound
		}
		return err
	}

	now := s.now()
	if !pending.VerifyOTP(otp, now) {
		if pending.IsOTPExpired(now) {
			return ErrOTPExpired
		}
		return ErrOTPMismatch
	}

	// the email may have been taken since registration started
	if _, err := s.userRepo.FindByEmail(ctx, pending.Email); err == nil {
		if delErr := s.pendingRepo.Delete(ctx, pending.ID); delErr != nil {
			s.logger.Error("failed to delete stale pending registration", zap.Error(delErr))
		}
		return ErrEmailTaken
	} else if err != mongo.ErrNoDocuments {
		return err
	}

	user := &models.User{
		Email:       pending.Email,
		Password:    pending.Password, // already hashed
		FirstName:   pending.FirstName,
		LastName:    pending.LastName,
		Role:        models.RoleUser,
		Approved:    false,
		IsVerified:  true,
		IsActive:    true,
		Permissions: models.DefaultPermissions(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}

	// a crash between the insert above and this delete leaves a stale pending
	// record; the cleanup sweep removes it and the unique email index keeps a
	// second promotion from creating a duplicate account
	if err := s.pendingRepo.Delete(ctx, pending.ID); err != nil {
		s.logger.Error("failed to delete promoted pending registration", zap.Error(err))
	}

	s.logger.Info("user verified and created", zap.String("email", user.Email))

	// best effort, the account exists either way
	recipient := email.Recipient{Email: user.Email, FirstName: user.FirstName, LastName: user.LastName}
	if err := s.mailer.SendVerificationSuccessEmail(ctx, recipient); err != nil {
		s.logger.Warn("verification success email failed", zap.Error(err), zap.String("email", user.Email))
	}

	return nil
}

// ResendOTP issues a fresh code for a live pending registration, at most once
// every OTPResendInterval. The issue time of the current code is reconstructed
// from its expiry (issued-at is not stored, see DESIGN.md).
func (s *RegistrationService) ResendOTP(ctx context.Context, token string) error {
	pending, err := s.pendingRepo.FindByToken(ctx, token)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrTokenNotFound
		}
		return err
	}

	now := s.now()
	if !pending.OTPExpires.IsZero() {
		nextAllowed := pending.OTPIssuedAt().Add(models.OTPResendInterval)
		if now.Before(nextAllowed) {
			return &RateLimitedError{RetryAfter: nextAllowed.Sub(now)}
		}
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		return err
	}
	pending.IssueOTP(otp, now)
	if err := s.pendingRepo.Update(ctx, pending); err != nil {
		return err
	}

	recipient := email.Recipient{Email: pending.Email, FirstName: pending.FirstName, LastName: pending.LastName}
	if err := s.mailer.SendOTPEmail(ctx, recipient, otp); err != nil {
		s.logger.Error("OTP resend email failed", zap.Error(err), zap.String("email", pending.Email))
		return ErrEmailSendFailed
	}

	s.logger.Info("new OTP sent", zap.String("email", pending.Email))
	return nil
}

// Cleanup sweeps the pending collection: records older than 24 hours, records
// whose OTP expired more than 30 minutes ago, and malformed records missing
// OTP fields. Run on demand, not on a scheduler.
func (s *RegistrationService) Cleanup(ctx context.Context) (*models.CleanupResult, error) {
	now := s.now()

	byAge, err := s.pendingRepo.DeleteCreatedBefore(ctx, now.Add(-models.PendingMaxAge))
	if err != nil {
		return nil, err
	}
	byOTP, err := s.pendingRepo.DeleteOTPExpiredBefore(ctx, now.Add(-models.OTPExpiredGrace))
	if err != nil {
		return nil, err
	}
	broken, err := s.pendingRepo.DeleteMalformed(ctx)
	if err != nil {
		return nil, err
	}

	result := &models.CleanupResult{
		ExpiredByAge: byAge,
		ExpiredByOTP: byOTP,
		BrokenData:   broken,
		Total:        byAge + byOTP + broken,
	}
	s.logger.Info("pending user cleanup finished",
		zap.Int64("expiredByAge", byAge),
		zap.Int64("expiredByOtp", byOTP),
		zap.Int64("brokenData", broken))
	return result, nil
}

// PendingStats reports the state of the pending collection without deleting
// anything.
func (s *RegistrationService) PendingStats(ctx context.Context) (*models.PendingUserStats, error) {
	now := s.now()

	total, err := s.pendingRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	last24h, err := s.pendingRepo.CountCreatedAfter(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}
	lastHour, err := s.pendingRepo.CountCreatedAfter(ctx, now.Add(-time.Hour))
	if err != nil {
		return nil, err
	}
	expired, err := s.pendingRepo.CountOTPExpiresBefore(ctx, now)
	if err != nil {
		return nil, err
	}

	stats := &models.PendingUserStats{
		Total:      total,
		Last24h:    last24h,
		LastHour:   lastHour,
		ExpiredOTP: expired,
		ValidOTP:   total - expired,
	}

	if oldest, err := s.pendingRepo.FindOldest(ctx); err != nil {
		return nil, err
	} else if oldest != nil {
		stats.Oldest = &models.PendingUserBrief{
			Email:      oldest.Email,
			CreatedAt:  oldest.CreatedAt,
			AgeMinutes: int64(now.Sub(oldest.CreatedAt).Minutes()),
		}
	}
	if newest, err := s.pendingRepo.FindNewest(ctx); err != nil {
		return nil, err
	} else if newest != nil {
		stats.Newest = &models.PendingUserBrief{
			Email:      newest.Email,
			CreatedAt:  newest.CreatedAt,
			AgeMinutes: int64(now.Sub(newest.CreatedAt).Minutes()),
		}
	}

	return stats, nil
}
