package services

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/restlos-studio/dashboard-backend/internal/auth"
	"github.com/restlos-studio/dashboard-backend/internal/config"
	"github.com/restlos-studio/dashboard-backend/internal/models"
	"github.com/restlos-studio/dashboard-backend/internal/repositories"
)

// AuthService handles credential checks and session token issuance.
type AuthService struct {
	userRepo repositories.UserRepository
	cfg      *config.Config
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.UserRepository, cfg *config.Config, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
		logger:   logger.Named("auth"),
		now:      time.Now,
	}
}

// Login verifies the credentials and account gates, records the login time
// and returns a signed session token together with the user.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (string, *models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !user.Approved {
		return "", nil, ErrNotApproved
	}
	if !user.IsActive {
		return "", nil, ErrAccountDisabled
	}

	now := s.now()
	user.LastLogin = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		// login still succeeds, lastLogin is analytics only
		s.logger.Warn("failed to record last login", zap.Error(err), zap.String("email", user.Email))
	}

	// accounts predating the permission model get the backfilled flags
	permissions := user.Permissions
	if user.Role != models.RoleAdmin && permissions == (models.Permissions{}) {
		permissions = models.LegacyPermissions(user.Role)
	}

	claims := &auth.Claims{
		UserID:      user.ID.Hex(),
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Role:        user.Role,
		Permissions: permissions,
		IsActive:    user.IsActive,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.cfg.JWT.ExpiresIn) * time.Second)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("user logged in", zap.String("email", user.Email), zap.String("role", user.Role))
	return signed, user, nil
}
