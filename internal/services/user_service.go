package services

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/restlos-studio/dashboard-backend/internal/models"
	"github.com/restlos-studio/dashboard-backend/internal/repositories"
)

// UserService handles profile self-service and admin user administration.
type UserService struct {
	userRepo repositories.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger.Named("users"),
	}
}

// backfill fills the permission flags of accounts created before the
// permission model existed so API responses are always complete.
func backfill(user *models.User) *models.User {
	if user.Role != models.RoleAdmin && user.Permissions == (models.Permissions{}) {
		user.Permissions = models.LegacyPermissions(user.Role)
	}
	return user
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return backfill(user), nil
}

// List retrieves all users
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		backfill(u)
	}
	return users, nil
}

// Create creates an account on behalf of an admin. Admin-created accounts
// are auto-approved and verified.
func (s *UserService) Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	emailAddr := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.userRepo.EmailExists(ctx, emailAddr, primitive.NilObjectID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		return nil, validationErr("invalid role: %s", role)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:      emailAddr,
		Password:   string(hashed),
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   strings.TrimSpace(req.LastName),
		Role:       role,
		Approved:   true,
		IsActive:   true,
		IsVerified: true,
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Permissions != nil {
		user.Permissions = *req.Permissions
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user created by admin", zap.String("email", user.Email), zap.String("role", user.Role))
	return user, nil
}

// Update applies an admin's partial update to the user.
func (s *UserService) Update(ctx context.Context, id primitive.ObjectID, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Email != nil {
		emailAddr := strings.ToLower(strings.TrimSpace(*req.Email))
		if emailAddr != user.Email {
			exists, err := s.userRepo.EmailExists(ctx, emailAddr, id)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, ErrEmailTaken
			}
			user.Email = emailAddr
		}
	}
	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Role != nil {
		if !models.ValidRole(*req.Role) {
			return nil, validationErr("invalid role: %s", *req.Role)
		}
		user.Role = *req.Role
	}
	if req.Approved != nil {
		user.Approved = *req.Approved
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Permissions != nil {
		user.Permissions = *req.Permissions
	}
	if req.Password != nil && strings.TrimSpace(*req.Password) != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	// Update normalizes: admin role forces full permissions, any other role
	// drops the admin flag
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies a self-service update. Everyone may change their own
// names and password; only admin callers may touch the rest.
func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, req *models.UpdateProfileRequest, callerIsAdmin bool) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Password != nil && strings.TrimSpace(*req.Password) != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	if callerIsAdmin {
		if req.Email != nil {
			emailAddr := strings.ToLower(strings.TrimSpace(*req.Email))
			if emailAddr != user.Email {
				exists, err := s.userRepo.EmailExists(ctx, emailAddr, id)
				if err != nil {
					return nil, err
				}
				if exists {
					return nil, ErrEmailTaken
				}
				user.Email = emailAddr
			}
		}
		if req.Role != nil {
			if !models.ValidRole(*req.Role) {
				return nil, validationErr("invalid role: %s", *req.Role)
			}
			user.Role = *req.Role
		}
		if req.Approved != nil {
			user.Approved = *req.Approved
		}
		if req.Permissions != nil {
			user.Permissions = *req.Permissions
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user. Admins cannot delete their own account.
func (s *UserService) Delete(ctx context.Context, actorID, targetID primitive.ObjectID) error {
	if actorID == targetID {
		return ErrSelfDelete
	}
	if err := s.userRepo.Delete(ctx, targetID); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrUserNotFound
		}
		return err
	}
	s.logger.Info("user deleted", zap.String("id", targetID.Hex()))
	return nil
}
