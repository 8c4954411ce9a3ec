package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/restlos-studio/dashboard-backend/internal/models"
)

func newUserService() (*UserService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	return NewUserService(repo, zap.NewNop()), repo
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestAdminCreateUserDefaults(t *testing.T) {
	svc, _ := newUserService()

	user, err := svc.Create(context.Background(), &models.CreateUserRequest{
		FirstName: "Lena",
		LastName:  "Koch",
		Email:     "Lena.Koch@Example.de",
		Password:  "some-password",
	})
	require.NoError(t, err)

	assert.Equal(t, "lena.koch@example.de", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.True(t, user.Approved, "admin-created accounts skip approval")
	assert.True(t, user.IsVerified, "admin-created accounts skip OTP verification")
	assert.True(t, user.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("some-password")))
}

func TestAdminCreateAdminIsNormalized(t *testing.T) {
	svc, _ := newUserService()

	user, err := svc.Create(context.Background(), &models.CreateUserRequest{
		FirstName: "Chef",
		LastName:  "Admin",
		Email:     "chef@example.de",
		Password:  "some-password",
		Role:      models.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, models.FullPermissions(), user.Permissions)
}

func TestAdminCreateUserValidation(t *testing.T) {
	svc, repo := newUserService()
	seedUser(t, repo, "taken@example.de", "pw", nil)

	_, err := svc.Create(context.Background(), &models.CreateUserRequest{
		FirstName: "A", LastName: "B", Email: "taken@example.de", Password: "some-password",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Create(context.Background(), &models.CreateUserRequest{
		FirstName: "A", LastName: "B", Email: "new@example.de", Password: "some-password",
		Role: "superuser",
	})
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestAdminUpdateUser(t *testing.T) {
	svc, repo := newUserService()
	user := seedUser(t, repo, "lena@example.de", "old-password", nil)
	seedUser(t, repo, "taken@example.de", "pw", nil)

	updated, err := svc.Update(context.Background(), user.ID, &models.UpdateUserRequest{
		FirstName: strPtr("Magdalena"),
		Approved:  boolPtr(false),
		Password:  strPtr("new-password"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Magdalena", updated.FirstName)
	assert.False(t, updated.Approved)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("new-password")))

	// email conflicts are rejected
	_, err = svc.Update(context.Background(), user.ID, &models.UpdateUserRequest{
		Email: strPtr("taken@example.de"),
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	// promotion to admin picks up the full flag set via normalization
	updated, err = svc.Update(context.Background(), user.ID, &models.UpdateUserRequest{
		Role: strPtr(models.RoleAdmin),
	})
	require.NoError(t, err)
	assert.Equal(t, models.FullPermissions(), updated.Permissions)
	assert.True(t, updated.Approved)
}

func TestUpdateProfileScopesAdminFields(t *testing.T) {
	svc, repo := newUserService()
	user := seedUser(t, repo, "lena@example.de", "old-password", func(u *models.User) {
		u.Role = models.RoleUser
	})

	req := &models.UpdateProfileRequest{
		FirstName: strPtr("Magdalena"),
		Email:     strPtr("other@example.de"),
		Role:      strPtr(models.RoleManager),
	}

	// a regular caller can only change names and password
	updated, err := svc.UpdateProfile(context.Background(), user.ID, req, false)
	require.NoError(t, err)
	assert.Equal(t, "Magdalena", updated.FirstName)
	assert.Equal(t, "lena@example.de", updated.Email)
	assert.Equal(t, models.RoleUser, updated.Role)

	// an admin caller may change everything
	updated, err = svc.UpdateProfile(context.Background(), user.ID, req, true)
	require.NoError(t, err)
	assert.Equal(t, "other@example.de", updated.Email)
	assert.Equal(t, models.RoleManager, updated.Role)
}

func TestDeleteUser(t *testing.T) {
	svc, repo := newUserService()
	admin := seedUser(t, repo, "admin@example.de", "pw", func(u *models.User) {
		u.Role = models.RoleAdmin
	})
	target := seedUser(t, repo, "target@example.de", "pw", nil)

	assert.ErrorIs(t, svc.Delete(context.Background(), admin.ID, admin.ID), ErrSelfDelete)

	require.NoError(t, svc.Delete(context.Background(), admin.ID, target.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), admin.ID, target.ID), ErrUserNotFound)
}

func TestGetByIDBackfillsLegacyPermissions(t *testing.T) {
	svc, repo := newUserService()
	user := seedUser(t, repo, "legacy@example.de", "pw", func(u *models.User) {
		u.Permissions = models.Permissions{}
	})

	got, err := svc.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, got.Permissions.Marketing)
}
