package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAdminGetsEverything(t *testing.T) {
	u := &User{Role: RoleAdmin}
	u.Normalize()

	assert.Equal(t, FullPermissions(), u.Permissions)
	assert.True(t, u.Approved)
	assert.True(t, u.IsVerified)
}

func TestNormalizeStripsAdminFlagFromOtherRoles(t *testing.T) {
	u := &User{Role: RoleManager, Permissions: Permissions{Marketing: true, Admin: true}}
	u.Normalize()

	assert.False(t, u.Permissions.Admin)
	assert.True(t, u.Permissions.Marketing)
	assert.False(t, u.Approved)
}

func TestNormalizeDefaultsEmptyRole(t *testing.T) {
	u := &User{}
	u.Normalize()
	assert.Equal(t, RoleUser, u.Role)
}

func TestHasPermission(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	assert.True(t, admin.HasPermission(PermissionAccounting))

	u := &User{Role: RoleUser, Permissions: Permissions{Marketing: true}}
	assert.True(t, u.HasPermission(PermissionMarketing))
	assert.False(t, u.HasPermission(PermissionHR))
}

func TestLegacyPermissions(t *testing.T) {
	assert.Equal(t, FullPermissions(), LegacyPermissions(RoleAdmin))

	p := LegacyPermissions(RoleUser)
	assert.True(t, p.Marketing)
	assert.False(t, p.Admin)
	assert.False(t, p.Management)
}

func TestUserJSONHidesPassword(t *testing.T) {
	u := &User{Email: "a@b.de", Password: "$2a$10$secret"}

	raw, err := json.Marshal(u)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	_, ok := out["password"]
	assert.False(t, ok)
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleManager))
	assert.True(t, ValidRole(RoleUser))
	assert.False(t, ValidRole("superuser"))
	assert.False(t, ValidRole(""))
}
