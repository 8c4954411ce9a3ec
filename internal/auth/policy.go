package auth

import "github.com/restlos-studio/dashboard-backend/internal/models"

// Authorize is the single authorization policy for API routes: the caller
// must be active, and either hold the admin role, or the route requires no
// permission, or the named flag must be set on the caller.
func Authorize(claims *Claims, required models.Permission) bool {
	if claims == nil || !claims.IsActive {
		return false
	}
	if claims.Role == models.RoleAdmin {
		return true
	}
	if required == "" {
		return true
	}
	return claims.Permissions.Has(required)
}

// IsAdmin reports whether the caller may use the admin surface: the admin
// role, or the admin permission flag.
func IsAdmin(claims *Claims) bool {
	if claims == nil || !claims.IsActive {
		return false
	}
	return claims.Role == models.RoleAdmin || claims.Permissions.Admin
}
