package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/restlos-studio/dashboard-backend/internal/models"
)

// Claims is the JWT payload issued at login. It carries everything the
// authorization policy needs so route checks never hit the database.
type Claims struct {
	UserID      string             `json:"uid"`
	Email       string             `json:"email"`
	FirstName   string             `json:"firstName"`
	LastName    string             `json:"lastName"`
	Role        string             `json:"role"`
	Permissions models.Permissions `json:"permissions"`
	IsActive    bool               `json:"isActive"`
	jwt.RegisteredClaims
}
