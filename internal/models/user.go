package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleManager || role == RoleUser
}

// User represents an account in the system
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password" json:"-"` // bcrypt hash, never serialized
	FirstName   string             `bson:"firstName" json:"firstName"`
	LastName    string             `bson:"lastName" json:"lastName"`
	Role        string             `bson:"role" json:"role"`
	Approved    bool               `bson:"approved" json:"approved"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	IsVerified  bool               `bson:"isVerified" json:"isVerified"`
	Permissions Permissions        `bson:"permissions" json:"permissions"`
	LastLogin   *time.Time         `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Normalize enforces the role invariant before a save: the admin role always
// carries every permission flag and is both approved and verified.
func (u *User) Normalize() {
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.Role == RoleAdmin {
		u.Permissions = FullPermissions()
		u.Approved = true
		u.IsVerified = true
	} else {
		u.Permissions.Admin = false
	}
}

// HasPermission reports whether the user may access the named feature area.
// Admins always may.
func (u *User) HasPermission(perm Permission) bool {
	return u.Role == RoleAdmin || u.Permissions.Has(perm)
}

// FullName returns "First Last".
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
