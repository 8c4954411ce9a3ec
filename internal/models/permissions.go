package models

// Permission names a feature area gated by a boolean flag on the user.
type Permission string

const (
	PermissionMarketing  Permission = "marketing"
	PermissionManagement Permission = "management"
	PermissionProjects   Permission = "projects"
	PermissionAccounting Permission = "accounting"
	PermissionHR         Permission = "hr"
	PermissionAdmin      Permission = "admin"
)

// Permissions holds the six independent capability flags per user.
type Permissions struct {
	Marketing  bool `bson:"marketing" json:"marketing"`
	Management bool `bson:"management" json:"management"`
	Projects   bool `bson:"projects" json:"projects"`
	Accounting bool `bson:"accounting" json:"accounting"`
	HR         bool `bson:"hr" json:"hr"`
	Admin      bool `bson:"admin" json:"admin"`
}

// DefaultPermissions returns the flags granted to a newly registered user.
func DefaultPermissions() Permissions {
	return Permissions{}
}

// FullPermissions returns every flag set, as forced for the admin role.
func FullPermissions() Permissions {
	return Permissions{
		Marketing:  true,
		Management: true,
		Projects:   true,
		Accounting: true,
		HR:         true,
		Admin:      true,
	}
}

// LegacyPermissions backfills accounts created before the permission model
// existed: admins get everything, everyone else gets marketing.
func LegacyPermissions(role string) Permissions {
	if role == RoleAdmin {
		return FullPermissions()
	}
	p := DefaultPermissions()
	p.Marketing = true
	return p
}

// Has reports whether the named flag is set.
func (p Permissions) Has(perm Permission) bool {
	switch perm {
	case PermissionMarketing:
		return p.Marketing
	case PermissionManagement:
		return p.Management
	case PermissionProjects:
		return p.Projects
	case PermissionAccounting:
		return p.Accounting
	case PermissionHR:
		return p.HR
	case PermissionAdmin:
		return p.Admin
	}
	return false
}
