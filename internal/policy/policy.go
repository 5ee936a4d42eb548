// Package policy maps roles to capabilities. Every route applies exactly one
// predicate after token verification; the role lists live nowhere else.
package policy

const (
	RoleSuperAdmin    = "super_admin"
	RoleRegionalAdmin = "regional_admin"
	RoleAnalyst       = "analyst"
	RoleEditor        = "editor"
	RolePublicViewer  = "public_viewer"
)

// ElevatedRoles are the roles a registration may request. Anything else
// (including an empty request) falls back to public_viewer.
var ElevatedRoles = []string{RoleSuperAdmin, RoleRegionalAdmin, RoleAnalyst, RoleEditor}

func CanEdit(role string) bool {
	return role == RoleSuperAdmin || role == RoleRegionalAdmin || role == RoleEditor
}

func CanDelete(role string) bool {
	return role == RoleSuperAdmin || role == RoleRegionalAdmin
}

func CanUpload(role string) bool {
	return role == RoleSuperAdmin || role == RoleRegionalAdmin || role == RoleAnalyst
}

func IsSuperAdmin(role string) bool { return role == RoleSuperAdmin }

// CanLogin rejects the viewer role: public_viewer accounts exist only as
// registration placeholders and never authenticate.
func CanLogin(role string) bool { return role != RolePublicViewer && ValidRole(role) }

func ValidRole(role string) bool {
	if role == RolePublicViewer {
		return true
	}
	return Elevated(role)
}

func Elevated(role string) bool {
	for _, r := range ElevatedRoles {
		if role == r {
			return true
		}
	}
	return false
}
