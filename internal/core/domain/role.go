package domain

// Role is a named permission category assigned to an identity.
type Role string

// The role list is consumed by route declarations; changing it breaks
// existing tokens and route tables.
const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleSuperUser Role = "super-user"
)

// ValidRoles returns the set of roles recognised by the system.
func ValidRoles() []Role {
	return []Role{RoleUser, RoleAdmin, RoleSuperUser}
}

// IsValidRole reports whether r belongs to the role registry.
func IsValidRole(r Role) bool {
	for _, valid := range ValidRoles() {
		if valid == r {
			return true
		}
	}
	return false
}

// ParseRoles converts stored role names into Roles, dropping unknown values.
func ParseRoles(names []string) []Role {
	roles := make([]Role, 0, len(names))
	for _, n := range names {
		if r := Role(n); IsValidRole(r) {
			roles = append(roles, r)
		}
	}
	return roles
}

// RoleNames is the inverse of ParseRoles.
func RoleNames(roles []Role) []string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return names
}
