// Package authz decides whether an identity may invoke an operation.
//
// Every route declares a Requirement at definition time. The same Authorize
// function is evaluated for all of them at the request-dispatch boundary.
package authz

import (
	"strings"

	"github.com/99minutos/catalog-system/internal/core/domain"
)

// Requirement is the immutable set of roles sufficient to invoke an
// operation. The zero value is Public: no requirement at all.
type Requirement struct {
	required bool
	roles    []domain.Role
}

// Public declares an operation open to anyone, authenticated or not.
var Public = Requirement{}

// Authenticated requires a valid identity but no particular role.
func Authenticated() Requirement {
	return Requirement{required: true}
}

// AnyOf requires an identity holding at least one of roles. Duplicates are
// allowed and have no effect. AnyOf() with no roles equals Authenticated().
func AnyOf(roles ...domain.Role) Requirement {
	r := Requirement{required: true, roles: make([]domain.Role, len(roles))}
	copy(r.roles, roles)
	return r
}

// Required reports whether a resolved identity is needed at all.
func (r Requirement) Required() bool {
	return r.required
}

// Roles returns a copy of the accepted roles.
func (r Requirement) Roles() []domain.Role {
	out := make([]domain.Role, len(r.roles))
	copy(out, r.roles)
	return out
}

func (r Requirement) String() string {
	switch {
	case !r.required:
		return "public"
	case len(r.roles) == 0:
		return "authenticated"
	}
	return "[" + strings.Join(domain.RoleNames(r.roles), ", ") + "]"
}
