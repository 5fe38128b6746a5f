package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/catalog-system/internal/core/domain"
)

func identity(active bool, roles ...domain.Role) *domain.Identity {
	return &domain.Identity{ID: "u1", Email: "carol@example.com", Active: active, Roles: roles}
}

func TestAuthorize_Public(t *testing.T) {
	assert.True(t, Authorize(Public, nil).Allowed)
	assert.True(t, Authorize(Public, identity(false)).Allowed)
}

func TestAuthorize_AuthenticatedOnly(t *testing.T) {
	assert.True(t, Authorize(Authenticated(), identity(true)).Allowed, "no role needed")
	assert.True(t, Authorize(AnyOf(), identity(true, domain.RoleUser)).Allowed)

	d := Authorize(Authenticated(), nil)
	assert.False(t, d.Allowed)
	assert.Equal(t, reasonUnavailable, d.Reason)
}

func TestAuthorize_InactiveIdentityDenied(t *testing.T) {
	d := Authorize(AnyOf(domain.RoleAdmin), identity(false, domain.RoleAdmin))
	assert.False(t, d.Allowed)
	assert.Equal(t, reasonUnavailable, d.Reason)
}

func TestAuthorize_RoleIntersection(t *testing.T) {
	req := AnyOf(domain.RoleSuperUser, domain.RoleAdmin, domain.RoleAdmin)

	assert.True(t, Authorize(req, identity(true, domain.RoleUser, domain.RoleAdmin)).Allowed)
	assert.True(t, Authorize(req, identity(true, domain.RoleSuperUser)).Allowed)

	d := Authorize(req, identity(true, domain.RoleUser))
	require.False(t, d.Allowed)
	assert.Contains(t, d.Reason, "carol@example.com")
	assert.Contains(t, d.Reason, "super-user")
	assert.Contains(t, d.Reason, "admin")
}

func TestAuthorize_NoRolesAssigned(t *testing.T) {
	assert.False(t, Authorize(AnyOf(domain.RoleUser), identity(true)).Allowed)
	assert.True(t, Authorize(Authenticated(), identity(true)).Allowed)
}

// Allow iff active AND (requirement empty OR roles intersect), for every
// combination over the registry.
func TestAuthorize_Exhaustive(t *testing.T) {
	all := domain.ValidRoles()
	subsets := func() [][]domain.Role {
		var out [][]domain.Role
		for mask := 0; mask < 1<<len(all); mask++ {
			var s []domain.Role
			for i, r := range all {
				if mask&(1<<i) != 0 {
					s = append(s, r)
				}
			}
			out = append(out, s)
		}
		return out
	}()

	for _, reqRoles := range subsets {
		for _, held := range subsets {
			for _, active := range []bool{true, false} {
				req := AnyOf(reqRoles...)
				id := identity(active, held...)

				intersects := false
				for _, a := range reqRoles {
					for _, b := range held {
						if a == b {
							intersects = true
						}
					}
				}
				want := active && (len(reqRoles) == 0 || intersects)

				first := Authorize(req, id)
				second := Authorize(req, id)
				require.Equal(t, first, second, "must be idempotent")
				require.Equal(t, want, first.Allowed, "req=%v held=%v active=%v", reqRoles, held, active)
			}
		}
	}
}

func TestRequirement_IsImmutable(t *testing.T) {
	roles := []domain.Role{domain.RoleAdmin}
	req := AnyOf(roles...)
	roles[0] = domain.RoleUser

	got := req.Roles()
	require.Len(t, got, 1)
	assert.Equal(t, domain.RoleAdmin, got[0])

	got[0] = domain.RoleUser
	assert.Equal(t, domain.RoleAdmin, req.Roles()[0])
}

func TestRequirement_String(t *testing.T) {
	assert.Equal(t, "public", Public.String())
	assert.Equal(t, "authenticated", Authenticated().String())
	assert.Equal(t, "[admin, super-user]", AnyOf(domain.RoleAdmin, domain.RoleSuperUser).String())
}
