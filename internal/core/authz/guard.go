package authz

import (
	"fmt"

	"github.com/99minutos/catalog-system/internal/core/domain"
)

const reasonUnavailable = "identity unavailable or inactive"

// Decision is the outcome of Authorize. Reason is meant for audit logs
// and must never be sent to the caller.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason string) Decision { return Decision{Reason: reason} }

// Authorize is a pure predicate over the route requirement and the resolved
// identity; it is safe to evaluate any number of times.
func Authorize(req Requirement, id *domain.Identity) Decision {
	if !req.Required() {
		return allow()
	}
	if id == nil || !id.Active {
		return deny(reasonUnavailable)
	}
	if len(req.roles) == 0 {
		return allow()
	}
	if id.HasAnyRole(req.roles...) {
		return allow()
	}
	return deny(fmt.Sprintf("user %s needs a valid role: %s", id.Email, req))
}
