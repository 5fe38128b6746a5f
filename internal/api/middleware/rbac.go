package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/catalog-system/internal/core/authz"
	"github.com/99minutos/catalog-system/internal/pkg/metrics"
)

// RBAC enforces req against the identity stored by Auth. The denial reason
// goes to the audit log only; clients always get a bare "forbidden".
func RBAC(req authz.Requirement, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decision := authz.Authorize(req, CurrentIdentity(c))
			if !decision.Allowed {
				metrics.AuthorizationDecisionsTotal.WithLabelValues(c.Path(), "deny").Inc()
				log.Warn().
					Str("method", c.Request().Method).
					Str("path", c.Path()).
					Str("requirement", req.String()).
					Str("reason", decision.Reason).
					Msg("access denied")
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			metrics.AuthorizationDecisionsTotal.WithLabelValues(c.Path(), "allow").Inc()
			return next(c)
		}
	}
}
