package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/catalog-system/internal/api/middleware"
	"github.com/99minutos/catalog-system/internal/core/domain"
)

// requireIdentity returns the identity stored by the Auth middleware. Its
// absence means the route was registered without authentication.
func requireIdentity(c echo.Context) (*domain.Identity, error) {
	identity := middleware.CurrentIdentity(c)
	if identity == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return identity, nil
}

// bindAndValidate decodes the request body into req and runs its validate
// tags. Both failures are reported as 400.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
