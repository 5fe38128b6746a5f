package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/catalog-system/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusMapping pairs a domain sentinel with its status. An empty message
// means the error's own text is safe to return.
type statusMapping struct {
	target error
	status int
	msg    string
}

var statusMappings = []statusMapping{
	{domain.ErrProductNotFound, http.StatusNotFound, ""},
	{domain.ErrForbidden, http.StatusForbidden, "forbidden"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "credentials are not valid"},
	{domain.ErrUserNotFound, http.StatusUnauthorized, "credentials are not valid"},
	{domain.ErrUserExists, http.StatusConflict, "user already exists"},
	{domain.ErrInternal, http.StatusInternalServerError, domain.ErrInternal.Error()},
}

// NewHTTPErrorHandler renders every error returned by a handler or
// middleware as {"error": "..."}. Causes the client must not see are logged.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, msg := statusFor(err)
		if status == 0 {
			log.Error().Err(err).
				Str("method", c.Request().Method).
				Str("route", c.Path()).
				Msg("unhandled error")
			status, msg = http.StatusInternalServerError, domain.ErrInternal.Error()
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, errorResponse{Error: msg})
	}
}

// statusFor returns 0 when err is not a known error.
func statusFor(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprint(he.Message)
	}
	// The violated constraint is the client's own input.
	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		return http.StatusBadRequest, conflict.Error()
	}
	for _, m := range statusMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		if m.msg == "" {
			return m.status, err.Error()
		}
		return m.status, m.msg
	}
	return 0, ""
}
