package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/catalog-system/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"not found", &domain.NotFoundError{Term: "ghost"}, http.StatusNotFound, "product with ghost not found"},
		{"conflict", fmt.Errorf("update: %w", &domain.ConflictError{Detail: "Key (slug)=(x) already exists."}), http.StatusBadRequest, "Key (slug)=(x) already exists."},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "credentials are not valid"},
		{"user exists", domain.ErrUserExists, http.StatusConflict, "user already exists"},
		{"internal", domain.ErrInternal, http.StatusInternalServerError, "unexpected error, check server logs"},
		{"unknown", errors.New("pq: connection refused"), http.StatusInternalServerError, "unexpected error, check server logs"},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
	}

	for _, tc := range cases {
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

		if rec.Code != tc.code {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.code, rec.Code)
		}
		var resp errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: invalid json: %v", tc.name, err)
		}
		if resp.Error != tc.msg {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.msg, resp.Error)
		}
	}
}

func TestHTTPErrorHandler_SkipsCommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.NoContent(http.StatusAccepted)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrInternal, c)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected original status to stand, got %d", rec.Code)
	}
}
