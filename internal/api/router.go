package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/99minutos/catalog-system/internal/api/handler"
	"github.com/99minutos/catalog-system/internal/api/middleware"
	"github.com/99minutos/catalog-system/internal/core/authz"
	"github.com/99minutos/catalog-system/internal/core/domain"
	"github.com/99minutos/catalog-system/internal/core/ports"
)

// Dependencies carries everything the HTTP layer needs.
type Dependencies struct {
	Products   ports.ProductService
	Auth       ports.AuthService
	Identities ports.IdentityResolver
	JWTSecret  string
	Checks     map[string]handler.Check
	Logger     zerolog.Logger
	// Registerer receives the HTTP metrics. Nil means the default registry.
	Registerer prometheus.Registerer
}

// Route binds a handler to a method and path together with the requirement
// the guard enforces before the handler runs.
type Route struct {
	Method      string
	Path        string
	Handler     echo.HandlerFunc
	Requirement authz.Requirement
}

// Routes is the route table. Every route states its requirement here and
// nowhere else.
func Routes(deps Dependencies) []Route {
	authHandler := handler.NewAuthHandler(deps.Auth)
	productHandler := handler.NewProductHandler(deps.Products)
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks)

	return []Route{
		// --- Auth ---
		{http.MethodPost, "/auth/register", authHandler.Register, authz.Public},
		{http.MethodPost, "/auth/login", authHandler.Login, authz.Public},
		{http.MethodGet, "/auth/check-status", authHandler.CheckStatus, authz.Authenticated()},
		{http.MethodGet, "/auth/private", authHandler.Private, authz.AnyOf(domain.RoleSuperUser, domain.RoleAdmin, domain.RoleUser)},
		{http.MethodGet, "/auth/admin", authHandler.Private, authz.AnyOf(domain.RoleAdmin)},

		// --- Products ---
		{http.MethodGet, "/api/products", productHandler.List, authz.Public},
		{http.MethodGet, "/api/products/:term", productHandler.Get, authz.Public},
		{http.MethodPost, "/api/products", productHandler.Create, authz.Authenticated()},
		{http.MethodPatch, "/api/products/:id", productHandler.Update, authz.AnyOf(domain.RoleAdmin)},
		{http.MethodDelete, "/api/products/:id", productHandler.Remove, authz.AnyOf(domain.RoleAdmin)},

		// --- Health probes and metrics ---
		{http.MethodGet, "/health", healthHandler.Liveness, authz.Public},
		{http.MethodGet, "/health/ready", healthDepsHandler.Readiness, authz.Public},
		{http.MethodGet, "/metrics", echoprometheus.NewHandler(), authz.Public},
	}
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "catalog",
		Subsystem:  "http",
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || strings.HasPrefix(c.Path(), "/health")
		},
	}))

	auth := middleware.Auth(deps.JWTSecret, deps.Identities, deps.Logger)
	for _, r := range Routes(deps) {
		var mws []echo.MiddlewareFunc
		if r.Requirement.Required() {
			mws = append(mws, auth, middleware.RBAC(r.Requirement, deps.Logger))
		}
		e.Add(r.Method, r.Path, r.Handler, mws...)
	}

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= http.StatusInternalServerError {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
