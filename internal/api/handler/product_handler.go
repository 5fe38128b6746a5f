package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/catalog-system/internal/core/ports"
)

// ProductHandler handles HTTP requests for catalog operations. Service
// errors are returned unchanged for the central error handler to render.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// Create handles POST /api/products. An Idempotency-Key header makes
// retries return the product created by the first attempt.
func (h *ProductHandler) Create(c echo.Context) error {
	var req createProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	view, err := h.service.Create(c.Request().Context(), toCreateInput(req, c.Request().Header.Get("Idempotency-Key")), identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toProductResponse(view))
}

// List handles GET /api/products?limit=&offset=.
func (h *ProductHandler) List(c echo.Context) error {
	var limit, offset int
	if err := echo.QueryParamsBinder(c).
		Int("limit", &limit).
		Int("offset", &offset).
		BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "limit and offset must be integers")
	}
	if limit < 0 || offset < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "limit and offset must not be negative")
	}

	views, err := h.service.List(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponses(views))
}

// Get handles GET /api/products/:term, where term is an id, a title or a slug.
func (h *ProductHandler) Get(c echo.Context) error {
	view, err := h.service.FindOnePlain(c.Request().Context(), c.Param("term"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(view))
}

// Update handles PATCH /api/products/:id.
func (h *ProductHandler) Update(c echo.Context) error {
	var req updateProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}

	view, err := h.service.Update(c.Request().Context(), c.Param("id"), toUpdateInput(req), identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(view))
}

// Remove handles DELETE /api/products/:id.
func (h *ProductHandler) Remove(c echo.Context) error {
	identity, err := requireIdentity(c)
	if err != nil {
		return err
	}
	if err := h.service.Remove(c.Request().Context(), c.Param("id"), identity); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
