package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/catalog-system/internal/api/middleware"
	"github.com/99minutos/catalog-system/internal/core/domain"
	"github.com/99minutos/catalog-system/internal/core/ports"
)

type stubProductService struct {
	createFn func(ctx context.Context, in ports.CreateProductInput, actor *domain.Identity) (*ports.ProductView, error)
	listFn   func(ctx context.Context, limit, offset int) ([]*ports.ProductView, error)
	findFn   func(ctx context.Context, term string) (*ports.ProductView, error)
	updateFn func(ctx context.Context, id string, in ports.UpdateProductInput, actor *domain.Identity) (*ports.ProductView, error)
	removeFn func(ctx context.Context, term string, actor *domain.Identity) error
}

func (s *stubProductService) Create(ctx context.Context, in ports.CreateProductInput, actor *domain.Identity) (*ports.ProductView, error) {
	return s.createFn(ctx, in, actor)
}

func (s *stubProductService) List(ctx context.Context, limit, offset int) ([]*ports.ProductView, error) {
	return s.listFn(ctx, limit, offset)
}

func (s *stubProductService) FindOnePlain(ctx context.Context, term string) (*ports.ProductView, error) {
	return s.findFn(ctx, term)
}

func (s *stubProductService) Update(ctx context.Context, id string, in ports.UpdateProductInput, actor *domain.Identity) (*ports.ProductView, error) {
	return s.updateFn(ctx, id, in, actor)
}

func (s *stubProductService) Remove(ctx context.Context, term string, actor *domain.Identity) error {
	return s.removeFn(ctx, term, actor)
}

var testAdmin = &domain.Identity{ID: "admin-1", Email: "admin@example.com", Active: true, Roles: []domain.Role{domain.RoleAdmin}}

const productID = "4b8e7b1c-0c1e-4f55-9d5c-2f0c3b1c9e11"

func tesloView(images ...string) *ports.ProductView {
	return &ports.ProductView{ID: productID, Title: "T-Shirt Teslo", Slug: "t-shirt_teslo", UserID: "admin-1", Images: images}
}

func withPathParam(c echo.Context, name, value string) {
	c.SetParamNames(name)
	c.SetParamValues(value)
}

func TestProductHandler_Create_Success(t *testing.T) {
	e := newEcho()
	stub := &stubProductService{
		createFn: func(ctx context.Context, in ports.CreateProductInput, actor *domain.Identity) (*ports.ProductView, error) {
			if actor != testAdmin {
				t.Fatalf("actor not forwarded")
			}
			if in.Title != "T-Shirt Teslo" || in.IdempotencyKey != "req-1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if len(in.Images) != 2 || in.Images[0] != "1.jpg" {
				t.Fatalf("unexpected images: %v", in.Images)
			}
			return tesloView(in.Images...), nil
		},
	}
	handler := NewProductHandler(stub)

	req := jsonRequest(http.MethodPost, "/api/products", `{"title":"T-Shirt Teslo","price":25,"sizes":["M"],"images":["1.jpg","2.jpg"]}`)
	req.Header.Set("Idempotency-Key", "req-1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetIdentity(c, testAdmin)

	if err := serve(e, c, handler.Create); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp productResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Slug != "t-shirt_teslo" || len(resp.Images) != 2 || resp.Images[1] != "2.jpg" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Tags == nil {
		t.Fatalf("tags must render as an empty array")
	}
}

func TestProductHandler_Create_Validation(t *testing.T) {
	stub := &stubProductService{
		createFn: func(ctx context.Context, in ports.CreateProductInput, actor *domain.Identity) (*ports.ProductView, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewProductHandler(stub)

	for _, body := range []string{`{"price":10}`, `{"title":""}`, `{"title":"x","images":[""]}`, `[`} {
		e := newEcho()
		rec := httptest.NewRecorder()
		c := e.NewContext(jsonRequest(http.MethodPost, "/api/products", body), rec)
		middleware.SetIdentity(c, testAdmin)

		_ = serve(e, c, handler.Create)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestProductHandler_Create_Conflict(t *testing.T) {
	e := newEcho()
	stub := &stubProductService{
		createFn: func(ctx context.Context, in ports.CreateProductInput, actor *domain.Identity) (*ports.ProductView, error) {
			return nil, &domain.ConflictError{Detail: "Key (slug)=(t-shirt_teslo) already exists."}
		},
	}
	handler := NewProductHandler(stub)

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/products", `{"title":"T-Shirt Teslo"}`), httptest.NewRecorder())
	middleware.SetIdentity(c, testAdmin)

	if err := serve(e, c, handler.Create); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestProductHandler_List_Pagination(t *testing.T) {
	e := newEcho()
	stub := &stubProductService{
		listFn: func(ctx context.Context, limit, offset int) ([]*ports.ProductView, error) {
			if limit != 5 || offset != 10 {
				t.Fatalf("unexpected paging: %d/%d", limit, offset)
			}
			return []*ports.ProductView{tesloView("1.jpg")}, nil
		},
	}
	handler := NewProductHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/products?limit=5&offset=10", nil), rec)

	if err := serve(e, c, handler.List); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []productResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0].Images[0] != "1.jpg" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestProductHandler_List_BadQuery(t *testing.T) {
	handler := NewProductHandler(&stubProductService{})

	for _, q := range []string{"limit=abc", "offset=-1"} {
		e := newEcho()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/products?"+q, nil), rec)

		_ = serve(e, c, handler.List)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", q, rec.Code)
		}
	}
}

func TestProductHandler_Get_ForwardsTerm(t *testing.T) {
	e := newEcho()
	stub := &stubProductService{
		findFn: func(ctx context.Context, term string) (*ports.ProductView, error) {
			if term != "T-SHIRT TESLO" {
				t.Fatalf("unexpected term %q", term)
			}
			return tesloView(), nil
		},
	}
	handler := NewProductHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	withPathParam(c, "term", "T-SHIRT TESLO")

	if err := serve(e, c, handler.Get); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"images":[]`) {
		t.Fatalf("expected empty images array, got %s", rec.Body.String())
	}
}

func TestProductHandler_Update_ImagesTriState(t *testing.T) {
	cases := []struct {
		body     string
		wantNil  bool
		wantURLs []string
	}{
		{body: `{"title":"New"}`, wantNil: true},
		{body: `{"images":null}`, wantNil: true},
		{body: `{"images":[]}`, wantURLs: []string{}},
		{body: `{"images":["a.jpg","b.jpg"]}`, wantURLs: []string{"a.jpg", "b.jpg"}},
	}

	for _, tc := range cases {
		e := newEcho()
		var got ports.UpdateProductInput
		stub := &stubProductService{
			updateFn: func(ctx context.Context, id string, in ports.UpdateProductInput, actor *domain.Identity) (*ports.ProductView, error) {
				if id != productID {
					t.Fatalf("unexpected id %q", id)
				}
				got = in
				return tesloView(), nil
			},
		}
		handler := NewProductHandler(stub)

		rec := httptest.NewRecorder()
		c := e.NewContext(jsonRequest(http.MethodPatch, "/", tc.body), rec)
		withPathParam(c, "id", productID)
		middleware.SetIdentity(c, testAdmin)

		if err := serve(e, c, handler.Update); err != nil {
			t.Fatalf("%s: handler error: %v", tc.body, err)
		}
		if tc.wantNil {
			if got.Images != nil {
				t.Fatalf("%s: expected images untouched, got %v", tc.body, *got.Images)
			}
			continue
		}
		if got.Images == nil {
			t.Fatalf("%s: expected images to be supplied", tc.body)
		}
		if len(*got.Images) != len(tc.wantURLs) {
			t.Fatalf("%s: expected %v, got %v", tc.body, tc.wantURLs, *got.Images)
		}
		for i := range tc.wantURLs {
			if (*got.Images)[i] != tc.wantURLs[i] {
				t.Fatalf("%s: expected %v, got %v", tc.body, tc.wantURLs, *got.Images)
			}
		}
	}
}

func TestProductHandler_Update_NotFound(t *testing.T) {
	e := newEcho()
	stub := &stubProductService{
		updateFn: func(ctx context.Context, id string, in ports.UpdateProductInput, actor *domain.Identity) (*ports.ProductView, error) {
			return nil, &domain.NotFoundError{Term: id}
		},
	}
	handler := NewProductHandler(stub)

	c := e.NewContext(jsonRequest(http.MethodPatch, "/", `{"title":"x"}`), httptest.NewRecorder())
	withPathParam(c, "id", productID)
	middleware.SetIdentity(c, testAdmin)

	if err := serve(e, c, handler.Update); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestProductHandler_Remove(t *testing.T) {
	e := newEcho()
	removed := ""
	stub := &stubProductService{
		removeFn: func(ctx context.Context, term string, actor *domain.Identity) error {
			removed = term
			return nil
		},
	}
	handler := NewProductHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), rec)
	withPathParam(c, "id", productID)
	middleware.SetIdentity(c, testAdmin)

	if err := serve(e, c, handler.Remove); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || removed != productID {
		t.Fatalf("expected 204 removing %s, got %d removing %q", productID, rec.Code, removed)
	}
}
