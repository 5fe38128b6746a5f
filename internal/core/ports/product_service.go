package ports

import (
	"context"

	"github.com/99minutos/catalog-system/internal/core/domain"
)

// CreateProductInput carries the fields accepted on product creation.
type CreateProductInput struct {
	Title       string
	Price       float64
	Description *string
	Slug        string
	Stock       int
	Sizes       []string
	Gender      string
	Tags        []string
	Images      []string
	// IdempotencyKey, when set, makes retries of the same request return the
	// product created by the first attempt.
	IdempotencyKey string
}

// UpdateProductInput is a partial patch. Nil fields are left untouched.
//
// Images distinguishes "not supplied" (nil: keep the current images) from
// "supplied empty" (pointer to an empty slice: remove them all).
type UpdateProductInput struct {
	Title       *string
	Price       *float64
	Description *string
	Slug        *string
	Stock       *int
	Sizes       *[]string
	Gender      *string
	Tags        *[]string
	Images      *[]string
}

// ApplyTo merges the supplied scalar fields into p.
func (in UpdateProductInput) ApplyTo(p *domain.Product) {
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Description != nil {
		d := *in.Description
		p.Description = &d
	}
	if in.Slug != nil {
		p.Slug = *in.Slug
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Sizes != nil {
		p.Sizes = append([]string(nil), (*in.Sizes)...)
	}
	if in.Gender != nil {
		p.Gender = *in.Gender
	}
	if in.Tags != nil {
		p.Tags = append([]string{}, (*in.Tags)...)
	}
}

// ProductView is the caller-facing product: images are flattened to their
// URLs and image ids never leave the service.
type ProductView struct {
	ID          string
	Title       string
	Price       float64
	Description *string
	Slug        string
	Stock       int
	Sizes       []string
	Gender      string
	Tags        []string
	UserID      string
	Images      []string
}

// NewProductView flattens p.
func NewProductView(p *domain.Product) *ProductView {
	return &ProductView{
		ID:          p.ID,
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Slug:        p.Slug,
		Stock:       p.Stock,
		Sizes:       p.Sizes,
		Gender:      p.Gender,
		Tags:        p.Tags,
		UserID:      p.UserID,
		Images:      p.ImageURLs(),
	}
}

// ProductService defines the catalog use cases. The acting identity is
// always passed explicitly; authorization has already been decided by the
// caller.
type ProductService interface {
	Create(ctx context.Context, in CreateProductInput, actor *domain.Identity) (*ProductView, error)
	List(ctx context.Context, limit, offset int) ([]*ProductView, error)
	FindOnePlain(ctx context.Context, term string) (*ProductView, error)
	Update(ctx context.Context, id string, in UpdateProductInput, actor *domain.Identity) (*ProductView, error)
	Remove(ctx context.Context, term string, actor *domain.Identity) error
}
