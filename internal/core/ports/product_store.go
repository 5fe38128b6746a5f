package ports

import (
	"context"

	"github.com/99minutos/catalog-system/internal/core/domain"
)

// ProductStore is the transactional relational store behind the catalog.
//
// Implementations translate unique-constraint violations into
// *domain.ConflictError and missing rows into domain.ErrProductNotFound.
type ProductStore interface {
	// Insert writes the product and its images as a single atomic unit and
	// assigns ids to both.
	Insert(ctx context.Context, p *domain.Product) error

	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// FindByTerm matches title case-insensitively or slug exactly (after
	// lower-casing the term) in one query.
	FindByTerm(ctx context.Context, term string) (*domain.Product, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Product, error)

	// WithinTx runs fn inside a transaction. The transaction commits when fn
	// returns nil and rolls back otherwise; the session is released on every
	// exit path, panics included.
	WithinTx(ctx context.Context, fn func(tx ProductTx) error) error

	// Delete removes the product and, by cascade, its images.
	Delete(ctx context.Context, id string) error
	// DeleteAll empties the catalog and returns the number of products removed.
	DeleteAll(ctx context.Context) (int64, error)
}

// ProductTx exposes the write primitives available inside WithinTx.
type ProductTx interface {
	// Update persists the scalar fields of p.
	Update(ctx context.Context, p *domain.Product) error
	DeleteImages(ctx context.Context, productID string) error
	// InsertImages writes images in slice order and assigns their ids.
	InsertImages(ctx context.Context, productID string, images []domain.Image) error
}
