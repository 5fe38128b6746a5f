package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/catalog-system/internal/core/domain"
	"github.com/99minutos/catalog-system/internal/core/ports"
	"github.com/99minutos/catalog-system/internal/pkg/metrics"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// IdempotencyStore abstracts the idempotency-key store (Redis).
type IdempotencyStore interface {
	Lookup(ctx context.Context, scope, key string) (productID string, found bool, err error)
	Remember(ctx context.Context, scope, key, productID string) error
}

// ProductService runs the catalog use cases against the transactional store.
type ProductService struct {
	store  ports.ProductStore
	events ports.EventSink
	idem   IdempotencyStore
	logger zerolog.Logger
	now    func() time.Time
}

// NewProductService wires the pipeline. events and idem may be nil.
func NewProductService(store ports.ProductStore, events ports.EventSink, idem IdempotencyStore, logger zerolog.Logger) *ProductService {
	return &ProductService{
		store:  store,
		events: events,
		idem:   idem,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create inserts the product and its images as one unit. The acting
// identity becomes the owner.
func (s *ProductService) Create(ctx context.Context, in ports.CreateProductInput, actor *domain.Identity) (*ports.ProductView, error) {
	scope := actorID(actor)

	if in.IdempotencyKey != "" && s.idem != nil {
		if view, ok := s.replay(ctx, scope, in.IdempotencyKey); ok {
			return view, nil
		}
	}

	product := &domain.Product{
		Title:       in.Title,
		Price:       in.Price,
		Description: in.Description,
		Slug:        in.Slug,
		Stock:       in.Stock,
		Sizes:       in.Sizes,
		Gender:      in.Gender,
		Tags:        in.Tags,
		UserID:      scope,
		Images:      domain.NewImages(in.Images),
	}
	product.PrepareInsert()

	start := time.Now()
	err := s.store.Insert(ctx, product)
	metrics.ProductTransactionDuration.WithLabelValues("create").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, s.handleError("create", err)
	}
	metrics.ProductMutationsTotal.WithLabelValues("create", "committed").Inc()

	if in.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.Remember(ctx, scope, in.IdempotencyKey, product.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("failed to store idempotency key")
		}
	}

	s.emit(ports.ProductCreated, product, actor)
	s.logger.Info().Str("product_id", product.ID).Str("slug", product.Slug).Str("user_id", scope).Msg("product created")

	return ports.NewProductView(product), nil
}

// replay returns the product created by an earlier request carrying the
// same idempotency key, if it still exists.
func (s *ProductService) replay(ctx context.Context, scope, key string) (*ports.ProductView, bool) {
	productID, found, err := s.idem.Lookup(ctx, scope, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating anyway")
		return nil, false
	}
	if !found {
		return nil, false
	}

	view, err := s.FindOnePlain(ctx, productID)
	if err != nil {
		return nil, false
	}
	s.logger.Info().Str("idempotency_key", key).Str("product_id", productID).Msg("idempotent replay")
	return view, true
}

// List returns a page of products with flattened images.
func (s *ProductService) List(ctx context.Context, limit, offset int) ([]*ports.ProductView, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, s.readError("list", err)
	}

	views := make([]*ports.ProductView, len(products))
	for i, p := range products {
		views[i] = ports.NewProductView(p)
	}
	return views, nil
}

// FindOne resolves term as a product id when it parses as a UUID and as a
// title or slug otherwise.
func (s *ProductService) FindOne(ctx context.Context, term string) (*domain.Product, error) {
	var (
		product *domain.Product
		err     error
	)
	if isUUID(term) {
		product, err = s.store.FindByID(ctx, term)
	} else {
		product, err = s.store.FindByTerm(ctx, term)
	}
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, &domain.NotFoundError{Term: term}
		}
		return nil, s.readError("find", err)
	}
	return product, nil
}

// FindOnePlain is FindOne with images flattened to URLs.
func (s *ProductService) FindOnePlain(ctx context.Context, term string) (*ports.ProductView, error) {
	product, err := s.FindOne(ctx, term)
	if err != nil {
		return nil, err
	}
	return ports.NewProductView(product), nil
}

// Update patches the supplied scalar fields and, when in.Images is set,
// replaces the whole image collection inside one transaction.
//
// The product is preloaded before the transaction opens, so an unknown id
// fails without touching the store's write path.
func (s *ProductService) Update(ctx context.Context, id string, in ports.UpdateProductInput, actor *domain.Identity) (*ports.ProductView, error) {
	if !isUUID(id) {
		return nil, &domain.NotFoundError{Term: id}
	}

	product, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			metrics.ProductMutationsTotal.WithLabelValues("update", "not_found").Inc()
			return nil, &domain.NotFoundError{Term: id}
		}
		return nil, s.handleError("update", err)
	}

	in.ApplyTo(product)
	product.PrepareUpdate()

	start := time.Now()
	err = s.store.WithinTx(ctx, func(tx ports.ProductTx) error {
		if in.Images != nil {
			if err := tx.DeleteImages(ctx, product.ID); err != nil {
				return fmt.Errorf("delete images: %w", err)
			}
			product.Images = domain.NewImages(*in.Images)
			if err := tx.InsertImages(ctx, product.ID, product.Images); err != nil {
				return fmt.Errorf("insert images: %w", err)
			}
		}
		if err := tx.Update(ctx, product); err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		return nil
	})
	metrics.ProductTransactionDuration.WithLabelValues("update").Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			metrics.ProductMutationsTotal.WithLabelValues("update", "not_found").Inc()
			return nil, &domain.NotFoundError{Term: id}
		}
		return nil, s.handleError("update", err)
	}
	metrics.ProductMutationsTotal.WithLabelValues("update", "committed").Inc()

	s.emit(ports.ProductUpdated, product, actor)
	s.logger.Info().
		Str("product_id", product.ID).
		Str("actor_id", actorID(actor)).
		Bool("images_replaced", in.Images != nil).
		Msg("product updated")

	return s.FindOnePlain(ctx, product.ID)
}

// Remove deletes the product resolved by term together with its images.
func (s *ProductService) Remove(ctx context.Context, term string, actor *domain.Identity) error {
	product, err := s.FindOne(ctx, term)
	if err != nil {
		return err
	}

	start := time.Now()
	err = s.store.Delete(ctx, product.ID)
	metrics.ProductTransactionDuration.WithLabelValues("remove").Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			metrics.ProductMutationsTotal.WithLabelValues("remove", "not_found").Inc()
			return &domain.NotFoundError{Term: term}
		}
		return s.handleError("remove", err)
	}
	metrics.ProductMutationsTotal.WithLabelValues("remove", "committed").Inc()

	s.emit(ports.ProductRemoved, product, actor)
	s.logger.Info().Str("product_id", product.ID).Str("actor_id", actorID(actor)).Msg("product removed")
	return nil
}

// DeleteAll empties the catalog. Used by the seed command.
func (s *ProductService) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteAll(ctx)
	if err != nil {
		return 0, s.handleError("delete_all", err)
	}
	s.logger.Warn().Int64("removed", n).Msg("catalog emptied")
	return n, nil
}

// handleError classifies a failed write. Conflicts reach the caller with
// the store's detail; anything else is logged and replaced by ErrInternal.
func (s *ProductService) handleError(op string, err error) error {
	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		metrics.ProductMutationsTotal.WithLabelValues(op, "conflict").Inc()
		s.logger.Info().Str("operation", op).Str("detail", conflict.Detail).Msg("unique constraint violated")
		return conflict
	}

	metrics.ProductMutationsTotal.WithLabelValues(op, "rolled_back").Inc()
	s.logger.Error().Err(err).Str("operation", op).Msg("product store failure")
	return domain.ErrInternal
}

func (s *ProductService) readError(op string, err error) error {
	s.logger.Error().Err(err).Str("operation", op).Msg("product store read failure")
	return domain.ErrInternal
}

func (s *ProductService) emit(t ports.ProductEventType, p *domain.Product, actor *domain.Identity) {
	if s.events == nil {
		return
	}
	s.events.Enqueue(ports.ProductEvent{
		Type:       t,
		ProductID:  p.ID,
		Slug:       p.Slug,
		ActorID:    actorID(actor),
		Images:     len(p.Images),
		OccurredAt: s.now(),
	})
}

func actorID(actor *domain.Identity) string {
	if actor == nil {
		return ""
	}
	return actor.ID
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
