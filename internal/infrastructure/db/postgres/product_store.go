package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/99minutos/catalog-system/internal/core/domain"
	"github.com/99minutos/catalog-system/internal/core/ports"
)

const productColumns = `id, title, price, description, slug, stock, sizes, gender, tags, user_id, created_at, updated_at`

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ProductStore implements ports.ProductStore on PostgreSQL.
type ProductStore struct {
	db *sql.DB
}

func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

var _ ports.ProductStore = (*ProductStore)(nil)

// WithinTx runs fn in a read-committed transaction. A panic inside fn rolls
// the transaction back before it is re-raised.
func (s *ProductStore) WithinTx(ctx context.Context, fn func(tx ports.ProductTx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = translate(fmt.Errorf("commit: %w", cErr))
		}
	}()

	return fn(&productTx{q: tx})
}

func (s *ProductStore) Insert(ctx context.Context, p *domain.Product) error {
	return s.WithinTx(ctx, func(ptx ports.ProductTx) error {
		tx := ptx.(*productTx)

		id := uuid.NewString()
		now := time.Now().UTC()
		_, err := tx.q.ExecContext(ctx, `
			INSERT INTO products (`+productColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`,
			id, p.Title, p.Price, p.Description, p.Slug, p.Stock,
			pq.Array(nonNil(p.Sizes)), p.Gender, pq.Array(nonNil(p.Tags)), p.UserID, now,
		)
		if err != nil {
			return translate(fmt.Errorf("insert product: %w", err))
		}

		if err := tx.InsertImages(ctx, id, p.Images); err != nil {
			return err
		}

		p.ID = id
		p.CreatedAt = now
		p.UpdatedAt = now
		return nil
	})
}

func (s *ProductStore) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	return s.findOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// FindByTerm matches the title ignoring case or the slug after lower-casing
// term, in a single statement.
func (s *ProductStore) FindByTerm(ctx context.Context, term string) (*domain.Product, error) {
	return s.findOne(ctx,
		`SELECT `+productColumns+` FROM products WHERE UPPER(title) = $1 OR slug = $2 LIMIT 1`,
		strings.ToUpper(term), strings.ToLower(term),
	)
}

func (s *ProductStore) findOne(ctx context.Context, query string, args ...any) (*domain.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	if err := loadImages(ctx, s.db, []*domain.Product{p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProductStore) List(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at, id LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]*domain.Product, 0, limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	if err := loadImages(ctx, s.db, products); err != nil {
		return nil, err
	}
	return products, nil
}

// Delete removes the product; images go with it through ON DELETE CASCADE.
func (s *ProductStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (s *ProductStore) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products`)
	if err != nil {
		return 0, fmt.Errorf("delete all products: %w", err)
	}
	return res.RowsAffected()
}

// productTx implements ports.ProductTx on an open *sql.Tx.
type productTx struct {
	q queryer
}

func (t *productTx) Update(ctx context.Context, p *domain.Product) error {
	now := time.Now().UTC()
	res, err := t.q.ExecContext(ctx, `
		UPDATE products
		SET title = $2, price = $3, description = $4, slug = $5, stock = $6,
		    sizes = $7, gender = $8, tags = $9, updated_at = $10
		WHERE id = $1`,
		p.ID, p.Title, p.Price, p.Description, p.Slug, p.Stock,
		pq.Array(nonNil(p.Sizes)), p.Gender, pq.Array(nonNil(p.Tags)), now,
	)
	if err != nil {
		return translate(fmt.Errorf("update product: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if n == 0 {
		return domain.ErrProductNotFound
	}
	p.UpdatedAt = now
	return nil
}

func (t *productTx) DeleteImages(ctx context.Context, productID string) error {
	if _, err := t.q.ExecContext(ctx, `DELETE FROM product_images WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete images: %w", err)
	}
	return nil
}

func (t *productTx) InsertImages(ctx context.Context, productID string, images []domain.Image) error {
	for i := range images {
		id := uuid.NewString()
		_, err := t.q.ExecContext(ctx,
			`INSERT INTO product_images (id, product_id, url, position) VALUES ($1, $2, $3, $4)`,
			id, productID, images[i].URL, i,
		)
		if err != nil {
			return translate(fmt.Errorf("insert image %d: %w", i, err))
		}
		images[i].ID = id
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		p           domain.Product
		description sql.NullString
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Price, &description, &p.Slug, &p.Stock,
		pq.Array(&p.Sizes), &p.Gender, pq.Array(&p.Tags), &p.UserID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		p.Description = &description.String
	}
	p.Sizes = nonNil(p.Sizes)
	p.Tags = nonNil(p.Tags)
	p.Images = []domain.Image{}
	return &p, nil
}

// loadImages fills the image collections of products with one query,
// preserving insertion order.
func loadImages(ctx context.Context, q queryer, products []*domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	byID := make(map[string]*domain.Product, len(products))
	ids := make([]string, len(products))
	for i, p := range products {
		byID[p.ID] = p
		ids[i] = p.ID
	}

	rows, err := q.QueryContext(ctx,
		`SELECT id, product_id, url FROM product_images WHERE product_id = ANY($1::uuid[]) ORDER BY product_id, position`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("load images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var img domain.Image
		var productID string
		if err := rows.Scan(&img.ID, &productID, &img.URL); err != nil {
			return fmt.Errorf("scan image: %w", err)
		}
		if p, ok := byID[productID]; ok {
			p.Images = append(p.Images, img)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load images: %w", err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
