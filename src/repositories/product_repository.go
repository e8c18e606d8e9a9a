package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sccbd/catalog-api/src/models"
)

// PgProductRepository stores products in Postgres
type PgProductRepository struct {
	db DBTX
}

// NewProductRepository creates a product repository backed by db
func NewProductRepository(db DBTX) *PgProductRepository {
	return &PgProductRepository{db: db}
}

func scanProduct(row pgx.Row) (*models.Product, error) {
	var p models.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Size, &p.IsAvailable, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// Create inserts a product and returns its ID
func (r *PgProductRepository) Create(ctx context.Context, p *models.Product) (int64, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO products (name, size, is_available) VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		p.Name, p.Size, p.IsAvailable,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to create product: %w", err)
	}
	return p.ID, nil
}

func (r *PgProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx,
		`SELECT id, name, size, is_available, created_at, updated_at FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

func (r *PgProductRepository) List(ctx context.Context) ([]models.Product, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, size, is_available, created_at, updated_at FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	out := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PgProductRepository) Update(ctx context.Context, id int64, patch models.ProductPatch) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET
			name         = COALESCE($2, name),
			size         = COALESCE($3, size),
			is_available = COALESCE($4, is_available),
			updated_at   = NOW()
		 WHERE id = $1`,
		id, patch.Name, patch.Size, patch.IsAvailable,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update product: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PgProductRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete product: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ ProductRepository = (*PgProductRepository)(nil)
