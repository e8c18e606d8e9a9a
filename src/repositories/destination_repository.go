package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sccbd/catalog-api/src/models"
)

const destinationColumns = `id, destination_name, destination_thumbnail, destination_images,
	description, published, created_by, created_at, updated_at`

// PgDestinationRepository stores destinations in Postgres
type PgDestinationRepository struct {
	db DBTX
}

// NewDestinationRepository creates a destination repository backed by db
func NewDestinationRepository(db DBTX) *PgDestinationRepository {
	return &PgDestinationRepository{db: db}
}

func scanDestination(row pgx.Row) (*models.Destination, error) {
	var d models.Destination
	err := row.Scan(&d.ID, &d.DestinationName, &d.DestinationThumbnail, &d.DestinationImages,
		&d.Description, &d.Published, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	if d.DestinationImages == nil {
		d.DestinationImages = []string{}
	}
	return &d, nil
}

func (r *PgDestinationRepository) Create(ctx context.Context, d *models.Destination) error {
	images := d.DestinationImages
	if images == nil {
		images = []string{}
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO destinations (destination_name, destination_thumbnail, destination_images,
			description, published, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		d.DestinationName, d.DestinationThumbnail, images, d.Description, d.Published, d.CreatedBy,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}
	d.DestinationImages = images
	return nil
}

func (r *PgDestinationRepository) GetByID(ctx context.Context, id int64) (*models.Destination, error) {
	d, err := scanDestination(r.db.QueryRow(ctx, `SELECT `+destinationColumns+` FROM destinations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get destination: %w", err)
	}
	return d, nil
}

// List returns every destination, newest first
func (r *PgDestinationRepository) List(ctx context.Context) ([]models.Destination, error) {
	rows, err := r.db.Query(ctx, `SELECT `+destinationColumns+` FROM destinations ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query destinations: %w", err)
	}
	defer rows.Close()

	out := []models.Destination{}
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan destination: %w", err)
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// Update applies the non-nil fields of patch and returns the number of rows affected
func (r *PgDestinationRepository) Update(ctx context.Context, id int64, patch models.DestinationPatch) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE destinations SET
			destination_name      = COALESCE($2, destination_name),
			destination_thumbnail = COALESCE($3, destination_thumbnail),
			destination_images    = COALESCE($4::text[], destination_images),
			description           = COALESCE($5, description),
			published             = COALESCE($6, published),
			created_by            = COALESCE($7, created_by),
			updated_at            = NOW()
		 WHERE id = $1`,
		id, patch.DestinationName, patch.DestinationThumbnail, patch.DestinationImages,
		patch.Description, patch.Published, patch.CreatedBy,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update destination: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PgDestinationRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM destinations WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete destination: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ DestinationRepository = (*PgDestinationRepository)(nil)
