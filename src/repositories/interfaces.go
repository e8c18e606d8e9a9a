package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sccbd/catalog-api/src/models"
)

// ErrNotFound is returned when a query matches no row
var ErrNotFound = errors.New("record not found")

// DBTX is the subset of pgxpool.Pool and pgx.Tx used by the repositories
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByAPIKeyHash(ctx context.Context, hash string) (*models.User, error)
	GetByActivationTokenHash(ctx context.Context, hash string) (*models.User, error)
	GetByResetTokenHash(ctx context.Context, hash string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)

	// RedeemActivationToken fails with ErrNotFound unless the stored token still equals hash
	RedeemActivationToken(ctx context.Context, id int64, hash string) error
	SetResetToken(ctx context.Context, id int64, hash string, expiresAt time.Time) error
	// RedeemResetToken stores a new password hash for the holder of an unexpired reset token
	// and clears the token, returning the user ID. ErrNotFound when no live token matches.
	RedeemResetToken(ctx context.Context, hash, passwordHash string, now time.Time) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)

	EmailExists(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// DestinationRepository defines the interface for destination data access
type DestinationRepository interface {
	Create(ctx context.Context, d *models.Destination) error
	GetByID(ctx context.Context, id int64) (*models.Destination, error)
	List(ctx context.Context) ([]models.Destination, error)
	Update(ctx context.Context, id int64, patch models.DestinationPatch) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, p *models.Product) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, id int64, patch models.ProductPatch) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// IsUniqueViolation reports whether err is a Postgres unique constraint failure
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
