package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // registers the pgx5:// driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/hashicorp/go-multierror"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sccbd/catalog-api/src/logging"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Database holds the PostgreSQL connection pool
type Database struct {
	pool *pgxpool.Pool
}

// New creates a connection pool and brings the schema up to date
func New(ctx context.Context, databaseURL string) (*Database, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if _, err := Migrate(databaseURL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Database{pool: pool}, nil
}

// Migrate applies the embedded migrations. It reports whether anything ran.
func Migrate(databaseURL string) (bool, error) {
	logger := logging.NewLogger("database")

	source, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return false, fmt.Errorf("failed to open migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, migrationURL(databaseURL))
	if err != nil {
		return false, fmt.Errorf("failed to create migrator: %w", err)
	}

	var mErr *multierror.Error
	ran := true
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			ran = false
		} else {
			mErr = multierror.Append(mErr, fmt.Errorf("failed to run migrations: %w", err))
		}
	}
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		mErr = multierror.Append(mErr, srcErr)
	}
	if dbErr != nil {
		mErr = multierror.Append(mErr, dbErr)
	}
	if err := mErr.ErrorOrNil(); err != nil {
		return false, err
	}

	if ran {
		logger.Info().Msg("database migrations applied")
	} else {
		logger.Debug().Msg("database schema up to date")
	}
	return ran, nil
}

// migrationURL rewrites a postgres URL to the scheme the pgx/v5 migrate driver registers
func migrationURL(databaseURL string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(databaseURL, prefix) {
			return "pgx5://" + strings.TrimPrefix(databaseURL, prefix)
		}
	}
	return databaseURL
}

// Close closes the database connection pool
func (db *Database) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// GetPool returns the connection pool
func (db *Database) GetPool() *pgxpool.Pool {
	return db.pool
}

// Health checks if the database is healthy
func (db *Database) Health(ctx context.Context) error {
	if db == nil || db.pool == nil {
		return fmt.Errorf("database connection not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return db.pool.Ping(ctx)
}
