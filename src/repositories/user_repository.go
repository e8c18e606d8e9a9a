package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sccbd/catalog-api/src/models"
)

const userColumns = `id, username, email, password_hash, role, profile_image, phone,
	api_key_encrypted, api_key_hash, email_activation_token_hash,
	password_reset_token_hash, password_reset_expires_at, created_at, updated_at`

// PgUserRepository stores users in Postgres
type PgUserRepository struct {
	db DBTX
}

// NewUserRepository creates a user repository backed by db
func NewUserRepository(db DBTX) *PgUserRepository {
	return &PgUserRepository{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var role string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.ProfileImage, &u.Phone,
		&u.APIKeyEncrypted, &u.APIKeyHash, &u.ActivationTokenHash,
		&u.ResetTokenHash, &u.ResetExpiresAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	u.Role = models.Role(role)
	return &u, nil
}

func (r *PgUserRepository) getOne(ctx context.Context, where string, arg any) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// Create inserts a user and fills in its ID and timestamps
func (r *PgUserRepository) Create(ctx context.Context, u *models.User) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash, role, profile_image, phone,
			api_key_encrypted, api_key_hash, email_activation_token_hash)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		u.Username, strings.ToLower(u.Email), u.PasswordHash, string(u.Role), u.ProfileImage, u.Phone,
		u.APIKeyEncrypted, u.APIKeyHash, u.ActivationTokenHash,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	u.Email = strings.ToLower(u.Email)
	return nil
}

func (r *PgUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email = $1", strings.ToLower(email))
}

func (r *PgUserRepository) GetByAPIKeyHash(ctx context.Context, hash string) (*models.User, error) {
	return r.getOne(ctx, "api_key_hash = $1", hash)
}

func (r *PgUserRepository) GetByActivationTokenHash(ctx context.Context, hash string) (*models.User, error) {
	return r.getOne(ctx, "email_activation_token_hash = $1", hash)
}

func (r *PgUserRepository) GetByResetTokenHash(ctx context.Context, hash string) (*models.User, error) {
	return r.getOne(ctx, "password_reset_token_hash = $1", hash)
}

// List returns all users ordered by ID
func (r *PgUserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *PgUserRepository) exec(ctx context.Context, op, sql string, args ...any) error {
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RedeemActivationToken clears the activation token only if it still matches hash
func (r *PgUserRepository) RedeemActivationToken(ctx context.Context, id int64, hash string) error {
	return r.exec(ctx, "redeem activation token",
		`UPDATE users SET email_activation_token_hash = NULL, updated_at = NOW()
		 WHERE id = $1 AND email_activation_token_hash = $2`, id, hash)
}

func (r *PgUserRepository) SetResetToken(ctx context.Context, id int64, hash string, expiresAt time.Time) error {
	return r.exec(ctx, "set reset token",
		`UPDATE users SET password_reset_token_hash = $2, password_reset_expires_at = $3, updated_at = NOW()
		 WHERE id = $1`, id, hash, expiresAt)
}

// RedeemResetToken sets the password and clears the reset token in one statement.
// Only one caller can redeem a given token; the rest get ErrNotFound.
func (r *PgUserRepository) RedeemResetToken(ctx context.Context, hash, passwordHash string, now time.Time) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`UPDATE users SET password_hash = $2, password_reset_token_hash = NULL,
			password_reset_expires_at = NULL, updated_at = NOW()
		 WHERE password_reset_token_hash = $1 AND password_reset_expires_at > $3
		 RETURNING id`, hash, passwordHash, now).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to redeem reset token: %w", err)
	}
	return id, nil
}

// Delete removes a user and returns the number of rows affected
func (r *PgUserRepository) Delete(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete user: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PgUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, strings.ToLower(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

func (r *PgUserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

var _ UserRepository = (*PgUserRepository)(nil)
