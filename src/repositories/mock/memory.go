package mock

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sccbd/catalog-api/src/models"
	"github.com/sccbd/catalog-api/src/repositories"
)

// MemoryUsers is a users table kept in a map. Rows are exposed so tests can inspect them.
type MemoryUsers struct {
	mu   sync.Mutex
	Rows map[int64]*models.User
}

// Row returns a copy of the stored user, or nil
func (m *MemoryUsers) Row(id int64) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Rows[id]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}

// NewMemoryUserRepository returns a UserRepository whose stubs read and write an in-memory table
func NewMemoryUserRepository() (*UserRepository, *MemoryUsers) {
	mem := &MemoryUsers{Rows: make(map[int64]*models.User)}
	repo := NewUserRepository()
	var nextID int64

	find := func(match func(u *models.User) bool) (*models.User, error) {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		for _, u := range mem.Rows {
			if match(u) {
				cp := *u
				return &cp, nil
			}
		}
		return nil, repositories.ErrNotFound
	}
	update := func(id int64, apply func(u *models.User)) error {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		u, ok := mem.Rows[id]
		if !ok {
			return repositories.ErrNotFound
		}
		apply(u)
		return nil
	}

	repo.CreateFunc = func(_ context.Context, u *models.User) error {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		nextID++
		u.ID = nextID
		u.CreatedAt, u.UpdatedAt = time.Now(), time.Now()
		cp := *u
		mem.Rows[u.ID] = &cp
		return nil
	}
	repo.GetByIDFunc = func(_ context.Context, id int64) (*models.User, error) {
		return find(func(u *models.User) bool { return u.ID == id })
	}
	repo.GetByEmailFunc = func(_ context.Context, email string) (*models.User, error) {
		return find(func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
	}
	repo.GetByAPIKeyHashFunc = func(_ context.Context, hash string) (*models.User, error) {
		return find(func(u *models.User) bool { return u.APIKeyHash == hash })
	}
	repo.GetByActivationTokenHashFunc = func(_ context.Context, hash string) (*models.User, error) {
		return find(func(u *models.User) bool { return u.ActivationTokenHash != nil && *u.ActivationTokenHash == hash })
	}
	repo.GetByResetTokenHashFunc = func(_ context.Context, hash string) (*models.User, error) {
		return find(func(u *models.User) bool { return u.ResetTokenHash != nil && *u.ResetTokenHash == hash })
	}
	repo.ListFunc = func(_ context.Context) ([]models.User, error) {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		users := make([]models.User, 0, len(mem.Rows))
		for _, u := range mem.Rows {
			users = append(users, *u)
		}
		sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
		return users, nil
	}
	repo.RedeemActivationTokenFunc = func(_ context.Context, id int64, hash string) error {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		u, ok := mem.Rows[id]
		if !ok || u.ActivationTokenHash == nil || *u.ActivationTokenHash != hash {
			return repositories.ErrNotFound
		}
		u.ActivationTokenHash = nil
		return nil
	}
	repo.SetResetTokenFunc = func(_ context.Context, id int64, hash string, exp time.Time) error {
		return update(id, func(u *models.User) { u.ResetTokenHash, u.ResetExpiresAt = &hash, &exp })
	}
	repo.RedeemResetTokenFunc = func(_ context.Context, hash, passwordHash string, now time.Time) (int64, error) {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		for _, u := range mem.Rows {
			if u.ResetTokenHash == nil || *u.ResetTokenHash != hash || u.ResetExpired(now) {
				continue
			}
			u.PasswordHash, u.ResetTokenHash, u.ResetExpiresAt = passwordHash, nil, nil
			return u.ID, nil
		}
		return 0, repositories.ErrNotFound
	}
	repo.EmailExistsFunc = func(_ context.Context, email string) (bool, error) {
		_, err := find(func(u *models.User) bool { return strings.EqualFold(u.Email, email) })
		return err == nil, nil
	}
	repo.CountFunc = func(_ context.Context) (int64, error) {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		return int64(len(mem.Rows)), nil
	}
	repo.DeleteFunc = func(_ context.Context, id int64) (int64, error) {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		if _, ok := mem.Rows[id]; !ok {
			return 0, nil
		}
		delete(mem.Rows, id)
		return 1, nil
	}
	return repo, mem
}
