package mock

import (
	"context"
	"sync"
	"time"

	"github.com/sccbd/catalog-api/src/models"
	"github.com/sccbd/catalog-api/src/repositories"
)

// UserRepository is a mock implementation of repositories.UserRepository.
// Lookups without a stub return repositories.ErrNotFound.
type UserRepository struct {
	CreateFunc                   func(ctx context.Context, user *models.User) error
	GetByIDFunc                  func(ctx context.Context, id int64) (*models.User, error)
	GetByEmailFunc               func(ctx context.Context, email string) (*models.User, error)
	GetByAPIKeyHashFunc          func(ctx context.Context, hash string) (*models.User, error)
	GetByActivationTokenHashFunc func(ctx context.Context, hash string) (*models.User, error)
	GetByResetTokenHashFunc      func(ctx context.Context, hash string) (*models.User, error)
	ListFunc                     func(ctx context.Context) ([]models.User, error)
	RedeemActivationTokenFunc    func(ctx context.Context, id int64, hash string) error
	SetResetTokenFunc            func(ctx context.Context, id int64, hash string, expiresAt time.Time) error
	RedeemResetTokenFunc         func(ctx context.Context, hash, passwordHash string, now time.Time) (int64, error)
	DeleteFunc                   func(ctx context.Context, id int64) (int64, error)
	EmailExistsFunc              func(ctx context.Context, email string) (bool, error)
	CountFunc                    func(ctx context.Context) (int64, error)

	// Call tracking
	Calls map[string][]interface{}
	mu    sync.Mutex
}

// NewUserRepository creates a new mock user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{
		Calls: make(map[string][]interface{}),
	}
}

// record appends a call and returns how many calls of that name were made
func (m *UserRepository) record(name string, arg interface{}) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls[name] = append(m.Calls[name], arg)
	return len(m.Calls[name])
}

func (m *UserRepository) Create(ctx context.Context, user *models.User) error {
	n := m.record("Create", user)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	user.ID = int64(n)
	return nil
}

func (m *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	m.record("GetByID", id)
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrNotFound
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.record("GetByEmail", email)
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, repositories.ErrNotFound
}

func (m *UserRepository) GetByAPIKeyHash(ctx context.Context, hash string) (*models.User, error) {
	m.record("GetByAPIKeyHash", hash)
	if m.GetByAPIKeyHashFunc != nil {
		return m.GetByAPIKeyHashFunc(ctx, hash)
	}
	return nil, repositories.ErrNotFound
}

func (m *UserRepository) GetByActivationTokenHash(ctx context.Context, hash string) (*models.User, error) {
	m.record("GetByActivationTokenHash", hash)
	if m.GetByActivationTokenHashFunc != nil {
		return m.GetByActivationTokenHashFunc(ctx, hash)
	}
	return nil, repositories.ErrNotFound
}

func (m *UserRepository) GetByResetTokenHash(ctx context.Context, hash string) (*models.User, error) {
	m.record("GetByResetTokenHash", hash)
	if m.GetByResetTokenHashFunc != nil {
		return m.GetByResetTokenHashFunc(ctx, hash)
	}
	return nil, repositories.ErrNotFound
}

func (m *UserRepository) List(ctx context.Context) ([]models.User, error) {
	m.record("List", nil)
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []models.User{}, nil
}

func (m *UserRepository) RedeemActivationToken(ctx context.Context, id int64, hash string) error {
	m.record("RedeemActivationToken", []interface{}{id, hash})
	if m.RedeemActivationTokenFunc != nil {
		return m.RedeemActivationTokenFunc(ctx, id, hash)
	}
	return nil
}

func (m *UserRepository) SetResetToken(ctx context.Context, id int64, hash string, expiresAt time.Time) error {
	m.record("SetResetToken", []interface{}{id, hash, expiresAt})
	if m.SetResetTokenFunc != nil {
		return m.SetResetTokenFunc(ctx, id, hash, expiresAt)
	}
	return nil
}

func (m *UserRepository) RedeemResetToken(ctx context.Context, hash, passwordHash string, now time.Time) (int64, error) {
	m.record("RedeemResetToken", []interface{}{hash, passwordHash, now})
	if m.RedeemResetTokenFunc != nil {
		return m.RedeemResetTokenFunc(ctx, hash, passwordHash, now)
	}
	return 0, repositories.ErrNotFound
}

func (m *UserRepository) Delete(ctx context.Context, id int64) (int64, error) {
	m.record("Delete", id)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return 1, nil
}

func (m *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	m.record("EmailExists", email)
	if m.EmailExistsFunc != nil {
		return m.EmailExistsFunc(ctx, email)
	}
	return false, nil
}

func (m *UserRepository) Count(ctx context.Context) (int64, error) {
	m.record("Count", nil)
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

// Ensure UserRepository implements the interface
var _ repositories.UserRepository = (*UserRepository)(nil)
