package mock

import (
	"context"

	"github.com/sccbd/catalog-api/src/models"
	"github.com/sccbd/catalog-api/src/repositories"
)

// DestinationRepository is a mock implementation of repositories.DestinationRepository
type DestinationRepository struct {
	CreateFunc  func(ctx context.Context, d *models.Destination) error
	GetByIDFunc func(ctx context.Context, id int64) (*models.Destination, error)
	ListFunc    func(ctx context.Context) ([]models.Destination, error)
	UpdateFunc  func(ctx context.Context, id int64, patch models.DestinationPatch) (int64, error)
	DeleteFunc  func(ctx context.Context, id int64) (int64, error)

	Calls map[string][]interface{}
}

// NewDestinationRepository creates a new mock destination repository
func NewDestinationRepository() *DestinationRepository {
	return &DestinationRepository{Calls: make(map[string][]interface{})}
}

func (m *DestinationRepository) Create(ctx context.Context, d *models.Destination) error {
	m.Calls["Create"] = append(m.Calls["Create"], d)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, d)
	}
	d.ID = int64(len(m.Calls["Create"]))
	return nil
}

func (m *DestinationRepository) GetByID(ctx context.Context, id int64) (*models.Destination, error) {
	m.Calls["GetByID"] = append(m.Calls["GetByID"], id)
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrNotFound
}

func (m *DestinationRepository) List(ctx context.Context) ([]models.Destination, error) {
	m.Calls["List"] = append(m.Calls["List"], nil)
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []models.Destination{}, nil
}

func (m *DestinationRepository) Update(ctx context.Context, id int64, patch models.DestinationPatch) (int64, error) {
	m.Calls["Update"] = append(m.Calls["Update"], []interface{}{id, patch})
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, patch)
	}
	return 1, nil
}

func (m *DestinationRepository) Delete(ctx context.Context, id int64) (int64, error) {
	m.Calls["Delete"] = append(m.Calls["Delete"], id)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return 1, nil
}

// ProductRepository is a mock implementation of repositories.ProductRepository
type ProductRepository struct {
	CreateFunc  func(ctx context.Context, p *models.Product) (int64, error)
	GetByIDFunc func(ctx context.Context, id int64) (*models.Product, error)
	ListFunc    func(ctx context.Context) ([]models.Product, error)
	UpdateFunc  func(ctx context.Context, id int64, patch models.ProductPatch) (int64, error)
	DeleteFunc  func(ctx context.Context, id int64) (int64, error)

	Calls map[string][]interface{}
}

// NewProductRepository creates a new mock product repository
func NewProductRepository() *ProductRepository {
	return &ProductRepository{Calls: make(map[string][]interface{})}
}

func (m *ProductRepository) Create(ctx context.Context, p *models.Product) (int64, error) {
	m.Calls["Create"] = append(m.Calls["Create"], p)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	p.ID = int64(len(m.Calls["Create"]))
	return p.ID, nil
}

func (m *ProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	m.Calls["GetByID"] = append(m.Calls["GetByID"], id)
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, repositories.ErrNotFound
}

func (m *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	m.Calls["List"] = append(m.Calls["List"], nil)
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []models.Product{}, nil
}

func (m *ProductRepository) Update(ctx context.Context, id int64, patch models.ProductPatch) (int64, error) {
	m.Calls["Update"] = append(m.Calls["Update"], []interface{}{id, patch})
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, patch)
	}
	return 1, nil
}

func (m *ProductRepository) Delete(ctx context.Context, id int64) (int64, error) {
	m.Calls["Delete"] = append(m.Calls["Delete"], id)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return 1, nil
}

var (
	_ repositories.DestinationRepository = (*DestinationRepository)(nil)
	_ repositories.ProductRepository     = (*ProductRepository)(nil)
)
