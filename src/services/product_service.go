package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sccbd/catalog-api/src/models"
	"github.com/sccbd/catalog-api/src/repositories"
)

// ProductInput is the payload for creating a product
type ProductInput struct {
	Name        string `json:"name" form:"name" validate:"required"`
	Size        *int   `json:"size" form:"size" validate:"required,min=1,max=2147483647"`
	IsAvailable *bool  `json:"is_available" form:"is_available"`
}

// ProductUpdate is a partial update. Nil fields are left unchanged.
type ProductUpdate struct {
	Name        *string `json:"name" form:"name" validate:"omitempty,min=1"`
	Size        *int    `json:"size" form:"size" validate:"omitempty,min=1,max=2147483647"`
	IsAvailable *bool   `json:"is_available" form:"is_available"`
}

// ProductService manages products
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// Create validates and inserts a product, returning its ID
func (s *ProductService) Create(ctx context.Context, in ProductInput) (int64, error) {
	if err := ValidateStruct(in); err != nil {
		return 0, err
	}

	p := &models.Product{
		Name: strings.TrimSpace(in.Name),
		Size: *in.Size,
	}
	if in.IsAvailable != nil {
		p.IsAvailable = *in.IsAvailable
	}
	return s.repo.Create(ctx, p)
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.repo.List(ctx)
}

func (s *ProductService) Get(ctx context.Context, id int64) (*models.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

// Update applies the set fields and returns the number of rows changed
func (s *ProductService) Update(ctx context.Context, id int64, in ProductUpdate) (int64, error) {
	if err := ValidateStruct(in); err != nil {
		return 0, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			v := &ValidationError{}
			v.Add("name", "name is required")
			return 0, v
		}
		in.Name = &name
	}
	return s.repo.Update(ctx, id, models.ProductPatch{Name: in.Name, Size: in.Size, IsAvailable: in.IsAvailable})
}

// Delete removes a product and returns the number of rows deleted
func (s *ProductService) Delete(ctx context.Context, id int64) (int64, error) {
	return s.repo.Delete(ctx, id)
}
