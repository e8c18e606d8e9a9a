package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sccbd/catalog-api/src/models"
	"github.com/sccbd/catalog-api/src/repositories"
	"github.com/sccbd/catalog-api/src/repositories/mock"
)

func TestProductService_Create(t *testing.T) {
	repo := mock.NewProductRepository()
	svc := NewProductService(repo)

	id, err := svc.Create(context.Background(), ProductInput{Name: " Tent ", Size: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	created := repo.Calls["Create"][0].(*models.Product)
	assert.Equal(t, "Tent", created.Name)
	assert.False(t, created.IsAvailable, "is_available defaults to false")
}

func TestProductService_Create_Validation(t *testing.T) {
	svc := NewProductService(mock.NewProductRepository())

	tests := []struct {
		name  string
		in    ProductInput
		field string
	}{
		{"missing name", ProductInput{Size: intPtr(1)}, "name"},
		{"missing size", ProductInput{Name: "Tent"}, "size"},
		{"zero size", ProductInput{Name: "Tent", Size: intPtr(0)}, "size"},
		{"size beyond int4", ProductInput{Name: "Tent", Size: intPtr(2147483648)}, "size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.in)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestProductService_Update(t *testing.T) {
	repo := mock.NewProductRepository()
	svc := NewProductService(repo)

	rows, err := svc.Update(context.Background(), 5, ProductUpdate{IsAvailable: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	call := repo.Calls["Update"][0].([]interface{})
	assert.Equal(t, int64(5), call[0])
	patch := call[1].(models.ProductPatch)
	assert.Nil(t, patch.Name)
	assert.True(t, *patch.IsAvailable)

	_, err = svc.Update(context.Background(), 5, ProductUpdate{Size: intPtr(-1)})
	assert.Error(t, err)
	var verr *ValidationError
	_, err = svc.Update(context.Background(), 5, ProductUpdate{Size: intPtr(1 << 31)})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "size")
	_, err = svc.Update(context.Background(), 5, ProductUpdate{Name: strPtr("   ")})
	assert.Error(t, err)
}

func TestProductService_GetNotFound(t *testing.T) {
	repo := mock.NewProductRepository()
	svc := NewProductService(repo)
	_, err := svc.Get(context.Background(), 1)
	assert.ErrorIs(t, err, ErrProductNotFound)

	repo.GetByIDFunc = func(context.Context, int64) (*models.Product, error) {
		return nil, errors.New("connection reset")
	}
	_, err = svc.Get(context.Background(), 1)
	assert.False(t, errors.Is(err, ErrProductNotFound))
	assert.False(t, errors.Is(err, repositories.ErrNotFound))
}
