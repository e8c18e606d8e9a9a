package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/sccbd/catalog-api/src/models"
	"github.com/sccbd/catalog-api/src/services"
)

type productGetterFunc func(ctx context.Context, id int64) (*models.Product, error)

func (f productGetterFunc) Get(ctx context.Context, id int64) (*models.Product, error) {
	return f(ctx, id)
}

func TestLoadProduct(t *testing.T) {
	getter := productGetterFunc(func(_ context.Context, id int64) (*models.Product, error) {
		switch id {
		case 1:
			return &models.Product{ID: 1, Name: "Tent"}, nil
		case 2:
			return nil, errors.New("db down")
		default:
			return nil, services.ErrProductNotFound
		}
	})

	router := newTestRouter()
	router.GET("/products/:id", LoadProduct(getter), func(c *gin.Context) {
		c.JSON(http.StatusOK, LoadedProduct(c))
	})

	w := doRequest(router, http.MethodGet, "/products/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Tent"`)

	for _, path := range []string{"/products/abc", "/products/0", "/products/99"} {
		w = doRequest(router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Equal(t, "product not found", errorMessage(t, w))
	}

	assert.Equal(t, http.StatusInternalServerError, doRequest(router, http.MethodGet, "/products/2", "").Code)
}

type userGetterFunc func(ctx context.Context, id int64) (*models.User, error)

func (f userGetterFunc) Get(ctx context.Context, id int64) (*models.User, error) {
	return f(ctx, id)
}

func TestLoadUser(t *testing.T) {
	getter := userGetterFunc(func(_ context.Context, id int64) (*models.User, error) {
		if id == 3 {
			return &models.User{ID: 3}, nil
		}
		return nil, services.ErrUserNotFound
	})

	router := newTestRouter()
	router.DELETE("/users/:id", LoadUser(getter), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": LoadedUser(c).ID})
	})

	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodDelete, "/users/3", "").Code)

	w := doRequest(router, http.MethodDelete, "/users/4", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "user not found", errorMessage(t, w))
}
