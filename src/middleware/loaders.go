package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sccbd/catalog-api/src/models"
	"github.com/sccbd/catalog-api/src/services"
)

// Context keys for rows loaded from the :id path parameter
const (
	ProductKey    = "product"
	TargetUserKey = "target_user"
)

// ProductGetter fetches a product by ID
type ProductGetter interface {
	Get(ctx context.Context, id int64) (*models.Product, error)
}

// UserGetter fetches a user by ID
type UserGetter interface {
	Get(ctx context.Context, id int64) (*models.User, error)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// load parses :id, fetches the row and stores it under key. notFound is the sentinel mapped to 404.
func load[T any](c *gin.Context, key, message string, notFound error, get func(context.Context, int64) (*T, error)) {
	id, ok := pathID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": message})
		return
	}

	row, err := get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, notFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": message})
			return
		}
		logger := Logger(c, "loader")
		logger.Error().Err(err).Str("key", key).Int64("id", id).Msg("failed to load row")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Set(key, row)
	c.Next()
}

// LoadProduct loads the product named by :id or responds 404
func LoadProduct(products ProductGetter) gin.HandlerFunc {
	return func(c *gin.Context) {
		load(c, ProductKey, "product not found", services.ErrProductNotFound, products.Get)
	}
}

// LoadUser loads the user named by :id or responds 404
func LoadUser(users UserGetter) gin.HandlerFunc {
	return func(c *gin.Context) {
		load(c, TargetUserKey, "user not found", services.ErrUserNotFound, users.Get)
	}
}

// LoadedProduct returns the product stored by LoadProduct
func LoadedProduct(c *gin.Context) *models.Product {
	if v, ok := c.Get(ProductKey); ok {
		if p, ok := v.(*models.Product); ok {
			return p
		}
	}
	return nil
}

// LoadedUser returns the user stored by LoadUser
func LoadedUser(c *gin.Context) *models.User {
	if v, ok := c.Get(TargetUserKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}
