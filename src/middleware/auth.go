package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sccbd/catalog-api/src/models"
	"github.com/sccbd/catalog-api/src/services"
)

// APIKeyHeader carries the caller's API key
const APIKeyHeader = "X-Api-Key"

// UserKey is the context key for the authenticated user
const UserKey = "user"

// Authenticator resolves an API key to its owner
type Authenticator interface {
	Authenticate(ctx context.Context, apiKey string) (*models.User, error)
}

// RequireAPIKey authenticates the request by its X-Api-Key header
func RequireAPIKey(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(APIKeyHeader))
		if key == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "api-key missing!"})
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), key)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidAPIKey):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid api key"})
			case errors.Is(err, services.ErrAccountNotActivated):
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account not activated"})
			default:
				logger := Logger(c, "auth")
				logger.Error().Err(err).Msg("api key lookup failed")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to validate api key"})
			}
			return
		}

		c.Set(UserKey, user)
		c.Next()
	}
}

// OptionalAPIKey authenticates when a key is presented and otherwise continues anonymously.
// An invalid key is still rejected.
func OptionalAPIKey(auth Authenticator) gin.HandlerFunc {
	required := RequireAPIKey(auth)
	return func(c *gin.Context) {
		if strings.TrimSpace(c.GetHeader(APIKeyHeader)) == "" {
			c.Next()
			return
		}
		required(c)
	}
}

// RequireRole rejects authenticated users whose role is not listed
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !user.HasRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(UserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
