package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sccbd/catalog-api/src/middleware"
	"github.com/sccbd/catalog-api/src/services"
)

// respondError maps service errors to status codes. Unknown errors are logged and hidden behind a 500.
func respondError(c *gin.Context, component string, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "errors": verr.Fields})
	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "validation failed",
			"errors": map[string][]string{"email": {"email already in use!"}},
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email or password is incorrect!"})
	case errors.Is(err, services.ErrAccountNotActivated):
		c.JSON(http.StatusForbidden, gin.H{"error": "account not activated"})
	case errors.Is(err, services.ErrTokenInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or already used token"})
	case errors.Is(err, services.ErrTokenExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "token expired"})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, services.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case errors.Is(err, services.ErrDestinationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Destination not found!"})
	case errors.Is(err, services.ErrFileTooLarge):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Uploaded file is too large!"})
	case errors.Is(err, services.ErrUnsupportedMediaType):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "File format is not supported!"})
	case errors.Is(err, services.ErrUploadFailed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "file not properly uploaded!"})
	default:
		logger := middleware.Logger(c, component)
		logger.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}
