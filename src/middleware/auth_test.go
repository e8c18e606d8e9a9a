package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sccbd/catalog-api/src/models"
	"github.com/sccbd/catalog-api/src/services"
)

type authFunc func(ctx context.Context, apiKey string) (*models.User, error)

func (f authFunc) Authenticate(ctx context.Context, apiKey string) (*models.User, error) {
	return f(ctx, apiKey)
}

var testAuth = authFunc(func(_ context.Context, key string) (*models.User, error) {
	switch key {
	case "admin-key":
		return &models.User{ID: 1, Role: models.RoleAdmin}, nil
	case "viewer-key":
		return &models.User{ID: 2, Role: models.RoleViewer}, nil
	case "pending-key":
		return nil, services.ErrAccountNotActivated
	case "broken-key":
		return nil, errors.New("db down")
	default:
		return nil, services.ErrInvalidAPIKey
	}
})

func doRequest(router *gin.Engine, method, path, apiKey string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if apiKey != "" {
		req.Header.Set(APIKeyHeader, apiKey)
	}
	router.ServeHTTP(w, req)
	return w
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestRequireAPIKey(t *testing.T) {
	router := newTestRouter(RequireAPIKey(testAuth))
	router.GET("/p", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": CurrentUser(c).ID})
	})

	w := doRequest(router, http.MethodGet, "/p", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "api-key missing!", errorMessage(t, w))

	w = doRequest(router, http.MethodGet, "/p", "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid api key", errorMessage(t, w))

	w = doRequest(router, http.MethodGet, "/p", "pending-key")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, http.MethodGet, "/p", "broken-key")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = doRequest(router, http.MethodGet, "/p", "viewer-key")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":2}`, w.Body.String())
}

func TestOptionalAPIKey(t *testing.T) {
	router := newTestRouter(OptionalAPIKey(testAuth))
	router.GET("/p", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"authenticated": CurrentUser(c) != nil})
	})

	w := doRequest(router, http.MethodGet, "/p", "")
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())

	w = doRequest(router, http.MethodGet, "/p", "admin-key")
	assert.JSONEq(t, `{"authenticated":true}`, w.Body.String())

	w = doRequest(router, http.MethodGet, "/p", "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	router := newTestRouter(RequireAPIKey(testAuth), RequireRole(models.RoleAdmin))
	router.GET("/admin", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusForbidden, doRequest(router, http.MethodGet, "/admin", "viewer-key").Code)
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/admin", "admin-key").Code)

	bare := newTestRouter(RequireRole(models.RoleAdmin))
	bare.GET("/admin", func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, doRequest(bare, http.MethodGet, "/admin", "").Code)
}
