package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/sccbd/catalog-api/src/middleware"
	"github.com/sccbd/catalog-api/src/models"
	"github.com/sccbd/catalog-api/src/repositories/mock"
	"github.com/sccbd/catalog-api/src/services"
)

// Test helpers for handler tests

var (
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)
	gifBytes = append([]byte("GIF89a"), make([]byte, 64)...)
)

type stubHealth struct{ err error }

func (s stubHealth) Health(context.Context) error { return s.err }

// testServer is the full router wired to in-memory repositories
type testServer struct {
	router       *gin.Engine
	users        *services.UserService
	userRows     *mock.MemoryUsers
	destinations *mock.DestinationRepository
	products     *mock.ProductRepository
	mailer       *services.MockMailer
	images       *services.ImageStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	enc, err := services.NewEncryptor(strings.Repeat("ab", 32))
	require.NoError(t, err)
	keys := services.NewKeyService(enc, services.NewTokenHasher("test-secret-test-secret-test-secret"))

	images, err := services.NewImageStore(t.TempDir(), 1024)
	require.NoError(t, err)

	userRepo, userRows := mock.NewMemoryUserRepository()
	mailer := services.NewMockMailer()
	userSvc := services.NewUserService(userRepo, keys, images, mailer, nil, services.UserServiceConfig{
		ClientServer: "https://app.example.com",
	})

	destRepo := mock.NewDestinationRepository()
	prodRepo := mock.NewProductRepository()
	productSvc := services.NewProductService(prodRepo)

	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	RegisterRoutes(router, Routes{
		Health:        NewHealthHandler(stubHealth{}),
		Users:         NewUserHandler(userSvc),
		Destinations:  NewDestinationHandler(services.NewDestinationService(destRepo, images)),
		Products:      NewProductHandler(productSvc),
		Auth:          userSvc,
		UserLoader:    userSvc,
		ProductLoader: productSvc,
		ImageDir:      images.Dir(),
	})

	return &testServer{
		router:       router,
		users:        userSvc,
		userRows:     userRows,
		destinations: destRepo,
		products:     prodRepo,
		mailer:       mailer,
		images:       images,
	}
}

// seedUser creates an activated staff account and returns it with its API key
func (s *testServer) seedUser(t *testing.T, username string, role models.Role) (*models.User, string) {
	t.Helper()
	user, key, err := s.users.CreateUser(context.Background(), services.StaffInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret-" + username,
		Role:     role,
	})
	require.NoError(t, err)
	return user, key
}

type request struct {
	method      string
	path        string
	apiKey      string
	body        *bytes.Buffer
	contentType string
}

func (s *testServer) do(r request) *httptest.ResponseRecorder {
	if r.body == nil {
		r.body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(r.method, r.path, r.body)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.apiKey != "" {
		req.Header.Set(middleware.APIKeyHeader, r.apiKey)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func jsonRequest(t *testing.T, method, path, apiKey string, body interface{}) request {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	return request{method: method, path: path, apiKey: apiKey, body: bytes.NewBuffer(data), contentType: "application/json"}
}

type formFile struct {
	field    string
	filename string
	content  []byte
}

func multipartRequest(t *testing.T, method, path, apiKey string, fields map[string]string, files ...formFile) request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.filename)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return request{method: method, path: path, apiKey: apiKey, body: body, contentType: w.FormDataContentType()}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

// fieldErrors returns the per-field messages of a 422 response
func fieldErrors(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	errs, ok := decode(t, w)["errors"].(map[string]interface{})
	require.True(t, ok, w.Body.String())
	return errs
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	return u.Query().Get("token")
}

// assertStatusCode checks if response status code matches expected
func assertStatusCode(t *testing.T, w *httptest.ResponseRecorder, expectedCode int) {
	t.Helper()
	if w.Code != expectedCode {
		t.Errorf("expected status %d, got %d: %s", expectedCode, w.Code, w.Body.String())
	}
}

// assertJSONError checks if response contains expected error message
func assertJSONError(t *testing.T, w *httptest.ResponseRecorder, expectedError string) {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if response["error"] != expectedError {
		t.Errorf("expected error '%s', got '%v'", expectedError, response["error"])
	}
}

// createTestContext creates a test Gin context with recorder
func createTestContext() (*httptest.ResponseRecorder, *gin.Context) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return w, c
}
