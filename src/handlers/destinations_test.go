package handlers

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sccbd/catalog-api/src/models"
	"github.com/sccbd/catalog-api/src/repositories"
)

func destinationFields() map[string]string {
	return map[string]string{
		"destination_name": "Sundarbans",
		"description":      "Mangrove forest",
		"published":        "true",
	}
}

func TestCreateDestination(t *testing.T) {
	s := newTestServer(t)
	admin, key := s.seedUser(t, "admin", models.RoleAdmin)

	w := s.do(multipartRequest(t, http.MethodPost, "/api/destinations", key, destinationFields(),
		formFile{"destination_thumbnail", "thumb.png", pngBytes},
		formFile{"destination_images[]", "a.png", pngBytes},
		formFile{"destination_images[]", "b.png", pngBytes},
	))
	assertStatusCode(t, w, http.StatusCreated)
	assert.Equal(t, "Destination was created successfully!", decode(t, w)["message"])

	require.Len(t, s.destinations.Calls["Create"], 1)
	d := s.destinations.Calls["Create"][0].(*models.Destination)
	assert.Equal(t, "Sundarbans", d.DestinationName)
	assert.True(t, d.Published)
	require.NotNil(t, d.CreatedBy)
	assert.Equal(t, admin.ID, *d.CreatedBy)
	assert.Len(t, d.DestinationImages, 2)

	for _, name := range append(d.DestinationImages, d.DestinationThumbnail) {
		_, err := os.Stat(filepath.Join(s.images.Dir(), name))
		assert.NoError(t, err, name)
	}

	// uploaded files are served publicly
	w = s.do(request{method: http.MethodGet, path: "/images/" + d.DestinationThumbnail})
	assertStatusCode(t, w, http.StatusOK)
}

func TestCreateDestination_Validation(t *testing.T) {
	s := newTestServer(t)
	_, key := s.seedUser(t, "admin", models.RoleAdmin)

	fields := destinationFields()
	fields["published"] = "maybe"
	w := s.do(multipartRequest(t, http.MethodPost, "/api/destinations", key, fields))
	assertStatusCode(t, w, http.StatusUnprocessableEntity)
	assert.Contains(t, fieldErrors(t, w), "published")

	w = s.do(multipartRequest(t, http.MethodPost, "/api/destinations", key, map[string]string{"description": "x"}))
	assertStatusCode(t, w, http.StatusUnprocessableEntity)
	errs := fieldErrors(t, w)
	assert.Contains(t, errs, "destination_name")
	assert.Contains(t, errs, "published")
	assert.Contains(t, errs, "destination_thumbnail")
	assert.Contains(t, errs, "destination_images")

	w = s.do(multipartRequest(t, http.MethodPost, "/api/destinations", key, destinationFields(),
		formFile{"destination_thumbnail", "thumb.png", pngBytes},
		formFile{"destination_images", "a.gif", gifBytes},
	))
	assertStatusCode(t, w, http.StatusUnprocessableEntity)
	assertJSONError(t, w, "File format is not supported!")

	entries, err := os.ReadDir(s.images.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries, "no files survive a rejected upload")
	assert.Empty(t, s.destinations.Calls["Create"])
}

func TestCreateDestination_RequiresKey(t *testing.T) {
	s := newTestServer(t)

	w := s.do(multipartRequest(t, http.MethodPost, "/api/destinations", "", destinationFields()))
	assertStatusCode(t, w, http.StatusBadRequest)
	assertJSONError(t, w, "api-key missing!")
}

func stubDestination(s *testServer, d models.Destination) {
	s.destinations.GetByIDFunc = func(_ context.Context, id int64) (*models.Destination, error) {
		if id != d.ID {
			return nil, repositories.ErrNotFound
		}
		cp := d
		return &cp, nil
	}
}

func TestGetDestination(t *testing.T) {
	s := newTestServer(t)
	stubDestination(s, models.Destination{ID: 1, DestinationName: "Cox's Bazar", DestinationImages: []string{"a.png"}})

	w := s.do(request{method: http.MethodGet, path: "/api/destinations/1"})
	assertStatusCode(t, w, http.StatusOK)
	body := decode(t, w)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Cox's Bazar", body["destination"].(map[string]interface{})["destination_name"])

	for _, path := range []string{"/api/destinations/2", "/api/destinations/abc"} {
		w = s.do(request{method: http.MethodGet, path: path})
		assertStatusCode(t, w, http.StatusNotFound)
		assertJSONError(t, w, "Destination not found!")
	}
}

func TestListDestinations_Public(t *testing.T) {
	s := newTestServer(t)

	w := s.do(request{method: http.MethodGet, path: "/api/destinations"})
	assertStatusCode(t, w, http.StatusOK)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestUpdateDestination_Partial(t *testing.T) {
	s := newTestServer(t)
	_, key := s.seedUser(t, "editor", models.RoleMaintainer)
	stubDestination(s, models.Destination{ID: 1, DestinationName: "Old", DestinationThumbnail: "old.png"})

	w := s.do(multipartRequest(t, http.MethodPost, "/api/destinations/1", key, map[string]string{
		"description": "Updated",
		"published":   "0",
	}))
	assertStatusCode(t, w, http.StatusOK)
	assert.Equal(t, "Destination has been updated!", decode(t, w)["message"])

	require.Len(t, s.destinations.Calls["Update"], 1)
	patch := s.destinations.Calls["Update"][0].([]interface{})[1].(models.DestinationPatch)
	require.NotNil(t, patch.Description)
	assert.Equal(t, "Updated", *patch.Description)
	require.NotNil(t, patch.Published)
	assert.False(t, *patch.Published)
	assert.Nil(t, patch.DestinationName)
	assert.Nil(t, patch.DestinationThumbnail)
	assert.Nil(t, patch.DestinationImages)

	w = s.do(multipartRequest(t, http.MethodPost, "/api/destinations/9", key, map[string]string{"description": "x"}))
	assertStatusCode(t, w, http.StatusNotFound)
}

func TestDeleteDestination(t *testing.T) {
	s := newTestServer(t)
	_, key := s.seedUser(t, "editor", models.RoleMaintainer)
	stubDestination(s, models.Destination{ID: 1})

	w := s.do(request{method: http.MethodDelete, path: "/api/destinations/1", apiKey: key})
	assertStatusCode(t, w, http.StatusOK)
	body := decode(t, w)
	assert.Equal(t, "Destination was deleted!", body["message"])
	assert.Equal(t, float64(1), body["rows"])

	assertStatusCode(t, s.do(request{method: http.MethodDelete, path: "/api/destinations/5", apiKey: key}), http.StatusNotFound)
}
