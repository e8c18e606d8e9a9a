package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/sccbd/catalog-api/src/middleware"
	"github.com/sccbd/catalog-api/src/models"
	"github.com/sccbd/catalog-api/src/services"
)

// Multipart field names for destination uploads
const (
	thumbnailField = "destination_thumbnail"
	imagesField    = "destination_images"
)

// DestinationHandler handles destination endpoints
type DestinationHandler struct {
	destinations *services.DestinationService
}

// NewDestinationHandler creates a new destination handler
func NewDestinationHandler(destinations *services.DestinationService) *DestinationHandler {
	return &DestinationHandler{destinations: destinations}
}

// destinationForm holds the text fields of a destination form. Values stay
// strings until parsed so a bad boolean is reported as a field error.
type destinationForm struct {
	DestinationName *string `form:"destination_name"`
	Description     *string `form:"description"`
	Published       *string `form:"published"`
	CreatedBy       *string `form:"created_by"`
}

func parseBool(field, raw string, verr *services.ValidationError) *bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes":
		v := true
		return &v
	case "0", "false", "off", "no":
		v := false
		return &v
	}
	verr.Add(field, field+" must be a boolean")
	return nil
}

func parseID(field, raw string, verr *services.ValidationError) *int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		verr.Add(field, field+" must be a positive integer")
		return nil
	}
	return &id
}

// parse converts the form into an update and collects conversion errors
func (f destinationForm) parse() (services.DestinationUpdate, *services.ValidationError) {
	verr := &services.ValidationError{}
	upd := services.DestinationUpdate{
		DestinationName: f.DestinationName,
		Description:     f.Description,
	}
	if f.Published != nil {
		upd.Published = parseBool("published", *f.Published, verr)
	}
	if f.CreatedBy != nil && *f.CreatedBy != "" {
		upd.CreatedBy = parseID("created_by", *f.CreatedBy, verr)
	}
	return upd, verr
}

// uploads returns the thumbnail and image set from a multipart body.
// The image set is read from both destination_images and destination_images[].
func uploads(c *gin.Context) (*multipart.FileHeader, []*multipart.FileHeader) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil, nil
	}

	var thumbnail *multipart.FileHeader
	if files := form.File[thumbnailField]; len(files) > 0 {
		thumbnail = files[0]
	}
	images := append([]*multipart.FileHeader{}, form.File[imagesField]...)
	images = append(images, form.File[imagesField+"[]"]...)
	return thumbnail, images
}

// HandleList handles GET /api/destinations
func (h *DestinationHandler) HandleList(c *gin.Context) {
	destinations, err := h.destinations.List(c.Request.Context())
	if err != nil {
		respondError(c, "destinations", err)
		return
	}
	if destinations == nil {
		destinations = []models.Destination{}
	}
	c.JSON(http.StatusOK, destinations)
}

// HandleGet handles GET /api/destinations/:id
func (h *DestinationHandler) HandleGet(c *gin.Context) {
	id, ok := destinationID(c)
	if !ok {
		return
	}

	d, err := h.destinations.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, "destinations", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "destination": d})
}

// HandleCreate handles multipart POST /api/destinations
func (h *DestinationHandler) HandleCreate(c *gin.Context) {
	var form destinationForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		badRequest(c)
		return
	}

	upd, verr := form.parse()
	if err := verr.ErrOrNil(); err != nil {
		respondError(c, "destinations", err)
		return
	}

	in := services.DestinationInput{
		Published: upd.Published,
		CreatedBy: upd.CreatedBy,
	}
	if upd.DestinationName != nil {
		in.DestinationName = *upd.DestinationName
	}
	if upd.Description != nil {
		in.Description = *upd.Description
	}
	if in.CreatedBy == nil {
		if user := middleware.CurrentUser(c); user != nil {
			in.CreatedBy = &user.ID
		}
	}

	thumbnail, images := uploads(c)
	d, err := h.destinations.Create(c.Request.Context(), in, thumbnail, images)
	if err != nil {
		respondError(c, "destinations", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Destination was created successfully!",
		"id":      d.ID,
	})
}

// HandleUpdate handles multipart POST /api/destinations/:id. Only the fields and files sent are changed.
func (h *DestinationHandler) HandleUpdate(c *gin.Context) {
	id, ok := destinationID(c)
	if !ok {
		return
	}

	var form destinationForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		badRequest(c)
		return
	}
	upd, verr := form.parse()
	if err := verr.ErrOrNil(); err != nil {
		respondError(c, "destinations", err)
		return
	}

	thumbnail, images := uploads(c)
	if _, err := h.destinations.Update(c.Request.Context(), id, upd, thumbnail, images); err != nil {
		respondError(c, "destinations", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Destination has been updated!",
	})
}

// HandleDelete handles DELETE /api/destinations/:id
func (h *DestinationHandler) HandleDelete(c *gin.Context) {
	id, ok := destinationID(c)
	if !ok {
		return
	}

	rows, err := h.destinations.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, "destinations", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Destination was deleted!",
		"rows":    rows,
	})
}

func destinationID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Destination not found!"})
		return 0, false
	}
	return id, true
}
