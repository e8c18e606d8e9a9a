package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sccbd/catalog-api/src/logging"
	"github.com/sccbd/catalog-api/src/models"
	"github.com/sccbd/catalog-api/src/repositories"
)

// DestinationInput is the payload for creating a destination
type DestinationInput struct {
	DestinationName string `json:"destination_name" validate:"required"`
	Description     string `json:"description" validate:"required"`
	Published       *bool  `json:"published" validate:"required"`
	CreatedBy       *int64 `json:"created_by"`
}

// DestinationUpdate is a partial update. Nil fields are left unchanged.
type DestinationUpdate struct {
	DestinationName *string
	Description     *string
	Published       *bool
	CreatedBy       *int64
}

// DestinationService manages destinations and their image files
type DestinationService struct {
	repo   repositories.DestinationRepository
	images *ImageStore
	logger zerolog.Logger
}

// NewDestinationService creates a new destination service
func NewDestinationService(repo repositories.DestinationRepository, images *ImageStore) *DestinationService {
	return &DestinationService{
		repo:   repo,
		images: images,
		logger: logging.NewLogger("destination_service"),
	}
}

// saveUploads stores the optional thumbnail and image set. Nothing is kept on failure.
func (s *DestinationService) saveUploads(thumbnail *multipart.FileHeader, images []*multipart.FileHeader) (string, []string, error) {
	var thumb string
	if thumbnail != nil {
		name, err := s.images.Save(thumbnail)
		if err != nil {
			return "", nil, err
		}
		thumb = name
	}

	var names []string
	if len(images) > 0 {
		saved, err := s.images.SaveAll(images)
		if err != nil {
			s.images.discard(thumb)
			return "", nil, err
		}
		names = saved
	}
	return thumb, names, nil
}

// Create validates the input, stores the uploads and inserts the row
func (s *DestinationService) Create(ctx context.Context, in DestinationInput, thumbnail *multipart.FileHeader, images []*multipart.FileHeader) (*models.Destination, error) {
	verr := &ValidationError{}
	if err := ValidateStruct(in); err != nil {
		if !errors.As(err, &verr) {
			return nil, err
		}
	}
	if thumbnail == nil {
		verr.Add("destination_thumbnail", "destination_thumbnail is required")
	}
	if len(images) == 0 {
		verr.Add("destination_images", "destination_images is required")
	}
	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}

	thumb, names, err := s.saveUploads(thumbnail, images)
	if err != nil {
		return nil, err
	}

	d := &models.Destination{
		DestinationName:      strings.TrimSpace(in.DestinationName),
		DestinationThumbnail: thumb,
		DestinationImages:    names,
		Description:          in.Description,
		Published:            *in.Published,
		CreatedBy:            in.CreatedBy,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		s.images.discard(append(names, thumb)...)
		return nil, err
	}

	s.logger.Info().Int64("destination_id", d.ID).Int("images", len(names)).Msg("destination created")
	return d, nil
}

// List returns every destination
func (s *DestinationService) List(ctx context.Context) ([]models.Destination, error) {
	return s.repo.List(ctx)
}

// Get returns one destination
func (s *DestinationService) Get(ctx context.Context, id int64) (*models.Destination, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrDestinationNotFound
		}
		return nil, err
	}
	return d, nil
}

// Update applies a partial update. A new image set replaces the old one entirely
// and a new thumbnail replaces the old thumbnail; replaced files are deleted.
func (s *DestinationService) Update(ctx context.Context, id int64, in DestinationUpdate, thumbnail *multipart.FileHeader, images []*multipart.FileHeader) (int64, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}

	verr := &ValidationError{}
	if in.DestinationName != nil && strings.TrimSpace(*in.DestinationName) == "" {
		verr.Add("destination_name", "destination_name is required")
	}
	if in.Description != nil && *in.Description == "" {
		verr.Add("description", "description is required")
	}
	if err := verr.ErrOrNil(); err != nil {
		return 0, err
	}

	thumb, names, err := s.saveUploads(thumbnail, images)
	if err != nil {
		return 0, err
	}

	patch := models.DestinationPatch{
		DestinationName:   in.DestinationName,
		Description:       in.Description,
		Published:         in.Published,
		CreatedBy:         in.CreatedBy,
		DestinationImages: names,
	}
	if thumb != "" {
		patch.DestinationThumbnail = &thumb
	}
	if patch.DestinationName != nil {
		trimmed := strings.TrimSpace(*patch.DestinationName)
		patch.DestinationName = &trimmed
	}

	// nothing to write; the row was found above
	if patch.Empty() {
		return 1, nil
	}

	rows, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		s.images.discard(append(names, thumb)...)
		return 0, err
	}
	if rows == 0 {
		s.images.discard(append(names, thumb)...)
		return 0, ErrDestinationNotFound
	}

	var replaced []string
	if thumb != "" {
		replaced = append(replaced, current.DestinationThumbnail)
	}
	if names != nil {
		replaced = append(replaced, current.DestinationImages...)
	}
	s.images.discard(replaced...)

	return rows, nil
}

// Delete removes the row and its files
func (s *DestinationService) Delete(ctx context.Context, id int64) (int64, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}

	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	if rows == 0 {
		return 0, ErrDestinationNotFound
	}

	s.images.discard(append(current.DestinationImages, current.DestinationThumbnail)...)
	s.logger.Info().Int64("destination_id", id).Msg("destination deleted")
	return rows, nil
}
