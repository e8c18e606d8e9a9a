package models

import "time"

// Destination is a published or draft travel destination with its images
type Destination struct {
	ID                   int64     `json:"id"`
	DestinationName      string    `json:"destination_name"`
	DestinationThumbnail string    `json:"destination_thumbnail"`
	DestinationImages    []string  `json:"destination_images"`
	Description          string    `json:"description"`
	Published            bool      `json:"published"`
	CreatedBy            *int64    `json:"created_by"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// DestinationPatch carries the fields of a partial update. Nil fields are left unchanged.
type DestinationPatch struct {
	DestinationName      *string
	DestinationThumbnail *string
	DestinationImages    []string
	Description          *string
	Published            *bool
	CreatedBy            *int64
}

// Empty reports whether the patch changes nothing
func (p DestinationPatch) Empty() bool {
	return p.DestinationName == nil && p.DestinationThumbnail == nil && p.DestinationImages == nil &&
		p.Description == nil && p.Published == nil && p.CreatedBy == nil
}
