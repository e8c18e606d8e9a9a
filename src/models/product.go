package models

import "time"

// Product is a catalog item
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Size        int       `json:"size"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductPatch carries the fields of a partial update
type ProductPatch struct {
	Name        *string
	Size        *int
	IsAvailable *bool
}
