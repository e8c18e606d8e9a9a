package models

import (
	"time"
)

// User represents an account that authenticates with an API key
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // never expose
	Role         Role   `json:"role"`
	ProfileImage string `json:"profile_image"`
	Phone        string `json:"phone,omitempty"`

	APIKeyEncrypted     string     `json:"-"`
	APIKeyHash          string     `json:"-"`
	ActivationTokenHash *string    `json:"-"`
	ResetTokenHash      *string    `json:"-"`
	ResetExpiresAt      *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActivated returns true once the email activation token has been redeemed
func (u *User) IsActivated() bool {
	return u.ActivationTokenHash == nil
}

// HasRole reports whether the user holds any of the given roles
func (u *User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// ResetExpired reports whether the pending password reset is past its expiry
func (u *User) ResetExpired(now time.Time) bool {
	return u.ResetExpiresAt == nil || now.After(*u.ResetExpiresAt)
}
