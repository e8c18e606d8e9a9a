package services

import "errors"

// Sentinel errors for explicit error handling.
// Callers distinguish failure modes with errors.Is instead of string matching.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("email already in use")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountNotActivated = errors.New("account not activated")
	ErrInvalidAPIKey       = errors.New("invalid api key")

	// ErrTokenInvalid means no account holds the presented activation or reset token
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	ErrDestinationNotFound = errors.New("destination not found")
	ErrProductNotFound     = errors.New("product not found")

	ErrFileTooLarge         = errors.New("file too large")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrUploadFailed         = errors.New("upload failed")
)

// ValidationError carries per-field messages for a rejected input
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// Add records a message for field
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// ErrOrNil returns e when any field failed, nil otherwise
func (e *ValidationError) ErrOrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}
