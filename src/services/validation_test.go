package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStruct_FieldMessages(t *testing.T) {
	err := ValidateStruct(StaffInput{Email: "not-an-email", Role: "owner"})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"username is required"}, verr.Fields["username"])
	assert.Equal(t, []string{"email must be a valid email address"}, verr.Fields["email"])
	assert.Equal(t, []string{"password is required"}, verr.Fields["password"])
	assert.Equal(t, []string{"role must be one of: admin, maintainer, viewer, student"}, verr.Fields["role"])
}

func TestValidateStruct_Valid(t *testing.T) {
	assert.NoError(t, ValidateStruct(StaffInput{
		Username: "jane",
		Email:    "jane@example.com",
		Password: "secret",
		Role:     "viewer",
	}))
}

func TestValidationError_ErrOrNil(t *testing.T) {
	var nilErr *ValidationError
	assert.NoError(t, nilErr.ErrOrNil())
	assert.NoError(t, (&ValidationError{}).ErrOrNil())

	v := &ValidationError{}
	v.Add("name", "name is required")
	assert.Error(t, v.ErrOrNil())
	assert.Equal(t, "validation failed", v.Error())
}
