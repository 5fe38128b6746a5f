package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_UsesJSONFieldNames(t *testing.T) {
	err := NewValidator().Validate(&registerRequest{Email: "not-an-email", Password: "abc"})
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "email must be a valid email")
	assert.Contains(t, msg, "password must be at least 6 characters")
	assert.Contains(t, msg, "fullName is required")
}

func TestValidator_ReportsSliceElementIndex(t *testing.T) {
	err := NewValidator().Validate(&createProductRequest{Title: "Shirt", Images: []string{"a.jpg", ""}})
	require.Error(t, err)
	assert.Equal(t, "images[1] is required", err.Error())
}

func TestValidator_AcceptsValidRequest(t *testing.T) {
	images := []string{}
	err := NewValidator().Validate(&updateProductRequest{Images: &images})
	assert.NoError(t, err)
}
