package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRequest struct {
	Query string   `validate:"required"`
	K     int      `validate:"omitempty,min=1,max=50"`
	Price *float64 `validate:"omitempty,gte=0"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid struct", func(t *testing.T) {
		s := testRequest{
			Query: "running shoes",
			K:     8,
		}

		err := ValidateStruct(&s)
		assert.NoError(t, err)
	})

	t.Run("missing required field", func(t *testing.T) {
		s := testRequest{
			K: 8,
		}

		err := ValidateStruct(&s)
		assert.Error(t, err)
		assert.True(t, IsValidationError(err))

		fields := GetValidationFields(err)
		assert.Contains(t, fields, "Query")
		assert.Equal(t, "Query is required", fields["Query"])
	})

	t.Run("limit above max", func(t *testing.T) {
		s := testRequest{
			Query: "running shoes",
			K:     100,
		}

		err := ValidateStruct(&s)
		assert.Error(t, err)
		assert.True(t, IsValidationError(err))

		fields := GetValidationFields(err)
		assert.Contains(t, fields, "K")
		assert.Equal(t, "K must be at most 50", fields["K"])
	})

	t.Run("limit below min", func(t *testing.T) {
		s := testRequest{
			Query: "running shoes",
			K:     -3,
		}

		err := ValidateStruct(&s)
		assert.Error(t, err)

		fields := GetValidationFields(err)
		assert.Contains(t, fields, "K")
	})

	t.Run("negative price pointer", func(t *testing.T) {
		price := -10.0
		s := testRequest{
			Query: "running shoes",
			Price: &price,
		}

		err := ValidateStruct(&s)
		assert.Error(t, err)

		fields := GetValidationFields(err)
		assert.Contains(t, fields, "Price")
		assert.Equal(t, "Price must be greater than or equal to 0", fields["Price"])
	})

	t.Run("zero value optional fields skip validation", func(t *testing.T) {
		s := testRequest{
			Query: "running shoes",
		}

		err := ValidateStruct(&s)
		assert.NoError(t, err)
	})
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Message: "Validation failed",
		Fields:  map[string]string{"Query": "Query is required"},
	}

	assert.Equal(t, "Validation failed", err.Error())
}

func TestIsValidationError(t *testing.T) {
	validationErr := &ValidationError{Message: "Validation failed"}
	assert.True(t, IsValidationError(validationErr))
	assert.False(t, IsValidationError(assert.AnError))
	assert.False(t, IsValidationError(nil))
}

func TestGetValidationFields(t *testing.T) {
	s := testRequest{}

	err := ValidateStruct(&s)
	require.Error(t, err)

	fields := GetValidationFields(err)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "Query")

	assert.Nil(t, GetValidationFields(assert.AnError))
}
