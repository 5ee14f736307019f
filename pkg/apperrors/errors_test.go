package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_MatchesSentinel(t *testing.T) {
	err := NewValidationError("student_id", "is required")

	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "student_id is required", err.Error())
}

func TestValidationError_WrappedStillMatches(t *testing.T) {
	err := fmt.Errorf("create assessment: %w", NewValidationError("assessment_date", "is required"))

	assert.True(t, errors.Is(err, ErrValidation))

	var verr *ValidationError
	if assert.True(t, errors.As(err, &verr)) {
		assert.Equal(t, "assessment_date", verr.Fields[0].Field)
	}
}

func TestValidationError_MultipleFields(t *testing.T) {
	err := &ValidationError{Fields: []FieldError{
		{Field: "first_name", Message: "is required"},
		{Field: "last_name", Message: "is required"},
	}}

	assert.Equal(t, "first_name is required; last_name is required", err.Error())
}

func TestValidationError_Empty(t *testing.T) {
	err := &ValidationError{}
	assert.Equal(t, "validation failed", err.Error())
}
