package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestIsValidation tests the classification of every validation error shape
// the services return
func TestIsValidation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"single field error", NewValidationError("points", "either points or percentage is required for a non-skipped grade", nil), true},
		{"field error collection", ValidationErrors{*NewValidationError("weights", "references unknown category 9", uint(9))}, true},
		{"weight sum sentinel", ErrWeightSumInvalid, true},
		{"points too high sentinel", ErrGradePointsTooHigh, true},
		{"wrapped sentinel", fmt.Errorf("saving grade: %w", ErrGradeInvalidScore), true},
		{"not found is not validation", ErrGradeNotFound, false},
		{"permission error is not validation", NewPermissionError(1, 10, "subject", "grade", "not owner"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidation(tt.err))
		})
	}
}

// TestIsUnauthorized tests permission error classification
func TestIsUnauthorized(t *testing.T) {
	assert.True(t, IsUnauthorized(NewPermissionError(1, 10, "subject", "export", "not owner")))
	assert.True(t, IsUnauthorized(fmt.Errorf("checking access: %w", ErrForbidden)))
	assert.False(t, IsUnauthorized(ErrGradeNotFound))
}

// TestIsNotFound tests not-found classification across the domain sentinels
func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrSubjectNotFound))
	assert.True(t, IsNotFound(ErrReportUnavailable))
	assert.True(t, IsNotFound(fmt.Errorf("loading lesson: %w", ErrLessonNotFound)))
	assert.False(t, IsNotFound(ErrWeightSumInvalid))
}
