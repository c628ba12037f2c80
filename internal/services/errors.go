package services

import (
	"errors"
	"fmt"

	apperrors "github.com/Jaime-Bergen/gradeflowapp-sub000/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("resource conflict")

	// Subject specific errors
	ErrSubjectNotFound     = errors.New("subject not found")
	ErrSubjectAccessDenied = errors.New("access denied to subject")
	ErrWeightSumInvalid    = errors.New("active category weights must sum to 1.0")

	// Category specific errors
	ErrCategoryNotFound     = errors.New("grade category not found")
	ErrCategoryAccessDenied = errors.New("access denied to grade category")
	ErrCategoryInUse        = errors.New("grade category cannot be deleted - lessons are assigned to it")

	// Lesson specific errors
	ErrLessonNotFound = errors.New("lesson not found")

	// Student specific errors
	ErrStudentNotFound     = errors.New("student not found")
	ErrStudentAccessDenied = errors.New("access denied to student")
	ErrNotEnrolled         = errors.New("student is not enrolled in subject")

	// Grade specific errors
	ErrGradeNotFound      = errors.New("grade not found")
	ErrGradeInvalidScore  = errors.New("invalid grade score value")
	ErrGradePointsTooHigh = errors.New("earned points exceed lesson maximum")

	// Report specific errors
	ErrReportUnavailable = errors.New("no report available for student")

	// User errors
	ErrUserNotFound = errors.New("user not found")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type PermissionError struct {
	TeacherID  uint   `json:"teacher_id"`
	ResourceID uint   `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: teacher %d cannot %s %s %d - %s",
		pe.TeacherID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewPermissionError(teacherID, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		TeacherID:  teacherID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrSubjectNotFound) ||
		errors.Is(err, ErrCategoryNotFound) ||
		errors.Is(err, ErrLessonNotFound) ||
		errors.Is(err, ErrStudentNotFound) ||
		errors.Is(err, ErrGradeNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrReportUnavailable)
}

// IsUnauthorized checks if error represents an access-denied condition
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrSubjectAccessDenied) ||
		errors.Is(err, ErrCategoryAccessDenied) ||
		errors.Is(err, ErrStudentAccessDenied) {
		return true
	}
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrWeightSumInvalid) ||
		errors.Is(err, ErrGradeInvalidScore) ||
		errors.Is(err, ErrGradePointsTooHigh) {
		return true
	}
	var ves apperrors.ValidationErrors
	if errors.As(err, &ves) {
		return true
	}
	// Services return a bare *ValidationError for single-field failures.
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrCategoryInUse)
}
