package services

import (
	"errors"
	"fmt"

	apperrors "github.com/happynation/wellbeing-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("resource conflict")

	// Auth
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSSODisabled        = errors.New("single sign-on is not configured")

	// Employee / admin
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmployeeExists   = errors.New("employee already exists")
	ErrAdminNotFound    = errors.New("admin not found")

	// Question bank
	ErrQuestionNotFound = errors.New("question not found")

	// Feedback / notifications
	ErrFeedbackNotFound     = errors.New("feedback not found")
	ErrNotificationNotFound = errors.New("notification not found")

	// Session
	ErrSessionNotFound = errors.New("session not found")

	// Uploads
	ErrImageUploadFailed = errors.New("image upload failed")
	ErrUploadsDisabled   = errors.New("image uploads are not configured")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrAdminNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrFeedbackNotFound) ||
		errors.Is(err, ErrNotificationNotFound) ||
		errors.Is(err, ErrSessionNotFound)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrInvalidCredentials)
}

// IsForbidden checks for a permission failure
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	return errors.As(err, &single)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrEmployeeExists)
}

// IsUpstream reports failures of an external collaborator the caller cannot fix.
func IsUpstream(err error) bool {
	return errors.Is(err, ErrImageUploadFailed) ||
		errors.Is(err, ErrUploadsDisabled) ||
		errors.Is(err, ErrSSODisabled)
}
