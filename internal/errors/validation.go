// Package errors holds the field-level validation error shared by the
// validator, the services and the HTTP layer.
package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError is one rejected field. Field uses the JSON name, or a
// dotted path such as "answers.4" for survey answers.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: message, Value: value}
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

// ValidationErrors is returned whenever at least one field was rejected.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	switch len(ve) {
	case 0:
		return "validation failed"
	case 1:
		return "validation failed: " + ve[0].Error()
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(ve.Fields(), ", "))
}

func (ve ValidationErrors) Add(field, message string, value interface{}) ValidationErrors {
	return append(ve, ValidationError{Field: field, Message: message, Value: value})
}

// Fields lists the rejected field names in order.
func (ve ValidationErrors) Fields() []string {
	out := make([]string, len(ve))
	for i, e := range ve {
		out[i] = e.Field
	}
	return out
}

// ErrOrNil returns nil for an empty collection.
func (ve ValidationErrors) ErrOrNil() error {
	if len(ve) == 0 {
		return nil
	}
	return ve
}

// ToValidationErrors converts struct-tag failures. Anything else yields an
// empty collection.
func ToValidationErrors(err error) ValidationErrors {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: describe(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return out
}

var fixedMessages = map[string]string{
	"required":         "is required",
	"email":            "must be a valid email address",
	"url":              "must be a valid URL",
	"numeric":          "must be a number",
	"likert":           "must be between 1 and 5",
	"risk_tier":        "must be Low, Medium or High",
	"survey_frequency": "must be daily, weekly or monthly",
	"report_type":      "must be Daily, Weekly or Monthly",
	"datetime":         "must be a date and time",
}

var paramMessages = map[string]string{
	"min":   "must be at least %s",
	"max":   "must be at most %s",
	"len":   "must be exactly %s characters",
	"oneof": "must be one of: %s",
}

func describe(fe validator.FieldError) string {
	if msg, ok := fixedMessages[fe.Tag()]; ok {
		return msg
	}
	if format, ok := paramMessages[fe.Tag()]; ok {
		return fmt.Sprintf(format, fe.Param())
	}
	return fmt.Sprintf("failed the %q check", fe.Tag())
}
