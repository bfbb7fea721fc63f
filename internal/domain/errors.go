package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrUpstream   = errors.New("upstream error")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
// It is returned before any I/O is attempted.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NotFoundError reports that the dictionary source has no entry for Word.
// It is terminal and never retried automatically.
type NotFoundError struct {
	Word string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no definition found for %q", e.Word)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// UpstreamError reports a transport failure or a non-2xx response from the
// dictionary source. StatusCode is zero when no response was received.
type UpstreamError struct {
	Word       string
	StatusCode int
	Detail     string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("dictionary lookup for %q failed: status %d: %s", e.Word, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("dictionary lookup for %q failed: %s", e.Word, e.Detail)
}

func (e *UpstreamError) Unwrap() error { return ErrUpstream }
