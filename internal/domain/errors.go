package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation signals malformed input: bad search configuration, viewport geometry, vector shape.
	ErrValidation = errors.New("validation failed")
	// ErrUpstreamFormat signals a completion response that could not be interpreted.
	ErrUpstreamFormat = errors.New("upstream response malformed")
	// ErrUpstreamUnavailable signals an unreachable or failing embedding/completion backend.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrNotFound signals a missing collection or document.
	ErrNotFound = errors.New("not found")
	// ErrVectorDimMismatch signals a vector of the wrong length or with non-finite components.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
)

// ValidationError wraps ErrValidation with the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation.Error(), e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a validation error for field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// UpstreamFormatError wraps ErrUpstreamFormat with the stage that rejected the response.
type UpstreamFormatError struct {
	Stage string
	Err   error
}

func (e *UpstreamFormatError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrUpstreamFormat.Error(), e.Stage)
	}
	return fmt.Sprintf("%s: %s: %v", ErrUpstreamFormat.Error(), e.Stage, e.Err)
}

func (e *UpstreamFormatError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUpstreamFormat}
	}
	return []error{ErrUpstreamFormat, e.Err}
}

// DimensionError is raised when a vector fails the shape check.
// It matches both ErrVectorDimMismatch and ErrValidation.
type DimensionError struct {
	Want   int
	Got    int
	Reason string
}

func (e *DimensionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", ErrVectorDimMismatch.Error(), e.Reason)
	}
	return fmt.Sprintf("%s: want %d, got %d", ErrVectorDimMismatch.Error(), e.Want, e.Got)
}

func (e *DimensionError) Unwrap() []error { return []error{ErrVectorDimMismatch, ErrValidation} }

// NotFoundError wraps ErrNotFound with the kind and name of the missing resource.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q %s", e.Kind, e.Name, ErrNotFound.Error())
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
