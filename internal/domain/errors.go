// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidAge is returned when the recipient age is outside 1..150.
	ErrInvalidAge = errors.New("age must be between 1 and 150")

	// ErrEmptyInterests is returned when the interest text is blank.
	ErrEmptyInterests = errors.New("interests cannot be empty")

	// ErrInterestsTooLong is returned when the interest text exceeds MaxInterestsLength.
	ErrInterestsTooLong = errors.New("interests are too long")

	// ErrEmptyCredential is returned when no API credential is supplied.
	ErrEmptyCredential = errors.New("credential cannot be empty")

	// ErrUnknownProvider is returned when a provider id is not in the enumerated set.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrNoIdeas is returned when a list of ideas is empty after filtering blanks.
	ErrNoIdeas = errors.New("no usable ideas")
)

// ValidationError carries the offending field alongside a wrapped sentinel.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for field wrapping err.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

// Unwrap exposes both the specific sentinel and ErrValidation to errors.Is.
func (e *ValidationError) Unwrap() []error {
	return []error{e.Err, ErrValidation}
}
