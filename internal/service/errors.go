package service

import (
	"errors"
	"fmt"
)

// ErrMissingDependency indicates a constructor received a nil collaborator.
var ErrMissingDependency = errors.New("missing dependency")

// IdeaServiceError wraps failures that originate in the service itself rather
// than in a provider adapter. Adapter errors are never wrapped.
type IdeaServiceError struct {
	// Operation is the operation that failed (e.g., "create_service", "offline")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for IdeaServiceError.
func (e *IdeaServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("idea service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("idea service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *IdeaServiceError) Unwrap() error {
	return e.Err
}

// NewIdeaServiceError creates a new IdeaServiceError. A nil err yields nil.
func NewIdeaServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	return &IdeaServiceError{Operation: operation, Message: message, Err: err}
}
