// Package domain defines domain-specific errors.
// These errors represent visualiser failures and are independent of the host environment.
package domain

import (
	"errors"
	"fmt"
)

// Configuration errors. These are caller-programming mistakes and are never retried.
var (
	// ErrSourceNotAttached is returned when the render loop is started (or a frame runs)
	// without a frequency source.
	ErrSourceNotAttached = errors.New("frequency source has not been attached")

	// ErrInvalidSource is returned when a nil or otherwise unusable source is attached.
	ErrInvalidSource = errors.New("invalid frequency source")

	// ErrNotAttached is returned when an operation needs a surface but the component
	// has not been attached to one.
	ErrNotAttached = errors.New("visualiser is not attached to a surface")

	// ErrAlreadyAttached is returned when Attach is called twice without Detach.
	ErrAlreadyAttached = errors.New("visualiser is already attached")

	// ErrInvalidColor is returned when a fill colour string cannot be parsed.
	ErrInvalidColor = errors.New("invalid fill color")

	// ErrSchedulerClosed is returned when the frame scheduler no longer accepts callbacks.
	ErrSchedulerClosed = errors.New("frame scheduler is closed")
)

// Transient render anomalies. Frames hitting these are skipped, the loop keeps running.
var (
	// ErrResizeInProgress is reported when the surface is being resized during a frame.
	ErrResizeInProgress = errors.New("surface resize in progress")

	// ErrSurfaceNotSized is reported when the surface has no pixels yet.
	ErrSurfaceNotSized = errors.New("surface has not been sized")
)

// IsTransient reports whether err only causes the current frame to be skipped.
func IsTransient(err error) bool {
	return errors.Is(err, ErrResizeInProgress) || errors.Is(err, ErrSurfaceNotSized)
}

// VisualizerError wraps a component failure with the operation that triggered it.
type VisualizerError struct {
	Op      string // Operation that failed (e.g., "start", "frame", "attach")
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *VisualizerError) Error() string {
	return fmt.Sprintf("visualiser %s failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *VisualizerError) Unwrap() error {
	return e.Err
}

// NewVisualizerError creates a new VisualizerError.
func NewVisualizerError(op, message string, err error) *VisualizerError {
	return &VisualizerError{
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// RepositoryError represents an error from a repository.
type RepositoryError struct {
	Op      string // Operation that failed (e.g., "save", "load")
	Type    string // Repository type (e.g., "preferences")
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s.%s failed: %s", e.Type, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError creates a new RepositoryError.
func NewRepositoryError(op, repoType, message string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      op,
		Type:    repoType,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string // Field that failed validation
	Value   any    // Value that failed validation
	Message string // Error message
	Err     error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value any, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
		Err:     err,
	}
}
