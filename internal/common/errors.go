// Package common defines sentinel errors and small helpers shared by the
// server and the client. Callers should use errors.Is / errors.As to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrEmailTaken     = errors.New("email has already been taken")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenMissing = errors.New("token missing")

	// Collaborator errors.
	ErrAnalysisDisabled    = errors.New("analysis service not configured")
	ErrAnalysisUnavailable = errors.New("analysis service unavailable")
)

// ErrValidation is matched by every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError carries a user-facing message describing why the input
// was rejected.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is reports ErrValidation as a match so callers don't need errors.As
// just to classify the failure.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError returns a *ValidationError with the given message.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// NotFoundError names the missing resource ("Folder not found") and matches
// ErrorNotFound via errors.Is.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func (e *NotFoundError) Is(target error) bool { return target == ErrorNotFound }

// NewNotFoundError returns a *NotFoundError with the given message.
func NewNotFoundError(msg string) error {
	return &NotFoundError{Message: msg}
}
