// ABOUTME: Custom error types for the core business logic
// ABOUTME: Separates cancellation, validation and source failures so callers can react to each

package errors

import (
	"context"
	"errors"
	"fmt"
)

// ErrCancelled marks a pipeline phase that stopped because of an external stop signal.
// It is a terminal outcome, not a failure.
var ErrCancelled = errors.New("operation cancelled")

// ErrCacheMiss is returned by cache implementations when a key is absent or expired
var ErrCacheMiss = errors.New("cache: key not found")

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// SourceError represents a failure inside one discovery source
type SourceError struct {
	SourceID string
	Err      error
}

// Error implements the error interface
func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s failed: %v", e.SourceID, e.Err)
}

// Unwrap exposes the underlying cause
func (e *SourceError) Unwrap() error {
	return e.Err
}

// ExternalAPIError represents an error from an external endpoint
type ExternalAPIError struct {
	StatusCode int
	Message    string
	API        string
}

// Error implements the error interface
func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("external API error from %s: %d - %s", e.API, e.StatusCode, e.Message)
}

// ConflictError reports an operation that clashes with work already in progress
type ConflictError struct {
	Resource string
	Message  string
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Resource, e.Message)
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsSource checks if an error is a SourceError
func IsSource(err error) bool {
	var sourceErr *SourceError
	return errors.As(err, &sourceErr)
}

// IsExternalAPI checks if an error is an ExternalAPIError
func IsExternalAPI(err error) bool {
	var apiErr *ExternalAPIError
	return errors.As(err, &apiErr)
}

// IsConflict checks if an error is a ConflictError
func IsConflict(err error) bool {
	var conflictErr *ConflictError
	return errors.As(err, &conflictErr)
}

// IsCacheMiss checks if an error is a cache miss
func IsCacheMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}

// IsCancelled reports whether err is a cancellation rather than a failure
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled)
}

// Cancelled converts a context error into ErrCancelled, keeping the cause in the chain
func Cancelled(cause error) error {
	if cause == nil || errors.Is(cause, ErrCancelled) {
		return ErrCancelled
	}
	return fmt.Errorf("%w: %w", ErrCancelled, cause)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
