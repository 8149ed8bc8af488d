package domain

import (
	"errors"
)

// Common domain errors
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrRegionNotFound = errors.New("region not found")
	ErrNoFreeCell     = errors.New("no free cell in region")
	ErrNoRulesLoaded  = errors.New("no rule set loaded")

	// Engine lifecycle errors
	ErrAlreadyRunning  = errors.New("engine already running")
	ErrNotRunning      = errors.New("engine not running")
	ErrUncleanShutdown = errors.New("engine did not stop cleanly within timeout")
	ErrFileVanished    = errors.New("file no longer exists")
)

// RetryableError marks a placement failure as transient: the operation should
// be re-enqueued with backoff rather than abandoned.
type RetryableError struct {
	Err error
}

// Error returns the error message
func (e *RetryableError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "retryable error"
}

// Unwrap returns the underlying error
func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryableError wraps err as retryable.
func NewRetryableError(err error) *RetryableError {
	return &RetryableError{Err: err}
}

// IsRetryable returns true if the error should trigger a retry
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// SkippableError represents an error that can be logged and skipped.
// Processing continues with the next item when this error occurs.
type SkippableError struct {
	Err     error
	Context string
}

// Error returns the error message
func (e *SkippableError) Error() string {
	if e.Context != "" {
		if e.Err != nil {
			return e.Context + ": " + e.Err.Error()
		}
		return e.Context
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "skippable error"
}

// Unwrap returns the underlying error
func (e *SkippableError) Unwrap() error {
	return e.Err
}

// NewSkippableError creates a new skippable error
func NewSkippableError(err error, context string) *SkippableError {
	return &SkippableError{Err: err, Context: context}
}

// IsSkippable returns true if the error can be skipped
func IsSkippable(err error) bool {
	var se *SkippableError
	return errors.As(err, &se)
}
