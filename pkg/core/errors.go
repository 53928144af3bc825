package core

import (
	"errors"
	"fmt"
)

// ExecutionError is a structured error with a category and machine-readable code.
type ExecutionError struct {
	Category ErrorCategory
	Code     string // Machine-readable code: element_not_found, session_closed, etc.
	Message  string // Human-readable message
	Cause    error  // Underlying error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Is matches by code so wrapped copies compare equal to their sentinel.
func (e *ExecutionError) Is(target error) bool {
	var t *ExecutionError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of the error with the given cause attached.
func (e *ExecutionError) WithCause(cause error) *ExecutionError {
	return &ExecutionError{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Cause:    cause,
	}
}

// WithMessage returns a copy of the error with a custom message.
func (e *ExecutionError) WithMessage(msg string) *ExecutionError {
	return &ExecutionError{
		Category: e.Category,
		Code:     e.Code,
		Message:  msg,
		Cause:    e.Cause,
	}
}

// Predefined errors.
var (
	// Recoverable: the poller keeps trying until its deadline.
	ErrElementNotFound = &ExecutionError{
		Category: ErrCategoryNotFound,
		Code:     "element_not_found",
		Message:  "element not found",
	}

	// Timeout: a policy outcome surfaced as a StepOutcome, never retried.
	ErrTimeout = &ExecutionError{
		Category: ErrCategoryTimeout,
		Code:     "wait_timeout",
		Message:  "wait condition timed out",
	}

	// Driver errors: fatal, abort the run.
	ErrSessionClosed = &ExecutionError{
		Category: ErrCategoryDriver,
		Code:     "session_closed",
		Message:  "automation session is closed",
	}
	ErrServerUnreachable = &ExecutionError{
		Category: ErrCategoryDriver,
		Code:     "server_unreachable",
		Message:  "could not reach automation server",
	}
	ErrDriverFailure = &ExecutionError{
		Category: ErrCategoryDriver,
		Code:     "driver_failure",
		Message:  "driver command failed",
	}

	// Config errors: fatal before any driver call.
	ErrMissingSelector = &ExecutionError{
		Category: ErrCategoryConfig,
		Code:     "missing_selector",
		Message:  "step requires a selector",
	}
	ErrInvalidStep = &ExecutionError{
		Category: ErrCategoryConfig,
		Code:     "invalid_step",
		Message:  "invalid step definition",
	}
)

// CategoryOf returns the category of err, or ErrCategoryDriver for plain
// errors from a driver backend that were not classified at the source.
func CategoryOf(err error) ErrorCategory {
	if err == nil {
		return ErrCategoryNone
	}
	var ee *ExecutionError
	if errors.As(err, &ee) {
		return ee.Category
	}
	return ErrCategoryDriver
}

// NewExecutionError creates a new ExecutionError.
func NewExecutionError(category ErrorCategory, code, message string) *ExecutionError {
	return &ExecutionError{
		Category: category,
		Code:     code,
		Message:  message,
	}
}
