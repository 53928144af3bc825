package core

import "fmt"

// StepStatus represents the terminal status of an executed step.
type StepStatus int

const (
	StatusSuccess StepStatus = iota // Step completed as expected
	StatusTimeout                   // Wait deadline elapsed before the condition held
	StatusError                     // Driver/session failure during the step
)

// String returns the string representation of StepStatus.
func (s StepStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusTimeout:
		return "timeout"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler for JSON reports.
func (s StepStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *StepStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "success":
		*s = StatusSuccess
	case "timeout":
		*s = StatusTimeout
	case "error":
		*s = StatusError
	default:
		return fmt.Errorf("unknown step status: %s", text)
	}
	return nil
}

// RunStatus represents the aggregated status of a whole run.
type RunStatus int

const (
	RunSuccess RunStatus = iota // Every executed step succeeded
	RunPartial                  // Completed, but at least one optional step did not succeed
	RunFailure                  // Aborted: connection failure, cancellation, or a required step failed
)

// String returns the string representation of RunStatus.
func (s RunStatus) String() string {
	switch s {
	case RunSuccess:
		return "success"
	case RunPartial:
		return "partial"
	case RunFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler for JSON reports.
func (s RunStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *RunStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "success":
		*s = RunSuccess
	case "partial":
		*s = RunPartial
	case "failure":
		*s = RunFailure
	default:
		return fmt.Errorf("unknown run status: %s", text)
	}
	return nil
}

// ErrorCategory classifies execution errors for retry and abort decisions.
type ErrorCategory int

const (
	ErrCategoryNone     ErrorCategory = iota // No error
	ErrCategoryNotFound                      // Element not present yet; recoverable, retried by the poller
	ErrCategoryTimeout                       // Wait deadline elapsed; a policy outcome, not a fault
	ErrCategoryDriver                        // Transport/session failure; fatal, never retried
	ErrCategoryConfig                        // Invalid step or configuration; fatal before any driver call
)

// String returns the string representation of ErrorCategory.
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryNone:
		return "none"
	case ErrCategoryNotFound:
		return "not_found"
	case ErrCategoryTimeout:
		return "timeout"
	case ErrCategoryDriver:
		return "driver"
	case ErrCategoryConfig:
		return "config"
	default:
		return "unknown"
	}
}

// IsFatal returns true if an error of this category must abort the run.
func (c ErrorCategory) IsFatal() bool {
	return c == ErrCategoryDriver || c == ErrCategoryConfig
}
