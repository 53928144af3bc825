package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestExecutionError_Error(t *testing.T) {
	e := &ExecutionError{Category: ErrCategoryDriver, Code: "x", Message: "command failed"}
	if e.Error() != "command failed" {
		t.Errorf("unexpected message: %q", e.Error())
	}

	withCause := e.WithCause(errors.New("connection reset"))
	if withCause.Error() != "command failed: connection reset" {
		t.Errorf("unexpected message: %q", withCause.Error())
	}
}

func TestExecutionError_IsMatchesByCode(t *testing.T) {
	derived := ErrElementNotFound.WithMessage("no button matching \"Next\"")
	if !errors.Is(derived, ErrElementNotFound) {
		t.Error("derived error should match its sentinel")
	}
	if errors.Is(derived, ErrTimeout) {
		t.Error("errors with different codes must not match")
	}
}

func TestExecutionError_Unwrap(t *testing.T) {
	cause := errors.New("socket closed")
	wrapped := fmt.Errorf("request failed: %w", ErrSessionClosed.WithCause(cause))

	if !errors.Is(wrapped, ErrSessionClosed) {
		t.Error("expected sentinel to match through wrapping")
	}
	if !errors.Is(wrapped, cause) {
		t.Error("expected cause to be reachable through Unwrap")
	}
}

func TestCategoryOf(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"nil", nil, ErrCategoryNone},
		{"not found", ErrElementNotFound, ErrCategoryNotFound},
		{"timeout", ErrTimeout.WithMessage("gave up"), ErrCategoryTimeout},
		{"config", ErrMissingSelector, ErrCategoryConfig},
		{"wrapped driver", fmt.Errorf("send: %w", ErrServerUnreachable), ErrCategoryDriver},
		{"plain error", errors.New("boom"), ErrCategoryDriver},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CategoryOf(tc.err); got != tc.want {
				t.Errorf("CategoryOf() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestWithMessageKeepsCategory(t *testing.T) {
	e := ErrTimeout.WithMessage("element not found within 10s")
	if e.Category != ErrCategoryTimeout {
		t.Errorf("expected timeout category, got %v", e.Category)
	}
	if e.Code != ErrTimeout.Code {
		t.Errorf("expected code %q, got %q", ErrTimeout.Code, e.Code)
	}
	if ErrTimeout.Message == e.Message {
		t.Error("sentinel message must not be mutated")
	}
}
