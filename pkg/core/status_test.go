package core

import "testing"

func TestStepStatus_String(t *testing.T) {
	testCases := []struct {
		status StepStatus
		want   string
	}{
		{StatusSuccess, "success"},
		{StatusTimeout, "timeout"},
		{StatusError, "error"},
		{StepStatus(99), "unknown"},
	}

	for _, tc := range testCases {
		if got := tc.status.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestStepStatus_TextRoundtrip(t *testing.T) {
	for _, status := range []StepStatus{StatusSuccess, StatusTimeout, StatusError} {
		text, err := status.MarshalText()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var got StepStatus
		if err := got.UnmarshalText(text); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != status {
			t.Errorf("roundtrip %s became %s", status, got)
		}
	}

	var s StepStatus
	if err := s.UnmarshalText([]byte("bogus")); err == nil {
		t.Error("expected error for unknown status text")
	}
}

func TestRunStatus_String(t *testing.T) {
	testCases := []struct {
		status RunStatus
		want   string
	}{
		{RunSuccess, "success"},
		{RunPartial, "partial"},
		{RunFailure, "failure"},
		{RunStatus(99), "unknown"},
	}

	for _, tc := range testCases {
		if got := tc.status.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestErrorCategory_IsFatal(t *testing.T) {
	testCases := []struct {
		category ErrorCategory
		fatal    bool
	}{
		{ErrCategoryNone, false},
		{ErrCategoryNotFound, false},
		{ErrCategoryTimeout, false},
		{ErrCategoryDriver, true},
		{ErrCategoryConfig, true},
	}

	for _, tc := range testCases {
		if got := tc.category.IsFatal(); got != tc.fatal {
			t.Errorf("%s.IsFatal() = %v, want %v", tc.category, got, tc.fatal)
		}
	}
}
