package flow

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestSelector_UnmarshalScalar(t *testing.T) {
	var sel Selector
	if err := yaml.Unmarshal([]byte(`"Sign in"`), &sel); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Text != "Sign in" {
		t.Errorf("expected text=Sign in, got %q", sel.Text)
	}
}

func TestSelector_UnmarshalMapping(t *testing.T) {
	var sel Selector
	if err := yaml.Unmarshal([]byte(`{id: submit, text: Submit}`), &sel); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.ID != "submit" {
		t.Errorf("expected id=submit, got %q", sel.ID)
	}
	if sel.Text != "Submit" {
		t.Errorf("expected text=Submit, got %q", sel.Text)
	}
}

func TestSelector_ElementShorthand(t *testing.T) {
	var sel Selector
	if err := yaml.Unmarshal([]byte(`{element: "Next"}`), &sel); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Text != "Next" {
		t.Errorf("expected element to fill text, got %q", sel.Text)
	}
}

func TestSelector_IsEmpty(t *testing.T) {
	if !(Selector{}).IsEmpty() {
		t.Error("zero selector should be empty")
	}
	if (Selector{Text: "x"}).IsEmpty() {
		t.Error("selector with text should not be empty")
	}
	if (Selector{ID: "x"}).IsEmpty() {
		t.Error("selector with id should not be empty")
	}
}

func TestSelector_Describe(t *testing.T) {
	testCases := []struct {
		sel    Selector
		plain  string
		quoted string
	}{
		{Selector{Text: "Next"}, "Next", `text="Next"`},
		{Selector{ID: "submit"}, "#submit", `id="submit"`},
		{Selector{Text: "Next", ID: "submit"}, "Next", `text="Next"`},
		{Selector{}, "", ""},
	}

	for _, tc := range testCases {
		if got := tc.sel.Describe(); got != tc.plain {
			t.Errorf("Describe() = %q, want %q", got, tc.plain)
		}
		if got := tc.sel.DescribeQuoted(); got != tc.quoted {
			t.Errorf("DescribeQuoted() = %q, want %q", got, tc.quoted)
		}
	}
}
