package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/devicelab-dev/humanflow/pkg/core"
)

func sampleResult() *core.RunResult {
	result := &core.RunResult{
		RunID:     "run-123",
		FlowName:  "gmail login",
		Status:    core.RunPartial,
		StartTime: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Duration:  42 * time.Second,
		Outcomes: []core.StepOutcome{
			{Name: "launchApp", Kind: "launchApp", Index: 0, Status: core.StatusSuccess, ElapsedMs: 1200},
			{Name: "wait blocked", Kind: "wait", Index: 1, Status: core.StatusTimeout, Optional: true, ElapsedMs: 10000},
		},
	}
	result.ComputeSummary()
	return result
}

func TestFromResult(t *testing.T) {
	r := FromResult(sampleResult(), Device{Platform: "android"}, App{ID: "com.google.android.gm"}, RunnerInfo{Driver: "mock"})

	if r.Version != Version {
		t.Errorf("expected version %s, got %s", Version, r.Version)
	}
	if r.RunID != "run-123" {
		t.Errorf("expected run id carried over, got %s", r.RunID)
	}
	if r.Status != "partial" {
		t.Errorf("expected partial status, got %s", r.Status)
	}
	if r.Duration != 42000 {
		t.Errorf("expected 42000ms, got %d", r.Duration)
	}
	if r.Summary.Total != 2 || r.Summary.Passed != 1 || r.Summary.TimedOut != 1 {
		t.Errorf("unexpected summary: %+v", r.Summary)
	}
	if r.EndTime == nil || !r.EndTime.Equal(r.StartTime.Add(42*time.Second)) {
		t.Errorf("unexpected end time: %v", r.EndTime)
	}
}

func TestWriteAndRead(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	r := FromResult(sampleResult(), Device{}, App{ID: "com.example.app"}, RunnerInfo{})

	path, err := Write(dir, r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(path) != Filename {
		t.Errorf("expected %s, got %s", Filename, path)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.RunID != r.RunID || got.Status != r.Status {
		t.Errorf("roundtrip mismatch: got %s/%s", got.RunID, got.Status)
	}
	if len(got.Steps) != 2 {
		t.Errorf("expected 2 steps, got %d", len(got.Steps))
	}
}

func TestWrite_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	if _, err := Write(dir, FromResult(sampleResult(), Device{}, App{}, RunnerInfo{})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}
