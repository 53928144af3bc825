// Package report persists run results as JSON for tooling to consume.
//
// Layout:
//   - report.json: the run report, rewritten atomically after the run
//   - steps: the per-step outcome log, embedded in the report
package report

import (
	"time"

	"github.com/devicelab-dev/humanflow/pkg/core"
)

// Version is the report schema version.
const Version = "1.0.0"

// Report is the persisted form of one flow run.
type Report struct {
	Version   string     `json:"version"`
	RunID     string     `json:"runId"`
	FlowName  string     `json:"flowName,omitempty"`
	Status    string     `json:"status"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Duration  int64      `json:"durationMs"`
	Error     string     `json:"error,omitempty"`

	Device Device     `json:"device"`
	App    App        `json:"app"`
	Runner RunnerInfo `json:"runner"`

	Summary Summary            `json:"summary"`
	Steps   []core.StepOutcome `json:"steps"`
}

// Device contains device information.
type Device struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Platform  string `json:"platform,omitempty"` // ios, android, mock
	OSVersion string `json:"osVersion,omitempty"`
}

// App contains application information.
type App struct {
	ID   string `json:"id"` // Bundle ID or package name
	Name string `json:"name,omitempty"`
}

// RunnerInfo identifies the runner build and driver backend.
type RunnerInfo struct {
	Version string `json:"version,omitempty"`
	Driver  string `json:"driver,omitempty"` // appium, mock
}

// Summary contains aggregate step counts.
type Summary struct {
	Total    int `json:"total"`
	Passed   int `json:"passed"`
	TimedOut int `json:"timedOut"`
	Errored  int `json:"errored"`
}

// FromResult builds a report from a finished run.
func FromResult(result *core.RunResult, device Device, app App, runner RunnerInfo) *Report {
	end := result.StartTime.Add(result.Duration)
	return &Report{
		Version:   Version,
		RunID:     result.RunID,
		FlowName:  result.FlowName,
		Status:    result.Status.String(),
		StartTime: result.StartTime,
		EndTime:   &end,
		Duration:  result.Duration.Milliseconds(),
		Error:     result.Error,
		Device:    device,
		App:       app,
		Runner:    runner,
		Summary: Summary{
			Total:    result.TotalSteps,
			Passed:   result.PassedSteps,
			TimedOut: result.TimedOut,
			Errored:  result.ErroredSteps,
		},
		Steps: result.Outcomes,
	}
}
