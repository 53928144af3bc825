package core

import "time"

// StepOutcome captures the outcome of one executed step. It is created
// once when the step finishes and never mutated afterwards.
type StepOutcome struct {
	// Identity
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Index int    `json:"index"` // 0-based position in the flow

	// Status
	Status   StepStatus    `json:"status"`
	Category ErrorCategory `json:"-"`

	// Timing
	ElapsedMs int64 `json:"elapsedMs"`

	// Output
	Message  string   `json:"message,omitempty"`
	Element  *Element `json:"element,omitempty"` // Element interacted with, if any
	Optional bool     `json:"optional,omitempty"`
}

// Succeeded returns true if the step finished with StatusSuccess.
func (o StepOutcome) Succeeded() bool {
	return o.Status == StatusSuccess
}

// RunResult captures the complete outcome of one flow run. Outcomes are
// appended in execution order; on short-circuit len(Outcomes) is strictly
// less than the number of defined steps and Status is RunFailure.
type RunResult struct {
	RunID     string        `json:"runId"`
	FlowName  string        `json:"flowName,omitempty"`
	Status    RunStatus     `json:"status"`
	StartTime time.Time     `json:"startTime"`
	Duration  time.Duration `json:"duration"`
	Outcomes  []StepOutcome `json:"outcomes"`

	// Error holds the abort reason when Status is RunFailure.
	Error string `json:"error,omitempty"`

	// Summary (computed)
	TotalSteps   int `json:"totalSteps"`
	PassedSteps  int `json:"passedSteps"`
	TimedOut     int `json:"timedOutSteps"`
	ErroredSteps int `json:"erroredSteps"`
}

// ComputeSummary recalculates step counts from the outcome log.
func (r *RunResult) ComputeSummary() {
	r.TotalSteps = len(r.Outcomes)
	r.PassedSteps = 0
	r.TimedOut = 0
	r.ErroredSteps = 0

	for _, o := range r.Outcomes {
		switch o.Status {
		case StatusSuccess:
			r.PassedSteps++
		case StatusTimeout:
			r.TimedOut++
		case StatusError:
			r.ErroredSteps++
		}
	}
}

// AggregateStatus derives the run status from the outcome log.
// Rules:
//   - aborted (short-circuit or connection failure) → RunFailure
//   - every outcome success → RunSuccess
//   - completed, but an optional step timed out or errored → RunPartial
func (r *RunResult) AggregateStatus(aborted bool) RunStatus {
	if aborted {
		return RunFailure
	}
	for _, o := range r.Outcomes {
		if !o.Succeeded() {
			return RunPartial
		}
	}
	return RunSuccess
}

// Success returns true if the run finished without failure.
func (r *RunResult) Success() bool {
	return r.Status == RunSuccess || r.Status == RunPartial
}
