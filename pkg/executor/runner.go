package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/devicelab-dev/humanflow/pkg/core"
	"github.com/devicelab-dev/humanflow/pkg/flow"
)

// RunState is the orchestrator lifecycle state.
type RunState int

const (
	// StateIdle means no run has started yet.
	StateIdle RunState = iota
	// StateConnecting means a driver session is being opened.
	StateConnecting
	// StateRunning means steps are executing.
	StateRunning
	// StateCompleted means the run finished all its steps.
	StateCompleted
	// StateAborted means the run stopped early.
	StateAborted
)

// String returns the string representation of RunState.
func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// RunnerConfig configures a flow run.
type RunnerConfig struct {
	// Live progress callback, invoked after every executed step.
	OnStepComplete func(outcome core.StepOutcome)
}

// Orchestrator drives one flow through a driver session: open session,
// execute steps in order, close session exactly once on every exit
// path. An Orchestrator handles a single run at a time.
type Orchestrator struct {
	exec   *ActionExecutor
	config RunnerConfig

	mu    sync.Mutex
	state RunState
}

// NewOrchestrator creates an orchestrator around an action executor.
func NewOrchestrator(exec *ActionExecutor, cfg RunnerConfig) *Orchestrator {
	return &Orchestrator{exec: exec, config: cfg}
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() RunState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s RunState) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// Run executes the flow against a fresh driver session from factory.
// Cancellation and the run-level deadline are checked between steps
// only; a step in flight always runs to its own completion. Run always
// returns a result, never an error: failures are carried in the
// result's status and error message.
func (o *Orchestrator) Run(ctx context.Context, factory core.DriverFactory, f *flow.Flow) *core.RunResult {
	result := &core.RunResult{
		RunID:     uuid.NewString(),
		FlowName:  f.Config.Name,
		StartTime: time.Now(),
	}

	o.setState(StateConnecting)
	drv, err := factory()
	if err != nil {
		o.setState(StateAborted)
		result.Duration = time.Since(result.StartTime)
		result.Status = core.RunFailure
		result.Error = fmt.Sprintf("failed to open driver session: %v", err)
		result.ComputeSummary()
		return result
	}
	// The deferred close is the only close: every path below funnels
	// through it, so the session is released exactly once.
	defer func() {
		if cerr := drv.CloseSession(); cerr != nil && result.Error == "" {
			result.Error = fmt.Sprintf("failed to close driver session: %v", cerr)
		}
	}()

	o.setState(StateRunning)

	var runDeadline time.Time
	if f.Config.TimeoutMs > 0 {
		runDeadline = result.StartTime.Add(time.Duration(f.Config.TimeoutMs) * time.Millisecond)
	}

	aborted := false
	for i, step := range f.Steps {
		if ctx.Err() != nil {
			aborted = true
			result.Error = "run cancelled"
			break
		}
		if !runDeadline.IsZero() && time.Now().After(runDeadline) {
			aborted = true
			result.Error = "run deadline exceeded"
			break
		}

		if step.Kind == flow.StepLaunchApp && step.AppID == "" {
			step.AppID = f.Config.AppID
		}

		// Steps run to their own completion; the run context is
		// only consulted between steps.
		outcome := o.exec.Perform(context.Background(), drv, step)
		outcome.Index = i
		result.Outcomes = append(result.Outcomes, outcome)

		if o.config.OnStepComplete != nil {
			o.config.OnStepComplete(outcome)
		}

		if !outcome.Succeeded() && !outcome.Optional {
			aborted = true
			result.Error = fmt.Sprintf("step %d (%s): %s", i+1, outcome.Name, outcome.Message)
			break
		}
	}

	result.Duration = time.Since(result.StartTime)
	result.Status = result.AggregateStatus(aborted)
	result.ComputeSummary()

	if aborted {
		o.setState(StateAborted)
	} else {
		o.setState(StateCompleted)
	}
	return result
}
