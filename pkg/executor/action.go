// Package executor orchestrates flow execution: it resolves elements
// through the wait poller, performs driver actions with humanized
// pacing, and aggregates step outcomes into a run result.
package executor

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/devicelab-dev/humanflow/pkg/core"
	"github.com/devicelab-dev/humanflow/pkg/flow"
	"github.com/devicelab-dev/humanflow/pkg/humanize"
	"github.com/devicelab-dev/humanflow/pkg/wait"
)

// ActionExecutor performs a single step against a driver. It owns the
// pacing profile and the jitter source; the driver only sees concrete
// primitives.
type ActionExecutor struct {
	poller  *wait.Poller
	profile humanize.Profile
	rng     *rand.Rand
}

// NewActionExecutor creates an executor with the given poller and
// pacing profile. A nil poller gets default pacing; seed selects the
// jitter stream (0 = time-based).
func NewActionExecutor(poller *wait.Poller, profile humanize.Profile, seed int64) *ActionExecutor {
	if poller == nil {
		poller = wait.New()
	}
	return &ActionExecutor{
		poller:  poller,
		profile: profile.Normalize(),
		rng:     humanize.NewRand(seed),
	}
}

// Perform executes one step to completion and returns its outcome.
// Perform never panics on malformed steps; it reports them as config
// errors in the outcome.
func (e *ActionExecutor) Perform(ctx context.Context, drv core.Driver, step flow.Step) core.StepOutcome {
	start := time.Now()
	outcome := core.StepOutcome{
		Name:     step.DisplayName(),
		Kind:     string(step.Kind),
		Optional: step.Optional,
	}

	if err := humanize.Sleep(ctx, e.profile.PreAction.Duration(e.rng)); err != nil {
		return e.finish(outcome, nil, err, start)
	}

	el, err := e.perform(ctx, drv, step)
	if err == nil {
		if serr := humanize.Sleep(ctx, e.profile.PostAction.Duration(e.rng)); serr != nil {
			return e.finish(outcome, el, serr, start)
		}
	}

	return e.finish(outcome, el, err, start)
}

func (e *ActionExecutor) perform(ctx context.Context, drv core.Driver, step flow.Step) (*core.Element, error) {
	timeout := time.Duration(step.Timeout()) * time.Millisecond

	switch step.Kind {
	case flow.StepLaunchApp:
		if step.AppID == "" {
			return nil, core.ErrInvalidStep.WithMessage("launchApp step has no appId")
		}
		return nil, drv.OpenApp(step.AppID)

	case flow.StepLocate, flow.StepWait:
		return e.poller.Await(ctx, drv, step.Selector, timeout)

	case flow.StepTap:
		el, err := e.poller.Await(ctx, drv, step.Selector, timeout)
		if err != nil {
			return nil, err
		}
		dx, dy := humanize.TapOffset(e.rng, el.Bounds.Width, el.Bounds.Height)
		return el, drv.Tap(el, core.Offset{DX: dx, DY: dy})

	case flow.StepType:
		// Typing nothing is a no-op, not an error: flows template
		// text from env and an unset variable should not abort.
		if step.Text == "" {
			return nil, nil
		}
		el, err := e.poller.Await(ctx, drv, step.Selector, timeout)
		if err != nil {
			return nil, err
		}
		return el, e.typeText(ctx, drv, el, step.Text)

	default:
		return nil, core.ErrInvalidStep.WithMessage(fmt.Sprintf("unknown step kind: %s", step.Kind))
	}
}

// typeText sends text one character at a time with a randomized pause
// between keystrokes, the way a person types.
func (e *ActionExecutor) typeText(ctx context.Context, drv core.Driver, el *core.Element, text string) error {
	runes := []rune(text)
	for i, r := range runes {
		if err := drv.TypeText(el, string(r)); err != nil {
			return err
		}
		if i < len(runes)-1 {
			if err := humanize.Sleep(ctx, e.profile.Keystroke.Duration(e.rng)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *ActionExecutor) finish(outcome core.StepOutcome, el *core.Element, err error, start time.Time) core.StepOutcome {
	outcome.ElapsedMs = time.Since(start).Milliseconds()
	outcome.Element = el

	if err == nil {
		outcome.Status = core.StatusSuccess
		return outcome
	}

	outcome.Category = core.CategoryOf(err)
	outcome.Message = err.Error()
	if outcome.Category == core.ErrCategoryTimeout {
		outcome.Status = core.StatusTimeout
	} else {
		outcome.Status = core.StatusError
	}
	return outcome
}
