// Package wait polls a driver until an element matching a selector
// exists or a deadline passes.
package wait

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"

	"github.com/devicelab-dev/humanflow/pkg/core"
	"github.com/devicelab-dev/humanflow/pkg/flow"
)

// Default poll pacing.
const (
	DefaultInterval    = 200 * time.Millisecond
	DefaultMaxInterval = time.Second
)

// Poller repeatedly asks a driver for an element until it appears.
// Poll intervals grow exponentially with jitter up to MaxInterval so
// a busy backend is not hammered at a fixed rate.
type Poller struct {
	Interval    time.Duration
	MaxInterval time.Duration
}

// New returns a poller with default pacing.
func New() *Poller {
	return &Poller{Interval: DefaultInterval, MaxInterval: DefaultMaxInterval}
}

func (p *Poller) interval() time.Duration {
	if p.Interval > 0 {
		return p.Interval
	}
	return DefaultInterval
}

func (p *Poller) maxInterval() time.Duration {
	if p.MaxInterval > 0 {
		return p.MaxInterval
	}
	return DefaultMaxInterval
}

// Await polls drv for an element matching sel until it is found, the
// timeout passes, or ctx is cancelled. The deadline is inclusive: a
// lookup that lands exactly on it still counts, and at least one
// lookup always happens even with a zero timeout.
//
// Absence is retried; any other driver failure aborts immediately.
// On timeout the returned error carries core.ErrCategoryTimeout.
func (p *Poller) Await(ctx context.Context, drv core.Driver, sel flow.Selector, timeout time.Duration) (*core.Element, error) {
	if sel.IsEmpty() {
		return nil, core.ErrMissingSelector.WithMessage("cannot wait for an empty selector")
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.interval()
	b.MaxInterval = p.maxInterval()
	b.MaxElapsedTime = 0 // deadline is tracked against the step timeout below
	b.Reset()

	deadline := time.Now().Add(timeout)
	attempts := 0

	for {
		attempts++
		el, err := drv.FindElement(sel)
		if err == nil {
			return el, nil
		}
		if !errors.Is(err, core.ErrElementNotFound) {
			return nil, err
		}

		if !time.Now().Before(deadline) {
			return nil, core.ErrTimeout.WithMessage(fmt.Sprintf(
				"element %s not found within %s (%d attempts)", sel.DescribeQuoted(), timeout, attempts))
		}

		interval := b.NextBackOff()
		if interval == backoff.Stop {
			interval = p.maxInterval()
		}
		// Shrink the last sleep so the final lookup lands on the
		// deadline instead of past it.
		if remaining := time.Until(deadline); interval > remaining {
			interval = remaining
		}

		t := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}
