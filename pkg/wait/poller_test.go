package wait

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/devicelab-dev/humanflow/pkg/core"
	"github.com/devicelab-dev/humanflow/pkg/flow"
)

// fakeDriver serves an element after a fixed number of lookups.
type fakeDriver struct {
	appearAfter int // lookups before the element exists; -1 means never
	findErr     error
	lookups     int
}

func (d *fakeDriver) FindElement(sel flow.Selector) (*core.Element, error) {
	d.lookups++
	if d.findErr != nil {
		return nil, d.findErr
	}
	if d.appearAfter >= 0 && d.lookups > d.appearAfter {
		return &core.Element{ID: "el-1", Text: sel.Text}, nil
	}
	return nil, core.ErrElementNotFound
}

func (d *fakeDriver) Tap(el *core.Element, offset core.Offset) error { return nil }
func (d *fakeDriver) TypeText(el *core.Element, text string) error   { return nil }
func (d *fakeDriver) OpenApp(appID string) error                     { return nil }
func (d *fakeDriver) CloseSession() error                            { return nil }

func fastPoller() *Poller {
	return &Poller{Interval: time.Millisecond, MaxInterval: 5 * time.Millisecond}
}

func TestAwait_ImmediateHit(t *testing.T) {
	drv := &fakeDriver{appearAfter: 0}
	el, err := fastPoller().Await(context.Background(), drv, flow.Selector{Text: "Inbox"}, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if el == nil || el.ID != "el-1" {
		t.Fatalf("expected element, got %+v", el)
	}
	if drv.lookups != 1 {
		t.Errorf("expected 1 lookup, got %d", drv.lookups)
	}
}

func TestAwait_AppearsLate(t *testing.T) {
	drv := &fakeDriver{appearAfter: 3}
	el, err := fastPoller().Await(context.Background(), drv, flow.Selector{Text: "Inbox"}, 500*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if el == nil {
		t.Fatal("expected element after retries")
	}
	if drv.lookups != 4 {
		t.Errorf("expected 4 lookups, got %d", drv.lookups)
	}
}

func TestAwait_Timeout(t *testing.T) {
	drv := &fakeDriver{appearAfter: -1}
	_, err := fastPoller().Await(context.Background(), drv, flow.Selector{Text: "Never"}, 30*time.Millisecond)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if core.CategoryOf(err) != core.ErrCategoryTimeout {
		t.Errorf("expected timeout category, got %v", core.CategoryOf(err))
	}
	if drv.lookups < 2 {
		t.Errorf("expected multiple lookups before timeout, got %d", drv.lookups)
	}
}

func TestAwait_ZeroTimeoutStillLooksOnce(t *testing.T) {
	drv := &fakeDriver{appearAfter: 0}
	el, err := fastPoller().Await(context.Background(), drv, flow.Selector{Text: "Inbox"}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if el == nil {
		t.Fatal("expected element from the single allowed lookup")
	}
	if drv.lookups != 1 {
		t.Errorf("expected exactly 1 lookup, got %d", drv.lookups)
	}
}

func TestAwait_DriverErrorAbortsImmediately(t *testing.T) {
	drv := &fakeDriver{findErr: core.ErrSessionClosed}
	_, err := fastPoller().Await(context.Background(), drv, flow.Selector{Text: "Inbox"}, 200*time.Millisecond)
	if !errors.Is(err, core.ErrSessionClosed) {
		t.Fatalf("expected session error, got %v", err)
	}
	if drv.lookups != 1 {
		t.Errorf("driver errors must not be retried, got %d lookups", drv.lookups)
	}
}

func TestAwait_EmptySelector(t *testing.T) {
	drv := &fakeDriver{appearAfter: 0}
	_, err := fastPoller().Await(context.Background(), drv, flow.Selector{}, 100*time.Millisecond)
	if err == nil {
		t.Fatal("expected configuration error")
	}
	if core.CategoryOf(err) != core.ErrCategoryConfig {
		t.Errorf("expected config category, got %v", core.CategoryOf(err))
	}
	if drv.lookups != 0 {
		t.Errorf("expected no lookups, got %d", drv.lookups)
	}
}

func TestAwait_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	drv := &fakeDriver{appearAfter: -1}

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := fastPoller().Await(ctx, drv, flow.Selector{Text: "Never"}, 5*time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
