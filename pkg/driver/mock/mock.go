// Package mock provides a scripted driver for testing without a real
// device. Element appearance is programmable per selector so wait and
// retry behavior can be exercised deterministically.
package mock

import (
	"sync"

	"github.com/devicelab-dev/humanflow/pkg/core"
	"github.com/devicelab-dev/humanflow/pkg/flow"
)

// Config configures mock driver behavior.
type Config struct {
	// Elements maps a selector description (text, or "#id") to the
	// number of lookups that must happen before the element appears.
	// 0 means it exists from the first lookup. Selectors missing from
	// the map never match.
	Elements map[string]int

	// Bounds reported for every served element.
	Bounds core.Bounds

	// Error injection per primitive. Nil means the call succeeds.
	FailSession error // returned by Factory when opening the session
	FailFind    error
	FailTap     error
	FailType    error
	FailOpenApp error
	FailClose   error
}

// Driver is a mock implementation of core.Driver.
type Driver struct {
	Config Config

	mu        sync.Mutex
	lookups   map[string]int
	findCalls int
	tapCalls  int
	typeCalls int
	openCalls int
	closes    int
	typed     []string
	offsets   []core.Offset
}

// New creates a mock driver. Zero bounds get a sane default so tap
// jitter has something to work with.
func New(cfg Config) *Driver {
	if cfg.Bounds == (core.Bounds{}) {
		cfg.Bounds = core.Bounds{X: 100, Y: 200, Width: 200, Height: 50}
	}
	return &Driver{Config: cfg, lookups: make(map[string]int)}
}

// Factory returns a session factory serving this driver instance, so
// tests can inspect call counts after the run.
func (d *Driver) Factory() core.DriverFactory {
	return func() (core.Driver, error) {
		if d.Config.FailSession != nil {
			return nil, d.Config.FailSession
		}
		return d, nil
	}
}

// FindElement serves a scripted element, or absence.
func (d *Driver) FindElement(sel flow.Selector) (*core.Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.findCalls++
	if d.Config.FailFind != nil {
		return nil, d.Config.FailFind
	}

	key := sel.Describe()
	appearAfter, known := d.Config.Elements[key]
	if !known {
		return nil, core.ErrElementNotFound
	}

	d.lookups[key]++
	if d.lookups[key] <= appearAfter {
		return nil, core.ErrElementNotFound
	}

	return &core.Element{ID: "mock-" + key, Text: sel.Text, Bounds: d.Config.Bounds}, nil
}

// Tap records a tap.
func (d *Driver) Tap(el *core.Element, offset core.Offset) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tapCalls++
	if d.Config.FailTap != nil {
		return d.Config.FailTap
	}
	d.offsets = append(d.offsets, offset)
	return nil
}

// TypeText records typed text.
func (d *Driver) TypeText(el *core.Element, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.typeCalls++
	if d.Config.FailType != nil {
		return d.Config.FailType
	}
	d.typed = append(d.typed, text)
	return nil
}

// OpenApp records an app launch.
func (d *Driver) OpenApp(appID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.openCalls++
	return d.Config.FailOpenApp
}

// CloseSession records a session close.
func (d *Driver) CloseSession() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closes++
	return d.Config.FailClose
}

// FindCalls returns the number of FindElement calls.
func (d *Driver) FindCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.findCalls
}

// TapCalls returns the number of Tap calls.
func (d *Driver) TapCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tapCalls
}

// TypeCalls returns the number of TypeText calls.
func (d *Driver) TypeCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.typeCalls
}

// OpenAppCalls returns the number of OpenApp calls.
func (d *Driver) OpenAppCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.openCalls
}

// CloseCalls returns the number of CloseSession calls.
func (d *Driver) CloseCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closes
}

// TapOffsets returns the offsets of recorded taps, in order.
func (d *Driver) TapOffsets() []core.Offset {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]core.Offset, len(d.offsets))
	copy(out, d.offsets)
	return out
}

// Typed returns everything sent through TypeText, in order.
func (d *Driver) Typed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.typed))
	copy(out, d.typed)
	return out
}
