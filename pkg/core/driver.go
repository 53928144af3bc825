// Package core defines the driver capability, step outcome model, and
// error taxonomy shared by the poller, executor, and drivers.
package core

import "github.com/devicelab-dev/humanflow/pkg/flow"

// Driver is the narrow capability set the executor depends on.
// Implementations: Appium, mock. The executor owns flow logic and timing;
// a Driver only performs individual primitives against one session.
type Driver interface {
	// FindElement returns the element currently matching the selector.
	// Returns an error matching ErrElementNotFound when no element matches
	// yet; any other error is a session/transport failure.
	FindElement(sel flow.Selector) (*Element, error)

	// Tap taps the element at its center shifted by offset.
	Tap(el *Element, offset Offset) error

	// TypeText types text into the element.
	TypeText(el *Element, text string) error

	// OpenApp brings the app with the given package/bundle ID to the foreground.
	OpenApp(appID string) error

	// CloseSession releases the automation session.
	CloseSession() error
}

// DriverFactory opens a new automation session. The orchestrator owns the
// returned Driver for exactly one run and releases it at run end.
type DriverFactory func() (Driver, error)

// Element is an opaque handle to a located UI element, valid only within
// the session that produced it.
type Element struct {
	ID     string `json:"id,omitempty"`
	Text   string `json:"text,omitempty"`
	Bounds Bounds `json:"bounds"`
}

// Bounds represents element position and size.
type Bounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Center returns the center point of the bounds.
func (b Bounds) Center() (int, int) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Contains checks if a point is within the bounds.
func (b Bounds) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height
}

// Offset is a tap displacement relative to the element center.
type Offset struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}
