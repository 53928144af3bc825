// Package humanize produces the randomized timing and coordinate jitter
// that makes automated interaction pace itself like a person instead of
// firing actions back to back.
package humanize

import (
	"context"
	"math/rand"
	"time"
)

// MaxDelayMs caps any single configured delay bound.
const MaxDelayMs = 30000

// Default delay bounds, in milliseconds.
const (
	DefaultPreActionMinMs  = 1000
	DefaultPreActionMaxMs  = 3000
	DefaultPostActionMinMs = 1000
	DefaultPostActionMaxMs = 3000
	DefaultKeystrokeMinMs  = 50
	DefaultKeystrokeMaxMs  = 150
)

// TapJitterRatio bounds tap offset to a fraction of the element size.
const TapJitterRatio = 0.15

// Range is an inclusive delay interval in milliseconds.
type Range struct {
	MinMs int `yaml:"min"`
	MaxMs int `yaml:"max"`
}

// Normalize clamps the range into [0, MaxDelayMs] and swaps inverted
// bounds so Duration always has a valid interval to draw from.
func (r Range) Normalize() Range {
	clamp := func(v int) int {
		if v < 0 {
			return 0
		}
		if v > MaxDelayMs {
			return MaxDelayMs
		}
		return v
	}
	out := Range{MinMs: clamp(r.MinMs), MaxMs: clamp(r.MaxMs)}
	if out.MaxMs < out.MinMs {
		out.MinMs, out.MaxMs = out.MaxMs, out.MinMs
	}
	return out
}

// Duration draws a uniform duration from the range.
func (r Range) Duration(rng *rand.Rand) time.Duration {
	n := r.Normalize()
	span := n.MaxMs - n.MinMs
	ms := n.MinMs
	if span > 0 {
		ms += rng.Intn(span + 1)
	}
	return time.Duration(ms) * time.Millisecond
}

// IsZero reports whether both bounds are unset.
func (r Range) IsZero() bool {
	return r.MinMs == 0 && r.MaxMs == 0
}

// Profile groups the delay ranges applied around driver actions.
type Profile struct {
	PreAction  Range `yaml:"preAction"`
	PostAction Range `yaml:"postAction"`
	Keystroke  Range `yaml:"keystroke"`
}

// DefaultProfile returns the stock pacing profile.
func DefaultProfile() Profile {
	return Profile{
		PreAction:  Range{MinMs: DefaultPreActionMinMs, MaxMs: DefaultPreActionMaxMs},
		PostAction: Range{MinMs: DefaultPostActionMinMs, MaxMs: DefaultPostActionMaxMs},
		Keystroke:  Range{MinMs: DefaultKeystrokeMinMs, MaxMs: DefaultKeystrokeMaxMs},
	}
}

// Normalize applies Range.Normalize to every range, filling unset ones
// from the defaults.
func (p Profile) Normalize() Profile {
	def := DefaultProfile()
	if p.PreAction.IsZero() {
		p.PreAction = def.PreAction
	}
	if p.PostAction.IsZero() {
		p.PostAction = def.PostAction
	}
	if p.Keystroke.IsZero() {
		p.Keystroke = def.Keystroke
	}
	return Profile{
		PreAction:  p.PreAction.Normalize(),
		PostAction: p.PostAction.Normalize(),
		Keystroke:  p.Keystroke.Normalize(),
	}
}

// TapOffset returns a random offset from an element's center, bounded
// to TapJitterRatio of the element's width and height. Elements with
// unknown bounds get no jitter.
func TapOffset(rng *rand.Rand, width, height int) (dx, dy int) {
	jitter := func(size int) int {
		max := int(float64(size) * TapJitterRatio)
		if max <= 0 {
			return 0
		}
		return rng.Intn(2*max+1) - max
	}
	return jitter(width), jitter(height)
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NewRand returns a rand source for jitter. A zero seed picks a
// time-based one so concurrent runs do not share a pattern.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)) //#nosec G404 -- jitter, not crypto
}
