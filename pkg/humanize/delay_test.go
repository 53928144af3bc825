package humanize

import (
	"context"
	"testing"
	"time"
)

func TestRange_Normalize(t *testing.T) {
	testCases := []struct {
		name string
		in   Range
		want Range
	}{
		{"valid", Range{MinMs: 100, MaxMs: 200}, Range{MinMs: 100, MaxMs: 200}},
		{"negative min", Range{MinMs: -50, MaxMs: 200}, Range{MinMs: 0, MaxMs: 200}},
		{"over cap", Range{MinMs: 100, MaxMs: 99999}, Range{MinMs: 100, MaxMs: MaxDelayMs}},
		{"inverted", Range{MinMs: 300, MaxMs: 100}, Range{MinMs: 100, MaxMs: 300}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Normalize(); got != tc.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestRange_Duration(t *testing.T) {
	rng := NewRand(1)
	r := Range{MinMs: 50, MaxMs: 150}
	for i := 0; i < 200; i++ {
		d := r.Duration(rng)
		if d < 50*time.Millisecond || d > 150*time.Millisecond {
			t.Fatalf("duration %v outside [50ms, 150ms]", d)
		}
	}
}

func TestRange_DurationDegenerate(t *testing.T) {
	rng := NewRand(1)
	r := Range{MinMs: 75, MaxMs: 75}
	if d := r.Duration(rng); d != 75*time.Millisecond {
		t.Errorf("expected exactly 75ms, got %v", d)
	}
}

func TestProfile_NormalizeFillsDefaults(t *testing.T) {
	p := Profile{Keystroke: Range{MinMs: 10, MaxMs: 20}}.Normalize()
	def := DefaultProfile()

	if p.PreAction != def.PreAction {
		t.Errorf("expected default preAction, got %+v", p.PreAction)
	}
	if p.PostAction != def.PostAction {
		t.Errorf("expected default postAction, got %+v", p.PostAction)
	}
	if p.Keystroke != (Range{MinMs: 10, MaxMs: 20}) {
		t.Errorf("expected keystroke range kept, got %+v", p.Keystroke)
	}
}

func TestTapOffset_Bounded(t *testing.T) {
	rng := NewRand(1)
	const width, height = 200, 80
	maxDX := int(float64(width) * TapJitterRatio)
	maxDY := int(float64(height) * TapJitterRatio)

	for i := 0; i < 500; i++ {
		dx, dy := TapOffset(rng, width, height)
		if dx < -maxDX || dx > maxDX {
			t.Fatalf("dx %d outside ±%d", dx, maxDX)
		}
		if dy < -maxDY || dy > maxDY {
			t.Fatalf("dy %d outside ±%d", dy, maxDY)
		}
	}
}

func TestTapOffset_ZeroSize(t *testing.T) {
	rng := NewRand(1)
	dx, dy := TapOffset(rng, 0, 0)
	if dx != 0 || dy != 0 {
		t.Errorf("expected no jitter for zero-size element, got (%d, %d)", dx, dy)
	}
}

func TestSleep_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := Sleep(ctx, time.Second)
	if err == nil {
		t.Fatal("expected context error")
	}
	if time.Since(start) > 100*time.Millisecond {
		t.Error("sleep did not return promptly after cancellation")
	}
}

func TestSleep_Completes(t *testing.T) {
	if err := Sleep(context.Background(), time.Millisecond); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
