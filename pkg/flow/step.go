package flow

import "fmt"

// StepKind represents the kind of step.
type StepKind string

// Step kind constants.
const (
	StepLaunchApp StepKind = "launchApp" // Bring the app to the foreground
	StepLocate    StepKind = "locate"    // Wait until an element matching the selector exists
	StepTap       StepKind = "tap"       // Resolve an element, then tap it with coordinate jitter
	StepType      StepKind = "type"      // Resolve an element, then type text character by character
	StepWait      StepKind = "wait"      // Wait until an element/text is visible
)

// Default per-step wait deadline when a step does not set one.
const DefaultTimeoutMs = 10000

// Step is one unit of an automation flow. Steps are immutable once a run
// starts; the executor never writes back into them.
type Step struct {
	Name      string
	Kind      StepKind
	Selector  Selector
	TimeoutMs int
	Text      string
	AppID     string
	Optional  bool
	Label     string
}

// NeedsSelector returns true for kinds that resolve a UI element.
func (k StepKind) NeedsSelector() bool {
	switch k {
	case StepLocate, StepTap, StepType, StepWait:
		return true
	}
	return false
}

// Timeout returns the step deadline in ms, falling back to the default.
func (s Step) Timeout() int {
	if s.TimeoutMs > 0 {
		return s.TimeoutMs
	}
	return DefaultTimeoutMs
}

// DisplayName returns the step name, falling back to label or a
// kind-based description.
func (s Step) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	if s.Label != "" {
		return s.Label
	}
	return s.Describe()
}

// Describe returns a human-readable description of the step.
func (s Step) Describe() string {
	switch s.Kind {
	case StepLaunchApp:
		if s.AppID != "" {
			return "launchApp: " + s.AppID
		}
		return "launchApp"
	case StepType:
		return fmt.Sprintf("type %q into %s", s.Text, s.Selector.DescribeQuoted())
	case StepLocate, StepTap, StepWait:
		return string(s.Kind) + ": " + s.Selector.DescribeQuoted()
	default:
		return string(s.Kind)
	}
}
