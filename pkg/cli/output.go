package cli

import (
	"fmt"
	"time"

	"github.com/devicelab-dev/humanflow/pkg/core"
)

// printStepOutcome prints a one-line progress entry as each step
// finishes.
func printStepOutcome(outcome core.StepOutcome) {
	switch outcome.Status {
	case core.StatusSuccess:
		fmt.Printf("  ✓ %s (%s)\n", outcome.Name, formatDuration(outcome.ElapsedMs))
	case core.StatusTimeout:
		symbol := "✗"
		if outcome.Optional {
			symbol = "⚠"
		}
		fmt.Printf("  %s %s (%s)\n", symbol, outcome.Name, formatDuration(outcome.ElapsedMs))
		if outcome.Message != "" {
			fmt.Printf("    ╰─ %s\n", outcome.Message)
		}
	default:
		fmt.Printf("  ✗ %s (%s)\n", outcome.Name, formatDuration(outcome.ElapsedMs))
		if outcome.Message != "" {
			fmt.Printf("    ╰─ %s\n", outcome.Message)
		}
	}
}

// printRunSummary prints the final counts and report location.
func printRunSummary(result *core.RunResult, reportPath string) {
	fmt.Println()
	fmt.Printf("  %d/%d steps passing", result.PassedSteps, result.TotalSteps)
	if result.TimedOut > 0 {
		fmt.Printf(", %d timed out", result.TimedOut)
	}
	if result.ErroredSteps > 0 {
		fmt.Printf(", %d errored", result.ErroredSteps)
	}
	fmt.Printf(" (%s)\n", formatDuration(result.Duration.Milliseconds()))

	switch result.Status {
	case core.RunSuccess:
		fmt.Println("  ✓ PASS")
	case core.RunPartial:
		fmt.Println("  ⚠ PARTIAL (optional steps did not complete)")
	case core.RunFailure:
		fmt.Println("  ✗ FAIL")
		if result.Error != "" {
			fmt.Printf("    ╰─ %s\n", result.Error)
		}
	}

	if reportPath != "" {
		fmt.Printf("\n  Report: %s\n", reportPath)
	}
}

// formatDuration renders a millisecond count the way humans read it.
func formatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	if d < time.Second {
		return fmt.Sprintf("%dms", ms)
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}
