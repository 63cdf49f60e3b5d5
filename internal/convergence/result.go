package convergence

import (
	"fmt"
	"strings"
)

// ActionFailure pairs a failed action with its error.
type ActionFailure struct {
	Action Action
	Err    error
}

// Result is the full accounting of one apply session.
type Result struct {
	// Applied lists actions that completed successfully, in completion order.
	Applied []Action

	// Failed lists actions that errored fatally or exhausted retries.
	Failed []ActionFailure

	// Skipped lists actions never attempted because a dependency failed or
	// the apply was cancelled.
	Skipped []Action
}

// Ok reports whether every planned action was applied.
func (r *Result) Ok() bool {
	return len(r.Failed) == 0 && len(r.Skipped) == 0
}

// Err returns nil for a clean apply, or a *PartialApplyError enumerating the
// failed and skipped actions.
func (r *Result) Err() error {
	if r.Ok() {
		return nil
	}
	return &PartialApplyError{Result: r}
}

// PartialApplyError reports an apply that completed some actions but not all.
// It is never silent about what was left behind.
type PartialApplyError struct {
	Result *Result
}

// Error implements the error interface.
func (e *PartialApplyError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "partial apply: %d applied, %d failed, %d skipped",
		len(e.Result.Applied), len(e.Result.Failed), len(e.Result.Skipped))
	for _, f := range e.Result.Failed {
		fmt.Fprintf(&sb, "\n  failed: %s: %v", f.Action, f.Err)
	}
	for _, s := range e.Result.Skipped {
		fmt.Fprintf(&sb, "\n  skipped: %s", s)
	}
	return sb.String()
}
