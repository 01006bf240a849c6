// Package status publishes run outcomes as commit statuses on the hosting
// platform.
package status

import (
	"context"

	"github.com/fmtbot/fmtbot/internal/event"
	"github.com/fmtbot/fmtbot/internal/pipeline"
)

// Commit status states understood by the platform.
const (
	StatePending = "pending"
	StateSuccess = "success"
	StateFailure = "failure"
)

// Reporter publishes the state of a run against its head commit. Reporting
// is best-effort: a status that cannot be delivered never fails the run.
type Reporter interface {
	// Report sets the given status state on the run's head commit.
	Report(ctx context.Context, rc *event.RunContext, state, description string) error
}

// NopReporter discards all statuses. Used when reporting is disabled or no
// token is available.
type NopReporter struct{}

// Report does nothing.
func (NopReporter) Report(_ context.Context, _ *event.RunContext, _, _ string) error {
	return nil
}

// ForResult maps a terminal run result to a status state and description.
// Both Committed and Skipped are successes: either the tree was brought into
// shape or it already was.
func ForResult(res *pipeline.Result) (state, description string) {
	switch res.State {
	case pipeline.StateCommitted:
		return StateSuccess, "formatting applied and committed"
	case pipeline.StateSkipped:
		return StateSuccess, "already formatted"
	case pipeline.StateAborted:
		return StateFailure, "formatting run aborted"
	default:
		return StatePending, "formatting run in progress"
	}
}
