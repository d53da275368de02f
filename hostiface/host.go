// Package hostiface defines the narrow interface the embedding test binary
// implements to receive pass/fail reports, supply fixture values, and
// cooperate with cancellation. The runner package depends only on this
// interface, never on a concrete test framework.
package hostiface

// Host is implemented by the embedding test binary. The runner calls it to
// resolve fixtures, report per-stage/per-iteration outcomes, and cooperate
// with cancellation; it never reaches into the host's internals otherwise.
type Host interface {
	// FixtureValue resolves a named fixture declared by a scenario or
	// stage's fixtures list. An error here aborts the stage (or, for a
	// scenario-level fixture, the whole run before any stage) with a
	// ScenarioError, not a VerifyError.
	FixtureValue(name string) (any, error)

	// ReportPass records a passing stage or iteration. iterationKey is
	// empty for a stage with no parametrize/parallel block.
	ReportPass(stage string, iterationKey string)

	// ReportFail records a failing stage or iteration with the error that
	// caused it.
	ReportFail(stage string, iterationKey string, err error)

	// Cancelled reports whether the host has requested the run stop
	// launching new stages or iterations.
	Cancelled() bool

	// Cancel returns a channel closed when the host requests cancellation.
	Cancel() <-chan struct{}

	// ApplyMarkers records marks (spec §3's "marks" field) collected for a
	// scenario or stage, at the given scope ("scenario" or "stage").
	ApplyMarkers(scope string, markers []string)
}
