// Package runner executes a built scenario.Scenario against live HTTP
// endpoints: it builds requests from the templated stage, sends them
// through a pluggable Transport, processes ordered verify/save response
// steps, and drives the per-stage state machine across sequential
// parametrize rows and bounded-concurrency parallel iterations.
package runner
