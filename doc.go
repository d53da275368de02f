// Package httpchain provides a declarative HTTP API integration test engine.
//
// A scenario is a JSON document describing a chain of HTTP request/response
// stages: build a request (with templated values pulled from a layered
// context), send it, then verify and save values out of the response for
// later stages to use. Scenarios can reference shared fragments with $ref,
// parameterize a stage over a set of rows, and run a stage's iterations in
// parallel with bounded concurrency and rate limiting.
//
// The library is organized as a pipeline of four packages:
//
//   - resolver: loads a scenario document and resolves every $ref it
//     contains into an inline map, bounded to a root directory.
//   - scenario: decodes the resolved document into a typed, validated
//     Scenario and exposes the discriminated-union types (Body,
//     Substitution, ResponseStep, Parameter, ParallelConfig) that make up
//     its stages.
//   - template: evaluates the embedded expression/template language against
//     a layered Context (fixtures, saves, parameters stacked as frames),
//     bounding comprehension length to avoid runaway evaluation.
//   - runner: executes a built Scenario's stages against live HTTP,
//     dispatching parametrize/parallel expansion and reporting every
//     outcome to a hostiface.Host supplied by the embedding test binary.
//
// # Quick Start
//
// Load, resolve, and build a scenario, then run it:
//
//	resolved, err := resolver.Load("test_create_order.http.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	scn, err := scenario.Build("test_create_order.http.json", resolved)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	r := runner.New(myHost)
//	if err := r.Run(context.Background(), scn); err != nil {
//		log.Fatal(err)
//	}
//
// myHost implements hostiface.Host: it resolves named fixtures, receives
// pass/fail reports per stage (and per parametrize/parallel iteration), and
// cooperates with cancellation. A test binary built on the standard
// "testing" package typically implements Host by wrapping a *testing.T.
//
// # User functions
//
// Stages can call out to Go functions registered ahead of time for request
// authentication, response verification, and value extraction. See the
// userfunc package: Binder resolves a scenario.UserFunctionRef (either
// "module:symbol" against a RegisterModule-registered map, or a bare symbol
// against a host-supplied SymbolTable) into the narrow function-adapter
// interface its call site expects.
//
// # Error handling
//
// Every error httpchain returns carries a location (source file, JSON
// pointer or stage name, iteration key where applicable) and supports
// errors.As/errors.Is against the package-level sentinels in httperrors
// (ErrValidation, ErrTemplate, ErrVerify, ErrSave, and so on).
//
// # Structured logging
//
// resolver.Load and runner.New accept a httplog.Logger via functional
// option, defaulting to httplog.NopLogger{}. httplog.SlogAdapter
// wraps log/slog for production use.
//
// # Command-Line Interface
//
// In addition to the library packages, httpchain provides a command-line
// interface:
//
//	# Validate a scenario without executing it
//	httpchain validate test_create_order.http.json
//
//	# Run a scenario against live HTTP
//	httpchain run test_create_order.http.json --var base_url=https://api.example.com
//
//	# Discover scenario files under a directory
//	httpchain discover ./tests
//
// Install the CLI:
//
//	go install github.com/erraggy/httpchain/cmd/httpchain@latest
package httpchain
