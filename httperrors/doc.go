// Package httperrors provides structured error types for httpchain.
//
// Import path: github.com/erraggy/httpchain/httperrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between different categories of errors and implement
// appropriate recovery strategies. It mirrors the error taxonomy a declarative HTTP
// chain engine needs at each of its layers: reference resolution, scenario validation,
// expression evaluation, user function binding, transport, and response processing.
//
// # Error Types
//
//   - [PathError]: $ref file path escapes root_path or max_parent_traversal_depth
//   - [PointerError]: RFC 6901 JSON pointer traversal into a resolved $ref target failed
//   - [MergeError]: sibling-key deep merge of a $ref hit an incompatible type
//   - [CycleError]: a $ref graph re-entered a frame already being resolved
//   - [ScenarioError]: fatal failure while loading a scenario (wraps load-time causes)
//   - [ValidationError]: the typed scenario model failed a structural or semantic check
//   - [TemplateError]: expression evaluation failed (undefined name, type error, syntax, ...)
//   - [ComprehensionLimitError]: a comprehension exceeded max_comprehension_length
//   - [BindError]: a user function reference could not be resolved or is the wrong shape
//   - [TimeoutError]: an HTTP request exceeded its configured timeout
//   - [TransportError]: the HTTP transport failed to send or receive
//   - [VerifyError]: a verify response step did not hold
//   - [SaveError]: a save response step (jmespath/substitution/user function) failed
//   - [StageError]: wraps any of the above with stage name and iteration key for the host
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel for use with [errors.Is]:
// [ErrPath], [ErrPointer], [ErrMerge], [ErrCycle], [ErrScenario], [ErrValidation],
// [ErrTemplate], [ErrComprehensionLimit], [ErrBind], [ErrTimeout], [ErrTransport],
// [ErrVerify], [ErrSave], [ErrStage].
//
// # Usage
//
// Stage failures reach the host through ReportFail:
//
//	func (h *myHost) ReportFail(stage, iterationKey string, err error) {
//	    var verr *httperrors.VerifyError
//	    if errors.As(err, &verr) {
//	        fmt.Printf("stage %s failed check %q\n", verr.Stage, verr.Check)
//	    }
//	}
package httperrors
