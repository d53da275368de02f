package httperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrPath indicates a $ref file path escaped root_path or the configured
	// max_parent_traversal_depth.
	ErrPath = errors.New("path error")

	// ErrPointer indicates an RFC 6901 JSON pointer failed to resolve.
	ErrPointer = errors.New("pointer error")

	// ErrMerge indicates a sibling-key deep merge of a $ref hit incompatible types.
	ErrMerge = errors.New("merge error")

	// ErrCycle indicates a circular $ref was detected.
	ErrCycle = errors.New("cycle error")

	// ErrScenario indicates a fatal failure while loading a scenario.
	ErrScenario = errors.New("scenario error")

	// ErrValidation indicates a scenario model validation failure.
	ErrValidation = errors.New("validation error")

	// ErrTemplate indicates an expression evaluation failure.
	ErrTemplate = errors.New("template error")

	// ErrComprehensionLimit indicates a comprehension exceeded its configured limit.
	ErrComprehensionLimit = errors.New("comprehension limit exceeded")

	// ErrBind indicates a user function reference could not be resolved.
	ErrBind = errors.New("bind error")

	// ErrTimeout indicates an HTTP request exceeded its configured timeout.
	ErrTimeout = errors.New("timeout error")

	// ErrTransport indicates the HTTP transport failed to send or receive.
	ErrTransport = errors.New("transport error")

	// ErrVerify indicates a verify response step did not hold.
	ErrVerify = errors.New("verify error")

	// ErrSave indicates a save response step failed.
	ErrSave = errors.New("save error")

	// ErrStage indicates a stage failed during execution.
	ErrStage = errors.New("stage error")
)

// PathError represents a $ref file path that escapes root_path or exceeds
// the configured max_parent_traversal_depth.
type PathError struct {
	// Ref is the $ref string being resolved.
	Ref string
	// RootPath is the configured containment root.
	RootPath string
	// Depth is the number of ".." segments the reference attempted.
	Depth int
	// MaxDepth is the configured max_parent_traversal_depth.
	MaxDepth int
	// Message describes the violation.
	Message string
}

// Error returns a human-readable error message.
func (e *PathError) Error() string {
	msg := "path error"
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.Depth > e.MaxDepth {
		msg += fmt.Sprintf(" (traversal depth %d exceeds max %d)", e.Depth, e.MaxDepth)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *PathError) Is(target error) bool {
	return target == ErrPath
}

// PointerError represents a failure to apply an RFC 6901 JSON pointer.
type PointerError struct {
	// File is the file the pointer was applied to (empty for the root document).
	File string
	// Pointer is the JSON pointer that failed.
	Pointer string
	// Message describes the failure.
	Message string
}

// Error returns a human-readable error message.
func (e *PointerError) Error() string {
	msg := "pointer error"
	if e.File != "" {
		msg += " in " + e.File
	}
	if e.Pointer != "" {
		msg += " at " + e.Pointer
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *PointerError) Is(target error) bool {
	return target == ErrPointer
}

// MergeError represents a deep-merge failure between a resolved $ref value
// and its sibling keys.
type MergeError struct {
	// Path is the JSON-pointer-like path at which the merge failed.
	Path string
	// RefType is the Go type name of the referenced value.
	RefType string
	// SiblingType is the Go type name of the sibling value.
	SiblingType string
	// Message describes the failure.
	Message string
}

// Error returns a human-readable error message.
func (e *MergeError) Error() string {
	msg := "merge error"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.RefType != "" || e.SiblingType != "" {
		msg += fmt.Sprintf(" (%s vs %s)", e.RefType, e.SiblingType)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *MergeError) Is(target error) bool {
	return target == ErrMerge
}

// CycleError represents a circular $ref detected during resolution.
type CycleError struct {
	// Frame is the (file, pointer) frame that was re-entered.
	Frame string
	// Chain is the sequence of frames leading back to Frame.
	Chain []string
}

// Error returns a human-readable error message.
func (e *CycleError) Error() string {
	msg := "cycle error: re-entered " + e.Frame
	if len(e.Chain) > 0 {
		msg += fmt.Sprintf(" (chain: %v)", e.Chain)
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *CycleError) Is(target error) bool {
	return target == ErrCycle
}

// ScenarioError represents a fatal failure while loading a scenario,
// wrapping a resolution or validation cause.
type ScenarioError struct {
	// File is the scenario file path.
	File string
	// Message describes the failure.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error returns a human-readable error message.
func (e *ScenarioError) Error() string {
	msg := "scenario error"
	if e.File != "" {
		msg += " in " + e.File
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ScenarioError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ScenarioError) Is(target error) bool {
	return target == ErrScenario
}

// ValidationError represents a scenario model validation failure.
type ValidationError struct {
	// Path is the location within the scenario (e.g. "stages[2].request.timeout").
	Path string
	// Field is the specific field name with the issue.
	Field string
	// Value is the problematic value (may be nil).
	Value any
	// Message describes the validation failure.
	Message string
}

// Error returns a human-readable error message.
func (e *ValidationError) Error() string {
	msg := "validation error"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Field != "" {
		msg += "." + e.Field
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// TemplateError represents an expression evaluation failure.
type TemplateError struct {
	// Expr is the offending expression source.
	Expr string
	// Location is where the expression appeared (e.g. "stages[0].request.url").
	Location string
	// Message describes the failure.
	Message string
	// Cause is the underlying evaluator error, if any.
	Cause error
}

// Error returns a human-readable error message.
func (e *TemplateError) Error() string {
	msg := "template error"
	if e.Location != "" {
		msg += " at " + e.Location
	}
	if e.Expr != "" {
		msg += fmt.Sprintf(" ({{ %s }})", e.Expr)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *TemplateError) Is(target error) bool {
	return target == ErrTemplate
}

// ComprehensionLimitError represents a comprehension that exceeded the
// configured max_comprehension_length.
type ComprehensionLimitError struct {
	// Expr is the offending expression source.
	Expr string
	// Limit is the configured maximum length.
	Limit int
	// Actual is the length that was observed, if known.
	Actual int
}

// Error returns a human-readable error message.
func (e *ComprehensionLimitError) Error() string {
	msg := fmt.Sprintf("comprehension limit exceeded (limit: %d", e.Limit)
	if e.Actual > 0 {
		msg += fmt.Sprintf(", actual: %d", e.Actual)
	}
	msg += ")"
	if e.Expr != "" {
		msg += fmt.Sprintf(" in {{ %s }}", e.Expr)
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ComprehensionLimitError) Is(target error) bool {
	return target == ErrComprehensionLimit
}

// BindError represents a failure to resolve or invoke a user function reference.
type BindError struct {
	// Ref is the "module:symbol" or bare "symbol" reference.
	Ref string
	// Kind describes the expected arity: "save", "verify", "auth", "substitution".
	Kind string
	// Message describes the failure.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error returns a human-readable error message.
func (e *BindError) Error() string {
	msg := "bind error"
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.Kind != "" {
		msg += fmt.Sprintf(" (%s)", e.Kind)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *BindError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *BindError) Is(target error) bool {
	return target == ErrBind
}

// TimeoutError represents an HTTP request that exceeded its configured timeout.
type TimeoutError struct {
	// URL is the request URL.
	URL string
	// TimeoutSeconds is the configured timeout.
	TimeoutSeconds float64
}

// Error returns a human-readable error message.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout error: %s exceeded %.2fs timeout", e.URL, e.TimeoutSeconds)
}

// Is reports whether target matches this error type.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// TransportError represents a failure to send or receive an HTTP request.
type TransportError struct {
	// URL is the request URL.
	URL string
	// Method is the HTTP method.
	Method string
	// Message describes the failure.
	Message string
	// Cause is the underlying transport error, if any.
	Cause error
}

// Error returns a human-readable error message.
func (e *TransportError) Error() string {
	msg := "transport error"
	if e.Method != "" || e.URL != "" {
		msg += fmt.Sprintf(": %s %s", e.Method, e.URL)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// VerifyError represents a verify response step that did not hold.
type VerifyError struct {
	// Stage is the stage name.
	Stage string
	// Check names which verify check failed: "status", "headers", "expressions",
	// "body.schema", "body.contains", "body.not_contains", "body.matches",
	// "body.not_matches", "user_functions".
	Check string
	// Expected is the expected value, if applicable.
	Expected any
	// Actual is the observed value, if applicable.
	Actual any
	// Message describes the failure.
	Message string
}

// Error returns a human-readable error message.
func (e *VerifyError) Error() string {
	msg := "verify error"
	if e.Stage != "" {
		msg += " in stage " + e.Stage
	}
	if e.Check != "" {
		msg += fmt.Sprintf(" (%s)", e.Check)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	} else if e.Expected != nil || e.Actual != nil {
		msg += fmt.Sprintf(": expected %v, got %v", e.Expected, e.Actual)
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *VerifyError) Is(target error) bool {
	return target == ErrVerify
}

// SaveError represents a failure in a save response step.
type SaveError struct {
	// Stage is the stage name.
	Stage string
	// Source names which save source failed: "jmespath", "substitutions", "user_functions".
	Source string
	// Name is the target variable name, if known.
	Name string
	// Message describes the failure.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error returns a human-readable error message.
func (e *SaveError) Error() string {
	msg := "save error"
	if e.Stage != "" {
		msg += " in stage " + e.Stage
	}
	if e.Source != "" {
		msg += fmt.Sprintf(" (%s)", e.Source)
	}
	if e.Name != "" {
		msg += " for " + e.Name
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *SaveError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *SaveError) Is(target error) bool {
	return target == ErrSave
}

// StageError wraps a failure from any stage-execution phase with the stage
// name and iteration key, the shape surfaced to the host integration.
type StageError struct {
	// Stage is the stage name.
	Stage string
	// IterationKey identifies the parametrize/parallel iteration, if any.
	IterationKey string
	// Phase names the state-machine phase that failed: "building_ctx",
	// "rendering", "sending", "processing_response".
	Phase string
	// Cause is the underlying error.
	Cause error
}

// Error returns a human-readable error message.
func (e *StageError) Error() string {
	msg := fmt.Sprintf("stage error: %s", e.Stage)
	if e.IterationKey != "" {
		msg += fmt.Sprintf("[%s]", e.IterationKey)
	}
	if e.Phase != "" {
		msg += fmt.Sprintf(" (%s)", e.Phase)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *StageError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *StageError) Is(target error) bool {
	return target == ErrStage
}
