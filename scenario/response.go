package scenario

import (
	"encoding/json"
	"fmt"

	"github.com/erraggy/httpchain/httperrors"
)

// ResponseStepKind identifies which variant of ResponseStep is populated.
type ResponseStepKind string

const (
	ResponseStepVerify ResponseStepKind = "verify"
	ResponseStepSave   ResponseStepKind = "save"
)

// ResponseStep is one step in a stage's ordered response processing:
// exactly one of Verify or Save.
type ResponseStep struct {
	Kind   ResponseStepKind
	Verify *Verify
	Save   *Save
}

// UnmarshalJSON decodes whichever single variant key is present.
func (r *ResponseStep) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return &httperrors.ValidationError{Field: "response", Message: "must be an object"}
	}

	_, hasVerify := m["verify"]
	_, hasSave := m["save"]
	switch {
	case hasVerify && !hasSave:
		r.Kind = ResponseStepVerify
		var v Verify
		if err := json.Unmarshal(m["verify"], &v); err != nil {
			return err
		}
		r.Verify = &v
	case hasSave && !hasVerify:
		r.Kind = ResponseStepSave
		var s Save
		if err := json.Unmarshal(m["save"], &s); err != nil {
			return err
		}
		r.Save = &s
	default:
		return &httperrors.ValidationError{
			Field:   "response",
			Message: "exactly one of verify or save is required",
		}
	}
	return nil
}

// MarshalJSON re-encodes ResponseStep as the single-key object
// UnmarshalJSON expects.
func (r ResponseStep) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case ResponseStepVerify:
		return json.Marshal(map[string]any{"verify": r.Verify})
	case ResponseStepSave:
		return json.Marshal(map[string]any{"save": r.Save})
	default:
		return nil, fmt.Errorf("response step: unknown kind %q", r.Kind)
	}
}

// Verify asserts properties of a response. Every populated field must hold
// for the step to pass; the step fails on the first check that does not.
type Verify struct {
	// Status is an expected status code (int) or a list of acceptable
	// codes ([]int).
	Status any `json:"status,omitempty"`
	// Headers maps header name to its required exact value
	// (case-insensitive name match, case-sensitive value equality).
	Headers map[string]string `json:"headers,omitempty"`
	// Expressions are template expressions each required to evaluate
	// truthy.
	Expressions []string `json:"expressions,omitempty"`
	// Body holds text/schema/absence checks against the response body.
	Body *BodyVerify `json:"body,omitempty"`
	// UserFunctions are called in order against the response; each must
	// return truthy.
	UserFunctions []UserFunctionRef `json:"user_functions,omitempty"`
}

// BodyVerify checks for a verify step's body.* fields.
type BodyVerify struct {
	// Schema is an inline JSON Schema document, or a string path to one.
	Schema any `json:"schema,omitempty"`
	// Contains/NotContains are substrings required / forbidden in the
	// decoded body text.
	Contains    []string `json:"contains,omitempty"`
	NotContains []string `json:"not_contains,omitempty"`
	// Matches/NotMatches are regular expressions the whole body text must
	// / must not match.
	Matches    []string `json:"matches,omitempty"`
	NotMatches []string `json:"not_matches,omitempty"`
	// Absent requires the response body to be empty or missing JSON.
	Absent bool `json:"absent,omitempty"`
}

// Save extracts values from a response and promotes them into the stage's
// saved-values map.
type Save struct {
	// JMESPath maps a saved name to a JMESPath expression evaluated over
	// the response's parsed JSON.
	JMESPath map[string]string `json:"jmespath,omitempty"`
	// Substitutions are evaluated now, in order, against the current
	// context.
	Substitutions []Substitution `json:"substitutions,omitempty"`
	// UserFunctions are called in order; each returns a map of names to
	// values, merged into the saved set (later entries win).
	UserFunctions []UserFunctionRef `json:"user_functions,omitempty"`
}
