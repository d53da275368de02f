package scenario

import (
	"encoding/json"
	"fmt"

	"github.com/erraggy/httpchain/httperrors"
)

// SubstitutionKind identifies which variant of Substitution is populated.
type SubstitutionKind string

const (
	SubstitutionVars      SubstitutionKind = "vars"
	SubstitutionFunctions SubstitutionKind = "functions"
)

// Substitution is a named binding added to a context layer: either literal
// values (vars) or the result of invoking a user function (functions).
type Substitution struct {
	Kind      SubstitutionKind
	Vars      map[string]any             // vars{ name -> literal }
	Functions map[string]UserFunctionRef // functions{ name -> UserFunctionRef }
}

// UnmarshalJSON decodes whichever single variant key is present.
func (s *Substitution) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return &httperrors.ValidationError{Field: "substitution", Message: "must be an object"}
	}

	_, hasVars := m["vars"]
	_, hasFuncs := m["functions"]
	switch {
	case hasVars && !hasFuncs:
		s.Kind = SubstitutionVars
		var v map[string]any
		if err := json.Unmarshal(m["vars"], &v); err != nil {
			return &httperrors.ValidationError{Field: "substitution.vars", Message: err.Error()}
		}
		s.Vars = v
	case hasFuncs && !hasVars:
		s.Kind = SubstitutionFunctions
		var v map[string]UserFunctionRef
		if err := json.Unmarshal(m["functions"], &v); err != nil {
			return &httperrors.ValidationError{Field: "substitution.functions", Message: err.Error()}
		}
		s.Functions = v
	default:
		return &httperrors.ValidationError{
			Field:   "substitution",
			Message: "exactly one of vars or functions is required",
		}
	}
	return nil
}

// MarshalJSON re-encodes Substitution as the single-key object
// UnmarshalJSON expects.
func (s Substitution) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case SubstitutionVars:
		return json.Marshal(map[string]any{"vars": s.Vars})
	case SubstitutionFunctions:
		return json.Marshal(map[string]any{"functions": s.Functions})
	default:
		return nil, fmt.Errorf("substitution: unknown kind %q", s.Kind)
	}
}
