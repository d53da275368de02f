package scenario

import (
	"encoding/json"
	"strings"

	"github.com/erraggy/httpchain/httperrors"
)

// UserFunctionRef references a host-provided callable, either by explicit
// "module.path:symbol" or a bare "symbol" resolved by the host's documented
// search order (see package userfunc).
type UserFunctionRef struct {
	// Module is the dotted module path, empty for a bare-symbol reference.
	Module string
	// Symbol is the callable's name within Module (or the bare symbol
	// itself).
	Symbol string
	// Raw is the original reference string, preserved for error messages.
	Raw string
	// Kwargs are arguments passed to the callable; values are templated
	// before invocation.
	Kwargs map[string]any
}

// IsBareSymbol reports whether this reference has no explicit module.
func (u UserFunctionRef) IsBareSymbol() bool {
	return u.Module == ""
}

// UnmarshalJSON accepts either a bare string ("module:symbol" or "symbol")
// or an object { "ref": "...", "kwargs": {...} }.
func (u *UserFunctionRef) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		u.setFromRef(asString)
		return nil
	}

	var obj struct {
		Ref    string         `json:"ref"`
		Kwargs map[string]any `json:"kwargs,omitempty"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return &httperrors.ValidationError{Field: "user_function", Message: "must be a string or {ref, kwargs} object"}
	}
	if obj.Ref == "" {
		return &httperrors.ValidationError{Field: "user_function.ref", Message: "ref is required"}
	}
	u.setFromRef(obj.Ref)
	u.Kwargs = obj.Kwargs
	return nil
}

func (u *UserFunctionRef) setFromRef(ref string) {
	u.Raw = ref
	if mod, sym, ok := strings.Cut(ref, ":"); ok {
		u.Module = mod
		u.Symbol = sym
	} else {
		u.Module = ""
		u.Symbol = ref
	}
}

// MarshalJSON re-encodes the reference, using the bare-string form when
// there are no kwargs.
func (u UserFunctionRef) MarshalJSON() ([]byte, error) {
	if len(u.Kwargs) == 0 {
		return json.Marshal(u.Raw)
	}
	return json.Marshal(struct {
		Ref    string         `json:"ref"`
		Kwargs map[string]any `json:"kwargs,omitempty"`
	}{Ref: u.Raw, Kwargs: u.Kwargs})
}
