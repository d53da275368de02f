package scenario

import (
	"encoding/json"
	"fmt"

	"github.com/erraggy/httpchain/httperrors"
)

// ParameterKind identifies which variant of Parameter is populated.
type ParameterKind string

const (
	ParameterIndividual   ParameterKind = "individual"
	ParameterCombinations ParameterKind = "combinations"
)

// Parameter is one block of a stage's parametrize (or parallel.foreach)
// list. Multiple blocks compose by Cartesian product.
type Parameter struct {
	Kind         ParameterKind
	Individual   *IndividualParam
	Combinations *CombinationsParam
}

// IndividualParam expands to one row per value, binding a single key.
type IndividualParam struct {
	Key    string   `json:"key"`
	Values []any    `json:"values"`
	IDs    []string `json:"ids,omitempty"`
}

// CombinationsParam expands to one row per provided mapping.
type CombinationsParam struct {
	Rows []map[string]any `json:"rows"`
	IDs  []string         `json:"ids,omitempty"`
}

// UnmarshalJSON decodes whichever single variant key is present.
func (p *Parameter) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return &httperrors.ValidationError{Field: "parameter", Message: "must be an object"}
	}

	_, hasIndividual := m["individual"]
	_, hasCombinations := m["combinations"]
	switch {
	case hasIndividual && !hasCombinations:
		p.Kind = ParameterIndividual
		var v struct {
			Key    string   `json:"key"`
			Values []any    `json:"values"`
			IDs    []string `json:"ids,omitempty"`
		}
		if err := json.Unmarshal(m["individual"], &v); err != nil {
			return &httperrors.ValidationError{Field: "parameter.individual", Message: err.Error()}
		}
		p.Individual = &IndividualParam{Key: v.Key, Values: v.Values, IDs: v.IDs}
	case hasCombinations && !hasIndividual:
		p.Kind = ParameterCombinations
		var v CombinationsParam
		if err := json.Unmarshal(m["combinations"], &v); err != nil {
			return &httperrors.ValidationError{Field: "parameter.combinations", Message: err.Error()}
		}
		p.Combinations = &v
	default:
		return &httperrors.ValidationError{
			Field:   "parameter",
			Message: "exactly one of individual or combinations is required",
		}
	}
	return nil
}

// MarshalJSON re-encodes Parameter as the single-key object UnmarshalJSON
// expects.
func (p Parameter) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case ParameterIndividual:
		return json.Marshal(map[string]any{"individual": p.Individual})
	case ParameterCombinations:
		return json.Marshal(map[string]any{"combinations": p.Combinations})
	default:
		return nil, fmt.Errorf("parameter: unknown kind %q", p.Kind)
	}
}

// Rows materializes this parameter block's expansion as parameter maps.
func (p Parameter) Rows() ([]map[string]any, error) {
	switch p.Kind {
	case ParameterIndividual:
		rows := make([]map[string]any, len(p.Individual.Values))
		for i, v := range p.Individual.Values {
			rows[i] = map[string]any{p.Individual.Key: v}
		}
		return rows, nil
	case ParameterCombinations:
		return p.Combinations.Rows, nil
	default:
		return nil, fmt.Errorf("parameter: unknown kind %q", p.Kind)
	}
}

// IDs returns the authored iteration IDs for this block, if any.
func (p Parameter) IDs() []string {
	switch p.Kind {
	case ParameterIndividual:
		return p.Individual.IDs
	case ParameterCombinations:
		return p.Combinations.IDs
	default:
		return nil
	}
}

// CartesianProduct composes multiple Parameter blocks by Cartesian product,
// returning one merged parameter map per resulting row, in lexicographic
// (authored) order.
func CartesianProduct(params []Parameter) ([]map[string]any, error) {
	if len(params) == 0 {
		return nil, nil
	}

	rows := []map[string]any{{}}
	for _, p := range params {
		blockRows, err := p.Rows()
		if err != nil {
			return nil, err
		}
		if ids := p.IDs(); len(ids) > 0 && len(ids) != len(blockRows) {
			return nil, &httperrors.ValidationError{
				Field:   "parameter.ids",
				Message: fmt.Sprintf("ids length %d does not match value set length %d", len(ids), len(blockRows)),
			}
		}

		next := make([]map[string]any, 0, len(rows)*len(blockRows))
		for _, existing := range rows {
			for _, br := range blockRows {
				merged := make(map[string]any, len(existing)+len(br))
				for k, v := range existing {
					merged[k] = v
				}
				for k, v := range br {
					merged[k] = v
				}
				next = append(next, merged)
			}
		}
		rows = next
	}
	return rows, nil
}
