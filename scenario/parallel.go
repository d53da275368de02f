package scenario

import (
	"encoding/json"
	"fmt"

	"github.com/erraggy/httpchain/httperrors"
)

// ParallelConfigKind identifies which variant of ParallelConfig is
// populated.
type ParallelConfigKind string

const (
	ParallelRepeat  ParallelConfigKind = "repeat"
	ParallelForeach ParallelConfigKind = "foreach"
)

// ParallelConfig schedules multiple concurrent invocations of a stage:
// either a fixed repeat count or one invocation per parameter row.
type ParallelConfig struct {
	Kind    ParallelConfigKind
	Repeat  *RepeatConfig
	Foreach *ForeachConfig
}

// RepeatConfig schedules N independent invocations of a stage.
type RepeatConfig struct {
	N              int     `json:"n"`
	MaxConcurrency int     `json:"max_concurrency"`
	CallsPerSec    float64 `json:"calls_per_sec,omitempty"`
}

// ForeachConfig schedules one invocation per row produced by Parameters'
// Cartesian product.
type ForeachConfig struct {
	Parameters     []Parameter `json:"parameters"`
	MaxConcurrency int         `json:"max_concurrency"`
	CallsPerSec    float64     `json:"calls_per_sec,omitempty"`
}

// UnmarshalJSON decodes whichever single variant key is present.
func (p *ParallelConfig) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return &httperrors.ValidationError{Field: "parallel", Message: "must be an object"}
	}

	_, hasRepeat := m["repeat"]
	_, hasForeach := m["foreach"]
	switch {
	case hasRepeat && !hasForeach:
		p.Kind = ParallelRepeat
		var r RepeatConfig
		if err := json.Unmarshal(m["repeat"], &r); err != nil {
			return &httperrors.ValidationError{Field: "parallel.repeat", Message: err.Error()}
		}
		p.Repeat = &r
	case hasForeach && !hasRepeat:
		p.Kind = ParallelForeach
		var f ForeachConfig
		if err := json.Unmarshal(m["foreach"], &f); err != nil {
			return &httperrors.ValidationError{Field: "parallel.foreach", Message: err.Error()}
		}
		p.Foreach = &f
	default:
		return &httperrors.ValidationError{
			Field:   "parallel",
			Message: "exactly one of repeat or foreach is required",
		}
	}
	return nil
}

// MarshalJSON re-encodes ParallelConfig as the single-key object
// UnmarshalJSON expects.
func (p ParallelConfig) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case ParallelRepeat:
		return json.Marshal(map[string]any{"repeat": p.Repeat})
	case ParallelForeach:
		return json.Marshal(map[string]any{"foreach": p.Foreach})
	default:
		return nil, fmt.Errorf("parallel config: unknown kind %q", p.Kind)
	}
}
