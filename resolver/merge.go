package resolver

import (
	"fmt"

	"github.com/erraggy/httpchain/httperrors"
)

// deepMerge combines a resolved $ref value with its sibling keys. Mappings
// merge recursively (sibling keys win on scalar conflicts), lists from the
// sibling replace the referenced list entirely, and scalars are taken from
// the sibling. A type mismatch (mapping, list or scalar) between ref and
// sibling at the same path fails with MergeError.
func deepMerge(ref, sibling any, path string) (any, error) {
	if sibling == nil {
		return ref, nil
	}
	if ref == nil {
		return sibling, nil
	}

	switch s := sibling.(type) {
	case map[string]any:
		refMap, ok := ref.(map[string]any)
		if !ok {
			return nil, &httperrors.MergeError{
				Path:        path,
				RefType:     fmt.Sprintf("%T", ref),
				SiblingType: fmt.Sprintf("%T", sibling),
				Message:     "cannot merge mapping sibling into non-mapping reference",
			}
		}
		merged := make(map[string]any, len(refMap)+len(s))
		for k, v := range refMap {
			merged[k] = v
		}
		for k, sv := range s {
			childPath := path + "/" + k
			if rv, exists := merged[k]; exists {
				mv, err := deepMerge(rv, sv, childPath)
				if err != nil {
					return nil, err
				}
				merged[k] = mv
			} else {
				merged[k] = sv
			}
		}
		return merged, nil

	case []any:
		// Lists replace entirely, per spec.
		if _, ok := ref.([]any); !ok {
			return nil, &httperrors.MergeError{
				Path:        path,
				RefType:     fmt.Sprintf("%T", ref),
				SiblingType: fmt.Sprintf("%T", sibling),
				Message:     "cannot merge list sibling into non-list reference",
			}
		}
		return s, nil

	default:
		// Scalars are taken from the sibling.
		switch ref.(type) {
		case map[string]any, []any:
			return nil, &httperrors.MergeError{
				Path:        path,
				RefType:     fmt.Sprintf("%T", ref),
				SiblingType: fmt.Sprintf("%T", sibling),
				Message:     "cannot merge scalar sibling into mapping or list reference",
			}
		}
		return s, nil
	}
}
