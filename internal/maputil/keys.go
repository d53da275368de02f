// Package maputil provides small generic helpers over Go maps.
package maputil

import (
	"cmp"
	"sort"
)

// SortedKeys returns the keys of m in ascending order. Returns an empty,
// non-nil slice for a nil or empty map.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
