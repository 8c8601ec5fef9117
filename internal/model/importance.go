package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ImportanceMapping is the per-split importance a tree (or a merged set of
// trees) assigns to features. The outer key is the stringified feature id
// with an "f" prefix (e.g. "f5"), the inner key is the split label, and the
// value is the signed split importance. The sign carries the recommendation
// direction, so it must survive merging untouched.
type ImportanceMapping map[string]map[string]float64

// FeatureKey renders a feature id as an outer mapping key.
func FeatureKey(featureID int) string {
	return fmt.Sprintf("f%d", featureID)
}

// ParseFeatureKey recovers the feature id from an outer mapping key.
func ParseFeatureKey(key string) (int, error) {
	rest, ok := strings.CutPrefix(key, "f")
	if !ok || rest == "" {
		return 0, fmt.Errorf("malformed feature key %q: want \"f<id>\"", key)
	}
	id, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("malformed feature key %q: %w", key, err)
	}
	return id, nil
}

// SortedFeatureKeys returns the outer keys in deterministic order: numeric
// by feature id, with malformed keys last in lexicographic order so they
// still surface (and get skipped) reproducibly.
func (m ImportanceMapping) SortedFeatureKeys() []string {
	type parsed struct {
		key string
		id  int
		ok  bool
	}
	keys := make([]parsed, 0, len(m))
	for k := range m {
		id, err := ParseFeatureKey(k)
		keys = append(keys, parsed{key: k, id: id, ok: err == nil})
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.ok != b.ok {
			return a.ok
		}
		if a.ok {
			return a.id < b.id
		}
		return a.key < b.key
	})

	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.key
	}
	return out
}

// SortedSplitLabels returns the split labels of one feature's inner mapping
// in lexicographic order.
func (m ImportanceMapping) SortedSplitLabels(featureKey string) []string {
	inner := m[featureKey]
	labels := make([]string, 0, len(inner))
	for l := range inner {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Clone returns a deep copy. Merge never mutates its inputs.
func (m ImportanceMapping) Clone() ImportanceMapping {
	out := make(ImportanceMapping, len(m))
	for k, inner := range m {
		copied := make(map[string]float64, len(inner))
		for l, v := range inner {
			copied[l] = v
		}
		out[k] = copied
	}
	return out
}
