package feature

import (
	"math"
	"strconv"

	"github.com/yunseong/proptune/internal/ep"
)

// Value derivation turns a split boundary into a concrete property value.
//
// The sign of the raw split importance fixes the direction: positive means
// the recommended value must be strictly greater than the split threshold,
// zero or negative means strictly smaller. Derivation is best-effort: a
// value class with no derivable concrete value yields absent (ok=false),
// which is a normal outcome filtered downstream, never an error.

// deriveFunc derives a concrete value from a split threshold and direction.
type deriveFunc func(threshold float64, greater bool) (ep.Value, bool)

// derivers is the closed table of recognized value classes. Anything not
// listed here falls back to enumerated-candidate derivation, then absent.
var derivers = map[string]deriveFunc{
	"Integer": deriveInteger,
	"Boolean": deriveBoolean,
}

// DeriveValue decodes a concrete typed value for the qualified key from one
// split. Returns ok=false when no concrete value is derivable.
func (r *Registry) DeriveValue(qualifiedKey, splitLabel string, rawSplitValue float64) (ep.Value, bool) {
	threshold, err := strconv.ParseFloat(splitLabel, 64)
	if err != nil {
		// Split labels that aren't numeric thresholds carry no derivable value.
		return nil, false
	}

	greater := rawSplitValue > 0
	_, valueClass := ep.SplitQualifiedKey(qualifiedKey)

	if fn, ok := derivers[valueClass]; ok {
		return fn(threshold, greater)
	}

	if candidates := r.Candidates(qualifiedKey); len(candidates) > 0 {
		return deriveEnum(candidates, threshold, greater)
	}

	return nil, false
}

// deriveInteger picks the nearest integer strictly beyond the threshold in
// the recommended direction.
func deriveInteger(threshold float64, greater bool) (ep.Value, bool) {
	if greater {
		return ep.IntValue(int64(math.Floor(threshold)) + 1), true
	}
	return ep.IntValue(int64(math.Ceil(threshold)) - 1), true
}

// deriveBoolean reads true as 1 and false as 0 against the threshold.
// Absent when neither side of the threshold is reachable.
func deriveBoolean(threshold float64, greater bool) (ep.Value, bool) {
	if greater {
		if threshold < 1 {
			return ep.BoolValue(true), true
		}
		return nil, false
	}
	if threshold > 0 {
		return ep.BoolValue(false), true
	}
	return nil, false
}

// deriveEnum treats the threshold as an index into the candidate list and
// picks the nearest candidate strictly beyond it. No clamping: an index
// outside the list means no candidate satisfies the direction.
func deriveEnum(candidates []string, threshold float64, greater bool) (ep.Value, bool) {
	var idx int64
	if greater {
		idx = int64(math.Floor(threshold)) + 1
	} else {
		idx = int64(math.Ceil(threshold)) - 1
	}
	if idx < 0 || idx >= int64(len(candidates)) {
		return nil, false
	}
	return ep.StringValue(candidates[idx]), true
}
