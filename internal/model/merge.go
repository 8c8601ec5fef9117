package model

import (
	"fmt"
	"math"
)

// MergePolicy names the rule for combining importance values when the same
// (feature, split) pair appears in more than one tree.
//
// The policy is an explicit, declared choice:
//
//   - PolicyReplaceLatest keeps the most recently merged tree's value. It is
//     order-sensitive, matching a sequential fold over trees in a fixed order.
//   - PolicySum adds colliding values, amplifying importance that recurs
//     across trees. Associative and commutative.
//   - PolicyMax keeps the value with the largest magnitude, preserving its
//     sign. Associative and commutative.
type MergePolicy string

const (
	PolicyReplaceLatest MergePolicy = "replace"
	PolicySum           MergePolicy = "sum"
	PolicyMax           MergePolicy = "max"
)

// DefaultPolicy is PolicyReplaceLatest: each tree is merged exactly once in
// a fixed order, and the latest tree's signal wins on collision.
const DefaultPolicy = PolicyReplaceLatest

// ParsePolicy validates a policy name from a flag or config file.
func ParsePolicy(s string) (MergePolicy, error) {
	switch MergePolicy(s) {
	case PolicyReplaceLatest, PolicySum, PolicyMax:
		return MergePolicy(s), nil
	default:
		return "", fmt.Errorf("unknown merge policy %q: must be one of replace, sum, max", s)
	}
}

// Merge folds one tree's importance mapping into an accumulator, returning a
// fresh mapping. Neither input is mutated. For every (feature, split) pair
// present in only one input the value passes through unchanged; pairs
// present in both are combined per the policy.
func Merge(acc, inc ImportanceMapping, policy MergePolicy) ImportanceMapping {
	out := acc.Clone()
	for featureKey, splits := range inc {
		target, ok := out[featureKey]
		if !ok {
			target = make(map[string]float64, len(splits))
			out[featureKey] = target
		}
		for label, value := range splits {
			prev, collided := target[label]
			if !collided {
				target[label] = value
				continue
			}
			target[label] = combine(prev, value, policy)
		}
	}
	return out
}

// MergeAll folds a sequence of trees through Merge in order.
func MergeAll(trees []Tree, policy MergePolicy) ImportanceMapping {
	acc := make(ImportanceMapping)
	for _, t := range trees {
		acc = Merge(acc, t.ImportanceDict(), policy)
	}
	return acc
}

func combine(prev, next float64, policy MergePolicy) float64 {
	switch policy {
	case PolicySum:
		return prev + next
	case PolicyMax:
		if math.Abs(next) > math.Abs(prev) {
			return next
		}
		return prev
	default: // PolicyReplaceLatest
		return next
	}
}
