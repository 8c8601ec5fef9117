package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureKeyRoundTrip(t *testing.T) {
	for _, id := range []int{0, 5, 9999} {
		parsed, err := ParseFeatureKey(FeatureKey(id))
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	}
}

func TestParseFeatureKeyMalformed(t *testing.T) {
	for _, key := range []string{"", "f", "5", "fx", "g5"} {
		_, err := ParseFeatureKey(key)
		assert.Error(t, err, "key %q", key)
	}
}

func TestSortedFeatureKeysNumericOrder(t *testing.T) {
	m := ImportanceMapping{
		"f10": {"s": 1},
		"f2":  {"s": 1},
		"f1":  {"s": 1},
	}

	// Numeric order, not lexicographic ("f10" would sort before "f2" as a string)
	assert.Equal(t, []string{"f1", "f2", "f10"}, m.SortedFeatureKeys())
}

func TestSortedFeatureKeysMalformedLast(t *testing.T) {
	m := ImportanceMapping{
		"bogus": {"s": 1},
		"f7":    {"s": 1},
		"f3":    {"s": 1},
	}

	assert.Equal(t, []string{"f3", "f7", "bogus"}, m.SortedFeatureKeys())
}

func TestSortedSplitLabels(t *testing.T) {
	m := ImportanceMapping{
		"f1": {"s2": 1, "s10": 2, "s1": 3},
	}

	assert.Equal(t, []string{"s1", "s10", "s2"}, m.SortedSplitLabels("f1"))
	assert.Empty(t, m.SortedSplitLabels("f9"))
}

func TestCloneIsDeep(t *testing.T) {
	m := ImportanceMapping{"f1": {"s1": 0.5}}
	c := m.Clone()
	c["f1"]["s1"] = 9
	c["f2"] = map[string]float64{"s2": 1}

	assert.Equal(t, 0.5, m["f1"]["s1"])
	assert.NotContains(t, m, "f2")
}
