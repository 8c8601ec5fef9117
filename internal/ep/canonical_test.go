package ep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []Recommendation {
	return []Recommendation{
		{
			Type:         PatternVertex,
			ID:           1,
			EPKeyClass:   "ParallelismProperty",
			EPValueClass: "Integer",
			EPValue:      IntValue(8),
		},
		{
			Type:         PatternEdge,
			ID:           2,
			EPKeyClass:   "DataStoreProperty",
			EPValueClass: "Value",
			EPValue:      StringValue("MemoryStore"),
		},
	}
}

func TestMarshalCanonicalDeterministic(t *testing.T) {
	first, err := MarshalCanonical(sampleRecords())
	require.NoError(t, err)
	second, err := MarshalCanonical(sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMarshalCanonicalKeyOrder(t *testing.T) {
	data, err := MarshalCanonical(sampleRecords()[:1])
	require.NoError(t, err)
	// UTF-16 code unit order: uppercase before lowercase
	assert.Equal(t,
		`[{"EPKeyClass":"ParallelismProperty","EPValue":8,"EPValueClass":"Integer","ID":1,"type":"VERTEX"}]`,
		string(data))
}

func TestMarshalCanonicalNoHTMLEscaping(t *testing.T) {
	recs := []Recommendation{{
		Type:         PatternVertex,
		ID:           1,
		EPKeyClass:   "A<B&C>",
		EPValueClass: "Value",
		EPValue:      StringValue("x<y"),
	}}
	data, err := MarshalCanonical(recs)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"A<B&C>"`)
	assert.Contains(t, string(data), `"x<y"`)
}

func TestMarshalCanonicalEmpty(t *testing.T) {
	data, err := MarshalCanonical(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestHashRecommendationsStable(t *testing.T) {
	h1, err := HashRecommendations(sampleRecords())
	require.NoError(t, err)
	h2, err := HashRecommendations(sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
}

func TestHashRecommendationsDiffers(t *testing.T) {
	recs := sampleRecords()
	h1, err := HashRecommendations(recs)
	require.NoError(t, err)

	recs[0].EPValue = IntValue(9)
	h2, err := HashRecommendations(recs)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestCompareKeysRFC8785(t *testing.T) {
	// 'A' (65) sorts before 'a' (97) in UTF-16 code unit order
	assert.Equal(t, -1, compareKeysRFC8785("A", "a"))
	assert.Equal(t, -1, compareKeysRFC8785("A", "AA"))
	assert.Equal(t, 0, compareKeysRFC8785("same", "same"))
	assert.Equal(t, 1, compareKeysRFC8785("b", "a"))
}
