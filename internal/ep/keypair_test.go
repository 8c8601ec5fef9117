package ep

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitQualifiedKey(t *testing.T) {
	keyClass, valueClass := SplitQualifiedKey("ParallelismProperty/Integer")
	assert.Equal(t, "ParallelismProperty", keyClass)
	assert.Equal(t, "Integer", valueClass)
}

func TestSplitQualifiedKeyNoValueClass(t *testing.T) {
	// Marker properties carry no typed payload
	keyClass, valueClass := SplitQualifiedKey("IgnoreSchedulingTempDataReceiverProperty")
	assert.Equal(t, "IgnoreSchedulingTempDataReceiverProperty", keyClass)
	assert.Equal(t, "", valueClass)
}

func TestJoinQualifiedKeyRoundTrip(t *testing.T) {
	for _, qk := range []string{
		"ParallelismProperty/Integer",
		"DataStoreProperty/Value",
		"ResourceSlotProperty/Boolean",
		"MarkerProperty",
	} {
		keyClass, valueClass := SplitQualifiedKey(qk)
		assert.Equal(t, qk, JoinQualifiedKey(keyClass, valueClass))
	}
}

func TestRecommendationQualifiedKey(t *testing.T) {
	rec := Recommendation{
		Type:         PatternVertex,
		ID:           1,
		EPKeyClass:   "ParallelismProperty",
		EPValueClass: "Integer",
		EPValue:      IntValue(8),
	}
	assert.Equal(t, "ParallelismProperty/Integer", rec.QualifiedKey())
}

func TestRecommendationJSONRoundTrip(t *testing.T) {
	rec := Recommendation{
		Type:         PatternEdge,
		ID:           3,
		EPKeyClass:   "DataStoreProperty",
		EPValueClass: "Value",
		EPValue:      StringValue("LocalFileStore"),
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"EDGE","ID":3,"EPKeyClass":"DataStoreProperty","EPValueClass":"Value","EPValue":"LocalFileStore"}`, string(data))

	var back Recommendation
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, rec, back)
}

func TestRecommendationUnmarshalRejectsFloatValue(t *testing.T) {
	var rec Recommendation
	err := json.Unmarshal([]byte(`{"type":"VERTEX","ID":1,"EPKeyClass":"ParallelismProperty","EPValueClass":"Integer","EPValue":1.5}`), &rec)
	require.Error(t, err)
}
