package ep

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Target patterns name the kind of DAG element a recommendation applies to.
// The optimizer pass on the consuming side resolves (pattern, ID) back to a
// vertex or an edge of the IR DAG.
const (
	PatternVertex = "VERTEX"
	PatternEdge   = "EDGE"
)

// KeyPair is the decoded form of a feature identifier: which DAG element is
// targeted, and which execution property of it.
type KeyPair struct {
	// VertexID identifies the targeted vertex or edge within the DAG.
	VertexID int `json:"vertex_id"`

	// QualifiedKey has the literal form "KeyClass/ValueClass", e.g.
	// "ParallelismProperty/Integer". The value class may be absent for
	// marker properties that carry no typed payload.
	QualifiedKey string `json:"qualified_key"`

	// Pattern is PatternVertex or PatternEdge.
	Pattern string `json:"pattern"`
}

// SplitQualifiedKey splits a qualified key into its key class and value
// class. The value class defaults to the empty string when absent.
func SplitQualifiedKey(qualifiedKey string) (keyClass, valueClass string) {
	keyClass, valueClass, _ = strings.Cut(qualifiedKey, "/")
	return keyClass, valueClass
}

// JoinQualifiedKey is the inverse of SplitQualifiedKey.
func JoinQualifiedKey(keyClass, valueClass string) string {
	if valueClass == "" {
		return keyClass
	}
	return keyClass + "/" + valueClass
}

// Recommendation is one tuning decision: set an execution property of one
// DAG element to a concrete value. The JSON field names are the wire
// contract with the consuming optimizer pass and must not change.
type Recommendation struct {
	Type         string `json:"type"`
	ID           int    `json:"ID"`
	EPKeyClass   string `json:"EPKeyClass"`
	EPValueClass string `json:"EPValueClass"`
	EPValue      Value  `json:"EPValue"`
}

// QualifiedKey reconstructs the qualified key the record was resolved from.
func (r Recommendation) QualifiedKey() string {
	return JoinQualifiedKey(r.EPKeyClass, r.EPValueClass)
}

// UnmarshalJSON implements json.Unmarshaler for Recommendation. Needed
// because EPValue is an interface and must be decoded by shape.
func (r *Recommendation) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type         string          `json:"type"`
		ID           int             `json:"ID"`
		EPKeyClass   string          `json:"EPKeyClass"`
		EPValueClass string          `json:"EPValueClass"`
		EPValue      json.RawMessage `json:"EPValue"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	value, err := UnmarshalValue(raw.EPValue)
	if err != nil {
		return fmt.Errorf("recommendation EPValue: %w", err)
	}

	r.Type = raw.Type
	r.ID = raw.ID
	r.EPKeyClass = raw.EPKeyClass
	r.EPValueClass = raw.EPValueClass
	r.EPValue = value
	return nil
}
