package feature

import (
	"fmt"

	"github.com/yunseong/proptune/internal/ep"
)

// Registry assigns dense integer feature identifiers to execution-property
// key pairs. Identifiers are assigned sequentially in registration order, so
// the same property files loaded in the same order always produce the same
// encoding. Decoding is the exact inverse of assignment.
//
// A Registry is built once while loading the DAG property directory and is
// read-only afterwards.
type Registry struct {
	pairs  []ep.KeyPair
	ids    map[ep.KeyPair]int
	values map[string][]string // qualifiedKey -> candidate values for enumerated classes
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		ids:    make(map[ep.KeyPair]int),
		values: make(map[string][]string),
	}
}

// Register assigns the next free feature id to the key pair, or returns the
// existing id if the pair was registered before.
func (r *Registry) Register(pair ep.KeyPair) int {
	if id, ok := r.ids[pair]; ok {
		return id
	}
	id := len(r.pairs)
	r.pairs = append(r.pairs, pair)
	r.ids[pair] = id
	return id
}

// RegisterCandidates records the observed candidate values for an enumerated
// qualified key. Candidates keep their first-seen order; duplicates are
// ignored.
func (r *Registry) RegisterCandidates(qualifiedKey string, candidates []string) {
	existing := r.values[qualifiedKey]
	for _, c := range candidates {
		seen := false
		for _, e := range existing {
			if e == c {
				seen = true
				break
			}
		}
		if !seen {
			existing = append(existing, c)
		}
	}
	r.values[qualifiedKey] = existing
}

// Decode resolves a feature id back to its key pair. Out-of-range ids fail
// with *ResolutionError.
func (r *Registry) Decode(featureID int) (ep.KeyPair, error) {
	if featureID < 0 || featureID >= len(r.pairs) {
		return ep.KeyPair{}, &ResolutionError{FeatureID: featureID, Size: len(r.pairs)}
	}
	return r.pairs[featureID], nil
}

// Encode returns the feature id assigned to the pair.
func (r *Registry) Encode(pair ep.KeyPair) (int, error) {
	id, ok := r.ids[pair]
	if !ok {
		return 0, fmt.Errorf("key pair not registered: %+v", pair)
	}
	return id, nil
}

// Candidates returns the candidate values recorded for a qualified key.
// The returned slice is nil when the key has no enumerated candidates.
func (r *Registry) Candidates(qualifiedKey string) []string {
	return r.values[qualifiedKey]
}

// Size returns the number of registered features.
func (r *Registry) Size() int {
	return len(r.pairs)
}
