// Package recommend turns a merged importance mapping into ordered
// recommendation records by resolving each feature back to the execution
// property it encodes.
package recommend

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/yunseong/proptune/internal/ep"
	"github.com/yunseong/proptune/internal/feature"
	"github.com/yunseong/proptune/internal/model"
)

// Synthesizer resolves merged importance entries into recommendations.
type Synthesizer struct {
	registry *feature.Registry
}

// New creates a Synthesizer over the given feature registry.
func New(registry *feature.Registry) *Synthesizer {
	return &Synthesizer{registry: registry}
}

// Synthesize walks the merged mapping in deterministic order (features by
// numeric id, split labels lexicographic) and produces one explanation per
// resolvable entry plus one record per entry with a derivable value.
//
// An entry whose feature id cannot be resolved is skipped on its own: one
// malformed feature must not discard the rest of the run. An entry with no
// derivable value keeps its explanation but emits no record.
func (s *Synthesizer) Synthesize(merged model.ImportanceMapping) ([]string, []ep.Recommendation) {
	var explanations []string
	var records []ep.Recommendation

	for _, featureKey := range merged.SortedFeatureKeys() {
		featureID, err := model.ParseFeatureKey(featureKey)
		if err != nil {
			slog.Warn("skipping malformed feature key", "key", featureKey, "error", err)
			continue
		}

		pair, err := s.registry.Decode(featureID)
		if err != nil {
			slog.Warn("skipping unresolvable feature", "feature_id", featureID, "error", err)
			continue
		}
		keyClass, valueClass := ep.SplitQualifiedKey(pair.QualifiedKey)

		for _, label := range merged.SortedSplitLabels(featureKey) {
			rawValue := merged[featureKey][label]

			direction := "smaller"
			if rawValue > 0 {
				direction = "greater"
			}
			explanations = append(explanations, fmt.Sprintf("%s should be %s (%s) than %s",
				pair.QualifiedKey, strconv.FormatFloat(rawValue, 'g', -1, 64), direction, label))

			value, ok := s.registry.DeriveValue(pair.QualifiedKey, label, rawValue)
			if !ok {
				slog.Debug("no derivable value", "qualified_key", pair.QualifiedKey, "split", label)
				continue
			}

			records = append(records, ep.Recommendation{
				Type:         pair.Pattern,
				ID:           pair.VertexID,
				EPKeyClass:   keyClass,
				EPValueClass: valueClass,
				EPValue:      value,
			})
		}
	}

	return explanations, records
}
