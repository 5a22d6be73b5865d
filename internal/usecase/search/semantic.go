package search

import (
	"math"

	"github.com/kailas-cloud/memdex/internal/domain"
)

// HybridWeights combines lexical and semantic scores. The asymmetric split
// deliberately favors semantic matches when both signals are present while
// still surfacing lexical-only hits at reduced rank. Tuning parameters, not
// invariants.
type HybridWeights struct {
	Lexical  float64
	Semantic float64
}

// DefaultHybridWeights returns the default 0.4/0.6 lexical/semantic split.
func DefaultHybridWeights() HybridWeights {
	return HybridWeights{Lexical: 0.4, Semantic: 0.6}
}

// DefaultSemanticThreshold is the minimum cosine similarity for a
// semantic-only hit to be kept.
const DefaultSemanticThreshold = 0.3

// cosineSimilarity computes dot(a,b) / (|a| * |b|). Returns 0 when either
// vector has zero norm. A length mismatch is a configuration fault (two
// embedding providers active at once) and fails the call.
func cosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, domain.NewDimensionMismatch(len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// combineScores merges per-document lexical and semantic scores under the
// hybrid weighting. Documents present in both sets get
// lexical*wl + semantic*ws; single-method hits keep their score scaled by
// that method's weight.
func combineScores(lexical, semantic map[string]float64, w HybridWeights) map[string]float64 {
	combined := make(map[string]float64, len(lexical)+len(semantic))
	for id, ls := range lexical {
		if ss, ok := semantic[id]; ok {
			combined[id] = ls*w.Lexical + ss*w.Semantic
		} else {
			combined[id] = ls * w.Lexical
		}
	}
	for id, ss := range semantic {
		if _, ok := lexical[id]; !ok {
			combined[id] = ss * w.Semantic
		}
	}
	return combined
}
