// ABOUTME: Matcher ranks catalog interventions against a user embedding
// ABOUTME: Cosine similarity, stable descending sort, inclusive minimum threshold
package core

import (
	"math"
	"sort"

	"github.com/florawell/recommend-engine/internal/models"
)

// Match pairs an intervention with the similarity score it achieved.
type Match struct {
	Intervention *models.Intervention
	Score        float64
}

// MatchResult is the outcome of ranking one user vector against an index.
// Matches holds the qualifying candidates (score >= minSimilarity), best
// first, truncated to topK. Best is the highest-scoring candidate
// regardless of threshold so callers can report "closest was below
// cutoff"; it is nil only when the catalog is empty.
type MatchResult struct {
	Matches []Match
	Best    *Match
}

// Qualified reports whether at least one candidate cleared the threshold.
func (r MatchResult) Qualified() bool { return len(r.Matches) > 0 }

// MatchInterventions scores the user vector against every cached
// candidate embedding. Candidates are ordered by score descending; ties
// keep catalog insertion order (stable sort), so identical inputs always
// produce identical output. A score exactly equal to minSimilarity
// qualifies. A zero user vector or empty catalog yields an empty result,
// never an error.
func MatchInterventions(userVector []float64, ix *Index, minSimilarity float64, topK int) MatchResult {
	if ix.Len() == 0 {
		return MatchResult{}
	}

	scored := make([]Match, 0, ix.Len())
	for i := range ix.entries {
		e := &ix.entries[i]
		scored = append(scored, Match{
			Intervention: e.intervention,
			Score:        cosineSimilarity(userVector, e.vector),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	best := scored[0]

	qualifying := scored
	for i, m := range qualifying {
		if m.Score < minSimilarity {
			qualifying = qualifying[:i]
			break
		}
	}
	if topK > 0 && len(qualifying) > topK {
		qualifying = qualifying[:topK]
	}

	return MatchResult{Matches: qualifying, Best: &best}
}

// cosineSimilarity computes dot(a,b) / (||a|| * ||b||), in [-1, 1].
// Mismatched dimensions or a zero vector score 0.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
