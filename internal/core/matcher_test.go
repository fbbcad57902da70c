// ABOUTME: Tests for cosine-similarity matching and ranking
// ABOUTME: Covers threshold boundary, tie stability, and empty-input edge cases
package core

import (
	"context"
	"math"
	"testing"

	"github.com/florawell/recommend-engine/internal/models"
)

// buildTestIndex builds an index whose candidate vectors are fixed by the
// fake embedder, in the given order.
func buildTestIndex(t *testing.T, vectors ...[]float64) *Index {
	t.Helper()

	embedder := &fakeEmbedder{vectors: map[string][]float64{}}
	interventions := make([]models.Intervention, len(vectors))
	for i, v := range vectors {
		interventions[i] = models.Intervention{
			ID:        string(rune('a' + i)),
			Name:      "Intervention " + string(rune('A'+i)),
			Rationale: "candidate " + string(rune('a'+i)),
		}
		embedder.vectors[EmbeddingText(&interventions[i])] = v
	}

	ix, err := BuildIndex(context.Background(), embedder, interventions)
	if err != nil {
		t.Fatalf("BuildIndex() error = %v", err)
	}
	return ix
}

func TestMatchInterventions_RanksDescending(t *testing.T) {
	ix := buildTestIndex(t,
		[]float64{0, 1, 0},   // orthogonal to query
		[]float64{1, 0, 0},   // identical to query
		[]float64{0.9, 0.1, 0}, // close to query
	)

	result := MatchInterventions([]float64{1, 0, 0}, ix, 0.0, 3)
	if len(result.Matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(result.Matches))
	}

	if result.Matches[0].Intervention.ID != "b" {
		t.Errorf("top match = %s, want b (identical vector)", result.Matches[0].Intervention.ID)
	}
	for i := 1; i < len(result.Matches); i++ {
		if result.Matches[i].Score > result.Matches[i-1].Score {
			t.Errorf("matches not sorted: score[%d]=%.4f > score[%d]=%.4f",
				i, result.Matches[i].Score, i-1, result.Matches[i-1].Score)
		}
	}

	if result.Best == nil || result.Best.Intervention.ID != "b" {
		t.Error("Best should be the identical-vector candidate")
	}
	if math.Abs(result.Best.Score-1.0) > 0.0001 {
		t.Errorf("Best.Score = %.6f, want 1.0", result.Best.Score)
	}
}

func TestMatchInterventions_ThresholdBoundary(t *testing.T) {
	// Candidate at exactly 45 degrees from the query: cos = sqrt(2)/2.
	boundary := math.Sqrt2 / 2
	ix := buildTestIndex(t, []float64{1, 1, 0})
	query := []float64{1, 0, 0}

	// Exactly equal similarity qualifies.
	result := MatchInterventions(query, ix, boundary, 1)
	if !result.Qualified() {
		t.Errorf("score == minSimilarity must qualify (score %.6f)", result.Best.Score)
	}

	// Epsilon above the achieved score excludes it.
	result = MatchInterventions(query, ix, boundary+1e-9, 1)
	if result.Qualified() {
		t.Error("score below minSimilarity must not qualify")
	}
	if result.Best == nil {
		t.Fatal("Best must be set even when nothing qualifies")
	}
	if math.Abs(result.Best.Score-boundary) > 1e-9 {
		t.Errorf("Best.Score = %.9f, want %.9f", result.Best.Score, boundary)
	}
}

func TestMatchInterventions_TieBreakByCatalogOrder(t *testing.T) {
	// Two identical candidate vectors: scores tie exactly.
	ix := buildTestIndex(t,
		[]float64{1, 1, 0},
		[]float64{1, 1, 0},
		[]float64{0, 0, 1},
	)

	for run := 0; run < 10; run++ {
		result := MatchInterventions([]float64{1, 0, 0}, ix, 0.0, 2)
		if len(result.Matches) != 2 {
			t.Fatalf("got %d matches, want 2", len(result.Matches))
		}
		if result.Matches[0].Intervention.ID != "a" || result.Matches[1].Intervention.ID != "b" {
			t.Fatalf("run %d: tie order = %s, %s; want a, b (catalog order)",
				run, result.Matches[0].Intervention.ID, result.Matches[1].Intervention.ID)
		}
	}
}

func TestMatchInterventions_TopKTruncation(t *testing.T) {
	ix := buildTestIndex(t,
		[]float64{1, 0, 0},
		[]float64{0.9, 0.1, 0},
		[]float64{0.8, 0.2, 0},
	)

	result := MatchInterventions([]float64{1, 0, 0}, ix, 0.0, 1)
	if len(result.Matches) != 1 {
		t.Errorf("topK=1 returned %d matches", len(result.Matches))
	}

	result = MatchInterventions([]float64{1, 0, 0}, ix, 0.0, 10)
	if len(result.Matches) != 3 {
		t.Errorf("topK=10 returned %d matches, want all 3", len(result.Matches))
	}
}

func TestMatchInterventions_EmptyCatalog(t *testing.T) {
	ix := buildTestIndex(t)

	result := MatchInterventions([]float64{1, 0, 0}, ix, 0.5, 1)
	if result.Qualified() {
		t.Error("empty catalog must not qualify")
	}
	if result.Best != nil {
		t.Error("empty catalog has no best candidate")
	}
}

func TestMatchInterventions_ZeroUserVector(t *testing.T) {
	ix := buildTestIndex(t, []float64{1, 0, 0})

	result := MatchInterventions([]float64{0, 0, 0}, ix, 0.5, 1)
	if result.Qualified() {
		t.Error("zero vector must not clear a positive threshold")
	}
	if result.Best == nil || result.Best.Score != 0.0 {
		t.Error("zero vector scores 0 against every candidate")
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        []float64
		b        []float64
		expected float64
		delta    float64
	}{
		{
			name:     "identical vectors",
			a:        []float64{1.0, 0.0, 0.0},
			b:        []float64{1.0, 0.0, 0.0},
			expected: 1.0,
			delta:    0.001,
		},
		{
			name:     "orthogonal vectors",
			a:        []float64{1.0, 0.0, 0.0},
			b:        []float64{0.0, 1.0, 0.0},
			expected: 0.0,
			delta:    0.001,
		},
		{
			name:     "opposite vectors",
			a:        []float64{1.0, 0.0, 0.0},
			b:        []float64{-1.0, 0.0, 0.0},
			expected: -1.0,
			delta:    0.001,
		},
		{
			name:     "similar vectors",
			a:        []float64{1.0, 0.0, 0.0},
			b:        []float64{0.9, 0.1, 0.0},
			expected: 0.995,
			delta:    0.01,
		},
		{
			name:     "mismatched dimensions",
			a:        []float64{1.0, 0.0},
			b:        []float64{1.0, 0.0, 0.0},
			expected: 0.0,
			delta:    0.0001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cosineSimilarity(tt.a, tt.b)
			if math.Abs(result-tt.expected) > tt.delta {
				t.Errorf("cosineSimilarity(%v, %v) = %.4f, expected %.4f (delta %.4f)",
					tt.a, tt.b, result, tt.expected, tt.delta)
			}
		})
	}
}
