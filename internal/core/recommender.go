// ABOUTME: Recommender orchestrates normalize -> embed -> match -> result
// ABOUTME: Stateless per request; the shared index is swapped atomically on reload
package core

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/florawell/recommend-engine/internal/models"
)

// Reason explains why a recommendation request produced no match.
type Reason string

const (
	// ReasonMatched means a candidate cleared the similarity threshold.
	ReasonMatched Reason = "matched"
	// ReasonEmptyIntake means the intake normalized to empty text; the
	// embedding provider was never called.
	ReasonEmptyIntake Reason = "empty_intake"
	// ReasonEmptyCatalog means the index holds no interventions.
	ReasonEmptyCatalog Reason = "empty_catalog"
	// ReasonBelowThreshold means the closest candidate scored under the
	// configured minimum similarity.
	ReasonBelowThreshold Reason = "below_threshold"
)

// Recommendation is a successful match: the chosen intervention with its
// habits in ascending sequence order and the similarity score achieved.
type Recommendation struct {
	Intervention *models.Intervention `json:"intervention"`
	Score        float64              `json:"score"`
	Habits       []models.Habit       `json:"habits"`
}

// Result is the outcome of one recommendation request. Recommendation is
// nil on a no-match outcome; BestScore and BestCandidate then carry the
// closest sub-threshold candidate for diagnostics.
type Result struct {
	Reason         Reason          `json:"reason"`
	Recommendation *Recommendation `json:"recommendation,omitempty"`
	BestScore      float64         `json:"best_score"`
	BestCandidate  string          `json:"best_candidate,omitempty"`
	Threshold      float64         `json:"threshold"`
}

// Recommender runs the recommendation pipeline against a shared,
// read-only catalog index. The index reference is swapped atomically on
// catalog reload; in-flight requests finish against their snapshot.
type Recommender struct {
	embedder      Embedder
	index         atomic.Pointer[Index]
	minSimilarity float64
}

// NewRecommender creates a Recommender over the given index.
func NewRecommender(embedder Embedder, index *Index, minSimilarity float64) *Recommender {
	r := &Recommender{
		embedder:      embedder,
		minSimilarity: minSimilarity,
	}
	r.index.Store(index)
	return r
}

// SwapIndex replaces the catalog index for subsequent requests.
func (r *Recommender) SwapIndex(index *Index) {
	r.index.Store(index)
}

// Index returns the index currently serving requests.
func (r *Recommender) Index() *Index {
	return r.index.Load()
}

// Embedder returns the embedding provider the recommender was built with.
func (r *Recommender) Embedder() Embedder {
	return r.embedder
}

// MinSimilarity returns the configured confidence cutoff.
func (r *Recommender) MinSimilarity() float64 {
	return r.minSimilarity
}

// Recommend runs one intake record through the full pipeline. An intake
// that normalizes to empty text short-circuits before the embedding
// provider is called. Provider failures propagate to the caller, which
// owns retry policy; everything below threshold is a normal no-match
// Result, not an error.
func (r *Recommender) Recommend(ctx context.Context, intake *models.IntakeRecord) (*Result, error) {
	result := &Result{Threshold: r.minSimilarity}

	text := NormalizeIntake(intake)
	if text == "" {
		result.Reason = ReasonEmptyIntake
		return result, nil
	}

	vector, err := r.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding intake text: %w", err)
	}

	matched := MatchInterventions(vector, r.index.Load(), r.minSimilarity, 1)
	if matched.Best == nil {
		result.Reason = ReasonEmptyCatalog
		return result, nil
	}

	result.BestScore = matched.Best.Score
	result.BestCandidate = matched.Best.Intervention.Name

	if !matched.Qualified() {
		result.Reason = ReasonBelowThreshold
		return result, nil
	}

	chosen := matched.Matches[0]
	habits := make([]models.Habit, len(chosen.Intervention.Habits))
	copy(habits, chosen.Intervention.Habits)
	sort.SliceStable(habits, func(i, j int) bool { return habits[i].Sequence < habits[j].Sequence })

	result.Reason = ReasonMatched
	result.Recommendation = &Recommendation{
		Intervention: chosen.Intervention,
		Score:        chosen.Score,
		Habits:       habits,
	}
	return result, nil
}
