// ABOUTME: CatalogIndex caches one embedding per catalog intervention
// ABOUTME: Built atomically at startup; immutable and lock-free to read afterwards
package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/florawell/recommend-engine/internal/models"
)

// Embedder is the single external-dependency boundary of the engine.
// internal/llm.Client satisfies it; tests substitute fakes.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float64, error)
}

// candidateField names one descriptive field of an intervention with the
// display label used when building its embedding text. Field identity is
// this table, never the display string, so labels can be reworded without
// touching any lookup logic.
type candidateField struct {
	label string
	value func(*models.Intervention) string
}

// candidateFields fixes the order in which descriptive fields are
// concatenated. Mirrors the normalizer's "Label: value" pattern so that
// intake text and candidate text live in the same textual register.
var candidateFields = []candidateField{
	{"Intervention", func(iv *models.Intervention) string { return iv.Name }},
	{"Category", func(iv *models.Intervention) string { return iv.Category }},
	{"Rationale", func(iv *models.Intervention) string { return iv.Rationale }},
	{"Helps with", func(iv *models.Intervention) string { return iv.SymptomFit }},
	{"Good fit for", func(iv *models.Intervention) string { return iv.PersonaFit }},
	{"Dietary angle", func(iv *models.Intervention) string { return iv.DietaryFit }},
}

// EmbeddingText builds the text embedded for one intervention:
// "Label: value" segments in fixed field order, empty fields skipped.
func EmbeddingText(iv *models.Intervention) string {
	var segments []string
	for _, f := range candidateFields {
		if v := f.value(iv); v != "" {
			segments = append(segments, f.label+": "+v)
		}
	}
	return strings.Join(segments, segmentSeparator)
}

// IndexBuildError reports a failed index build. The previous index, if
// any, remains valid; a partially built index is never exposed.
type IndexBuildError struct {
	InterventionID string
	Err            error
}

func (e *IndexBuildError) Error() string {
	return fmt.Sprintf("building catalog index: intervention %s: %v", e.InterventionID, e.Err)
}

func (e *IndexBuildError) Unwrap() error { return e.Err }

// indexEntry pairs one intervention with its cached embedding.
type indexEntry struct {
	intervention *models.Intervention
	vector       []float64
}

// Index holds the catalog interventions and one cached embedding per
// entry, in catalog insertion order. It is immutable after BuildIndex
// returns, so concurrent readers need no locking. Refreshing the catalog
// means building a new Index and swapping the reference.
type Index struct {
	entries []indexEntry
	byID    map[string]int
}

// BuildIndex embeds every intervention exactly once and returns the
// completed index. The build is atomic: if the embedder fails for any
// intervention, no index is returned and nothing is cached.
func BuildIndex(ctx context.Context, embedder Embedder, interventions []models.Intervention) (*Index, error) {
	ix := &Index{
		entries: make([]indexEntry, 0, len(interventions)),
		byID:    make(map[string]int, len(interventions)),
	}

	for i := range interventions {
		iv := &interventions[i]
		if !iv.HasDescriptiveText() {
			return nil, &IndexBuildError{InterventionID: iv.ID, Err: fmt.Errorf("no descriptive text to embed")}
		}
		if _, dup := ix.byID[iv.ID]; dup {
			return nil, &IndexBuildError{InterventionID: iv.ID, Err: fmt.Errorf("duplicate intervention ID")}
		}

		vector, err := embedder.EmbedText(ctx, EmbeddingText(iv))
		if err != nil {
			return nil, &IndexBuildError{InterventionID: iv.ID, Err: err}
		}

		ix.byID[iv.ID] = len(ix.entries)
		ix.entries = append(ix.entries, indexEntry{intervention: iv, vector: vector})
	}

	return ix, nil
}

// Len returns the number of indexed interventions.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.entries)
}

// EmbeddingFor returns the cached embedding for an intervention ID.
func (ix *Index) EmbeddingFor(interventionID string) ([]float64, bool) {
	if ix == nil {
		return nil, false
	}
	i, ok := ix.byID[interventionID]
	if !ok {
		return nil, false
	}
	return ix.entries[i].vector, true
}

// Interventions returns the indexed interventions in insertion order.
func (ix *Index) Interventions() []*models.Intervention {
	if ix == nil {
		return nil
	}
	out := make([]*models.Intervention, len(ix.entries))
	for i, e := range ix.entries {
		out[i] = e.intervention
	}
	return out
}
