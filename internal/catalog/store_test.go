// ABOUTME: Tests for the SQLite catalog store
// ABOUTME: Verifies round-trip persistence, insertion order, and full-swap replace
package catalog

import (
	"path/filepath"
	"testing"

	"github.com/florawell/recommend-engine/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleCatalog() []models.Intervention {
	return []models.Intervention{
		{
			ID:         "iv-1",
			Name:       "Seed cycling",
			Category:   "nutrition",
			Rationale:  "Supports hormone balance",
			SymptomFit: "irregular cycles",
			SourceURL:  "https://example.org/seed-cycling",
			Habits: []models.Habit{
				{InterventionID: "iv-1", Sequence: 1, Name: "Flax and pumpkin seeds daily", WhyItWorks: "Lignans"},
				{InterventionID: "iv-1", Sequence: 2, Name: "Switch seeds mid-cycle"},
			},
		},
		{
			ID:        "iv-2",
			Name:      "Sleep hygiene reset",
			Category:  "behavior",
			Rationale: "Consistent sleep timing stabilizes cortisol",
			Habits: []models.Habit{
				{InterventionID: "iv-2", Sequence: 1, Name: "Fixed wake time"},
			},
		},
	}
}

func TestStore_ReplaceAndLoad(t *testing.T) {
	store := openTestStore(t)

	if err := store.ReplaceCatalog(sampleCatalog()); err != nil {
		t.Fatalf("ReplaceCatalog() error = %v", err)
	}

	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}

	loaded, err := store.LoadInterventions()
	if err != nil {
		t.Fatalf("LoadInterventions() error = %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d interventions, want 2", len(loaded))
	}

	// Insertion order survives the round trip.
	if loaded[0].ID != "iv-1" || loaded[1].ID != "iv-2" {
		t.Errorf("order = %s, %s; want iv-1, iv-2", loaded[0].ID, loaded[1].ID)
	}

	first := loaded[0]
	if first.Name != "Seed cycling" || first.Rationale != "Supports hormone balance" {
		t.Errorf("fields lost in round trip: %+v", first)
	}
	if len(first.Habits) != 2 {
		t.Fatalf("got %d habits, want 2", len(first.Habits))
	}
	if first.Habits[0].Sequence != 1 || first.Habits[1].Sequence != 2 {
		t.Errorf("habits not ordered by sequence: %+v", first.Habits)
	}
	if first.Habits[0].WhyItWorks != "Lignans" {
		t.Errorf("habit detail lost: %+v", first.Habits[0])
	}
}

func TestStore_ReplaceIsFullSwap(t *testing.T) {
	store := openTestStore(t)

	if err := store.ReplaceCatalog(sampleCatalog()); err != nil {
		t.Fatalf("ReplaceCatalog() error = %v", err)
	}

	replacement := []models.Intervention{
		{ID: "iv-9", Name: "Hydration protocol", Rationale: "Baseline water intake"},
	}
	if err := store.ReplaceCatalog(replacement); err != nil {
		t.Fatalf("ReplaceCatalog(replacement) error = %v", err)
	}

	loaded, err := store.LoadInterventions()
	if err != nil {
		t.Fatalf("LoadInterventions() error = %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != "iv-9" {
		t.Errorf("replace left stale entries: %+v", loaded)
	}
	if len(loaded[0].Habits) != 0 {
		t.Errorf("old habits survived the swap: %+v", loaded[0].Habits)
	}
}

func TestStore_EmptyCatalog(t *testing.T) {
	store := openTestStore(t)

	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() = %d, want 0 for fresh store", count)
	}

	loaded, err := store.LoadInterventions()
	if err != nil {
		t.Fatalf("LoadInterventions() error = %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("loaded %d interventions from empty store", len(loaded))
	}
}

func TestStore_ReopenPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := store.ReplaceCatalog(sampleCatalog()); err != nil {
		t.Fatalf("ReplaceCatalog() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	count, err := reopened.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Count() after reopen = %d, want 2", count)
	}
}
