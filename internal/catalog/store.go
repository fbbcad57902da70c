// ABOUTME: SQLite-backed catalog store for interventions and their habits
// ABOUTME: Uses modernc.org/sqlite for pure-Go SQLite support; full-swap replace on reload
package catalog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/florawell/recommend-engine/internal/models"
	_ "modernc.org/sqlite"
)

// Schema contains all SQL statements for catalog database initialization
const Schema = `
-- Interventions table (catalog entries)
CREATE TABLE IF NOT EXISTS interventions (
    id TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    category TEXT,
    rationale TEXT,
    symptom_fit TEXT,
    persona_fit TEXT,
    dietary_fit TEXT,
    source_url TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Habits table (ordered sub-steps owned by one intervention)
CREATE TABLE IF NOT EXISTS habits (
    intervention_id TEXT NOT NULL REFERENCES interventions(id) ON DELETE CASCADE,
    sequence INTEGER NOT NULL,
    name TEXT NOT NULL,
    why_it_works TEXT,
    how_to_apply TEXT,
    source_url TEXT,
    PRIMARY KEY (intervention_id, sequence)
);

CREATE INDEX IF NOT EXISTS idx_interventions_position ON interventions(position);
CREATE INDEX IF NOT EXISTS idx_habits_intervention ON habits(intervention_id);
`

// DefaultDataDir returns the default data directory following XDG spec.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".local/share/florawell"
		}
		dataHome = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataHome, "florawell")
}

// DefaultDBPath returns the default catalog database file path
func DefaultDBPath() string {
	return filepath.Join(DefaultDataDir(), "catalog.db")
}

// Store persists the intervention catalog in SQLite
type Store struct {
	conn *sql.DB
	path string
}

// Open opens or creates a catalog database at the given path
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// WAL mode for better concurrency
	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := conn.Exec(Schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{conn: conn, path: path}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}

// Count returns the number of interventions in the catalog
func (s *Store) Count() (int, error) {
	var n int
	if err := s.conn.QueryRow(`SELECT COUNT(*) FROM interventions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting interventions: %w", err)
	}
	return n, nil
}

// ReplaceCatalog replaces the entire stored catalog in one transaction.
// Position records catalog insertion order, which the matcher uses for
// deterministic tie-breaking.
func (s *Store) ReplaceCatalog(interventions []models.Intervention) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning catalog replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM habits`); err != nil {
		return fmt.Errorf("clearing habits: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM interventions`); err != nil {
		return fmt.Errorf("clearing interventions: %w", err)
	}

	for pos, iv := range interventions {
		_, err := tx.Exec(`
			INSERT INTO interventions (id, position, name, category, rationale, symptom_fit, persona_fit, dietary_fit, source_url)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, iv.ID, pos, iv.Name, iv.Category, iv.Rationale, iv.SymptomFit, iv.PersonaFit, iv.DietaryFit, iv.SourceURL)
		if err != nil {
			return fmt.Errorf("inserting intervention %q: %w", iv.Name, err)
		}

		for _, h := range iv.Habits {
			_, err := tx.Exec(`
				INSERT INTO habits (intervention_id, sequence, name, why_it_works, how_to_apply, source_url)
				VALUES (?, ?, ?, ?, ?, ?)
			`, iv.ID, h.Sequence, h.Name, h.WhyItWorks, h.HowToApply, h.SourceURL)
			if err != nil {
				return fmt.Errorf("inserting habit %d of %q: %w", h.Sequence, iv.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing catalog replace: %w", err)
	}
	return nil
}

// LoadInterventions returns the full catalog in insertion order, each
// intervention with its habits ordered by sequence.
func (s *Store) LoadInterventions() ([]models.Intervention, error) {
	rows, err := s.conn.Query(`
		SELECT id, name, category, rationale, symptom_fit, persona_fit, dietary_fit, source_url
		FROM interventions
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("loading interventions: %w", err)
	}
	defer rows.Close()

	var interventions []models.Intervention
	for rows.Next() {
		var iv models.Intervention
		if err := rows.Scan(&iv.ID, &iv.Name, &iv.Category, &iv.Rationale,
			&iv.SymptomFit, &iv.PersonaFit, &iv.DietaryFit, &iv.SourceURL); err != nil {
			return nil, fmt.Errorf("scanning intervention: %w", err)
		}
		interventions = append(interventions, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating interventions: %w", err)
	}

	for i := range interventions {
		habits, err := s.loadHabits(interventions[i].ID)
		if err != nil {
			return nil, err
		}
		interventions[i].Habits = habits
	}

	return interventions, nil
}

func (s *Store) loadHabits(interventionID string) ([]models.Habit, error) {
	rows, err := s.conn.Query(`
		SELECT intervention_id, sequence, name, why_it_works, how_to_apply, source_url
		FROM habits
		WHERE intervention_id = ?
		ORDER BY sequence ASC
	`, interventionID)
	if err != nil {
		return nil, fmt.Errorf("loading habits for %s: %w", interventionID, err)
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		var h models.Habit
		if err := rows.Scan(&h.InterventionID, &h.Sequence, &h.Name,
			&h.WhyItWorks, &h.HowToApply, &h.SourceURL); err != nil {
			return nil, fmt.Errorf("scanning habit: %w", err)
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}
