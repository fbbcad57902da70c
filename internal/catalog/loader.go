// ABOUTME: YAML seed-file loader for the intervention catalog
// ABOUTME: Assigns missing IDs, normalizes habit order, enforces catalog invariants
package catalog

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/florawell/recommend-engine/internal/models"
)

// catalogFile is the YAML document shape of a catalog seed file.
type catalogFile struct {
	Interventions []models.Intervention `yaml:"interventions"`
}

// LoadCatalogFile parses a catalog seed YAML file and returns validated
// interventions in file order. Interventions without an ID get a fresh
// uuid; habits are sorted by sequence and stamped with their owner's ID.
func LoadCatalogFile(path string) ([]models.Intervention, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses and validates catalog YAML content.
func ParseCatalog(data []byte) ([]models.Intervention, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog YAML: %w", err)
	}
	if len(file.Interventions) == 0 {
		return nil, fmt.Errorf("catalog file contains no interventions")
	}

	seen := make(map[string]bool, len(file.Interventions))
	for i := range file.Interventions {
		iv := &file.Interventions[i]

		if iv.Name == "" {
			return nil, fmt.Errorf("intervention %d: name is required", i+1)
		}
		if !iv.HasDescriptiveText() {
			return nil, fmt.Errorf("intervention %q: at least one descriptive field is required", iv.Name)
		}

		if iv.ID == "" {
			iv.ID = uuid.New().String()
		}
		if seen[iv.ID] {
			return nil, fmt.Errorf("intervention %q: duplicate ID %s", iv.Name, iv.ID)
		}
		seen[iv.ID] = true

		iv.SortHabits()
		if err := iv.ValidateHabitOrder(); err != nil {
			return nil, err
		}
		for j := range iv.Habits {
			h := &iv.Habits[j]
			if h.Name == "" {
				return nil, fmt.Errorf("intervention %q: habit %d: name is required", iv.Name, h.Sequence)
			}
			h.InterventionID = iv.ID
		}
	}

	return file.Interventions, nil
}
