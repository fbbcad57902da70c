// ABOUTME: Intervention and Habit models for the recommendation catalog
// ABOUTME: Interventions own an ordered habit list joined by intervention ID
package models

import (
	"fmt"
	"sort"
)

// Intervention is one recommendable catalog entry. It is immutable once
// loaded: the catalog index and matcher only ever read it.
type Intervention struct {
	ID         string  `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	Category   string  `json:"category" yaml:"category"`
	Rationale  string  `json:"rationale" yaml:"rationale"`
	SymptomFit string  `json:"symptom_fit" yaml:"symptom_fit"`
	PersonaFit string  `json:"persona_fit" yaml:"persona_fit"`
	DietaryFit string  `json:"dietary_fit" yaml:"dietary_fit"`
	SourceURL  string  `json:"source_url,omitempty" yaml:"source_url"`
	Habits     []Habit `json:"habits" yaml:"habits"`
}

// Habit is one ordered, actionable sub-step belonging to a single
// intervention. Sequence is 1-based and contiguous within one intervention.
type Habit struct {
	InterventionID string `json:"intervention_id" yaml:"-"`
	Sequence       int    `json:"sequence" yaml:"sequence"`
	Name           string `json:"name" yaml:"name"`
	WhyItWorks     string `json:"why_it_works,omitempty" yaml:"why_it_works"`
	HowToApply     string `json:"how_to_apply,omitempty" yaml:"how_to_apply"`
	SourceURL      string `json:"source_url,omitempty" yaml:"source_url"`
}

// HasDescriptiveText reports whether at least one descriptive field is
// non-empty. Every catalog entry must satisfy this before index build.
func (iv *Intervention) HasDescriptiveText() bool {
	return iv.Rationale != "" || iv.SymptomFit != "" || iv.PersonaFit != "" ||
		iv.DietaryFit != "" || iv.Category != ""
}

// SortHabits orders the habit list ascending by sequence number.
// Sort is stable so equal sequences (invalid, but tolerated here) keep
// their original relative order until validation rejects them.
func (iv *Intervention) SortHabits() {
	sort.SliceStable(iv.Habits, func(i, j int) bool {
		return iv.Habits[i].Sequence < iv.Habits[j].Sequence
	})
}

// ValidateHabitOrder checks that habit sequence numbers are unique,
// 1-based, and contiguous.
func (iv *Intervention) ValidateHabitOrder() error {
	seen := make(map[int]bool, len(iv.Habits))
	for _, h := range iv.Habits {
		if h.Sequence < 1 || h.Sequence > len(iv.Habits) {
			return fmt.Errorf("intervention %q: habit sequence %d out of range 1-%d", iv.Name, h.Sequence, len(iv.Habits))
		}
		if seen[h.Sequence] {
			return fmt.Errorf("intervention %q: duplicate habit sequence %d", iv.Name, h.Sequence)
		}
		seen[h.Sequence] = true
	}
	return nil
}
