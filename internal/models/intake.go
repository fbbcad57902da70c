// ABOUTME: IntakeRecord models the user-supplied matching query
// ABOUTME: Every field is optional; the normalizer skips whatever is absent
package models

// PriorIntervention is an intervention the user has already tried,
// with whether it helped.
type PriorIntervention struct {
	Name   string `json:"name"`
	Helped bool   `json:"helped"`
}

// IntakeRecord is the structured intake used as the query for matching.
// Callers make no normalization guarantees; every field may be absent.
type IntakeRecord struct {
	Name               string              `json:"name,omitempty"`
	Age                int                 `json:"age,omitempty"`
	Symptoms           []string            `json:"symptoms,omitempty"`
	SymptomNotes       string              `json:"symptom_notes,omitempty"`
	PriorInterventions []PriorIntervention `json:"prior_interventions,omitempty"`
	InterventionNotes  string              `json:"intervention_notes,omitempty"`
	PriorHabits        []string            `json:"prior_habits,omitempty"`
	HabitNotes         string              `json:"habit_notes,omitempty"`
	DietaryPreferences []string            `json:"dietary_preferences,omitempty"`
	DietaryNotes       string              `json:"dietary_notes,omitempty"`
}

// IsEmpty reports whether the record carries no usable content at all.
func (r *IntakeRecord) IsEmpty() bool {
	return r == nil || (r.Name == "" && r.Age == 0 &&
		len(r.Symptoms) == 0 && r.SymptomNotes == "" &&
		len(r.PriorInterventions) == 0 && r.InterventionNotes == "" &&
		len(r.PriorHabits) == 0 && r.HabitNotes == "" &&
		len(r.DietaryPreferences) == 0 && r.DietaryNotes == "")
}
