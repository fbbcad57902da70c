// ABOUTME: Normalizer flattens an intake record into one labeled text block
// ABOUTME: Output feeds the embedding provider; deterministic for identical input
package core

import (
	"fmt"
	"strings"

	"github.com/florawell/recommend-engine/internal/models"
)

// segmentSeparator joins the labeled segments of normalized intake text.
const segmentSeparator = " | "

// NormalizeIntake converts an intake record into a single labeled text
// block for embedding. Fields render in a fixed order (profile, symptoms,
// prior interventions, prior habits, dietary preferences) as
// "Label: value" segments; absent fields are omitted, never rendered
// empty. Identical input always yields byte-identical output.
func NormalizeIntake(intake *models.IntakeRecord) string {
	if intake == nil {
		return ""
	}

	var segments []string

	// Profile
	switch {
	case intake.Name != "" && intake.Age > 0:
		segments = append(segments, fmt.Sprintf("Profile: %s, age %d", intake.Name, intake.Age))
	case intake.Name != "":
		segments = append(segments, "Profile: "+intake.Name)
	case intake.Age > 0:
		segments = append(segments, fmt.Sprintf("Profile: age %d", intake.Age))
	}

	// Symptoms
	if len(intake.Symptoms) > 0 {
		segments = append(segments, "Symptoms: "+strings.Join(intake.Symptoms, ", "))
	}
	if intake.SymptomNotes != "" {
		segments = append(segments, "Symptom notes: "+intake.SymptomNotes)
	}

	// Prior interventions, split by whether they helped
	var helped, didNotHelp []string
	for _, pi := range intake.PriorInterventions {
		if pi.Name == "" {
			continue
		}
		if pi.Helped {
			helped = append(helped, pi.Name)
		} else {
			didNotHelp = append(didNotHelp, pi.Name)
		}
	}
	if len(helped) > 0 {
		segments = append(segments, "Tried and helped: "+strings.Join(helped, ", "))
	}
	if len(didNotHelp) > 0 {
		segments = append(segments, "Tried without success: "+strings.Join(didNotHelp, ", "))
	}
	if intake.InterventionNotes != "" {
		segments = append(segments, "Intervention notes: "+intake.InterventionNotes)
	}

	// Prior habits
	if len(intake.PriorHabits) > 0 {
		segments = append(segments, "Current habits: "+strings.Join(intake.PriorHabits, ", "))
	}
	if intake.HabitNotes != "" {
		segments = append(segments, "Habit notes: "+intake.HabitNotes)
	}

	// Dietary preferences
	if len(intake.DietaryPreferences) > 0 {
		segments = append(segments, "Dietary preferences: "+strings.Join(intake.DietaryPreferences, ", "))
	}
	if intake.DietaryNotes != "" {
		segments = append(segments, "Dietary notes: "+intake.DietaryNotes)
	}

	return strings.Join(segments, segmentSeparator)
}
