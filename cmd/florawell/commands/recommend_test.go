// ABOUTME: Tests for the recommend command's intake parsing and output shaping
// ABOUTME: Exercises file/stdin input and result rendering without a live provider

package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/florawell/recommend-engine/internal/core"
	"github.com/florawell/recommend-engine/internal/models"
	"github.com/spf13/cobra"
)

func TestReadIntake_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intake.json")
	content := `{"symptoms": ["fatigue"], "age": 34}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	intake, err := readIntake(path, nil)
	if err != nil {
		t.Fatalf("readIntake() error = %v", err)
	}
	if intake.Age != 34 || len(intake.Symptoms) != 1 {
		t.Errorf("intake = %+v, want age 34 and one symptom", intake)
	}
}

func TestReadIntake_FromStdin(t *testing.T) {
	stdin := strings.NewReader(`{"dietary_preferences": ["vegetarian"]}`)

	intake, err := readIntake("", stdin)
	if err != nil {
		t.Fatalf("readIntake() error = %v", err)
	}
	if len(intake.DietaryPreferences) != 1 {
		t.Errorf("intake = %+v, want one dietary preference", intake)
	}
}

func TestReadIntake_InvalidJSON(t *testing.T) {
	if _, err := readIntake("", strings.NewReader("not json")); err == nil {
		t.Fatal("readIntake() expected error for invalid JSON")
	}
}

func TestReadIntake_MissingFile(t *testing.T) {
	if _, err := readIntake(filepath.Join(t.TempDir(), "nope.json"), nil); err == nil {
		t.Fatal("readIntake() expected error for missing file")
	}
}

func newOutputCmd() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	return cmd, &output
}

func TestPrintResult_Matched(t *testing.T) {
	defer func() { outputFormat = "auto" }()
	outputFormat = "table"

	cmd, output := newOutputCmd()
	result := &core.Result{
		Reason:    core.ReasonMatched,
		BestScore: 0.91,
		Threshold: 0.5,
		Recommendation: &core.Recommendation{
			Intervention: &models.Intervention{
				Name:      "Seed cycling",
				Category:  "nutrition",
				Rationale: "Supports hormone balance",
				SourceURL: "https://example.org/seed-cycling",
			},
			Score: 0.91,
			Habits: []models.Habit{
				{Sequence: 1, Name: "Flax and pumpkin seeds daily", WhyItWorks: "Lignans"},
				{Sequence: 2, Name: "Switch seeds mid-cycle"},
			},
		},
	}

	if err := printResult(cmd, result); err != nil {
		t.Fatalf("printResult() error = %v", err)
	}

	got := output.String()
	for _, want := range []string{"Seed cycling", "91% match", "nutrition", "Flax and pumpkin seeds daily"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestPrintResult_BelowThreshold(t *testing.T) {
	defer func() { outputFormat = "auto" }()
	outputFormat = "table"

	cmd, output := newOutputCmd()
	result := &core.Result{
		Reason:        core.ReasonBelowThreshold,
		BestScore:     0.42,
		BestCandidate: "Sleep hygiene reset",
		Threshold:     0.5,
	}

	if err := printResult(cmd, result); err != nil {
		t.Fatalf("printResult() error = %v", err)
	}

	got := output.String()
	if !strings.Contains(got, "50% confidence cutoff") {
		t.Errorf("output missing cutoff notice:\n%s", got)
	}
	if !strings.Contains(got, "Sleep hygiene reset at 42%") {
		t.Errorf("output missing closest-candidate diagnostics:\n%s", got)
	}
}

func TestPrintResult_JSON(t *testing.T) {
	defer func() { outputFormat = "auto" }()
	outputFormat = "json"

	cmd, output := newOutputCmd()
	result := &core.Result{Reason: core.ReasonEmptyIntake, Threshold: 0.5}

	if err := printResult(cmd, result); err != nil {
		t.Fatalf("printResult() error = %v", err)
	}

	got := output.String()
	if !strings.Contains(got, `"reason": "empty_intake"`) {
		t.Errorf("JSON output missing reason field:\n%s", got)
	}
}

func TestPrintResult_EmptyCatalog(t *testing.T) {
	defer func() { outputFormat = "auto" }()
	outputFormat = "table"

	cmd, output := newOutputCmd()
	result := &core.Result{Reason: core.ReasonEmptyCatalog, Threshold: 0.5}

	if err := printResult(cmd, result); err != nil {
		t.Fatalf("printResult() error = %v", err)
	}
	if !strings.Contains(output.String(), "Catalog is empty") {
		t.Errorf("output missing empty-catalog notice:\n%s", output.String())
	}
}
