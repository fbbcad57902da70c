// ABOUTME: CLI command to run one intake record through the recommendation pipeline
// ABOUTME: Reads intake JSON from a file or stdin and prints the match or no-match outcome
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/florawell/recommend-engine/internal/catalog"
	"github.com/florawell/recommend-engine/internal/config"
	"github.com/florawell/recommend-engine/internal/core"
	"github.com/florawell/recommend-engine/internal/llm"
	"github.com/florawell/recommend-engine/internal/models"
	"github.com/florawell/recommend-engine/internal/util"
	"github.com/joho/godotenv"
)

var (
	intakePath string
)

// NewRecommendCmd creates the recommend command
func NewRecommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend an intervention for an intake record",
		Long: `Recommend an intervention and its supporting habits for a structured
intake record.

The intake is a JSON object; all fields are optional:
  name, age, symptoms, symptom_notes, prior_interventions ([{name, helped}]),
  intervention_notes, prior_habits, habit_notes, dietary_preferences,
  dietary_notes.

Examples:
  florawell recommend --intake intake.json
  cat intake.json | florawell recommend
  florawell recommend --intake intake.json --format json`,
		Args: cobra.NoArgs,
		RunE: runRecommend,
	}

	cmd.Flags().StringVar(&intakePath, "intake", "", "Path to intake JSON file (default: stdin)")

	return cmd
}

func runRecommend(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if cfg.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is not set")
	}

	intake, err := readIntake(intakePath, cmd.InOrStdin())
	if err != nil {
		return err
	}

	recommender, store, err := buildRecommender(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := recommendWithRetry(cmd, recommender, intake, cfg)
	if err != nil {
		return err
	}

	return printResult(cmd, result)
}

// readIntake parses the intake record from a file or from stdin.
func readIntake(path string, stdin io.Reader) (*models.IntakeRecord, error) {
	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading intake file: %w", err)
		}
	} else {
		data, err = io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading intake from stdin: %w", err)
		}
	}

	var intake models.IntakeRecord
	if err := json.Unmarshal(data, &intake); err != nil {
		return nil, fmt.Errorf("parsing intake JSON: %w", err)
	}
	return &intake, nil
}

// buildRecommender opens the catalog store, seeds it from the configured
// YAML file when empty, builds the index, and assembles the recommender.
func buildRecommender(cfg *config.Config) (*core.Recommender, *catalog.Store, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = catalog.DefaultDBPath()
	}

	store, err := catalog.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening catalog store: %w", err)
	}

	count, err := store.Count()
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	if count == 0 {
		seeded, err := catalog.LoadCatalogFile(cfg.CatalogPath)
		if err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("seeding catalog from %s: %w", cfg.CatalogPath, err)
		}
		if err := store.ReplaceCatalog(seeded); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
	}

	interventions, err := store.LoadInterventions()
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	client, err := llm.NewClientWithConfig(&llm.ClientConfig{
		APIKey:         cfg.OpenAIKey,
		EmbeddingModel: llm.EmbeddingModelFromName(cfg.EmbeddingModel),
		Dimension:      cfg.VectorDimension,
	})
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	buildCtx, cancel := contextWithCatalogTimeout(cfg, len(interventions))
	defer cancel()

	index, err := core.BuildIndex(buildCtx, client, interventions)
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("building catalog index: %w", err)
	}

	return core.NewRecommender(client, index, cfg.MinSimilarity), store, nil
}

// recommendWithRetry is the CLI's retry policy for transient provider
// failures; the engine itself performs a single attempt.
func recommendWithRetry(cmd *cobra.Command, recommender *core.Recommender, intake *models.IntakeRecord, cfg *config.Config) (*core.Result, error) {
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "retrying after provider error: %v\n", lastErr)
			}
			time.Sleep(util.CalculateBackoff(cfg.RetryDelay, attempt))
		}

		ctx, cancel := contextWithTimeout(cfg)
		result, err := recommender.Recommend(ctx, intake)
		cancel()

		if err == nil {
			return result, nil
		}

		lastErr = err
		var provErr *llm.ProviderError
		if !errors.As(err, &provErr) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("after %d attempts: %w", cfg.MaxRetries+1, lastErr)
}

func printResult(cmd *cobra.Command, result *core.Result) error {
	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	switch result.Reason {
	case core.ReasonEmptyIntake:
		fmt.Fprintln(cmd.OutOrStdout(), "Intake record is empty; nothing to match.")
	case core.ReasonEmptyCatalog:
		fmt.Fprintln(cmd.OutOrStdout(), "Catalog is empty; import interventions first.")
	case core.ReasonBelowThreshold:
		fmt.Fprintf(cmd.OutOrStdout(), "No intervention cleared the %.0f%% confidence cutoff.\n", result.Threshold*100)
		fmt.Fprintf(cmd.OutOrStdout(), "Closest: %s at %.0f%%\n", result.BestCandidate, result.BestScore*100)
	case core.ReasonMatched:
		rec := result.Recommendation
		fmt.Fprintf(cmd.OutOrStdout(), "Recommended: %s (%.0f%% match)\n", rec.Intervention.Name, rec.Score*100)
		if rec.Intervention.Category != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Category: %s\n", rec.Intervention.Category)
		}
		if rec.Intervention.Rationale != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Why: %s\n", rec.Intervention.Rationale)
		}
		if rec.Intervention.SourceURL != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Source: %s\n", rec.Intervention.SourceURL)
		}

		if len(rec.Habits) > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "#\tHABIT\tWHY IT WORKS\n")
			for _, h := range rec.Habits {
				fmt.Fprintf(w, "%d\t%s\t%s\n", h.Sequence, h.Name, truncate(h.WhyItWorks, 60))
			}
			if err := w.Flush(); err != nil {
				return err
			}
		}
	}

	return nil
}
