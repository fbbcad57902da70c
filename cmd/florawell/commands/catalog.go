// ABOUTME: CLI commands to manage the intervention catalog
// ABOUTME: Imports the YAML seed file into SQLite and lists stored entries
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/florawell/recommend-engine/internal/catalog"
	"github.com/florawell/recommend-engine/internal/config"
	"github.com/joho/godotenv"
)

// NewCatalogCmd creates the catalog command group
func NewCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the intervention catalog",
		Long: `Manage the intervention catalog backing the recommendation engine.

Examples:
  florawell catalog import catalog.yaml
  florawell catalog list
  florawell catalog list --format json`,
	}

	cmd.AddCommand(newCatalogImportCmd())
	cmd.AddCommand(newCatalogListCmd())

	return cmd
}

func newCatalogImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a catalog YAML file",
		Long: `Import interventions from a YAML seed file, replacing the stored
catalog wholesale. The embedding index is rebuilt on next use.`,
		Args: cobra.ExactArgs(1),
		RunE: runCatalogImport,
	}
}

func newCatalogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored interventions",
		Args:  cobra.NoArgs,
		RunE:  runCatalogList,
	}
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	interventions, err := catalog.LoadCatalogFile(args[0])
	if err != nil {
		return fmt.Errorf("loading catalog file: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.ReplaceCatalog(interventions); err != nil {
		return fmt.Errorf("replacing stored catalog: %w", err)
	}

	if !quiet {
		habits := 0
		for _, iv := range interventions {
			habits += len(iv.Habits)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d interventions (%d habits) into %s\n",
			len(interventions), habits, store.Path())
	}
	return nil
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	interventions, err := store.LoadInterventions()
	if err != nil {
		return fmt.Errorf("loading interventions: %w", err)
	}

	if len(interventions) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "Catalog is empty. Import a seed file with: florawell catalog import <file>")
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(interventions, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tCATEGORY\tHABITS\tSOURCE\n")
	for _, iv := range interventions {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", iv.Name, iv.Category, len(iv.Habits), truncate(iv.SourceURL, 40))
	}
	return w.Flush()
}

func openStore(cfg *config.Config) (*catalog.Store, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = catalog.DefaultDBPath()
	}
	store, err := catalog.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening catalog store: %w", err)
	}
	return store, nil
}
