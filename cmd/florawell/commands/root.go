// ABOUTME: Root CLI command with global flags shared by all subcommands
// ABOUTME: Wires recommend, catalog, and version under the florawell binary
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "florawell",
		Short: "Intervention recommendation engine",
		Long: `Florawell matches a structured health intake against a catalog of
interventions using embedding similarity and recommends the best fit
with its supporting habits.

Examples:
  florawell recommend --intake intake.json
  florawell catalog import catalog.yaml
  florawell catalog list`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}
			if outputFormat != "auto" && outputFormat != "json" && outputFormat != "table" {
				return fmt.Errorf("--format must be auto, json, or table, got %q", outputFormat)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, json, or table")

	cmd.AddCommand(NewRecommendCmd())
	cmd.AddCommand(NewCatalogCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
