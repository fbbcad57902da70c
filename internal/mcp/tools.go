// ABOUTME: MCP tool definitions and registration for the recommendation server
// ABOUTME: Defines JSON schemas for the recommend and catalog tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/florawell/recommend-engine/internal/catalog"
	"github.com/florawell/recommend-engine/internal/core"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, recommender *core.Recommender, store *catalog.Store, opts HandlerOptions) *Handlers {
	handlers := &Handlers{
		recommender: recommender,
		store:       store,
		opts:        opts,
	}

	// 1. recommend_intervention - Match an intake record against the catalog
	server.AddTool(mcp.Tool{
		Name:        "recommend_intervention",
		Description: "Recommend a health intervention and its supporting habits from a structured intake record. Returns the best catalog match above the confidence cutoff, or the closest sub-threshold candidate.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"intake": map[string]interface{}{
					"type":        "string",
					"description": "Intake record as a JSON object string: name, age, symptoms, symptom_notes, prior_interventions ([{name, helped}]), intervention_notes, prior_habits, habit_notes, dietary_preferences, dietary_notes. All fields optional.",
				},
			},
			Required: []string{"intake"},
		},
	}, handlers.RecommendIntervention)

	// 2. list_interventions - List the loaded catalog
	server.AddTool(mcp.Tool{
		Name:        "list_interventions",
		Description: "List all interventions currently in the catalog index with their categories and habit counts.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListInterventions)

	// 3. reload_catalog - Reload the seed file and rebuild the index
	server.AddTool(mcp.Tool{
		Name:        "reload_catalog",
		Description: "Reload the catalog seed file, replace the stored catalog, rebuild the embedding index, and swap it in atomically. In-flight requests finish on the previous index.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Optional path to the catalog YAML file (defaults to the configured seed file)",
				},
			},
		},
	}, handlers.ReloadCatalog)

	return handlers
}
