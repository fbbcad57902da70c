// ABOUTME: Main entry point for the recommendation MCP server with stdio transport
// ABOUTME: Seeds the catalog, builds the embedding index, and registers all tools
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/florawell/recommend-engine/internal/catalog"
	"github.com/florawell/recommend-engine/internal/config"
	"github.com/florawell/recommend-engine/internal/core"
	"github.com/florawell/recommend-engine/internal/llm"
	"github.com/florawell/recommend-engine/internal/mcp"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.OpenAIKey == "" {
		log.Fatal("OPENAI_API_KEY is required for embedding generation")
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = catalog.DefaultDBPath()
	}
	store, err := catalog.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open catalog store: %v", err)
	}
	defer store.Close()

	// Seed the store from the YAML catalog when empty
	count, err := store.Count()
	if err != nil {
		log.Fatalf("Failed to read catalog store: %v", err)
	}
	if count == 0 {
		seeded, err := catalog.LoadCatalogFile(cfg.CatalogPath)
		if err != nil {
			log.Fatalf("Failed to load catalog seed %s: %v", cfg.CatalogPath, err)
		}
		if err := store.ReplaceCatalog(seeded); err != nil {
			log.Fatalf("Failed to store catalog: %v", err)
		}
		log.Printf("Seeded catalog with %d interventions from %s", len(seeded), cfg.CatalogPath)
	}

	interventions, err := store.LoadInterventions()
	if err != nil {
		log.Fatalf("Failed to load interventions: %v", err)
	}

	client, err := llm.NewClientWithConfig(&llm.ClientConfig{
		APIKey:         cfg.OpenAIKey,
		EmbeddingModel: llm.EmbeddingModelFromName(cfg.EmbeddingModel),
		Dimension:      cfg.VectorDimension,
	})
	if err != nil {
		log.Fatalf("Failed to create embedding client: %v", err)
	}

	// One provider call per catalog entry
	buildCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeout*time.Duration(len(interventions)+1))
	index, err := core.BuildIndex(buildCtx, client, interventions)
	cancel()
	if err != nil {
		log.Fatalf("Failed to build catalog index: %v", err)
	}
	log.Printf("Catalog index built: %d interventions", index.Len())

	recommender := core.NewRecommender(client, index, cfg.MinSimilarity)

	// Create MCP server
	server := mcpserver.NewMCPServer(
		"Florawell Recommendation Engine",
		"0.1.0",
	)

	// Register MCP tools
	mcp.RegisterTools(server, recommender, store, mcp.HandlerOptions{
		CatalogPath: cfg.CatalogPath,
		Timeout:     cfg.Timeout,
		MaxRetries:  cfg.MaxRetries,
		RetryDelay:  cfg.RetryDelay,
	})

	// Start server with stdio transport
	log.Println("Florawell MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
