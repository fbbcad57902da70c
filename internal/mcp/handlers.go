// ABOUTME: MCP tool handler implementations for the recommendation server
// ABOUTME: Owns caller-side retry of provider failures; the engine itself never retries
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/florawell/recommend-engine/internal/catalog"
	"github.com/florawell/recommend-engine/internal/core"
	"github.com/florawell/recommend-engine/internal/llm"
	"github.com/florawell/recommend-engine/internal/models"
	"github.com/florawell/recommend-engine/internal/util"
)

// HandlerOptions configures caller-side behavior around the engine.
type HandlerOptions struct {
	CatalogPath string        // seed file used by reload_catalog
	Timeout     time.Duration // per-provider-call deadline
	MaxRetries  int           // retries on ProviderError
	RetryDelay  time.Duration // base backoff delay
}

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	recommender *core.Recommender
	store       *catalog.Store
	opts        HandlerOptions
}

// RecommendIntervention handles the recommend_intervention tool
func (h *Handlers) RecommendIntervention(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	intakeJSON, err := request.RequireString("intake")
	if err != nil {
		return mcp.NewToolResultError("intake argument is required and must be a JSON object string"), nil
	}

	var intake models.IntakeRecord
	if err := json.Unmarshal([]byte(intakeJSON), &intake); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid intake JSON: %v", err)), nil
	}

	result, err := h.recommendWithRetry(ctx, &intake)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("recommendation failed: %v", err)), nil
	}

	responseJSON, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// recommendWithRetry applies the retry policy the engine deliberately
// does not own: back off and re-issue only on retryable provider errors.
func (h *Handlers) recommendWithRetry(ctx context.Context, intake *models.IntakeRecord) (*core.Result, error) {
	var lastErr error

	for attempt := 0; attempt <= h.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(util.CalculateBackoff(h.opts.RetryDelay, attempt)):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, h.opts.Timeout)
		result, err := h.recommender.Recommend(callCtx, intake)
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

	return nil, fmt.Errorf("after %d attempts: %w", h.opts.MaxRetries+1, lastErr)
}

// ListInterventions handles the list_interventions tool
func (h *Handlers) ListInterventions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type entry struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		Category   string `json:"category"`
		HabitCount int    `json:"habit_count"`
	}

	interventions := h.recommender.Index().Interventions()
	entries := make([]entry, 0, len(interventions))
	for _, iv := range interventions {
		entries = append(entries, entry{
			ID:         iv.ID,
			Name:       iv.Name,
			Category:   iv.Category,
			HabitCount: len(iv.Habits),
		})
	}

	responseJSON, err := json.Marshal(map[string]interface{}{
		"count":         len(entries),
		"interventions": entries,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ReloadCatalog handles the reload_catalog tool
func (h *Handlers) ReloadCatalog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", h.opts.CatalogPath)

	interventions, err := catalog.LoadCatalogFile(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading catalog: %v", err)), nil
	}

	if err := h.store.ReplaceCatalog(interventions); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("replacing stored catalog: %v", err)), nil
	}

	// Rebuild against the freshly stored catalog so the index matches
	// exactly what persistence will serve on next startup.
	stored, err := h.store.LoadInterventions()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reading stored catalog: %v", err)), nil
	}

	buildCtx, cancel := context.WithTimeout(ctx, h.opts.Timeout*time.Duration(len(stored)+1))
	defer cancel()

	index, err := core.BuildIndex(buildCtx, h.recommender.Embedder(), stored)
	if err != nil {
		// Previous index stays in service; a failed build must never
		// leave a partial one visible.
		return mcp.NewToolResultError(fmt.Sprintf("rebuilding index: %v", err)), nil
	}

	h.recommender.SwapIndex(index)

	responseJSON, err := json.Marshal(map[string]interface{}{
		"interventions_loaded": len(stored),
		"index_size":           index.Len(),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
