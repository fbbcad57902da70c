// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Consolidates output helpers and provider-call context plumbing
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/florawell/recommend-engine/internal/config"
)

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return string(runes[:maxLen-3]) + "..."
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}

// contextWithTimeout returns a context bounded by the configured
// per-provider-call timeout.
func contextWithTimeout(cfg *config.Config) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), cfg.Timeout)
}

// contextWithCatalogTimeout bounds a full index build: one provider call
// per catalog entry.
func contextWithCatalogTimeout(cfg *config.Config, entries int) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), cfg.Timeout*time.Duration(entries+1))
}
