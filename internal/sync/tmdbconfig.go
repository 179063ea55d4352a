package sync

import (
	"context"
	"fmt"
	"log/slog"

	"showsync/internal/library"
	"showsync/internal/logging"
	"showsync/internal/tmdb"
)

// ConfigRefresh pulls the TMDB API configuration and persists the image
// base URL for poster rendering.
type ConfigRefresh struct {
	store  *library.Store
	tmdb   tmdb.API
	logger *slog.Logger
}

// NewConfigRefresh builds the configuration-refresh step.
func NewConfigRefresh(store *library.Store, api tmdb.API, logger *slog.Logger) *ConfigRefresh {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ConfigRefresh{
		store:  store,
		tmdb:   api,
		logger: logging.NewComponentLogger(logger, "tmdbconfig"),
	}
}

// Refresh fetches remote configuration and stores the secure image base
// URL when present.
func (c *ConfigRefresh) Refresh(ctx context.Context) error {
	cfg, err := c.tmdb.GetConfiguration(ctx)
	if err != nil {
		return fmt.Errorf("fetch tmdb configuration: %w", err)
	}
	if cfg.Images.SecureBaseURL == "" {
		return nil
	}
	if err := c.store.SetImageBaseURL(ctx, cfg.Images.SecureBaseURL); err != nil {
		return fmt.Errorf("store image base url: %w", err)
	}
	c.logger.Debug("image base url refreshed",
		logging.Args(logging.String("base_url", cfg.Images.SecureBaseURL))...)
	return nil
}
