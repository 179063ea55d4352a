package preflight

import (
	"context"

	"showsync/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is configured.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	results = append(results, CheckDiskSpace("Data disk space", cfg.Paths.DataDir))
	results = append(results, CheckTMDB(ctx, cfg))

	if cfg.Cloud.Enabled {
		results = append(results, CheckEndpoint(ctx, "Cloud backup", cfg.Cloud.URL))
	} else if cfg.Trakt.AccessToken != "" {
		results = append(results, CheckEndpoint(ctx, "Trakt", cfg.Trakt.BaseURL))
	}

	return results
}
