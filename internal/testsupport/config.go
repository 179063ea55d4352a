// Package testsupport provides shared helpers for tests that need a
// configured store or config without repeating setup boilerplate.
package testsupport

import (
	"path/filepath"
	"testing"

	"showsync/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.TMDB.APIKey = "test"
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithTrakt seeds trakt credentials on the test config.
func WithTrakt(baseURL, token string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Trakt.BaseURL = baseURL
		cfg.Trakt.AccessToken = token
	}
}

// WithCloud enables the cloud account sync on the test config.
func WithCloud(url, token string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Cloud.Enabled = true
		cfg.Cloud.URL = url
		cfg.Cloud.Token = token
	}
}
