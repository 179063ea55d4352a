package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"showsync/internal/config"
)

func TestLoadReturnsDefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "test-key")

	path := filepath.Join(t.TempDir(), "missing.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if cfg.TMDB.APIKey != "test-key" {
		t.Fatalf("expected env API key, got %q", cfg.TMDB.APIKey)
	}
	if cfg.TMDB.BaseURL == "" || cfg.Sync.AutoSyncIntervalMinutes <= 0 {
		t.Fatal("expected defaults applied")
	}
}

func TestLoadParsesFileAndExpandsPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[tmdb]
api_key = "abc123"
base_url = "https://api.themoviedb.org/3/"

[sync]
auto_sync_interval_minutes = 15
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if strings.HasSuffix(cfg.TMDB.BaseURL, "/") {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.TMDB.BaseURL)
	}
	if cfg.Sync.AutoSyncIntervalMinutes != 15 {
		t.Fatalf("expected interval 15, got %d", cfg.Sync.AutoSyncIntervalMinutes)
	}
	if !filepath.IsAbs(cfg.Paths.DataDir) {
		t.Fatalf("expected absolute data dir, got %q", cfg.Paths.DataDir)
	}
}

func TestValidateRejectsMissingAPIKey(t *testing.T) {
	cfg := config.Default()
	cfg.TMDB.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for missing tmdb.api_key")
	}
}

func TestValidateRejectsInvalidLanguage(t *testing.T) {
	cfg := config.Default()
	cfg.TMDB.APIKey = "key"
	cfg.TMDB.Language = "no_such-language!!"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for invalid language tag")
	}
}

func TestValidateRequiresCloudFieldsWhenEnabled(t *testing.T) {
	cfg := config.Default()
	cfg.TMDB.APIKey = "key"
	cfg.Cloud.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for cloud.enabled without url/token")
	}
}

func TestValidateRejectsShortSyncInterval(t *testing.T) {
	cfg := config.Default()
	cfg.TMDB.APIKey = "key"
	cfg.Sync.AutoSyncIntervalMinutes = 1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for interval below 5 minutes")
	}
}

func TestHasAccount(t *testing.T) {
	cfg := config.Default()
	if cfg.HasAccount() {
		t.Fatal("expected no account with empty credentials")
	}
	cfg.Trakt.AccessToken = "tok"
	if !cfg.HasAccount() {
		t.Fatal("expected trakt token to count as account")
	}
	cfg.Cloud.Enabled = true
	if cfg.HasAccount() {
		t.Fatal("cloud enabled without token must not count as account")
	}
	cfg.Cloud.Token = "cloud-tok"
	if !cfg.HasAccount() {
		t.Fatal("expected cloud token to count as account")
	}
}

func TestCreateSampleWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("config.CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[tmdb]") {
		t.Fatal("expected sample to contain tmdb section")
	}
}
