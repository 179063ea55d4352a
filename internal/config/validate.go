package config

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateCloud(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTMDB() error {
	if c.TMDB.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/showsync/config.toml"
		}
		return fmt.Errorf("tmdb.api_key is required. Set TMDB_API_KEY env var or edit %s (create with 'showsync config init')", defaultPath)
	}
	if _, err := language.Parse(c.TMDB.Language); err != nil {
		return fmt.Errorf("tmdb.language: invalid language tag %q: %w", c.TMDB.Language, err)
	}
	return nil
}

func (c *Config) validateCloud() error {
	if !c.Cloud.Enabled {
		return nil
	}
	if c.Cloud.URL == "" {
		return errors.New("cloud.url must be set when cloud.enabled is true")
	}
	if c.Cloud.Token == "" {
		return errors.New("cloud.token must be set when cloud.enabled is true")
	}
	return nil
}

func (c *Config) validateSync() error {
	if c.Sync.AutoSyncIntervalMinutes < 5 {
		return errors.New("sync.auto_sync_interval_minutes must be at least 5")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
}
