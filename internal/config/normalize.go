package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTMDB()
	c.normalizeTrakt()
	c.normalizeCloud()
	c.normalizeSync()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	return nil
}

func (c *Config) normalizeTMDB() {
	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	if c.TMDB.APIKey == "" {
		if value, ok := os.LookupEnv("TMDB_API_KEY"); ok {
			c.TMDB.APIKey = strings.TrimSpace(value)
		}
	}
	c.TMDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.TMDB.BaseURL), "/")
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
	if c.TMDB.Language == "" {
		c.TMDB.Language = defaultTMDBLanguage
	}
}

func (c *Config) normalizeTrakt() {
	c.Trakt.ClientID = strings.TrimSpace(c.Trakt.ClientID)
	c.Trakt.AccessToken = strings.TrimSpace(c.Trakt.AccessToken)
	c.Trakt.BaseURL = strings.TrimRight(strings.TrimSpace(c.Trakt.BaseURL), "/")
	if c.Trakt.BaseURL == "" {
		c.Trakt.BaseURL = defaultTraktBaseURL
	}
}

func (c *Config) normalizeCloud() {
	c.Cloud.URL = strings.TrimRight(strings.TrimSpace(c.Cloud.URL), "/")
	c.Cloud.Token = strings.TrimSpace(c.Cloud.Token)
}

func (c *Config) normalizeSync() {
	if c.Sync.AutoSyncIntervalMinutes <= 0 {
		c.Sync.AutoSyncIntervalMinutes = defaultAutoSyncInterval
	}
	if c.Sync.RequestTimeoutSeconds <= 0 {
		c.Sync.RequestTimeoutSeconds = defaultRequestTimeout
	}
	c.Sync.ConnectivityProbe = strings.TrimSpace(c.Sync.ConnectivityProbe)
	if c.Sync.ConnectivityProbe == "" {
		c.Sync.ConnectivityProbe = defaultConnectivityProbe
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
