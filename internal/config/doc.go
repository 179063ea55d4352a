// Package config loads, validates, and normalizes showsync configuration
// from TOML files with environment fallbacks such as TMDB_API_KEY. The
// Config type centralizes every knob the daemon and CLI need, so other
// packages never read files or environment variables directly.
package config
