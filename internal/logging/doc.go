// Package logging builds slog loggers for the daemon and CLI and defines
// the standardized attribute helpers and field keys used across showsync.
package logging
