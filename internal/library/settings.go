package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Durable settings keys. These survive restarts and back the sync gate,
// the failure backoff, and the TMDB image URL cache.
const (
	settingLastSyncAt      = "sync.last_sync_at"
	settingFailedCounter   = "sync.failed_counter"
	settingAutoSync        = "sync.auto_sync"
	settingImageBaseURL    = "tmdb.image_base_url"
	settingLastNotifiedDay = "notifications.last_notified_day"
)

// GetSetting reads a settings value, returning "" when the key is unset.
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	ctx = ensureContext(ctx)
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("read setting %q: %w", key, err)
	}
	return value, nil
}

// SetSetting writes a settings value.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	ctx = ensureContext(ctx)
	err := s.execWithRetry(ctx, `
        INSERT INTO settings (key, value) VALUES (?, ?)
        ON CONFLICT (key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("write setting %q: %w", key, err)
	}
	return nil
}

// SyncRunState loads the persisted last-sync timestamp and failure counter.
// A missing timestamp yields the zero time so a fresh install syncs at once.
func (s *Store) SyncRunState(ctx context.Context) (lastSync time.Time, failedCounter int, err error) {
	raw, err := s.GetSetting(ctx, settingLastSyncAt)
	if err != nil {
		return time.Time{}, 0, err
	}
	if raw != "" {
		if parsed, parseErr := time.Parse(time.RFC3339Nano, raw); parseErr == nil {
			lastSync = parsed
		}
	}

	counterRaw, err := s.GetSetting(ctx, settingFailedCounter)
	if err != nil {
		return time.Time{}, 0, err
	}
	if counterRaw != "" {
		if parsed, parseErr := strconv.Atoi(counterRaw); parseErr == nil && parsed >= 0 {
			failedCounter = parsed
		}
	}
	return lastSync, failedCounter, nil
}

// SetSyncRunState persists the last-sync timestamp and failure counter.
func (s *Store) SetSyncRunState(ctx context.Context, lastSync time.Time, failedCounter int) error {
	if err := s.SetSetting(ctx, settingLastSyncAt, lastSync.UTC().Format(time.RFC3339Nano)); err != nil {
		return err
	}
	return s.SetSetting(ctx, settingFailedCounter, strconv.Itoa(failedCounter))
}

// AutoSyncEnabled reports whether periodic syncs are enabled. Defaults to true.
func (s *Store) AutoSyncEnabled(ctx context.Context) (bool, error) {
	raw, err := s.GetSetting(ctx, settingAutoSync)
	if err != nil {
		return false, err
	}
	if raw == "" {
		return true, nil
	}
	return raw == "true", nil
}

// SetAutoSyncEnabled toggles periodic syncs.
func (s *Store) SetAutoSyncEnabled(ctx context.Context, enabled bool) error {
	return s.SetSetting(ctx, settingAutoSync, strconv.FormatBool(enabled))
}

// ImageBaseURL returns the cached TMDB image base URL, if any.
func (s *Store) ImageBaseURL(ctx context.Context) (string, error) {
	return s.GetSetting(ctx, settingImageBaseURL)
}

// SetImageBaseURL caches the TMDB image base URL delivered by the
// configuration refresh step.
func (s *Store) SetImageBaseURL(ctx context.Context, url string) error {
	return s.SetSetting(ctx, settingImageBaseURL, url)
}

// LastNotifiedDay returns the most recent air date (YYYY-MM-DD) for which
// upcoming-episode notifications were already pushed.
func (s *Store) LastNotifiedDay(ctx context.Context) (string, error) {
	return s.GetSetting(ctx, settingLastNotifiedDay)
}

// SetLastNotifiedDay records the air date up to which notifications were pushed.
func (s *Store) SetLastNotifiedDay(ctx context.Context, day string) error {
	return s.SetSetting(ctx, settingLastNotifiedDay, day)
}
