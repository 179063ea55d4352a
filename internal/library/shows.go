package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Staleness thresholds for delta syncs. Continuing shows change often enough
// to warrant frequent refreshes; ended shows rarely do.
const (
	StaleAfterContinuing = 12 * time.Hour
	StaleAfterEnded      = 7 * 24 * time.Hour
)

// ErrShowNotFound indicates the requested show is not in the catalog.
var ErrShowNotFound = errors.New("show not found")

// UpsertShow inserts or updates a show row and refreshes its search index entry.
func (s *Store) UpsertShow(ctx context.Context, show Show) error {
	ctx = ensureContext(ctx)
	now := time.Now().UTC().Format(time.RFC3339Nano)
	updatedAt := show.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	err := s.execWithRetry(ctx, `
        INSERT INTO shows (tmdb_id, title, status, overview, poster_path, first_aired,
            next_season, next_episode, added_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (tmdb_id) DO UPDATE SET
            title = excluded.title,
            status = excluded.status,
            overview = excluded.overview,
            poster_path = excluded.poster_path,
            first_aired = excluded.first_aired,
            updated_at = excluded.updated_at`,
		show.TMDBID, show.Title, string(show.Status), show.Overview, show.PosterPath,
		show.FirstAired, show.NextSeason, show.NextEpisode, now,
		updatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert show %d: %w", show.TMDBID, err)
	}
	return s.indexShow(ctx, show.TMDBID, show.Title, show.Overview)
}

// GetShow loads a single show by TMDB id.
func (s *Store) GetShow(ctx context.Context, tmdbID int64) (*Show, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `
        SELECT tmdb_id, title, status, overview, poster_path, first_aired,
            next_season, next_episode, added_at, updated_at
        FROM shows WHERE tmdb_id = ?`, tmdbID)
	show, err := scanShow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, fmt.Errorf("get show %d: %w", tmdbID, err)
	}
	return show, nil
}

// ListShows returns every tracked show ordered by title.
func (s *Store) ListShows(ctx context.Context) ([]Show, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
        SELECT tmdb_id, title, status, overview, poster_path, first_aired,
            next_season, next_episode, added_at, updated_at
        FROM shows ORDER BY title COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("list shows: %w", err)
	}
	defer rows.Close()

	var shows []Show
	for rows.Next() {
		show, err := scanShow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan show: %w", err)
		}
		shows = append(shows, *show)
	}
	return shows, rows.Err()
}

// ShowTMDBIDs returns the identifier set of every tracked show. The sync
// orchestrator treats a failure here as making the account sync impossible.
func (s *Store) ShowTMDBIDs(ctx context.Context) (map[int64]struct{}, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, "SELECT tmdb_id FROM shows")
	if err != nil {
		return nil, fmt.Errorf("load show ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan show id: %w", err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// StaleShowIDs returns the ids of shows due for a metadata refresh at now.
func (s *Store) StaleShowIDs(ctx context.Context, now time.Time) ([]int64, error) {
	shows, err := s.ListShows(ctx)
	if err != nil {
		return nil, err
	}
	var ids []int64
	for _, show := range shows {
		if showIsStale(show, now) {
			ids = append(ids, show.TMDBID)
		}
	}
	return ids, nil
}

// IsShowStale reports whether the given show is due for a metadata refresh.
// Unknown shows are never stale; they must be added before they can sync.
func (s *Store) IsShowStale(ctx context.Context, tmdbID int64, now time.Time) (bool, error) {
	show, err := s.GetShow(ctx, tmdbID)
	if err != nil {
		if errors.Is(err, ErrShowNotFound) {
			return false, nil
		}
		return false, err
	}
	return showIsStale(*show, now), nil
}

func showIsStale(show Show, now time.Time) bool {
	threshold := StaleAfterContinuing
	if show.Status == ShowStatusEnded {
		threshold = StaleAfterEnded
	}
	return now.Sub(show.UpdatedAt) > threshold
}

// RemoveShow deletes a show, its episodes, and its search entry.
func (s *Store) RemoveShow(ctx context.Context, tmdbID int64) error {
	ctx = ensureContext(ctx)
	if err := s.execWithRetry(ctx, "DELETE FROM shows WHERE tmdb_id = ?", tmdbID); err != nil {
		return fmt.Errorf("remove show %d: %w", tmdbID, err)
	}
	return s.execWithRetry(ctx, "DELETE FROM shows_search WHERE rowid = ?", tmdbID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShow(row rowScanner) (*Show, error) {
	var (
		show      Show
		status    string
		addedAt   string
		updatedAt string
	)
	if err := row.Scan(&show.TMDBID, &show.Title, &status, &show.Overview,
		&show.PosterPath, &show.FirstAired, &show.NextSeason, &show.NextEpisode,
		&addedAt, &updatedAt); err != nil {
		return nil, err
	}
	show.Status = ShowStatus(status)
	show.AddedAt = parseStoredTime(addedAt)
	show.UpdatedAt = parseStoredTime(updatedAt)
	return &show, nil
}

func parseStoredTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
