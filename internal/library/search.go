package library

import (
	"context"
	"fmt"
)

func (s *Store) indexShow(ctx context.Context, tmdbID int64, title, overview string) error {
	if err := s.execWithRetry(ctx, "DELETE FROM shows_search WHERE rowid = ?", tmdbID); err != nil {
		return fmt.Errorf("clear search entry %d: %w", tmdbID, err)
	}
	if err := s.execWithRetry(ctx,
		"INSERT INTO shows_search (rowid, title, overview) VALUES (?, ?, ?)",
		tmdbID, title, overview); err != nil {
		return fmt.Errorf("index show %d: %w", tmdbID, err)
	}
	return nil
}

// RebuildSearchIndex drops and repopulates the full-text search table from
// the shows table. Invoked after multi-show syncs that updated metadata
// without going through the add-show path.
func (s *Store) RebuildSearchIndex(ctx context.Context) error {
	ctx = ensureContext(ctx)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin search rebuild tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM shows_search"); err != nil {
		return fmt.Errorf("clear search table: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO shows_search (rowid, title, overview) SELECT tmdb_id, title, overview FROM shows"); err != nil {
		return fmt.Errorf("repopulate search table: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit search rebuild: %w", err)
	}
	return nil
}

// SearchShows runs a full-text query against show titles and overviews.
func (s *Store) SearchShows(ctx context.Context, query string) ([]Show, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
        SELECT sh.tmdb_id, sh.title, sh.status, sh.overview, sh.poster_path, sh.first_aired,
            sh.next_season, sh.next_episode, sh.added_at, sh.updated_at
        FROM shows_search ss
        JOIN shows sh ON sh.tmdb_id = ss.rowid
        WHERE shows_search MATCH ?
        ORDER BY rank`, query)
	if err != nil {
		return nil, fmt.Errorf("search shows: %w", err)
	}
	defer rows.Close()

	var shows []Show
	for rows.Next() {
		show, err := scanShow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		shows = append(shows, *show)
	}
	return shows, rows.Err()
}
