package library

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const airDateFormat = "2006-01-02"

// ReplaceEpisodes swaps the stored episode list of a show for the given set.
// Watched flags are preserved for episodes that survive the swap.
func (s *Store) ReplaceEpisodes(ctx context.Context, showTMDBID int64, episodes []Episode) error {
	ctx = ensureContext(ctx)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin episode tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	watched := make(map[[2]int]bool)
	rows, err := tx.QueryContext(ctx,
		"SELECT season, episode, watched FROM episodes WHERE show_tmdb_id = ?", showTMDBID)
	if err != nil {
		return fmt.Errorf("load watched flags: %w", err)
	}
	for rows.Next() {
		var season, episode int
		var flag bool
		if err := rows.Scan(&season, &episode, &flag); err != nil {
			rows.Close()
			return fmt.Errorf("scan watched flag: %w", err)
		}
		watched[[2]int{season, episode}] = flag
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	if _, err := tx.ExecContext(ctx, "DELETE FROM episodes WHERE show_tmdb_id = ?", showTMDBID); err != nil {
		return fmt.Errorf("clear episodes: %w", err)
	}
	for _, ep := range episodes {
		flag := ep.Watched || watched[[2]int{ep.Season, ep.Episode}]
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO episodes (show_tmdb_id, season, episode, title, air_date, watched)
            VALUES (?, ?, ?, ?, ?, ?)`,
			showTMDBID, ep.Season, ep.Episode, ep.Title, ep.AirDate, flag); err != nil {
			return fmt.Errorf("insert episode s%02de%02d: %w", ep.Season, ep.Episode, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit episodes: %w", err)
	}
	return nil
}

// MarkEpisodesWatched flags exactly the given episode numbers of one season
// as watched. Episodes not listed keep their current flag, so gaps in a
// remote watch history survive the merge. Used by the account sync merge.
func (s *Store) MarkEpisodesWatched(ctx context.Context, showTMDBID int64, season int, episodes []int) error {
	if len(episodes) == 0 {
		return nil
	}
	ctx = ensureContext(ctx)
	query := "UPDATE episodes SET watched = 1 WHERE show_tmdb_id = ? AND season = ? AND episode IN (?" +
		strings.Repeat(", ?", len(episodes)-1) + ")"
	args := make([]any, 0, len(episodes)+2)
	args = append(args, showTMDBID, season)
	for _, episode := range episodes {
		args = append(args, episode)
	}
	if err := s.execWithRetry(ctx, query, args...); err != nil {
		return fmt.Errorf("mark watched %d s%02d: %w", showTMDBID, season, err)
	}
	return nil
}

// UpdateNextEpisodes recomputes the next unaired-or-unwatched episode pointer
// for every show. Runs after multi-show syncs.
func (s *Store) UpdateNextEpisodes(ctx context.Context, now time.Time) error {
	ctx = ensureContext(ctx)
	today := now.UTC().Format(airDateFormat)

	rows, err := s.db.QueryContext(ctx, "SELECT tmdb_id FROM shows")
	if err != nil {
		return fmt.Errorf("list shows for next episode: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan show id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range ids {
		var season, episode int
		err := s.db.QueryRowContext(ctx, `
            SELECT season, episode FROM episodes
            WHERE show_tmdb_id = ? AND (watched = 0 OR air_date >= ?)
            ORDER BY season, episode LIMIT 1`, id, today).Scan(&season, &episode)
		if err != nil {
			if err == sql.ErrNoRows {
				season, episode = 0, 0
			} else {
				return fmt.Errorf("next episode for %d: %w", id, err)
			}
		}
		if err := s.execWithRetry(ctx,
			"UPDATE shows SET next_season = ?, next_episode = ? WHERE tmdb_id = ?",
			season, episode, id); err != nil {
			return fmt.Errorf("store next episode for %d: %w", id, err)
		}
	}
	return nil
}

// UpcomingEpisodes lists episodes airing within [from, to], soonest first.
func (s *Store) UpcomingEpisodes(ctx context.Context, from, to time.Time) ([]UpcomingEpisode, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
        SELECT sh.title, ep.id, ep.show_tmdb_id, ep.season, ep.episode, ep.title, ep.air_date, ep.watched
        FROM episodes ep
        JOIN shows sh ON sh.tmdb_id = ep.show_tmdb_id
        WHERE ep.air_date >= ? AND ep.air_date <= ?
        ORDER BY ep.air_date, sh.title COLLATE NOCASE`,
		from.UTC().Format(airDateFormat), to.UTC().Format(airDateFormat))
	if err != nil {
		return nil, fmt.Errorf("list upcoming episodes: %w", err)
	}
	defer rows.Close()

	var upcoming []UpcomingEpisode
	for rows.Next() {
		var entry UpcomingEpisode
		if err := rows.Scan(&entry.ShowTitle, &entry.Episode.ID, &entry.Episode.ShowTMDBID,
			&entry.Episode.Season, &entry.Episode.Episode, &entry.Episode.Title,
			&entry.Episode.AirDate, &entry.Episode.Watched); err != nil {
			return nil, fmt.Errorf("scan upcoming episode: %w", err)
		}
		upcoming = append(upcoming, entry)
	}
	return upcoming, rows.Err()
}
