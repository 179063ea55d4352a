package sync

import (
	"context"
	"log/slog"
	"time"

	"showsync/internal/library"
	"showsync/internal/logging"
	"showsync/internal/trakt"
)

// lastWatchedKey stores the newest remote watch timestamp already
// merged, so unchanged histories skip the full download.
const lastWatchedKey = "trakt.last_watched_at"

// TraktSync merges watched-episode history from the tracking service
// into the library. Shows the library does not track are ignored.
type TraktSync struct {
	store  *library.Store
	client trakt.API
	logger *slog.Logger
}

// NewTraktSync builds the tracking-service account-sync step.
func NewTraktSync(store *library.Store, client trakt.API, logger *slog.Logger) *TraktSync {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &TraktSync{
		store:  store,
		client: client,
		logger: logging.NewComponentLogger(logger, "traktsync"),
	}
}

// SyncTrakt runs the watched-history merge for the given moment.
func (t *TraktSync) SyncTrakt(ctx context.Context, existing map[int64]struct{}, now time.Time) Result {
	activities, err := t.client.GetLastActivities(ctx)
	if err != nil {
		t.logger.Error("fetch trakt activities", logging.Args(logging.Error(err))...)
		return ResultIncomplete
	}

	remoteWatched := activities.Episodes.WatchedAt
	if stored, err := t.store.GetSetting(ctx, lastWatchedKey); err == nil && stored != "" {
		if parsed, err := time.Parse(time.RFC3339Nano, stored); err == nil && !remoteWatched.After(parsed) {
			t.logger.Debug("watched history unchanged")
			return ResultSuccess
		}
	}

	shows, err := t.client.GetWatchedShows(ctx)
	if err != nil {
		t.logger.Error("fetch watched shows", logging.Args(logging.Error(err))...)
		return ResultIncomplete
	}

	merged := 0
	failed := false
	for _, show := range shows {
		tmdbID := show.Show.IDs.TMDB
		if tmdbID == 0 {
			continue
		}
		if _, ok := existing[tmdbID]; !ok {
			continue
		}
		if err := t.mergeShow(ctx, tmdbID, show.Seasons); err != nil {
			failed = true
			t.logger.Warn("merge watched history", logging.Args(
				logging.Int64(logging.FieldShowID, tmdbID),
				logging.Error(err))...)
			continue
		}
		merged++
	}

	if failed {
		return ResultIncomplete
	}
	if !remoteWatched.IsZero() {
		if err := t.store.SetSetting(ctx, lastWatchedKey, remoteWatched.UTC().Format(time.RFC3339Nano)); err != nil {
			t.logger.Warn("store watched timestamp", logging.Args(logging.Error(err))...)
			return ResultIncomplete
		}
	}
	t.logger.Info("watched history merged", logging.Args(
		logging.Int("shows", merged),
		logging.Time("remote_watched_at", remoteWatched))...)
	return ResultSuccess
}

// mergeShow flags exactly the episodes the remote history lists as
// watched. Gaps in the history stay unwatched locally.
func (t *TraktSync) mergeShow(ctx context.Context, tmdbID int64, seasons []trakt.WatchedSeason) error {
	for _, season := range seasons {
		numbers := make([]int, 0, len(season.Episodes))
		for _, ep := range season.Episodes {
			if ep.Number > 0 {
				numbers = append(numbers, ep.Number)
			}
		}
		if len(numbers) == 0 {
			continue
		}
		if err := t.store.MarkEpisodesWatched(ctx, tmdbID, season.Number, numbers); err != nil {
			return err
		}
	}
	return nil
}
