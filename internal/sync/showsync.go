package sync

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"showsync/internal/library"
	"showsync/internal/logging"
	"showsync/internal/tmdb"
)

// ShowSync is the primary reconciliation step. It pulls show and
// episode metadata from TMDB and writes it into the library store.
type ShowSync struct {
	store  *library.Store
	tmdb   tmdb.API
	logger *slog.Logger
}

// NewShowSync builds the primary sync step.
func NewShowSync(store *library.Store, api tmdb.API, logger *slog.Logger) *ShowSync {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ShowSync{
		store:  store,
		tmdb:   api,
		logger: logging.NewComponentLogger(logger, "showsync"),
	}
}

// SyncShows reconciles the shows selected by the scope. Failing to
// determine the target set at all is fatal; individual show failures
// degrade the result to incomplete and the remaining shows still sync.
func (s *ShowSync) SyncShows(ctx context.Context, scope Scope, showID int64, now time.Time) (Result, bool) {
	ids, err := s.targetIDs(ctx, scope, showID, now)
	if err != nil {
		s.logger.Error("resolve sync targets", logging.Args(
			logging.String(logging.FieldScope, scope.String()),
			logging.Error(err))...)
		return ResultFatal, false
	}
	if len(ids) == 0 {
		return ResultSuccess, false
	}

	failed := 0
	updated := 0
	for _, id := range ids {
		if err := s.syncShow(ctx, id); err != nil {
			failed++
			s.logger.Warn("show sync failed", logging.Args(
				logging.Int64(logging.FieldShowID, id),
				logging.Error(err))...)
			continue
		}
		updated++
	}
	s.logger.Info("show reconciliation done", logging.Args(
		logging.String(logging.FieldScope, scope.String()),
		logging.Int("updated", updated),
		logging.Int("failed", failed))...)

	if failed > 0 {
		return ResultIncomplete, updated > 0
	}
	return ResultSuccess, updated > 0
}

func (s *ShowSync) targetIDs(ctx context.Context, scope Scope, showID int64, now time.Time) ([]int64, error) {
	switch scope {
	case ScopeSingle:
		return []int64{showID}, nil
	case ScopeDelta:
		return s.store.StaleShowIDs(ctx, now)
	default:
		shows, err := s.store.ListShows(ctx)
		if err != nil {
			return nil, err
		}
		ids := make([]int64, 0, len(shows))
		for _, show := range shows {
			ids = append(ids, show.TMDBID)
		}
		return ids, nil
	}
}

func (s *ShowSync) syncShow(ctx context.Context, id int64) error {
	details, err := s.tmdb.GetTVDetails(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.UpsertShow(ctx, library.Show{
		TMDBID:     details.ID,
		Title:      details.Name,
		Status:     mapShowStatus(details.Status),
		Overview:   details.Overview,
		PosterPath: details.PosterPath,
		FirstAired: details.FirstAirDate,
	}); err != nil {
		return err
	}

	var episodes []library.Episode
	for _, season := range details.Seasons {
		// Specials (season 0) are skipped; TMDB lists them unevenly.
		if season.SeasonNumber == 0 {
			continue
		}
		seasonDetails, err := s.tmdb.GetSeasonDetails(ctx, id, season.SeasonNumber)
		if err != nil {
			return err
		}
		for _, ep := range seasonDetails.Episodes {
			episodes = append(episodes, library.Episode{
				ShowTMDBID: id,
				Season:     ep.SeasonNumber,
				Episode:    ep.EpisodeNumber,
				Title:      ep.Name,
				AirDate:    ep.AirDate,
			})
		}
	}
	return s.store.ReplaceEpisodes(ctx, id, episodes)
}

func mapShowStatus(status string) library.ShowStatus {
	switch strings.ToLower(status) {
	case "ended", "canceled", "cancelled":
		return library.ShowStatusEnded
	case "returning series", "in production", "planned", "pilot":
		return library.ShowStatusContinuing
	default:
		return library.ShowStatusUnknown
	}
}
