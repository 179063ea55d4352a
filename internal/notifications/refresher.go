package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"showsync/internal/library"
	"showsync/internal/logging"
)

const dayFormat = "2006-01-02"

// Refresher recomputes pending upcoming-episode notifications after a
// sync run. Days already notified are skipped via a durable marker so
// repeated runs do not re-announce the same episodes.
type Refresher struct {
	store   *library.Store
	service Service
	window  time.Duration
	logger  *slog.Logger
	clock   func() time.Time
}

// NewRefresher builds the notification refresher. window bounds how far
// ahead episodes are announced.
func NewRefresher(store *library.Store, service Service, window time.Duration, logger *slog.Logger) *Refresher {
	if logger == nil {
		logger = logging.NewNop()
	}
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &Refresher{
		store:   store,
		service: service,
		window:  window,
		logger:  logging.NewComponentLogger(logger, "notifications"),
		clock:   time.Now,
	}
}

// WithClock overrides the time source. Tests use this.
func (r *Refresher) WithClock(clock func() time.Time) *Refresher {
	if clock != nil {
		r.clock = clock
	}
	return r
}

// RefreshUpcoming announces episodes airing within the window whose air
// date has not been notified yet. Failures are logged, never returned:
// the sync result must not depend on notification delivery.
func (r *Refresher) RefreshUpcoming(ctx context.Context) {
	now := r.clock()
	from := now
	to := now.Add(r.window)

	episodes, err := r.store.UpcomingEpisodes(ctx, from, to)
	if err != nil {
		r.logger.Warn("list upcoming episodes", logging.Args(logging.Error(err))...)
		return
	}
	if len(episodes) == 0 {
		return
	}

	lastDay, err := r.store.LastNotifiedDay(ctx)
	if err != nil {
		r.logger.Warn("read notified day", logging.Args(logging.Error(err))...)
		return
	}

	var fresh []library.UpcomingEpisode
	latestDay := lastDay
	for _, entry := range episodes {
		if entry.Episode.AirDate <= lastDay {
			continue
		}
		fresh = append(fresh, entry)
		if entry.Episode.AirDate > latestDay {
			latestDay = entry.Episode.AirDate
		}
	}
	if len(fresh) == 0 {
		return
	}

	summary := summarize(fresh)
	if err := r.service.Publish(ctx, EventEpisodesAiring, Payload{"summary": summary}); err != nil {
		r.logger.Warn("publish airing notification", logging.Args(logging.Error(err))...)
		return
	}
	if err := r.store.SetLastNotifiedDay(ctx, latestDay); err != nil {
		r.logger.Warn("store notified day", logging.Args(logging.Error(err))...)
		return
	}
	r.logger.Info("upcoming episodes announced", logging.Args(
		logging.Int("episodes", len(fresh)),
		logging.String("through", latestDay))...)
}

// summarize renders a short digest, one line per episode, capped so
// push payloads stay readable.
func summarize(episodes []library.UpcomingEpisode) string {
	const maxLines = 5
	var b strings.Builder
	for i, entry := range episodes {
		if i == maxLines {
			fmt.Fprintf(&b, "\nand %d more", len(episodes)-maxLines)
			break
		}
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s S%02dE%02d (%s)",
			entry.ShowTitle, entry.Episode.Season, entry.Episode.Episode, entry.Episode.AirDate)
	}
	return b.String()
}
