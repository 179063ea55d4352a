package api

import (
	"time"

	"showsync/internal/library"
)

// DaemonStatus is the aggregated runtime information served by /api/status.
type DaemonStatus struct {
	Running         bool      `json:"running"`
	PID             int       `json:"pid"`
	DatabasePath    string    `json:"databasePath"`
	LockFilePath    string    `json:"lockFilePath"`
	SyncActive      bool      `json:"syncActive"`
	AutoSyncEnabled bool      `json:"autoSyncEnabled"`
	LastSyncAt      time.Time `json:"lastSyncAt"`
	FailedCounter   int       `json:"failedCounter"`
	ShowCount       int       `json:"showCount"`
	ImageBaseURL    string    `json:"imageBaseUrl,omitempty"`
}

// SyncRequest asks the daemon to enqueue a sync run. Notify makes the
// daemon emit user-visible scheduled/canceled notices for this request.
type SyncRequest struct {
	Scope  string `json:"scope"`
	ShowID int64  `json:"showId,omitempty"`
	Notify bool   `json:"notify,omitempty"`
}

// SyncResponse reports whether a run was enqueued.
type SyncResponse struct {
	Enqueued bool   `json:"enqueued"`
	Message  string `json:"message,omitempty"`
}

// AutoSyncState carries the periodic-sync toggle over the wire.
type AutoSyncState struct {
	Enabled bool `json:"enabled"`
}

// ShowSummary is the transport representation of a tracked show.
type ShowSummary struct {
	TMDBID      int64     `json:"tmdbId"`
	Title       string    `json:"title"`
	Status      string    `json:"status"`
	NextSeason  int       `json:"nextSeason,omitempty"`
	NextEpisode int       `json:"nextEpisode,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ShowListResponse wraps a list of shows.
type ShowListResponse struct {
	Shows []ShowSummary `json:"shows"`
}

// UpcomingEpisode is the transport representation of an airing episode.
type UpcomingEpisode struct {
	ShowTitle string `json:"showTitle"`
	Season    int    `json:"season"`
	Episode   int    `json:"episode"`
	Title     string `json:"title,omitempty"`
	AirDate   string `json:"airDate"`
}

// UpcomingResponse wraps the upcoming-episode list.
type UpcomingResponse struct {
	Episodes []UpcomingEpisode `json:"episodes"`
}

// FromShow converts a library show into its DTO.
func FromShow(show library.Show) ShowSummary {
	return ShowSummary{
		TMDBID:      show.TMDBID,
		Title:       show.Title,
		Status:      string(show.Status),
		NextSeason:  show.NextSeason,
		NextEpisode: show.NextEpisode,
		UpdatedAt:   show.UpdatedAt,
	}
}

// FromShows converts a slice of library shows into DTOs.
func FromShows(shows []library.Show) []ShowSummary {
	if len(shows) == 0 {
		return nil
	}
	out := make([]ShowSummary, 0, len(shows))
	for _, show := range shows {
		out = append(out, FromShow(show))
	}
	return out
}

// FromUpcoming converts library upcoming entries into DTOs.
func FromUpcoming(entries []library.UpcomingEpisode) []UpcomingEpisode {
	if len(entries) == 0 {
		return nil
	}
	out := make([]UpcomingEpisode, 0, len(entries))
	for _, entry := range entries {
		out = append(out, UpcomingEpisode{
			ShowTitle: entry.ShowTitle,
			Season:    entry.Episode.Season,
			Episode:   entry.Episode.Episode,
			Title:     entry.Episode.Title,
			AirDate:   entry.Episode.AirDate,
		})
	}
	return out
}
