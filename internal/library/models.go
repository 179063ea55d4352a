package library

import "time"

// ShowStatus mirrors the TMDB production status values the sync cares about.
type ShowStatus string

const (
	ShowStatusContinuing ShowStatus = "continuing"
	ShowStatusEnded      ShowStatus = "ended"
	ShowStatusUnknown    ShowStatus = ""
)

// Show is a single tracked series identified by its TMDB id.
type Show struct {
	TMDBID      int64
	Title       string
	Status      ShowStatus
	Overview    string
	PosterPath  string
	FirstAired  string
	NextSeason  int
	NextEpisode int
	AddedAt     time.Time
	UpdatedAt   time.Time
}

// Episode is a single episode of a tracked show.
type Episode struct {
	ID         int64
	ShowTMDBID int64
	Season     int
	Episode    int
	Title      string
	AirDate    string
	Watched    bool
}

// UpcomingEpisode pairs an episode with its show title for notification
// and status rendering.
type UpcomingEpisode struct {
	ShowTitle string
	Episode   Episode
}
