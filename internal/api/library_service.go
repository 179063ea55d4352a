package api

import (
	"context"
	"time"

	"showsync/internal/library"
)

// LibraryReader abstracts the store interactions needed for API queries.
type LibraryReader interface {
	ListShows(ctx context.Context) ([]library.Show, error)
	SearchShows(ctx context.Context, query string) ([]library.Show, error)
	UpcomingEpisodes(ctx context.Context, from, to time.Time) ([]library.UpcomingEpisode, error)
}

// LibraryService exposes read-only library operations returning API DTOs.
type LibraryService struct {
	store LibraryReader
}

// NewLibraryService constructs a LibraryService around the provided reader.
func NewLibraryService(store LibraryReader) *LibraryService {
	if store == nil {
		return nil
	}
	return &LibraryService{store: store}
}

// Shows returns every tracked show.
func (s *LibraryService) Shows(ctx context.Context) (ShowListResponse, error) {
	if s == nil || s.store == nil {
		return ShowListResponse{}, nil
	}
	shows, err := s.store.ListShows(ctx)
	if err != nil {
		return ShowListResponse{}, err
	}
	return ShowListResponse{Shows: FromShows(shows)}, nil
}

// Search returns shows matching the full-text query.
func (s *LibraryService) Search(ctx context.Context, query string) (ShowListResponse, error) {
	if s == nil || s.store == nil {
		return ShowListResponse{}, nil
	}
	shows, err := s.store.SearchShows(ctx, query)
	if err != nil {
		return ShowListResponse{}, err
	}
	return ShowListResponse{Shows: FromShows(shows)}, nil
}

// Upcoming returns episodes airing within the window starting now.
func (s *LibraryService) Upcoming(ctx context.Context, now time.Time, window time.Duration) (UpcomingResponse, error) {
	if s == nil || s.store == nil {
		return UpcomingResponse{}, nil
	}
	entries, err := s.store.UpcomingEpisodes(ctx, now, now.Add(window))
	if err != nil {
		return UpcomingResponse{}, err
	}
	return UpcomingResponse{Episodes: FromUpcoming(entries)}, nil
}
