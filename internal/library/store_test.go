package library_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"showsync/internal/library"
	"showsync/internal/testsupport"
)

func TestUpsertAndGetShow(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	show := library.Show{
		TMDBID:    1399,
		Title:     "Game of Thrones",
		Status:    library.ShowStatusEnded,
		Overview:  "Noble families vie for control of the Iron Throne.",
		UpdatedAt: time.Now().UTC(),
	}
	if err := store.UpsertShow(ctx, show); err != nil {
		t.Fatalf("UpsertShow: %v", err)
	}

	got, err := store.GetShow(ctx, 1399)
	if err != nil {
		t.Fatalf("GetShow: %v", err)
	}
	if got.Title != show.Title || got.Status != library.ShowStatusEnded {
		t.Fatalf("unexpected show: %+v", got)
	}

	// Upsert again with a new title; added_at must survive, title must change.
	show.Title = "Game of Thrones (2011)"
	if err := store.UpsertShow(ctx, show); err != nil {
		t.Fatalf("UpsertShow update: %v", err)
	}
	got, err = store.GetShow(ctx, 1399)
	if err != nil {
		t.Fatalf("GetShow after update: %v", err)
	}
	if got.Title != "Game of Thrones (2011)" {
		t.Fatalf("expected updated title, got %q", got.Title)
	}
}

func TestGetShowNotFound(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	_, err := store.GetShow(context.Background(), 42)
	if !errors.Is(err, library.ErrShowNotFound) {
		t.Fatalf("expected ErrShowNotFound, got %v", err)
	}
}

func TestShowTMDBIDs(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	testsupport.SeedShow(t, store, library.Show{TMDBID: 1, Title: "One"})
	testsupport.SeedShow(t, store, library.Show{TMDBID: 2, Title: "Two"})

	ids, err := store.ShowTMDBIDs(context.Background())
	if err != nil {
		t.Fatalf("ShowTMDBIDs: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %d", len(ids))
	}
	if _, ok := ids[1]; !ok {
		t.Fatal("expected id 1 present")
	}
}

func TestStaleness(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	now := time.Now().UTC()

	fresh := library.Show{TMDBID: 10, Title: "Fresh", Status: library.ShowStatusContinuing, UpdatedAt: now.Add(-time.Hour)}
	staleContinuing := library.Show{TMDBID: 11, Title: "Stale", Status: library.ShowStatusContinuing, UpdatedAt: now.Add(-13 * time.Hour)}
	endedRecent := library.Show{TMDBID: 12, Title: "Ended", Status: library.ShowStatusEnded, UpdatedAt: now.Add(-48 * time.Hour)}
	testsupport.SeedShow(t, store, fresh)
	testsupport.SeedShow(t, store, staleContinuing)
	testsupport.SeedShow(t, store, endedRecent)

	stale, err := store.IsShowStale(ctx, 11, now)
	if err != nil || !stale {
		t.Fatalf("expected show 11 stale, got stale=%v err=%v", stale, err)
	}
	stale, err = store.IsShowStale(ctx, 10, now)
	if err != nil || stale {
		t.Fatalf("expected show 10 fresh, got stale=%v err=%v", stale, err)
	}
	stale, err = store.IsShowStale(ctx, 12, now)
	if err != nil || stale {
		t.Fatalf("expected ended show 12 not yet stale, got stale=%v err=%v", stale, err)
	}

	// Unknown shows are not stale.
	stale, err = store.IsShowStale(ctx, 999, now)
	if err != nil || stale {
		t.Fatalf("expected unknown show not stale, got stale=%v err=%v", stale, err)
	}

	ids, err := store.StaleShowIDs(ctx, now)
	if err != nil {
		t.Fatalf("StaleShowIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != 11 {
		t.Fatalf("expected only show 11 stale, got %v", ids)
	}
}

func TestReplaceEpisodesPreservesWatched(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	testsupport.SeedShow(t, store, library.Show{TMDBID: 100, Title: "Show"})

	initial := []library.Episode{
		{Season: 1, Episode: 1, Title: "Pilot", AirDate: "2024-01-01"},
		{Season: 1, Episode: 2, Title: "Two", AirDate: "2024-01-08"},
	}
	if err := store.ReplaceEpisodes(ctx, 100, initial); err != nil {
		t.Fatalf("ReplaceEpisodes: %v", err)
	}
	if err := store.MarkEpisodesWatched(ctx, 100, 1, []int{1}); err != nil {
		t.Fatalf("MarkEpisodesWatched: %v", err)
	}

	refreshed := []library.Episode{
		{Season: 1, Episode: 1, Title: "Pilot (remastered)", AirDate: "2024-01-01"},
		{Season: 1, Episode: 2, Title: "Two", AirDate: "2024-01-08"},
		{Season: 1, Episode: 3, Title: "Three", AirDate: "2024-01-15"},
	}
	if err := store.ReplaceEpisodes(ctx, 100, refreshed); err != nil {
		t.Fatalf("ReplaceEpisodes refresh: %v", err)
	}

	from := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	upcoming, err := store.UpcomingEpisodes(ctx, from, to)
	if err != nil {
		t.Fatalf("UpcomingEpisodes: %v", err)
	}
	if len(upcoming) != 3 {
		t.Fatalf("expected 3 episodes, got %d", len(upcoming))
	}
	if !upcoming[0].Episode.Watched {
		t.Fatal("expected watched flag preserved across replace")
	}
	if upcoming[0].Episode.Title != "Pilot (remastered)" {
		t.Fatalf("expected refreshed title, got %q", upcoming[0].Episode.Title)
	}
}

func TestMarkEpisodesWatchedPreservesGaps(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	testsupport.SeedShow(t, store, library.Show{TMDBID: 100, Title: "Show"})

	episodes := make([]library.Episode, 0, 5)
	for e := 1; e <= 5; e++ {
		episodes = append(episodes, library.Episode{Season: 1, Episode: e, AirDate: "2024-01-01"})
	}
	if err := store.ReplaceEpisodes(ctx, 100, episodes); err != nil {
		t.Fatalf("ReplaceEpisodes: %v", err)
	}

	if err := store.MarkEpisodesWatched(ctx, 100, 1, []int{1, 5}); err != nil {
		t.Fatalf("MarkEpisodesWatched: %v", err)
	}
	// Empty input is a no-op, not an error.
	if err := store.MarkEpisodesWatched(ctx, 100, 1, nil); err != nil {
		t.Fatalf("MarkEpisodesWatched empty: %v", err)
	}

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	stored, err := store.UpcomingEpisodes(ctx, from, from)
	if err != nil {
		t.Fatalf("UpcomingEpisodes: %v", err)
	}
	watched := make(map[int]bool)
	for _, entry := range stored {
		watched[entry.Episode.Episode] = entry.Episode.Watched
	}
	if !watched[1] || !watched[5] {
		t.Fatalf("expected episodes 1 and 5 watched, got %v", watched)
	}
	if watched[2] || watched[3] || watched[4] {
		t.Fatalf("expected episodes 2-4 unwatched, got %v", watched)
	}
}

func TestUpdateNextEpisodes(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	testsupport.SeedShow(t, store, library.Show{TMDBID: 200, Title: "Show"})
	episodes := []library.Episode{
		{Season: 1, Episode: 1, AirDate: "2024-01-01", Watched: true},
		{Season: 1, Episode: 2, AirDate: "2024-01-08", Watched: true},
		{Season: 1, Episode: 3, AirDate: "2024-01-15"},
	}
	if err := store.ReplaceEpisodes(ctx, 200, episodes); err != nil {
		t.Fatalf("ReplaceEpisodes: %v", err)
	}

	if err := store.UpdateNextEpisodes(ctx, now); err != nil {
		t.Fatalf("UpdateNextEpisodes: %v", err)
	}

	show, err := store.GetShow(ctx, 200)
	if err != nil {
		t.Fatalf("GetShow: %v", err)
	}
	if show.NextSeason != 1 || show.NextEpisode != 3 {
		t.Fatalf("expected next episode s01e03, got s%02de%02d", show.NextSeason, show.NextEpisode)
	}
}

func TestSearchAndRebuild(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	testsupport.SeedShow(t, store, library.Show{TMDBID: 300, Title: "The Expanse", Overview: "Belters and inners"})
	testsupport.SeedShow(t, store, library.Show{TMDBID: 301, Title: "Severance", Overview: "Work-life split"})

	results, err := store.SearchShows(ctx, "expanse")
	if err != nil {
		t.Fatalf("SearchShows: %v", err)
	}
	if len(results) != 1 || results[0].TMDBID != 300 {
		t.Fatalf("unexpected search results: %+v", results)
	}

	if err := store.RebuildSearchIndex(ctx); err != nil {
		t.Fatalf("RebuildSearchIndex: %v", err)
	}
	results, err = store.SearchShows(ctx, "severance")
	if err != nil {
		t.Fatalf("SearchShows after rebuild: %v", err)
	}
	if len(results) != 1 || results[0].TMDBID != 301 {
		t.Fatalf("unexpected post-rebuild results: %+v", results)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	// Defaults on a fresh database.
	lastSync, counter, err := store.SyncRunState(ctx)
	if err != nil {
		t.Fatalf("SyncRunState: %v", err)
	}
	if !lastSync.IsZero() || counter != 0 {
		t.Fatalf("expected zero state, got %v %d", lastSync, counter)
	}
	enabled, err := store.AutoSyncEnabled(ctx)
	if err != nil || !enabled {
		t.Fatalf("expected auto-sync default true, got %v err=%v", enabled, err)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	if err := store.SetSyncRunState(ctx, now, 3); err != nil {
		t.Fatalf("SetSyncRunState: %v", err)
	}
	lastSync, counter, err = store.SyncRunState(ctx)
	if err != nil {
		t.Fatalf("SyncRunState reload: %v", err)
	}
	if !lastSync.Equal(now) || counter != 3 {
		t.Fatalf("unexpected state: %v %d", lastSync, counter)
	}

	if err := store.SetAutoSyncEnabled(ctx, false); err != nil {
		t.Fatalf("SetAutoSyncEnabled: %v", err)
	}
	enabled, err = store.AutoSyncEnabled(ctx)
	if err != nil || enabled {
		t.Fatalf("expected auto-sync disabled, got %v err=%v", enabled, err)
	}

	if err := store.SetImageBaseURL(ctx, "https://image.tmdb.org/t/p/"); err != nil {
		t.Fatalf("SetImageBaseURL: %v", err)
	}
	url, err := store.ImageBaseURL(ctx)
	if err != nil || url != "https://image.tmdb.org/t/p/" {
		t.Fatalf("unexpected image base url %q err=%v", url, err)
	}
}
