package sync_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"showsync/internal/library"
	synclib "showsync/internal/sync"
	"showsync/internal/testsupport"
	"showsync/internal/tmdb"
)

type fakeTMDB struct {
	details map[int64]*tmdb.ShowDetails
	seasons map[int64]map[int]*tmdb.SeasonDetails
	config  *tmdb.Configuration
	err     error
}

func (f *fakeTMDB) GetTVDetails(_ context.Context, showID int64) (*tmdb.ShowDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	details, ok := f.details[showID]
	if !ok {
		return nil, errors.New("show not found")
	}
	return details, nil
}

func (f *fakeTMDB) GetSeasonDetails(_ context.Context, showID int64, seasonNumber int) (*tmdb.SeasonDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	season, ok := f.seasons[showID][seasonNumber]
	if !ok {
		return nil, errors.New("season not found")
	}
	return season, nil
}

func (f *fakeTMDB) GetConfiguration(context.Context) (*tmdb.Configuration, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.config, nil
}

func showFixture(id int64, name string) (*tmdb.ShowDetails, map[int]*tmdb.SeasonDetails) {
	details := &tmdb.ShowDetails{
		ID:     id,
		Name:   name,
		Status: "Returning Series",
		Seasons: []tmdb.Season{
			{SeasonNumber: 0, EpisodeCount: 1},
			{SeasonNumber: 1, EpisodeCount: 2},
		},
	}
	seasons := map[int]*tmdb.SeasonDetails{
		1: {
			SeasonNumber: 1,
			Episodes: []tmdb.Episode{
				{Name: "Pilot", SeasonNumber: 1, EpisodeNumber: 1, AirDate: "2026-01-01"},
				{Name: "Second", SeasonNumber: 1, EpisodeNumber: 2, AirDate: "2026-01-08"},
			},
		},
	}
	return details, seasons
}

func TestSyncShowsSingle(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	details, seasons := showFixture(100, "Dark")
	api := &fakeTMDB{
		details: map[int64]*tmdb.ShowDetails{100: details},
		seasons: map[int64]map[int]*tmdb.SeasonDetails{100: seasons},
	}
	syncer := synclib.NewShowSync(store, api, nil)

	result, hasUpdated := syncer.SyncShows(context.Background(), synclib.ScopeSingle, 100, time.Now())
	if result != synclib.ResultSuccess {
		t.Fatalf("result %v, want success", result)
	}
	if !hasUpdated {
		t.Fatal("expected updates")
	}

	show, err := store.GetShow(context.Background(), 100)
	if err != nil {
		t.Fatalf("GetShow: %v", err)
	}
	if show.Title != "Dark" || show.Status != library.ShowStatusContinuing {
		t.Fatalf("unexpected show %+v", show)
	}
}

func TestSyncShowsDeltaSkipsFresh(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	testsupport.SeedShow(t, store, library.Show{TMDBID: 100, Title: "Fresh", Status: library.ShowStatusContinuing})
	api := &fakeTMDB{} // any fetch would fail
	syncer := synclib.NewShowSync(store, api, nil)

	result, hasUpdated := syncer.SyncShows(context.Background(), synclib.ScopeDelta, 0, time.Now())
	if result != synclib.ResultSuccess {
		t.Fatalf("result %v, want success", result)
	}
	if hasUpdated {
		t.Fatal("fresh shows must not be re-fetched")
	}
}

func TestSyncShowsPartialFailure(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	testsupport.SeedShow(t, store, library.Show{TMDBID: 100, Title: "Known"})
	testsupport.SeedShow(t, store, library.Show{TMDBID: 200, Title: "Gone"})
	details, seasons := showFixture(100, "Known")
	api := &fakeTMDB{
		details: map[int64]*tmdb.ShowDetails{100: details},
		seasons: map[int64]map[int]*tmdb.SeasonDetails{100: seasons},
	}
	syncer := synclib.NewShowSync(store, api, nil)

	result, hasUpdated := syncer.SyncShows(context.Background(), synclib.ScopeFull, 0, time.Now())
	if result != synclib.ResultIncomplete {
		t.Fatalf("result %v, want incomplete", result)
	}
	if !hasUpdated {
		t.Fatal("the surviving show still counts as updated")
	}
}

func TestSyncShowsFatalWhenTargetsUnavailable(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	store.Close() // force list failures
	syncer := synclib.NewShowSync(store, &fakeTMDB{}, nil)

	result, _ := syncer.SyncShows(context.Background(), synclib.ScopeFull, 0, time.Now())
	if result != synclib.ResultFatal {
		t.Fatalf("result %v, want fatal", result)
	}
}
