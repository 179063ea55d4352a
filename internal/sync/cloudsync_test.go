package sync_test

import (
	"context"
	"errors"
	"testing"

	"showsync/internal/cloud"
	"showsync/internal/library"
	synclib "showsync/internal/sync"
	"showsync/internal/testsupport"
)

type fakeCloudAPI struct {
	remote    []cloud.Show
	listErr   error
	uploadErr error
	uploaded  []cloud.Show
}

func (f *fakeCloudAPI) ListShows(context.Context) ([]cloud.Show, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.remote, nil
}

func (f *fakeCloudAPI) UploadShows(_ context.Context, shows []cloud.Show) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploaded = append(f.uploaded, shows...)
	return nil
}

func TestSyncCloudMergesRemoteState(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	testsupport.SeedShow(t, store, library.Show{TMDBID: 1, Title: "Keep"})
	testsupport.SeedShow(t, store, library.Show{TMDBID: 2, Title: "Drop"})
	testsupport.SeedShow(t, store, library.Show{TMDBID: 3, Title: "LocalOnly"})

	api := &fakeCloudAPI{remote: []cloud.Show{
		{TMDBID: 1, Title: "Keep"},
		{TMDBID: 2, Title: "Drop", IsRemoved: true},
		{TMDBID: 4, Title: "RemoteNew"},
	}}
	syncer := synclib.NewCloudSync(store, api, nil)

	existing := map[int64]struct{}{1: {}, 2: {}, 3: {}}
	result, added := syncer.SyncCloud(context.Background(), existing)
	if result != synclib.ResultSuccess {
		t.Fatalf("result %v, want success", result)
	}
	if len(added) != 1 {
		t.Fatalf("added %v, want one entry", added)
	}
	if entry, ok := added[4]; !ok || entry.Title != "RemoteNew" {
		t.Fatalf("unexpected added map %v", added)
	}

	ids, err := store.ShowTMDBIDs(context.Background())
	if err != nil {
		t.Fatalf("ShowTMDBIDs: %v", err)
	}
	if _, ok := ids[2]; ok {
		t.Fatal("removed show should be gone locally")
	}
	if _, ok := ids[4]; !ok {
		t.Fatal("remote addition should exist locally")
	}

	if len(api.uploaded) != 1 || api.uploaded[0].TMDBID != 3 {
		t.Fatalf("unexpected upload %v", api.uploaded)
	}
}

func TestSyncCloudListFailure(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	api := &fakeCloudAPI{listErr: errors.New("http 503")}
	syncer := synclib.NewCloudSync(store, api, nil)

	result, added := syncer.SyncCloud(context.Background(), map[int64]struct{}{})
	if result != synclib.ResultIncomplete {
		t.Fatalf("result %v, want incomplete", result)
	}
	if added != nil {
		t.Fatalf("added %v, want nil", added)
	}
}

func TestSyncCloudUploadFailureDegrades(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	testsupport.SeedShow(t, store, library.Show{TMDBID: 3, Title: "LocalOnly"})
	api := &fakeCloudAPI{uploadErr: errors.New("http 500")}
	syncer := synclib.NewCloudSync(store, api, nil)

	result, _ := syncer.SyncCloud(context.Background(), map[int64]struct{}{3: {}})
	if result != synclib.ResultIncomplete {
		t.Fatalf("result %v, want incomplete", result)
	}
}
