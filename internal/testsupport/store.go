package testsupport

import (
	"context"
	"testing"
	"time"

	"showsync/internal/config"
	"showsync/internal/library"
)

// MustOpenStore opens a library.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	store, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedShow inserts a show for tests using the provided store.
func SeedShow(t testing.TB, store *library.Store, show library.Show) {
	t.Helper()

	if show.UpdatedAt.IsZero() {
		show.UpdatedAt = time.Now().UTC()
	}
	if err := store.UpsertShow(context.Background(), show); err != nil {
		t.Fatalf("store.UpsertShow: %v", err)
	}
}
