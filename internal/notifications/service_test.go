package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"showsync/internal/library"
	"showsync/internal/notifications"
	"showsync/internal/testsupport"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(cfg)
	if err := svc.Publish(context.Background(), notifications.EventTest, nil); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name          string
		event         notifications.Event
		payload       notifications.Payload
		expectTitle   string
		expectMessage string
		expectTags    string
	}{
		{
			name:          "sync failed",
			event:         notifications.EventSyncFailed,
			payload:       notifications.Payload{"error": "tmdb unreachable"},
			expectTitle:   "ShowSync - Sync Failed",
			expectMessage: "Sync failed: tmdb unreachable",
			expectTags:    "showsync,sync,failed",
		},
		{
			name:          "episodes airing",
			event:         notifications.EventEpisodesAiring,
			payload:       notifications.Payload{"summary": "Dark S01E01 (2026-01-01)"},
			expectTitle:   "ShowSync - Episodes Airing",
			expectMessage: "Dark S01E01 (2026-01-01)",
			expectTags:    "showsync,episodes,airing",
		},
		{
			name:          "sync scheduled",
			event:         notifications.EventSyncScheduled,
			payload:       notifications.Payload{"message": "Sync scheduled"},
			expectTitle:   "ShowSync - Sync Scheduled",
			expectMessage: "Sync scheduled",
			expectTags:    "showsync,sync,scheduled",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotTitle, gotTags, gotBody string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotTitle = r.Header.Get("Title")
				gotTags = r.Header.Get("Tags")
				body, _ := io.ReadAll(r.Body)
				gotBody = string(body)
			}))
			defer server.Close()

			cfg := testsupport.NewConfig(t)
			cfg.Notifications.NtfyTopic = server.URL
			svc := notifications.NewService(cfg)

			if err := svc.Publish(context.Background(), tc.event, tc.payload); err != nil {
				t.Fatalf("Publish: %v", err)
			}
			if gotTitle != tc.expectTitle {
				t.Errorf("title %q, want %q", gotTitle, tc.expectTitle)
			}
			if gotTags != tc.expectTags {
				t.Errorf("tags %q, want %q", gotTags, tc.expectTags)
			}
			if gotBody != tc.expectMessage {
				t.Errorf("body %q, want %q", gotBody, tc.expectMessage)
			}
		})
	}
}

func TestNtfyServiceErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(cfg)

	if err := svc.Publish(context.Background(), notifications.EventTest, nil); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

type recordService struct {
	events    []notifications.Event
	summaries []string
}

func (r *recordService) Publish(_ context.Context, event notifications.Event, data notifications.Payload) error {
	r.events = append(r.events, event)
	r.summaries = append(r.summaries, data["summary"])
	return nil
}

func TestRefresherAnnouncesOnce(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	testsupport.SeedShow(t, store, library.Show{TMDBID: 1, Title: "Dark"})
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	if err := store.ReplaceEpisodes(context.Background(), 1, []library.Episode{
		{ShowTMDBID: 1, Season: 1, Episode: 1, Title: "Pilot", AirDate: "2026-01-01"},
	}); err != nil {
		t.Fatalf("ReplaceEpisodes: %v", err)
	}

	svc := &recordService{}
	refresher := notifications.NewRefresher(store, svc, 24*time.Hour, nil).
		WithClock(func() time.Time { return now })

	refresher.RefreshUpcoming(context.Background())
	if len(svc.events) != 1 || svc.events[0] != notifications.EventEpisodesAiring {
		t.Fatalf("unexpected events %v", svc.events)
	}
	if !strings.Contains(svc.summaries[0], "Dark S01E01") {
		t.Fatalf("unexpected summary %q", svc.summaries[0])
	}

	// Same day again: already notified, nothing new.
	refresher.RefreshUpcoming(context.Background())
	if len(svc.events) != 1 {
		t.Fatalf("expected no repeat announcement, got %v", svc.events)
	}
}

func TestRefresherSkipsEmptyWindow(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	svc := &recordService{}
	refresher := notifications.NewRefresher(store, svc, 24*time.Hour, nil)

	refresher.RefreshUpcoming(context.Background())
	if len(svc.events) != 0 {
		t.Fatalf("unexpected events %v", svc.events)
	}
}
