package daemon_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"showsync/internal/api"
	"showsync/internal/daemon"
	"showsync/internal/library"
	"showsync/internal/sync"
	"showsync/internal/testsupport"
)

type stubRunner struct {
	runs chan sync.Request
}

func (r *stubRunner) Run(_ context.Context, req sync.Request) sync.Result {
	r.runs <- req
	return sync.ResultSuccess
}

func newTestDaemon(t *testing.T, opts ...sync.SchedulerOption) (*daemon.Daemon, *library.Store, *stubRunner) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	runner := &stubRunner{runs: make(chan sync.Request, 8)}
	scheduler := sync.NewScheduler(
		runner,
		store,
		func() bool { return true },
		func(context.Context) bool { return true },
		nil,
		opts...,
	)

	d, err := daemon.New(cfg, store, scheduler, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	return d, store, runner
}

func TestDaemonStartStop(t *testing.T) {
	d, _, _ := newTestDaemon(t)

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Stop()

	if d.APIAddr() == "" {
		t.Fatal("expected api server to be listening")
	}
	if err := d.Start(context.Background()); err == nil {
		t.Fatal("second start must fail")
	}

	status := d.Status(context.Background())
	if !status.Running || !status.AutoSyncEnabled {
		t.Fatalf("unexpected status %+v", status)
	}

	d.Stop()
	if d.Status(context.Background()).Running {
		t.Fatal("expected stopped daemon")
	}
}

func TestDaemonAPIStatus(t *testing.T) {
	d, store, _ := newTestDaemon(t)
	testsupport.SeedShow(t, store, library.Show{TMDBID: 1, Title: "Dark"})

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Stop()

	resp, err := http.Get(fmt.Sprintf("http://%s/api/status", d.APIAddr()))
	if err != nil {
		t.Fatalf("GET status: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code %d", resp.StatusCode)
	}

	var status api.DaemonStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !status.Running || status.ShowCount != 1 {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestDaemonAPISyncEnqueues(t *testing.T) {
	d, _, runner := newTestDaemon(t)

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Stop()

	body, _ := json.Marshal(api.SyncRequest{Scope: "full"})
	resp, err := http.Post(fmt.Sprintf("http://%s/api/sync", d.APIAddr()), "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST sync: %v", err)
	}
	defer resp.Body.Close()

	var syncResp api.SyncResponse
	if err := json.NewDecoder(resp.Body).Decode(&syncResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !syncResp.Enqueued {
		t.Fatalf("unexpected response %+v", syncResp)
	}

	// The startup auto-sync attempt may arrive first; wait for the
	// immediate run specifically.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case req := <-runner.runs:
			if !req.Immediate {
				continue
			}
			if req.Scope != sync.ScopeFull {
				t.Fatalf("unexpected run %+v", req)
			}
			return
		case <-deadline:
			t.Fatal("timed out waiting for sync run")
		}
	}
}

func TestDaemonAPISyncNotifyEmitsNotice(t *testing.T) {
	notices := make(chan string, 2)
	d, _, _ := newTestDaemon(t, sync.WithNotice(func(_ context.Context, kind sync.NoticeKind, message string) {
		if kind == sync.NoticeScheduled {
			notices <- message
		}
	}))

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Stop()

	body, _ := json.Marshal(api.SyncRequest{Scope: "full", Notify: true})
	resp, err := http.Post(fmt.Sprintf("http://%s/api/sync", d.APIAddr()), "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST sync: %v", err)
	}
	defer resp.Body.Close()

	var syncResp api.SyncResponse
	if err := json.NewDecoder(resp.Body).Decode(&syncResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !syncResp.Enqueued {
		t.Fatalf("unexpected response %+v", syncResp)
	}

	select {
	case message := <-notices:
		if message != "Sync scheduled" {
			t.Fatalf("unexpected notice %q", message)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for scheduled notice")
	}
}

func TestDaemonAPIAutoSyncRoundTrip(t *testing.T) {
	d, _, _ := newTestDaemon(t)

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Stop()

	url := fmt.Sprintf("http://%s/api/autosync", d.APIAddr())
	body, _ := json.Marshal(api.AutoSyncState{Enabled: false})
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST autosync: %v", err)
	}
	resp.Body.Close()

	resp, err = http.Get(url)
	if err != nil {
		t.Fatalf("GET autosync: %v", err)
	}
	defer resp.Body.Close()
	var state api.AutoSyncState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.Enabled {
		t.Fatal("expected auto sync disabled")
	}
}
