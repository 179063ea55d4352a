package sync_test

import (
	"testing"
	"time"

	synclib "showsync/internal/sync"
)

func TestShouldRunWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	req := synclib.Request{Scope: synclib.ScopeDelta}

	if synclib.ShouldRun(now, now.Add(-synclib.MinSyncInterval+time.Second), req) {
		t.Error("expected rejection just inside the window")
	}
	if !synclib.ShouldRun(now, now.Add(-synclib.MinSyncInterval-time.Second), req) {
		t.Error("expected pass just outside the window")
	}
	if synclib.ShouldRun(now, now.Add(-synclib.MinSyncInterval), req) {
		t.Error("expected rejection at exactly the window boundary")
	}
}

func TestShouldRunImmediateBypasses(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	req := synclib.Request{Scope: synclib.ScopeFull, Immediate: true}
	if !synclib.ShouldRun(now, now, req) {
		t.Error("immediate request should always pass")
	}
}

func TestShouldRunSingleNotGated(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	req := synclib.Request{Scope: synclib.ScopeSingle, ShowID: 1}
	if !synclib.ShouldRun(now, now, req) {
		t.Error("single-show request should not hit the global window")
	}
}

func TestRequestValidate(t *testing.T) {
	if err := (synclib.Request{Scope: synclib.ScopeSingle}).Validate(); err == nil {
		t.Error("expected error for single scope without show id")
	}
	if err := (synclib.Request{Scope: synclib.ScopeSingle, ShowID: 7}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (synclib.Request{Scope: synclib.ScopeFull}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestScopeIsMultiShow(t *testing.T) {
	if !synclib.ScopeFull.IsMultiShow() || !synclib.ScopeDelta.IsMultiShow() {
		t.Error("full and delta scopes are multi-show")
	}
	if synclib.ScopeSingle.IsMultiShow() {
		t.Error("single scope is not multi-show")
	}
}
