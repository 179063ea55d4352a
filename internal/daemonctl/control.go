// Package daemonctl lets the CLI control a running showsync daemon over
// its HTTP API, and launch a detached daemon process when none is up.
package daemonctl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"showsync/internal/api"
)

// Client talks to the daemon HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a control client for the daemon bound at addr
// (host:port, as configured under paths.api_bind).
func NewClient(addr string) (*Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("daemon api address is empty")
	}
	return &Client{
		baseURL:    "http://" + addr,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Status fetches the daemon runtime status.
func (c *Client) Status(ctx context.Context) (*api.DaemonStatus, error) {
	var status api.DaemonStatus
	if err := c.get(ctx, "/api/status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// SyncNow asks the daemon for an immediate sync of the given scope.
// With notify set the daemon emits scheduled/canceled notices.
func (c *Client) SyncNow(ctx context.Context, scope string, showID int64, notify bool) (*api.SyncResponse, error) {
	var resp api.SyncResponse
	err := c.post(ctx, "/api/sync", api.SyncRequest{Scope: scope, ShowID: showID, Notify: notify}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SyncShowIfStale asks the daemon to sync one show if its metadata has
// gone stale.
func (c *Client) SyncShowIfStale(ctx context.Context, showID int64) (*api.SyncResponse, error) {
	var resp api.SyncResponse
	err := c.post(ctx, fmt.Sprintf("/api/sync/show/%d", showID), nil, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// AutoSync reads the periodic-sync toggle.
func (c *Client) AutoSync(ctx context.Context) (bool, error) {
	var state api.AutoSyncState
	if err := c.get(ctx, "/api/autosync", &state); err != nil {
		return false, err
	}
	return state.Enabled, nil
}

// SetAutoSync writes the periodic-sync toggle.
func (c *Client) SetAutoSync(ctx context.Context, enabled bool) error {
	return c.post(ctx, "/api/autosync", api.AutoSyncState{Enabled: enabled}, nil)
}

// Shows lists tracked shows, optionally filtered by a full-text query.
func (c *Client) Shows(ctx context.Context, query string) (*api.ShowListResponse, error) {
	path := "/api/shows"
	if q := strings.TrimSpace(query); q != "" {
		path += "?q=" + q
	}
	var resp api.ShowListResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Upcoming lists episodes airing within the daemon's configured window.
func (c *Client) Upcoming(ctx context.Context) (*api.UpcomingResponse, error) {
	var resp api.UpcomingResponse
	if err := c.get(ctx, "/api/upcoming", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Ping reports whether a daemon answers on the configured address.
func (c *Client) Ping(ctx context.Context) bool {
	_, err := c.Status(ctx)
	return err == nil
}

// Launch starts a detached showsyncd process.
func Launch(executablePath, configPath string) error {
	if strings.TrimSpace(executablePath) == "" {
		return fmt.Errorf("resolve executable: executable path is empty")
	}
	var args []string
	if cfg := strings.TrimSpace(configPath); cfg != "" {
		args = append(args, "--config", cfg)
	}
	proc := exec.Command(executablePath, args...)
	if err := proc.Start(); err != nil {
		return fmt.Errorf("launch daemon: %w", err)
	}
	return proc.Process.Release()
}

// WaitForDaemon polls the API until the daemon answers or the timeout
// elapses.
func WaitForDaemon(ctx context.Context, client *Client, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if client.Ping(ctx) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
	return fmt.Errorf("daemon did not answer within %s", timeout)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build daemon request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode daemon request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = strings.NewReader("{}")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build daemon request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("daemon request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("daemon returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("daemon returned status %d", resp.StatusCode)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode daemon response %s: %w", req.URL.Path, err)
	}
	return nil
}
