// Package cloud talks to the remote backup service that mirrors the
// user's show library across devices.
package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Show is one library entry as stored by the backup service.
type Show struct {
	TMDBID     int64  `json:"tmdb_id"`
	Title      string `json:"title"`
	IsRemoved  bool   `json:"is_removed"`
	Language   string `json:"language,omitempty"`
	PosterPath string `json:"poster_path,omitempty"`
}

type listResponse struct {
	Shows  []Show `json:"shows"`
	Cursor string `json:"cursor"`
}

// API is the subset of backup-service operations the sync pipeline
// consumes.
type API interface {
	ListShows(ctx context.Context) ([]Show, error)
	UploadShows(ctx context.Context, shows []Show) error
}

// Client is an authenticated HTTP client for the backup service.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option customizes client construction.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New builds a backup-service client. URL and token are required.
func New(baseURL, token string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("cloud base url is required")
	}
	if token == "" {
		return nil, fmt.Errorf("cloud token is required")
	}
	client := &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// ListShows downloads the full remote library, following cursor pages
// until the service reports no more results.
func (c *Client) ListShows(ctx context.Context) ([]Show, error) {
	var shows []Show
	cursor := ""
	for {
		page, next, err := c.listPage(ctx, cursor)
		if err != nil {
			return nil, err
		}
		shows = append(shows, page...)
		if next == "" {
			return shows, nil
		}
		cursor = next
	}
}

func (c *Client) listPage(ctx context.Context, cursor string) ([]Show, string, error) {
	endpoint := c.baseURL + "/shows"
	if cursor != "" {
		endpoint += "?cursor=" + url.QueryEscape(cursor)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create cloud request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("cloud list shows: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("cloud list shows returned status %d", resp.StatusCode)
	}
	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, "", fmt.Errorf("decode cloud shows: %w", err)
	}
	return body.Shows, body.Cursor, nil
}

// UploadShows sends local library entries to the backup service. A nil
// or empty slice is a no-op.
func (c *Client) UploadShows(ctx context.Context, shows []Show) error {
	if len(shows) == 0 {
		return nil
	}
	payload, err := json.Marshal(map[string][]Show{"shows": shows})
	if err != nil {
		return fmt.Errorf("encode cloud shows: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/shows", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create cloud request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cloud upload shows: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("cloud upload shows returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
}
