// Package trakt provides a minimal Trakt API client covering the
// endpoints the watched-history sync needs.
package trakt

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const apiVersion = "2"

// LastActivities reports when collections last changed server side.
type LastActivities struct {
	Episodes struct {
		WatchedAt time.Time `json:"watched_at"`
	} `json:"episodes"`
	Shows struct {
		WatchedAt time.Time `json:"watched_at"`
	} `json:"shows"`
}

// WatchedShow is one entry from the user's watched-shows collection.
type WatchedShow struct {
	LastWatchedAt time.Time       `json:"last_watched_at"`
	Show          ShowIdentity    `json:"show"`
	Seasons       []WatchedSeason `json:"seasons"`
}

// ShowIdentity carries the cross-service identifiers for a show.
type ShowIdentity struct {
	Title string `json:"title"`
	IDs   struct {
		Trakt int64 `json:"trakt"`
		TMDB  int64 `json:"tmdb"`
	} `json:"ids"`
}

// WatchedSeason lists the episodes watched within one season.
type WatchedSeason struct {
	Number   int              `json:"number"`
	Episodes []WatchedEpisode `json:"episodes"`
}

// WatchedEpisode is a single watched episode within a season.
type WatchedEpisode struct {
	Number        int       `json:"number"`
	Plays         int       `json:"plays"`
	LastWatchedAt time.Time `json:"last_watched_at"`
}

// API is the subset of Trakt operations the sync pipeline consumes.
type API interface {
	GetLastActivities(ctx context.Context) (*LastActivities, error)
	GetWatchedShows(ctx context.Context) ([]WatchedShow, error)
}

// Client talks to the Trakt REST API on behalf of a single user.
type Client struct {
	clientID    string
	accessToken string
	baseURL     string
	httpClient  *http.Client
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

// New builds a Trakt client. Client ID, access token, and base URL are
// all required.
func New(clientID, accessToken, baseURL string, opts ...Option) (*Client, error) {
	if clientID == "" {
		return nil, fmt.Errorf("trakt client id is required")
	}
	if accessToken == "" {
		return nil, fmt.Errorf("trakt access token is required")
	}
	if baseURL == "" {
		return nil, fmt.Errorf("trakt base url is required")
	}
	client := &Client{
		clientID:    clientID,
		accessToken: accessToken,
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// GetLastActivities fetches the server-side change timestamps for the
// authenticated user.
func (c *Client) GetLastActivities(ctx context.Context) (*LastActivities, error) {
	var activities LastActivities
	if err := c.get(ctx, "/sync/last_activities", &activities); err != nil {
		return nil, err
	}
	return &activities, nil
}

// GetWatchedShows fetches the full watched-shows collection, including
// per-episode watch state.
func (c *Client) GetWatchedShows(ctx context.Context) ([]WatchedShow, error) {
	var shows []WatchedShow
	if err := c.get(ctx, "/sync/watched/shows", &shows); err != nil {
		return nil, err
	}
	return shows, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create trakt request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("trakt-api-version", apiVersion)
	req.Header.Set("trakt-api-key", c.clientID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("trakt request %s failed after %s: %w", path, time.Since(start).Round(time.Millisecond), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("trakt request %s returned status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode trakt response %s: %w", path, err)
	}
	return nil
}
