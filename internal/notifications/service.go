package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"showsync/internal/config"
)

const userAgent = "ShowSync-Go/0.1.0"

// Event enumerates the notification kinds the sync pipeline emits.
type Event string

const (
	EventSyncScheduled  Event = "sync_scheduled"
	EventSyncCanceled   Event = "sync_canceled"
	EventSyncFailed     Event = "sync_failed"
	EventEpisodesAiring Event = "episodes_airing"
	EventTest           Event = "test"
)

// Payload carries event-specific values interpolated into messages.
type Payload map[string]string

// Service defines the notification surface exposed to the sync pipeline.
type Service interface {
	Publish(ctx context.Context, event Event, data Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

// Publish formats the event and posts it to the configured ntfy topic.
func (n *ntfyService) Publish(ctx context.Context, event Event, data Payload) error {
	return n.send(ctx, formatEvent(event, data))
}

func formatEvent(event Event, data Payload) payload {
	get := func(key, fallback string) string {
		if value := strings.TrimSpace(data[key]); value != "" {
			return value
		}
		return fallback
	}

	switch event {
	case EventSyncScheduled:
		return payload{
			title:   "ShowSync - Sync Scheduled",
			message: get("message", "Sync scheduled"),
			tags:    []string{"showsync", "sync", "scheduled"},
		}
	case EventSyncCanceled:
		return payload{
			title:    "ShowSync - Sync Canceled",
			message:  get("message", "Sync canceled"),
			tags:     []string{"showsync", "sync", "canceled"},
			priority: "high",
		}
	case EventSyncFailed:
		return payload{
			title:    "ShowSync - Sync Failed",
			message:  fmt.Sprintf("Sync failed: %s", get("error", "unknown error")),
			tags:     []string{"showsync", "sync", "failed"},
			priority: "high",
		}
	case EventEpisodesAiring:
		return payload{
			title:   "ShowSync - Episodes Airing",
			message: get("summary", "New episodes airing soon"),
			tags:    []string{"showsync", "episodes", "airing"},
		}
	case EventTest:
		return payload{
			title:   "ShowSync - Test",
			message: "Test notification from showsync",
			tags:    []string{"showsync", "test"},
		}
	default:
		return payload{
			title:   "ShowSync",
			message: get("message", string(event)),
			tags:    []string{"showsync"},
		}
	}
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
