// Package notifications delivers sync and episode events via ntfy.
//
// The default implementation publishes to the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Enumerated event types cover the sync milestones and the
// upcoming-episode digest so callers can emit consistent messages
// without duplicating HTTP glue.
package notifications
