// Package library manages the local show and episode catalog backed by
// SQLite. It owns the schema, the full-text search index, and the durable
// settings keys the sync scheduler relies on across restarts.
package library
