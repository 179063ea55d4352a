// Package daemon hosts the long-running sync process: it enforces
// single-instance execution via a lock file, supervises the sync
// scheduler and the periodic auto-sync ticker, and serves the HTTP API
// the CLI talks to.
package daemon
