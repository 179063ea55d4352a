// Package sync orchestrates reconciliation of the local show library
// against the remote metadata and account services. It decides when a
// run may start, executes the sync steps in a fixed order, aggregates
// their outcomes, and persists the backoff state that throttles retries
// after failures.
package sync
