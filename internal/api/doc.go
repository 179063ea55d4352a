// Package api defines wire-format types and converters for the daemon
// HTTP API. It translates internal library models into transport
// friendly DTOs so the CLI and other consumers can render them without
// coupling to internal types.
//
// DTOs use camelCase JSON tags. Timestamps use RFC3339. Internal enums
// (library.ShowStatus, sync scopes) are exposed as lowercase strings.
package api
