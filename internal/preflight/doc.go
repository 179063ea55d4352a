// Package preflight provides readiness checks for the remote services
// and filesystem paths showsync depends on.
//
// These checks run in two contexts:
//   - The daemon runs them at startup so a misconfigured install fails
//     loudly instead of silently dropping every sync request.
//   - The CLI "showsync status" command uses them to display service
//     health.
//
// Each check is gated by its config toggle -- disabled features are
// skipped.
package preflight
