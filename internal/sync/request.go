package sync

import "fmt"

// Scope selects how much of the library one run reconciles.
type Scope int

const (
	// ScopeDelta syncs only shows whose metadata has gone stale.
	ScopeDelta Scope = iota
	// ScopeFull syncs every tracked show regardless of staleness.
	ScopeFull
	// ScopeSingle syncs exactly one show.
	ScopeSingle
)

func (s Scope) String() string {
	switch s {
	case ScopeDelta:
		return "delta"
	case ScopeFull:
		return "full"
	case ScopeSingle:
		return "single"
	default:
		return "unknown"
	}
}

// IsMultiShow reports whether the scope covers more than one show. The
// account sync, configuration refresh, housekeeping, and backoff steps
// only run for multi-show scopes.
func (s Scope) IsMultiShow() bool {
	return s == ScopeDelta || s == ScopeFull
}

// Request describes one sync invocation. Immutable once constructed.
type Request struct {
	Scope Scope
	// ShowID is the TMDB id of the target show. Required for
	// ScopeSingle, ignored otherwise.
	ShowID int64
	// Immediate bypasses the rate-limit gate and jumps the queue.
	Immediate bool
}

// Validate reports a contract violation on the request. A single-show
// request without a target id is a caller bug; the run degrades to an
// incomplete outcome instead of panicking.
func (r Request) Validate() error {
	if r.Scope == ScopeSingle && r.ShowID <= 0 {
		return fmt.Errorf("single-show sync requested without a show id")
	}
	return nil
}
