package sync

import "time"

// MinSyncInterval is the smallest gap between two non-immediate
// multi-show runs.
const MinSyncInterval = 5 * time.Minute

// ShouldRun decides whether a run may proceed given the last persisted
// run time. Immediate requests always pass. Single-show requests are
// never gated here; their admission happens at request time based on
// per-show staleness.
func ShouldRun(now, lastRunTime time.Time, req Request) bool {
	if req.Immediate {
		return true
	}
	if !req.Scope.IsMultiShow() {
		return true
	}
	return now.Sub(lastRunTime) > MinSyncInterval
}
