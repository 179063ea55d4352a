package sync

// Result is the aggregate outcome of one sync run.
type Result int

const (
	// ResultSuccess means every attempted step completed without error.
	ResultSuccess Result = iota
	// ResultIncomplete means at least one step failed but the run
	// continued through the remaining independent steps.
	ResultIncomplete
	// ResultFatal means the show reconciliation step could not produce
	// an outcome at all and the run was aborted.
	ResultFatal
	// ResultSkipped means the run never started: the rate-limit window
	// had not elapsed yet. Not an error.
	ResultSkipped
)

func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultIncomplete:
		return "incomplete"
	case ResultFatal:
		return "fatal"
	case ResultSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}
