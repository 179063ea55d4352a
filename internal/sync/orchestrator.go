package sync

import (
	"context"
	"log/slog"
	"time"

	"showsync/internal/logging"
)

// ShowSyncer is the primary reconciliation step: it diffs the local
// library against the metadata provider for the requested scope.
// hasUpdated reports whether any stored show changed.
type ShowSyncer interface {
	SyncShows(ctx context.Context, scope Scope, showID int64, now time.Time) (result Result, hasUpdated bool)
}

// ConfigRefresher fetches remote configuration (the image base URL)
// and persists it.
type ConfigRefresher interface {
	Refresh(ctx context.Context) error
}

// AddedShow describes a show the account sync added to the library.
type AddedShow struct {
	TMDBID int64
	Title  string
}

// CloudSyncer reconciles the library against the cloud backup account.
type CloudSyncer interface {
	SyncCloud(ctx context.Context, existing map[int64]struct{}) (Result, map[int64]AddedShow)
}

// TraktSyncer merges watched history from the tracking service.
type TraktSyncer interface {
	SyncTrakt(ctx context.Context, existing map[int64]struct{}, now time.Time) Result
}

// LibraryMaint is the slice of the library store the sequencer needs
// for account-sync inputs, housekeeping, and run-state persistence.
type LibraryMaint interface {
	ShowTMDBIDs(ctx context.Context) (map[int64]struct{}, error)
	RebuildSearchIndex(ctx context.Context) error
	UpdateNextEpisodes(ctx context.Context, now time.Time) error
	SyncRunState(ctx context.Context) (time.Time, int, error)
	SetSyncRunState(ctx context.Context, lastSync time.Time, failedCounter int) error
}

// NotificationRefresher recomputes pending episode notifications. Runs
// at the end of every run regardless of outcome.
type NotificationRefresher interface {
	RefreshUpcoming(ctx context.Context)
}

// Orchestrator sequences the sync steps for one run at a time. Runs
// are serialized by the scheduler; the orchestrator itself assumes
// at most one concurrent Run call.
type Orchestrator struct {
	shows        ShowSyncer
	config       ConfigRefresher
	cloud        CloudSyncer
	trakt        TraktSyncer
	library      LibraryMaint
	notifier     NotificationRefresher
	cloudEnabled bool

	onShowsChanged func()
	listener       ProgressListener
	logger         *slog.Logger
	clock          func() time.Time
}

// OrchestratorOption customizes orchestrator construction.
type OrchestratorOption func(*Orchestrator)

// WithClock overrides the time source. Tests use this.
func WithClock(clock func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithProgressListener registers a listener for step events.
func WithProgressListener(listener ProgressListener) OrchestratorOption {
	return func(o *Orchestrator) { o.listener = listener }
}

// WithShowsChangedHook registers a callback fired after the account
// sync step, successful or not, to signal the dataset may have changed.
func WithShowsChangedHook(hook func()) OrchestratorOption {
	return func(o *Orchestrator) { o.onShowsChanged = hook }
}

// NewOrchestrator wires the sequencer. cloudEnabled selects which of
// the two account-sync strategies runs; exactly one is used per run.
func NewOrchestrator(
	shows ShowSyncer,
	config ConfigRefresher,
	cloud CloudSyncer,
	trakt TraktSyncer,
	library LibraryMaint,
	notifier NotificationRefresher,
	cloudEnabled bool,
	logger *slog.Logger,
	opts ...OrchestratorOption,
) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	o := &Orchestrator{
		shows:        shows,
		config:       config,
		cloud:        cloud,
		trakt:        trakt,
		library:      library,
		notifier:     notifier,
		cloudEnabled: cloudEnabled,
		logger:       logging.NewComponentLogger(logger, "sync"),
		clock:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes one sync. The gate is consulted first; a rejected run
// returns ResultSkipped with no side effects. Step failures other than
// a fatal show-reconciliation outcome are recorded and the remaining
// independent steps still execute.
func (o *Orchestrator) Run(ctx context.Context, req Request) Result {
	now := o.clock()

	lastRun, failedCounter, err := o.library.SyncRunState(ctx)
	if err != nil {
		o.logger.Error("read sync run state", logging.Args(logging.Error(err))...)
		return ResultSkipped
	}
	if !ShouldRun(now, lastRun, req) {
		return ResultSkipped
	}

	progress := newProgress(o.logger, o.listener)
	runLog := o.logger.With(
		logging.String(logging.FieldRunID, progress.RunID()),
		logging.String(logging.FieldScope, req.Scope.String()))
	runLog.Info("sync run started", logging.Args(
		logging.Bool("immediate", req.Immediate))...)

	if err := req.Validate(); err != nil {
		runLog.Error("invalid sync request", logging.Args(logging.Error(err))...)
		progress.RecordError()
		return o.finalize(ctx, progress, ResultIncomplete)
	}

	// Step 1: show reconciliation. A fatal outcome aborts the run with
	// no backoff-state change.
	progress.Publish(StepShows)
	result, hasUpdated := o.shows.SyncShows(ctx, req.Scope, req.ShowID, now)
	switch result {
	case ResultFatal:
		progress.RecordError()
		runLog.Error("show reconciliation failed fatally")
		return o.finalize(ctx, progress, ResultFatal)
	case ResultIncomplete:
		progress.RecordError()
	}

	if !req.Scope.IsMultiShow() {
		return o.finalize(ctx, progress, result)
	}

	// Step 2: configuration refresh. Failure is recorded but never
	// downgrades the aggregate on its own.
	progress.Publish(StepTMDBConfig)
	if err := o.config.Refresh(ctx); err != nil {
		progress.RecordError()
		runLog.Warn("configuration refresh failed", logging.Args(logging.Error(err))...)
	}

	// Step 3: account sync. Exactly one strategy per run. The final
	// aggregate is success only if both the show reconciliation and the
	// account step succeeded.
	var newlyAdded map[int64]AddedShow
	existing, err := o.library.ShowTMDBIDs(ctx)
	if err != nil {
		progress.RecordError()
		result = ResultIncomplete
		runLog.Error("load existing show ids", logging.Args(logging.Error(err))...)
	} else {
		accountResult := ResultSuccess
		ran := false
		if o.cloudEnabled && o.cloud != nil {
			progress.Publish(StepCloud)
			accountResult, newlyAdded = o.cloud.SyncCloud(ctx, existing)
			ran = true
		} else if !o.cloudEnabled && o.trakt != nil {
			progress.Publish(StepTrakt)
			accountResult = o.trakt.SyncTrakt(ctx, existing, now)
			ran = true
		}
		if ran {
			if accountResult != ResultSuccess {
				progress.RecordError()
			}
			if result != ResultSuccess || accountResult != ResultSuccess {
				result = ResultIncomplete
			}
			if o.onShowsChanged != nil {
				o.onShowsChanged()
			}
		}
	}

	// Step 4: housekeeping. New shows index themselves on insert, so a
	// full rebuild only pays off when updates happened without any
	// additions.
	if hasUpdated && len(newlyAdded) == 0 {
		if err := o.library.RebuildSearchIndex(ctx); err != nil {
			progress.RecordError()
			runLog.Warn("search index rebuild failed", logging.Args(logging.Error(err))...)
		}
	}
	if err := o.library.UpdateNextEpisodes(ctx, now); err != nil {
		progress.RecordError()
		runLog.Warn("next episode recompute failed", logging.Args(logging.Error(err))...)
	}

	// Step 5: backoff bookkeeping.
	state := NextState(RunState{LastRunTime: lastRun, FailedCounter: failedCounter}, now, result)
	if err := o.library.SetSyncRunState(ctx, state.LastRunTime, state.FailedCounter); err != nil {
		runLog.Error("persist sync run state", logging.Args(logging.Error(err))...)
	}

	return o.finalize(ctx, progress, result)
}

// finalize fires the unconditional notification refresh and emits the
// terminal progress event.
func (o *Orchestrator) finalize(ctx context.Context, progress *Progress, result Result) Result {
	if o.notifier != nil {
		o.notifier.RefreshUpcoming(ctx)
	}
	progress.Finish(result)
	return result
}
