package sync

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"showsync/internal/logging"
)

// Runner executes one sync run. Implemented by Orchestrator.
type Runner interface {
	Run(ctx context.Context, req Request) Result
}

// SchedulerStore is the slice of the library store the scheduler reads
// for admission decisions.
type SchedulerStore interface {
	SyncRunState(ctx context.Context) (time.Time, int, error)
	AutoSyncEnabled(ctx context.Context) (bool, error)
	SetAutoSyncEnabled(ctx context.Context, enabled bool) error
	IsShowStale(ctx context.Context, tmdbID int64, now time.Time) (bool, error)
}

// Scheduler is the public surface the rest of the application uses to
// request and query syncs. Requests are enqueued without blocking and
// executed one at a time by the worker loop; immediate requests jump
// ahead of queued ones.
type Scheduler struct {
	runner       Runner
	store        SchedulerStore
	hasAccount   func() bool
	connectivity func(ctx context.Context) bool
	notice       func(ctx context.Context, kind NoticeKind, message string)
	logger       *slog.Logger
	clock        func() time.Time

	queue     chan Request
	immediate chan Request

	mu      sync.Mutex
	pending int
	active  bool
}

// SchedulerOption customizes scheduler construction.
type SchedulerOption func(*Scheduler)

// WithSchedulerClock overrides the time source. Tests use this.
func WithSchedulerClock(clock func() time.Time) SchedulerOption {
	return func(s *Scheduler) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NoticeKind classifies the user-visible notices emitted by immediate
// requests, so sinks dispatch on the kind rather than the message text.
type NoticeKind int

const (
	NoticeScheduled NoticeKind = iota
	NoticeCanceled
)

// WithNotice registers a sink for user-visible notices emitted by
// immediate requests.
func WithNotice(notice func(ctx context.Context, kind NoticeKind, message string)) SchedulerOption {
	return func(s *Scheduler) { s.notice = notice }
}

// NewScheduler wires the scheduling facade. hasAccount reports whether
// a sync account is configured; connectivity probes the network before
// non-immediate runs are admitted.
func NewScheduler(
	runner Runner,
	store SchedulerStore,
	hasAccount func() bool,
	connectivity func(ctx context.Context) bool,
	logger *slog.Logger,
	opts ...SchedulerOption,
) *Scheduler {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Scheduler{
		runner:       runner,
		store:        store,
		hasAccount:   hasAccount,
		connectivity: connectivity,
		logger:       logging.NewComponentLogger(logger, "scheduler"),
		clock:        time.Now,
		queue:        make(chan Request, 8),
		immediate:    make(chan Request, 8),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run is the worker loop. It executes requests one at a time until the
// context is canceled, draining immediate requests before queued ones.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-s.immediate:
			s.execute(ctx, req)
			continue
		default:
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-s.immediate:
			s.execute(ctx, req)
		case req := <-s.queue:
			s.execute(ctx, req)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, req Request) {
	s.mu.Lock()
	s.pending--
	s.active = true
	s.mu.Unlock()

	result := s.runner.Run(ctx, req)
	s.logger.Debug("sync run executed", logging.Args(
		logging.String(logging.FieldScope, req.Scope.String()),
		logging.String("result", result.String()))...)

	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
}

// RequestIfDue enqueues a delta sync when no run is active or pending
// and the rate-limit window has elapsed. Returns whether a run was
// enqueued.
func (s *Scheduler) RequestIfDue(ctx context.Context) bool {
	if !s.admitDeferred(ctx) {
		return false
	}
	if s.IsSyncActiveOrPending() {
		return false
	}
	now := s.clock()
	lastRun, _, err := s.store.SyncRunState(ctx)
	if err != nil {
		s.logger.Error("read sync run state", logging.Args(logging.Error(err))...)
		return false
	}
	req := Request{Scope: ScopeDelta}
	if !ShouldRun(now, lastRun, req) {
		return false
	}
	return s.enqueue(req)
}

// RequestShowIfStale enqueues a single-show sync when that show's
// metadata has gone stale. Not subject to the global rate limit.
func (s *Scheduler) RequestShowIfStale(ctx context.Context, showID int64) bool {
	if !s.admitDeferred(ctx) {
		return false
	}
	stale, err := s.store.IsShowStale(ctx, showID, s.clock())
	if err != nil {
		s.logger.Error("staleness check", logging.Args(
			logging.Int64(logging.FieldShowID, showID),
			logging.Error(err))...)
		return false
	}
	if !stale {
		return false
	}
	return s.enqueue(Request{Scope: ScopeSingle, ShowID: showID})
}

// RequestImmediate enqueues a run that bypasses the rate-limit gate and
// jumps the queue. With notifyUser set, connectivity failures and
// successful scheduling surface as user-visible notices.
func (s *Scheduler) RequestImmediate(ctx context.Context, scope Scope, showID int64, notifyUser bool) bool {
	if !s.hasAccount() {
		return false
	}
	if notifyUser && !s.connectivity(ctx) {
		s.emitNotice(ctx, NoticeCanceled, "Sync canceled: no connection")
		return false
	}
	req := Request{Scope: scope, ShowID: showID, Immediate: true}
	s.mu.Lock()
	s.pending++
	s.mu.Unlock()
	select {
	case s.immediate <- req:
		if notifyUser {
			s.emitNotice(ctx, NoticeScheduled, "Sync scheduled")
		}
		return true
	default:
		s.mu.Lock()
		s.pending--
		s.mu.Unlock()
		s.logger.Warn("immediate sync dropped, queue full")
		return false
	}
}

// IsSyncActiveOrPending reports whether a run is executing or waiting
// in the queue.
func (s *Scheduler) IsSyncActiveOrPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active || s.pending > 0
}

// AutoSyncEnabled reports whether periodic syncing is switched on.
func (s *Scheduler) AutoSyncEnabled(ctx context.Context) (bool, error) {
	return s.store.AutoSyncEnabled(ctx)
}

// SetAutoSyncEnabled switches periodic syncing on or off.
func (s *Scheduler) SetAutoSyncEnabled(ctx context.Context, enabled bool) error {
	return s.store.SetAutoSyncEnabled(ctx, enabled)
}

// admitDeferred applies the admission rules for non-immediate requests:
// an account exists, the network is reachable, and auto sync is on.
// Requests failing admission are dropped silently.
func (s *Scheduler) admitDeferred(ctx context.Context) bool {
	if !s.hasAccount() {
		return false
	}
	if !s.connectivity(ctx) {
		return false
	}
	enabled, err := s.store.AutoSyncEnabled(ctx)
	if err != nil {
		s.logger.Error("read auto sync setting", logging.Args(logging.Error(err))...)
		return false
	}
	return enabled
}

func (s *Scheduler) enqueue(req Request) bool {
	s.mu.Lock()
	s.pending++
	s.mu.Unlock()
	select {
	case s.queue <- req:
		return true
	default:
		s.mu.Lock()
		s.pending--
		s.mu.Unlock()
		s.logger.Warn("sync request dropped, queue full",
			logging.Args(logging.String(logging.FieldScope, req.Scope.String()))...)
		return false
	}
}

func (s *Scheduler) emitNotice(ctx context.Context, kind NoticeKind, message string) {
	if s.notice == nil {
		return
	}
	s.notice(ctx, kind, message)
}
