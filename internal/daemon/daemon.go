package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"showsync/internal/config"
	"showsync/internal/library"
	"showsync/internal/logging"
	"showsync/internal/sync"
)

// Daemon coordinates the background sync services and enforces
// single-instance execution.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *library.Store
	scheduler *sync.Scheduler

	lockPath string
	lock     *flock.Flock
	api      *apiServer

	running atomic.Bool
	cancel  context.CancelFunc
	group   *errgroup.Group
}

// Status represents daemon runtime information.
type Status struct {
	Running         bool
	PID             int
	DatabasePath    string
	LockFilePath    string
	SyncActive      bool
	AutoSyncEnabled bool
	LastSyncAt      time.Time
	FailedCounter   int
	ShowCount       int
	ImageBaseURL    string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *library.Store, scheduler *sync.Scheduler, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || scheduler == nil {
		return nil, errors.New("daemon requires config, store, and scheduler")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "showsyncd.lock")
	d := &Daemon{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "daemon"),
		store:     store,
		scheduler: scheduler,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}
	api, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.api = api
	return d, nil
}

// Start acquires the daemon lock and launches the scheduler worker,
// the auto-sync ticker, and the API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another showsync daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	group, groupCtx := errgroup.WithContext(runCtx)
	d.cancel = cancel
	d.group = group

	group.Go(func() error {
		err := d.scheduler.Run(groupCtx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	group.Go(func() error {
		d.autoSyncLoop(groupCtx)
		return nil
	})

	if d.api != nil {
		if err := d.api.start(groupCtx); err != nil {
			cancel()
			_ = group.Wait()
			_ = d.lock.Unlock()
			d.cancel = nil
			d.group = nil
			return err
		}
	}

	d.running.Store(true)
	d.logger.Info("showsync daemon started", logging.Args(
		logging.String("lock", d.lockPath))...)
	return nil
}

// autoSyncLoop requests a delta sync on the configured cadence. The
// scheduler drops requests when auto sync is off, the gate window has
// not elapsed, or connectivity is missing.
func (d *Daemon) autoSyncLoop(ctx context.Context) {
	interval := time.Duration(d.cfg.Sync.AutoSyncIntervalMinutes) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// One attempt right after startup so a long-stopped daemon
	// catches up without waiting a full interval.
	d.scheduler.RequestIfDue(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.scheduler.RequestIfDue(ctx)
		}
	}
}

// Stop halts background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.api != nil {
		d.api.stop()
	}
	if d.group != nil {
		if err := d.group.Wait(); err != nil {
			d.logger.Warn("background worker exited with error", logging.Args(logging.Error(err))...)
		}
		d.group = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Args(logging.Error(err))...)
	}
	d.running.Store(false)
	d.logger.Info("showsync daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Scheduler exposes the sync scheduling facade.
func (d *Daemon) Scheduler() *sync.Scheduler {
	return d.scheduler
}

// APIAddr returns the bound API listen address, or "" when the API
// server is disabled or not started.
func (d *Daemon) APIAddr() string {
	if d.api == nil {
		return ""
	}
	return d.api.addr()
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		DatabasePath: d.store.Path(),
		LockFilePath: d.lockPath,
		SyncActive:   d.scheduler.IsSyncActiveOrPending(),
	}
	if enabled, err := d.scheduler.AutoSyncEnabled(ctx); err == nil {
		status.AutoSyncEnabled = enabled
	}
	if lastSync, counter, err := d.store.SyncRunState(ctx); err == nil {
		status.LastSyncAt = lastSync
		status.FailedCounter = counter
	}
	if shows, err := d.store.ListShows(ctx); err == nil {
		status.ShowCount = len(shows)
	}
	if url, err := d.store.ImageBaseURL(ctx); err == nil {
		status.ImageBaseURL = url
	}
	return status
}
