package sync

import (
	"log/slog"

	"github.com/google/uuid"

	"showsync/internal/logging"
)

// Step names published by the sequencer, in execution order.
const (
	StepShows      = "shows"
	StepTMDBConfig = "tmdb_config"
	StepCloud      = "cloud"
	StepTrakt      = "trakt"
)

// ProgressListener receives step-level events from a run. Used for
// observability only; never for control flow.
type ProgressListener interface {
	StepStarted(runID, step string)
	RunFinished(runID string, result Result, hadError bool)
}

// Progress tracks the steps and error flag of a single run. One
// instance per run, single writer.
type Progress struct {
	runID    string
	logger   *slog.Logger
	listener ProgressListener
	steps    []string
	hadError bool
}

func newProgress(logger *slog.Logger, listener ProgressListener) *Progress {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Progress{
		runID:    uuid.NewString(),
		logger:   logger,
		listener: listener,
	}
}

// RunID identifies this run in logs and listener events.
func (p *Progress) RunID() string { return p.runID }

// Publish records that a named step has started.
func (p *Progress) Publish(step string) {
	p.steps = append(p.steps, step)
	p.logger.Debug("sync step started", logging.Args(
		logging.String(logging.FieldRunID, p.runID),
		logging.String(logging.FieldStep, step))...)
	if p.listener != nil {
		p.listener.StepStarted(p.runID, step)
	}
}

// RecordError flips the run's error flag. Idempotent; repeated calls
// compose as logical OR.
func (p *Progress) RecordError() {
	p.hadError = true
}

// HadError reports whether any step recorded a failure.
func (p *Progress) HadError() bool { return p.hadError }

// Steps returns the steps published so far, in order.
func (p *Progress) Steps() []string { return p.steps }

// Finish emits the terminal outcome of the run.
func (p *Progress) Finish(result Result) {
	p.logger.Info("sync run finished", logging.Args(
		logging.String(logging.FieldRunID, p.runID),
		logging.String("result", result.String()),
		logging.Bool("had_error", p.hadError))...)
	if p.listener != nil {
		p.listener.RunFinished(p.runID, result, p.hadError)
	}
}
