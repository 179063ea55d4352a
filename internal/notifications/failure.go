package notifications

import (
	"context"
	"log/slog"

	"showsync/internal/logging"
	"showsync/internal/sync"
)

// FailureNotifier listens to sync run events and pushes a notification
// when a run aborts fatally. Incomplete runs are routine partial
// failures and stay silent; they surface through logs and the status
// API instead.
type FailureNotifier struct {
	service Service
	logger  *slog.Logger
}

// NewFailureNotifier builds a progress listener backed by the given
// notification service.
func NewFailureNotifier(service Service, logger *slog.Logger) *FailureNotifier {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &FailureNotifier{
		service: service,
		logger:  logging.NewComponentLogger(logger, "notifications"),
	}
}

func (n *FailureNotifier) StepStarted(string, string) {}

func (n *FailureNotifier) RunFinished(runID string, result sync.Result, _ bool) {
	if result != sync.ResultFatal {
		return
	}
	err := n.service.Publish(context.Background(), EventSyncFailed, Payload{
		"error": "show reconciliation aborted",
	})
	if err != nil {
		n.logger.Warn("publish sync failure", logging.Args(
			logging.String(logging.FieldRunID, runID),
			logging.Error(err))...)
	}
}
