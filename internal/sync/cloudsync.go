package sync

import (
	"context"
	"log/slog"

	"showsync/internal/cloud"
	"showsync/internal/library"
	"showsync/internal/logging"
)

// CloudSync reconciles the local library against the cloud backup
// account: remote additions are merged in, remote removals applied,
// and local-only shows uploaded.
type CloudSync struct {
	store  *library.Store
	client cloud.API
	logger *slog.Logger
}

// NewCloudSync builds the cloud account-sync step.
func NewCloudSync(store *library.Store, client cloud.API, logger *slog.Logger) *CloudSync {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &CloudSync{
		store:  store,
		client: client,
		logger: logging.NewComponentLogger(logger, "cloudsync"),
	}
}

// SyncCloud runs the reconciliation. The returned map holds shows the
// remote library added locally; housekeeping uses it to decide whether
// a search-index rebuild is still needed.
func (c *CloudSync) SyncCloud(ctx context.Context, existing map[int64]struct{}) (Result, map[int64]AddedShow) {
	remote, err := c.client.ListShows(ctx)
	if err != nil {
		c.logger.Error("list cloud shows", logging.Args(logging.Error(err))...)
		return ResultIncomplete, nil
	}

	newlyAdded := make(map[int64]AddedShow)
	seen := make(map[int64]struct{}, len(remote))
	failed := false
	for _, show := range remote {
		seen[show.TMDBID] = struct{}{}
		_, known := existing[show.TMDBID]
		switch {
		case show.IsRemoved && known:
			if err := c.store.RemoveShow(ctx, show.TMDBID); err != nil {
				failed = true
				c.logger.Warn("remove show from cloud state", logging.Args(
					logging.Int64(logging.FieldShowID, show.TMDBID),
					logging.Error(err))...)
			}
		case !show.IsRemoved && !known:
			if err := c.store.UpsertShow(ctx, library.Show{
				TMDBID:     show.TMDBID,
				Title:      show.Title,
				PosterPath: show.PosterPath,
			}); err != nil {
				failed = true
				c.logger.Warn("add show from cloud state", logging.Args(
					logging.Int64(logging.FieldShowID, show.TMDBID),
					logging.Error(err))...)
				continue
			}
			newlyAdded[show.TMDBID] = AddedShow{TMDBID: show.TMDBID, Title: show.Title}
		}
	}

	if err := c.uploadLocalOnly(ctx, seen); err != nil {
		failed = true
		c.logger.Warn("upload local shows", logging.Args(logging.Error(err))...)
	}

	if failed {
		return ResultIncomplete, newlyAdded
	}
	return ResultSuccess, newlyAdded
}

// uploadLocalOnly pushes shows the remote library has never seen.
func (c *CloudSync) uploadLocalOnly(ctx context.Context, seen map[int64]struct{}) error {
	shows, err := c.store.ListShows(ctx)
	if err != nil {
		return err
	}
	var upload []cloud.Show
	for _, show := range shows {
		if _, ok := seen[show.TMDBID]; ok {
			continue
		}
		upload = append(upload, cloud.Show{
			TMDBID:     show.TMDBID,
			Title:      show.Title,
			PosterPath: show.PosterPath,
		})
	}
	return c.client.UploadShows(ctx, upload)
}
