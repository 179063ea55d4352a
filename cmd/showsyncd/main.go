// Command showsyncd is the background daemon: it owns the library
// database, runs the sync scheduler, and serves the HTTP control API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"showsync/internal/cloud"
	"showsync/internal/config"
	"showsync/internal/daemon"
	"showsync/internal/library"
	"showsync/internal/logging"
	"showsync/internal/notifications"
	"showsync/internal/preflight"
	"showsync/internal/sync"
	"showsync/internal/tmdb"
	"showsync/internal/trakt"
)

func main() {
	configPath := flag.String("config", "", "Configuration file path")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, resolvedPath, exists, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		OutputPaths: []string{
			"stdout",
			filepath.Join(cfg.Paths.LogDir, "showsyncd.log"),
		},
	})
	if err != nil {
		return err
	}

	if exists {
		logger.Info("loaded configuration", logging.Args(logging.String("path", resolvedPath))...)
	} else {
		logger.Info("no configuration file found, using defaults",
			logging.Args(logging.String("path", resolvedPath))...)
	}

	reportPreflight(ctx, cfg, logger)

	store, err := library.Open(cfg)
	if err != nil {
		return fmt.Errorf("open library: %w", err)
	}
	defer store.Close()

	scheduler, err := buildScheduler(cfg, store, logger)
	if err != nil {
		return err
	}

	d, err := daemon.New(cfg, store, scheduler, logger)
	if err != nil {
		return err
	}
	if err := d.Start(ctx); err != nil {
		return err
	}
	logger.Info("daemon started",
		logging.Args(
			logging.String("database", store.Path()),
			logging.String("api", d.APIAddr()),
		)...)

	<-ctx.Done()
	logger.Info("shutting down")
	return d.Close()
}

// buildScheduler assembles the sync pipeline behind the scheduler
// facade: metadata and account clients, the orchestrator, and the
// notification refresher that closes every run.
func buildScheduler(cfg *config.Config, store *library.Store, logger *slog.Logger) (*sync.Scheduler, error) {
	tmdbClient, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language)
	if err != nil {
		return nil, fmt.Errorf("tmdb client: %w", err)
	}

	var cloudSyncer sync.CloudSyncer
	if cfg.Cloud.Enabled {
		cloudClient, err := cloud.New(cfg.Cloud.URL, cfg.Cloud.Token)
		if err != nil {
			return nil, fmt.Errorf("cloud client: %w", err)
		}
		cloudSyncer = sync.NewCloudSync(store, cloudClient, logger)
	}

	var traktSyncer sync.TraktSyncer
	if strings.TrimSpace(cfg.Trakt.AccessToken) != "" {
		traktClient, err := trakt.New(cfg.Trakt.ClientID, cfg.Trakt.AccessToken, cfg.Trakt.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("trakt client: %w", err)
		}
		traktSyncer = sync.NewTraktSync(store, traktClient, logger)
	}

	notifyService := notifications.NewService(cfg)
	window := time.Duration(cfg.Notifications.UpcomingWindowHours) * time.Hour
	refresher := notifications.NewRefresher(store, notifyService, window, logger)

	orchestrator := sync.NewOrchestrator(
		sync.NewShowSync(store, tmdbClient, logger),
		sync.NewConfigRefresh(store, tmdbClient, logger),
		cloudSyncer,
		traktSyncer,
		store,
		refresher,
		cfg.Cloud.Enabled,
		logger,
		sync.WithProgressListener(notifications.NewFailureNotifier(notifyService, logger)),
	)

	probeTimeout := time.Duration(cfg.Sync.RequestTimeoutSeconds) * time.Second
	scheduler := sync.NewScheduler(
		orchestrator,
		store,
		cfg.HasAccount,
		daemon.ConnectivityProbe(cfg.Sync.ConnectivityProbe, probeTimeout),
		logger,
		sync.WithNotice(func(ctx context.Context, kind sync.NoticeKind, message string) {
			event := notifications.EventSyncScheduled
			if kind == sync.NoticeCanceled {
				event = notifications.EventSyncCanceled
			}
			if err := notifyService.Publish(ctx, event, notifications.Payload{"message": message}); err != nil {
				logger.Warn("publish notice", logging.Args(logging.Error(err))...)
			}
		}),
	)
	return scheduler, nil
}

func reportPreflight(ctx context.Context, cfg *config.Config, logger *slog.Logger) {
	checkCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	for _, result := range preflight.RunAll(checkCtx, cfg) {
		attrs := logging.Args(
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
		)
		if result.Passed {
			logger.Info("preflight check passed", attrs...)
		} else {
			logger.Warn("preflight check failed", attrs...)
		}
	}
}
