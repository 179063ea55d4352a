package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"showsync/internal/api"
	"showsync/internal/config"
	"showsync/internal/logging"
	"showsync/internal/sync"
)

type apiServer struct {
	bind       string
	logger     *slog.Logger
	daemon     *Daemon
	librarySvc *api.LibraryService
	window     time.Duration

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	if cfg == nil || d == nil {
		return nil, nil
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, nil
	}

	window := time.Duration(cfg.Notifications.UpcomingWindowHours) * time.Hour
	if window <= 0 {
		window = 24 * time.Hour
	}

	mux := http.NewServeMux()
	srv := &apiServer{
		bind:       bind,
		logger:     logger,
		daemon:     d,
		librarySvc: api.NewLibraryService(d.store),
		window:     window,
	}

	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.HandleFunc("/api/sync", srv.handleSync)
	mux.HandleFunc("/api/sync/show/", srv.handleSyncShow)
	mux.HandleFunc("/api/autosync", srv.handleAutoSync)
	mux.HandleFunc("/api/shows", srv.handleShows)
	mux.HandleFunc("/api/upcoming", srv.handleUpcoming)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Args(logging.Error(err))...)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.Args(
		logging.String("address", listener.Addr().String()))...)
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := s.daemon.Status(r.Context())
	s.writeJSON(w, http.StatusOK, api.DaemonStatus{
		Running:         status.Running,
		PID:             status.PID,
		DatabasePath:    status.DatabasePath,
		LockFilePath:    status.LockFilePath,
		SyncActive:      status.SyncActive,
		AutoSyncEnabled: status.AutoSyncEnabled,
		LastSyncAt:      status.LastSyncAt,
		FailedCounter:   status.FailedCounter,
		ShowCount:       status.ShowCount,
		ImageBaseURL:    status.ImageBaseURL,
	})
}

func (s *apiServer) handleSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req api.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	scope, err := parseScope(req.Scope)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	enqueued := s.daemon.scheduler.RequestImmediate(r.Context(), scope, req.ShowID, req.Notify)
	resp := api.SyncResponse{Enqueued: enqueued}
	if !enqueued {
		resp.Message = "sync request dropped"
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) handleSyncShow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	raw := strings.TrimPrefix(r.URL.Path, "/api/sync/show/")
	showID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || showID <= 0 {
		s.writeError(w, http.StatusBadRequest, "invalid show id")
		return
	}
	enqueued := s.daemon.scheduler.RequestShowIfStale(r.Context(), showID)
	resp := api.SyncResponse{Enqueued: enqueued}
	if !enqueued {
		resp.Message = "show is up to date"
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) handleAutoSync(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		enabled, err := s.daemon.scheduler.AutoSyncEnabled(r.Context())
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, api.AutoSyncState{Enabled: enabled})
	case http.MethodPost:
		var req api.AutoSyncState
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := s.daemon.scheduler.SetAutoSyncEnabled(r.Context(), req.Enabled); err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, api.AutoSyncState{Enabled: req.Enabled})
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *apiServer) handleShows(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if query := strings.TrimSpace(r.URL.Query().Get("q")); query != "" {
		resp, err := s.librarySvc.Search(r.Context(), query)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, resp)
		return
	}
	resp, err := s.librarySvc.Shows(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	resp, err := s.librarySvc.Upcoming(r.Context(), time.Now(), s.window)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func parseScope(raw string) (sync.Scope, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "delta":
		return sync.ScopeDelta, nil
	case "full":
		return sync.ScopeFull, nil
	case "single":
		return sync.ScopeSingle, nil
	default:
		return sync.ScopeDelta, fmt.Errorf("unknown scope %q", raw)
	}
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Args(logging.Error(err))...)
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return logging.NewComponentLogger(s.logger, "api-server")
	}
	return logging.NewNop()
}
