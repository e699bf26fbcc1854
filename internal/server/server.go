// Package server exposes the daemon's admin surface: liveness, readiness
// derived from the ingestion loop, and a status summary of the last run.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/preston-bernstein/nba-stats-pipeline/internal/logging"
	"github.com/preston-bernstein/nba-stats-pipeline/internal/schedule"
)

const (
	readTimeout     = 5 * time.Second
	writeTimeout    = 10 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Admin serves the admin endpoints for a running daemon.
type Admin struct {
	logger   *slog.Logger
	statusFn func() schedule.Status
	srv      *http.Server
}

// New constructs an Admin server listening on the given port.
func New(port string, statusFn func() schedule.Status, logger *slog.Logger) *Admin {
	a := &Admin{logger: logger, statusFn: statusFn}
	a.srv = &http.Server{
		Addr:         ":" + port,
		Handler:      a.routes(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	return a
}

func (a *Admin) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.health)
	mux.HandleFunc("/ready", a.ready)
	mux.HandleFunc("/status", a.status)
	return mux
}

// Start serves in the background until Shutdown.
func (a *Admin) Start() {
	go func() {
		logging.Info(a.logger, "admin server starting", slog.String("addr", a.srv.Addr))
		if err := a.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(a.logger, "admin server failed", slog.Any("error", err))
		}
	}()
}

// Shutdown drains in-flight requests.
func (a *Admin) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return a.srv.Shutdown(ctx)
}

// Handler exposes the admin mux, useful for tests.
func (a *Admin) Handler() http.Handler {
	return a.srv.Handler
}

func (a *Admin) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *Admin) ready(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if a.statusFn == nil {
		a.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}
	status := a.statusFn()
	if status.IsReady() {
		a.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	a.writeError(w, http.StatusServiceUnavailable, msg)
}

func (a *Admin) status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		a.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if a.statusFn == nil {
		a.writeError(w, http.StatusNotFound, "no ingestion loop")
		return
	}
	s := a.statusFn()
	a.writeJSON(w, http.StatusOK, map[string]any{
		"consecutive_failures": s.ConsecutiveFailures,
		"last_error":           s.LastError,
		"last_attempt":         s.LastAttempt,
		"last_success":         s.LastSuccess,
		"last_games":           s.LastGames,
		"last_written":         s.LastWritten,
	})
}

func (a *Admin) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Warn(a.logger, "admin response encoding failed", slog.Any("error", err))
	}
}

func (a *Admin) writeError(w http.ResponseWriter, status int, msg string) {
	a.writeJSON(w, status, map[string]string{"error": msg})
}
