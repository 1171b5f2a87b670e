// Package gateway exposes the scheduler over a small HTTP surface:
// JSON endpoints for the dashboard, a Prometheus endpoint, and a
// websocket feed of job-state snapshots.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harborseal/harborseal/internal/cron"
	"github.com/harborseal/harborseal/internal/schedule"
)

// Server is the gateway HTTP server.
type Server struct {
	port     int
	mgr      *cron.JobManager
	registry *prometheus.Registry
	hub      *hub
}

// New builds a server around the job manager. reg may be nil, in which
// case /metrics serves the default registry. The server registers
// itself as the manager's change hook so every mutation and run is
// pushed to websocket clients.
func New(port int, mgr *cron.JobManager, reg *prometheus.Registry) *Server {
	s := &Server{port: port, mgr: mgr, registry: reg, hub: newHub()}
	mgr.SetOnChange(s.BroadcastJobs)
	return s
}

// BroadcastJobs pushes a job-state snapshot to all websocket clients.
func (s *Server) BroadcastJobs(jobs []schedule.CronJob) {
	s.hub.broadcast(map[string]any{
		"type": "jobs",
		"jobs": jobs,
		"ts":   time.Now().UnixMilli(),
	})
}

// BroadcastEvent pushes a typed event to all websocket clients. The
// gateway command uses this to hand agent turns and system events to
// whatever dashboard or agent host is listening.
func (s *Server) BroadcastEvent(typ string, payload any) {
	s.hub.broadcast(map[string]any{
		"type":    typ,
		"payload": payload,
		"ts":      time.Now().UnixMilli(),
	})
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/cron/jobs", s.handleJobs)
	mux.HandleFunc("GET /api/cron/status", s.handleStatus)
	mux.HandleFunc("GET /api/cron/runs", s.handleRuns)
	mux.HandleFunc("GET /ws", s.hub.serve)
	if s.registry != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	} else {
		mux.Handle("GET /metrics", promhttp.Handler())
	}
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("gateway: listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.hub.closeAll()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
		return ctx.Err()
	}
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"jobs": s.mgr.List(true)})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.mgr.Status())
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "bad limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	var entries []schedule.RunLogEntry
	if jobID := r.URL.Query().Get("job"); jobID != "" {
		entries = s.mgr.Runs(jobID, limit)
	} else {
		entries = schedule.OrderRunsForDisplay(s.mgr.AllRuns())
		if len(entries) > limit {
			entries = entries[:limit]
		}
	}
	writeJSON(w, map[string]any{"entries": entries})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("gateway: write response failed", "error", err)
	}
}
