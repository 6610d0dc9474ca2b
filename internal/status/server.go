package status

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sitepulse/umami-reporter/internal/pkg/logger"
)

// Server serves /healthz and /metrics in loop mode.
type Server struct {
	httpServer *http.Server
	metrics    *Metrics
	started    time.Time

	mu         sync.RWMutex
	lastRun    time.Time
	lastFailed int
}

// NewServer builds the status server listening on addr.
func NewServer(addr string, m *Metrics) *Server {
	s := &Server{
		metrics: m,
		started: time.Now(),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}))

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// RecordRun notes the completion of one dispatch run for /healthz.
func (s *Server) RecordRun(finished time.Time, failed int) {
	s.mu.Lock()
	s.lastRun = finished
	s.lastFailed = failed
	s.mu.Unlock()
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	lastRun := s.lastRun
	lastFailed := s.lastFailed
	s.mu.RUnlock()

	resp := map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int(time.Since(s.started).Seconds()),
	}
	if !lastRun.IsZero() {
		resp["last_run"] = lastRun.UTC().Format(time.RFC3339)
		resp["last_run_failed_sites"] = lastFailed
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() {
	logger.Info("status server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("status server failed", "error", err.Error())
	}
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
