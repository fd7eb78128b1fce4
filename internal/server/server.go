package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MandarKelkarOfficial/talent-sync/internal/export"
	"github.com/MandarKelkarOfficial/talent-sync/internal/metrics"
	"github.com/MandarKelkarOfficial/talent-sync/internal/pipeline"
	"github.com/MandarKelkarOfficial/talent-sync/internal/store"
)

// Enqueuer is the scheduling collaborator: accepts a unit of work and runs it
// without blocking the caller.
type Enqueuer interface {
	Enqueue(ctx context.Context, job pipeline.Job) error
}

// Server is the HTTP front door: it normalizes submissions into Job values,
// exposes sanitized status, and serves the audit export.
type Server struct {
	logger   *slog.Logger
	jobs     store.JobStore
	queue    Enqueuer
	exporter *export.Service
	metrics  *metrics.Metrics
}

func New(logger *slog.Logger, jobs store.JobStore, queue Enqueuer, exporter *export.Service, m *metrics.Metrics) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger:   logger,
		jobs:     jobs,
		queue:    queue,
		exporter: exporter,
		metrics:  m,
	}
}

// Router builds the chi router for the front door.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/api/verify/upload", s.handleUpload)
	r.Post("/api/verify/url", s.handleVerifyURL)
	r.Get("/api/jobs/{jobID}", s.handleJobStatus)
	r.Get("/api/export", s.handleExport)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
