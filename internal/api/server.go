// Package api exposes recorded runs over a read-only HTTP API.
//
// The server wraps an open store and serves run metadata and sample
// series as JSON, plus a health probe and a Prometheus metrics endpoint.
// Nothing here writes to the database.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/NetworkArchetype/PLM/internal/store"
)

// Server serves recorded runs from a store.
type Server struct {
	st       *store.Store
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	runsServed    prometheus.Counter
	samplesServed prometheus.Counter
}

// New creates a server around an open store. Each server carries its own
// metrics registry, so several can coexist in one process.
func New(st *store.Store) *Server {
	s := &Server{
		st:       st,
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "plm_http_requests_total",
				Help: "HTTP requests by route pattern and status code",
			},
			[]string{"route", "code"},
		),
		runsServed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plm_runs_served_total",
			Help: "Run records returned by the API",
		}),
		samplesServed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plm_samples_served_total",
			Help: "Samples returned by the API",
		}),
	}
	s.registry.MustRegister(s.requests, s.runsServed, s.samplesServed)
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.countRequests)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/runs", s.handleListRuns)
	r.Get("/runs/{id}", s.handleGetRun)
	r.Get("/runs/{id}/samples", s.handleGetSamples)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return r
}

// countRequests records one counter increment per request, labeled by
// the matched route pattern and the response status.
func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := s.st.DB().PingContext(r.Context()); err != nil {
		slog.Error("health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.st.ListRuns(r.Context())
	if err != nil {
		slog.Error("list runs failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.runsServed.Add(float64(len(runs)))
	writeJSON(w, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := s.st.ReadRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "run not found", http.StatusNotFound)
			return
		}
		slog.Error("read run failed", "run_id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.runsServed.Inc()
	writeJSON(w, run)
}

func (s *Server) handleGetSamples(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.st.ReadRun(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "run not found", http.StatusNotFound)
			return
		}
		slog.Error("read run failed", "run_id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	samples, err := s.st.ReadSamples(r.Context(), id)
	if err != nil {
		slog.Error("read samples failed", "run_id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.samplesServed.Add(float64(len(samples)))
	writeJSON(w, samples)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}
