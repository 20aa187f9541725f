// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/okian/activscan/internal/adapters/mq/queue"
	"github.com/okian/activscan/internal/adapters/repository"
	"github.com/okian/activscan/internal/adapters/tabular"
	"github.com/okian/activscan/internal/domain/features"
	"github.com/okian/activscan/internal/domain/model"
)

const (
	defaultMaxUploadBytes = 32 << 20
	csvContentType        = "text/csv; charset=utf-8"
	downloadFilename      = "anomaly_results.csv"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Submit scores a batch and returns its labeled result.
	Submit(ctx context.Context, ds model.Dataset) (model.LabeledDataset, error)

	// Result returns a previously scored batch by id.
	Result(ctx context.Context, batchID string) (model.LabeledDataset, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	scoreHandler   *ScoreHandler
	resultsHandler *ResultsHandler
}

// Option applies a configuration option to the Server.
type Option func(*serverConfig)

type serverConfig struct {
	maxUploadBytes int64
}

// WithMaxUploadBytes caps the body size of POST /score.
func WithMaxUploadBytes(n int64) Option {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxUploadBytes = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	cfg := serverConfig{maxUploadBytes: defaultMaxUploadBytes}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		scoreHandler:   NewScoreHandler(deps, cfg.maxUploadBytes),
		resultsHandler: NewResultsHandler(deps),
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	r.Post("/score", MetricsMiddleware(s.scoreHandler.HandleScore, "score"))
	r.Get("/results/{id}", MetricsMiddleware(s.resultsHandler.HandleGetResult, "results"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps upstream error kinds to a status and error code.
func writeFailure(w http.ResponseWriter, op string, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", WrapKind(op, ErrTooLarge, err))
	case errors.Is(err, features.ErrSchema):
		writeError(w, http.StatusBadRequest, "schema_error", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, tabular.ErrMalformed):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, queue.ErrFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
	case errors.Is(err, queue.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
	}
}

// wantsCSV reports whether the caller asked for the labeled table as CSV,
// via ?format=csv or an Accept header naming text/csv.
func wantsCSV(r *http.Request) bool {
	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "csv":
		return true
	case "json":
		return false
	}
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		if mt, _, err := mime.ParseMediaType(strings.TrimSpace(part)); err == nil && mt == "text/csv" {
			return true
		}
	}
	return false
}

// writeCSV renders a labeled batch as a downloadable CSV file.
func writeCSV(w http.ResponseWriter, out model.LabeledDataset) {
	w.Header().Set("Content-Type", csvContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": downloadFilename}))
	w.Header().Set("X-Batch-ID", out.BatchID)
	w.WriteHeader(http.StatusOK)
	_ = tabular.Encode(w, out.Rows)
}
