package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/activscan/pkg/metrics"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	metrics http.Handler
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})}
}

// HandleHealth handles GET /healthz requests by serving the service
// metrics in Prometheus exposition format.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}
