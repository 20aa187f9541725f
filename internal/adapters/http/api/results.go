package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/okian/activscan/internal/domain/types"
)

// ResultsHandler serves stored batches.
type ResultsHandler struct {
	deps Dependencies
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps Dependencies) *ResultsHandler {
	return &ResultsHandler{deps: deps}
}

// HandleGetResult handles GET /results/{id} requests.
func (h *ResultsHandler) HandleGetResult(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_result"
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	out, err := h.deps.Result(r.Context(), id)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	if wantsCSV(r) {
		writeCSV(w, out)
		return
	}
	writeJSON(w, http.StatusOK, types.FromLabeled(out))
}
