package api

import (
	"io"
	"mime"
	"net/http"

	"github.com/okian/activscan/internal/adapters/tabular"
	"github.com/okian/activscan/internal/domain/types"
)

// uploadField is the multipart form field carrying the CSV file.
const uploadField = "file"

// ScoreHandler handles batch uploads.
type ScoreHandler struct {
	deps     Dependencies
	maxBytes int64
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps Dependencies, maxBytes int64) *ScoreHandler {
	return &ScoreHandler{deps: deps, maxBytes: maxBytes}
}

// HandleScore handles POST /score requests. The body is either the CSV
// itself or a multipart form with the CSV in the "file" field.
func (h *ScoreHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.score"
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	body, closeBody, err := h.upload(r)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	defer closeBody()

	ds, err := tabular.Decode(body)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	out, err := h.deps.Submit(r.Context(), ds)
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

func (h *ScoreHandler) upload(r *http.Request) (io.Reader, func(), error) {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt != "multipart/form-data" {
		return r.Body, func() {}, nil
	}
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		return nil, nil, WrapKind("api.score.upload", ErrBadRequest, err)
	}
	f, _, err := r.FormFile(uploadField)
	if err != nil {
		return nil, nil, WrapKind("api.score.upload", ErrBadRequest, err)
	}
	return f, func() { _ = f.Close() }, nil
}
