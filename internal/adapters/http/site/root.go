// Package site serves the embedded upload page.
package site

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Register attaches the upload page to r at /.
func Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}
	h := NewRootHandler()
	r.Get("/", h.HandleRoot)
	r.Get("/assets/*", h.HandleRoot)
}

// RootHandler handles root path requests
type RootHandler struct {
	files http.Handler
}

// NewRootHandler creates a new root handler
func NewRootHandler() *RootHandler {
	return &RootHandler{files: http.FileServer(http.FS(uploadPage))}
}

// HandleRoot serves the upload page and its assets. The page is revalidated
// on every load so a redeploy is picked up without a hard refresh.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	h.files.ServeHTTP(w, r)
}
