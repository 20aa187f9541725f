package swagger

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Register attaches the API docs routes to r.
// Routes:
//
//	GET /api-docs      -> ReDoc HTML
//	GET /openapi.yaml  -> Embedded OpenAPI spec
func Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}

	r.Get("/api-docs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(indexHTML))
	})

	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(OpenAPI)
	})
}

// Minimal HTML that loads ReDoc and points it at /openapi.yaml.
const indexHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Activation Scanner API Docs</title>
    <style>body{margin:0;padding:0}</style>
  </head>
  <body>
    <redoc id="redoc-container" spec-url="/openapi.yaml"></redoc>
    <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
  </body>
</html>`
