package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/logoteca/internal/gallery"
	"github.com/starford/logoteca/internal/storage"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *gallery.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/logos", h.ListLogos)
	r.Get("/logos/{id}", h.GetLogo)
	r.Get("/facets", h.Facets)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}

// NewImageRouter serves catalog images at /{identifier}. It is mounted at
// the parser base path so that every derived imageUrl resolves.
func NewImageRouter(fs *storage.FS) chi.Router {
	ih := NewImageHandler(fs)
	r := chi.NewRouter()
	r.Get("/*", ih.ServeImage)
	r.Head("/*", ih.ServeImage)
	return r
}
