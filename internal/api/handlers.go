package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/logoteca/internal/apperr"
	"github.com/starford/logoteca/internal/gallery"
	"github.com/starford/logoteca/internal/models"
)

// Handler holds API route handlers.
type Handler struct {
	svc *gallery.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *gallery.Service) *Handler {
	return &Handler{svc: svc}
}

// ListLogos handles GET /api/logos.
//
//	@Summary		List logos matching a search term and filters
//	@Tags			logos
//	@Produce		json
//	@Param			q		query		string	false	"Name substring or year (matches the whole decade)"
//	@Param			color	query		string	false	"Exact color"
//	@Param			type	query		string	false	"Typography"	Enums(serif, sans-serif)
//	@Success		200		{object}	LogoListResponse
//	@Success		304		"Catalog unchanged (If-None-Match)"
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/logos [get]
func (h *Handler) ListLogos(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q := models.Query{
		SearchTerm: params.Get("q"),
		Color:      params.Get("color"),
		Type:       params.Get("type"),
	}

	res, err := h.svc.Search(r.Context(), q)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidQuery) {
			writeQueryError(w, err)
		} else {
			slog.Error("list logos failed", slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
		}
		return
	}

	// The result is a pure function of the snapshot and the query string.
	etag := `W/"` + res.Fingerprint[:16] + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Vary", "Authorization")
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	writeJSON(w, http.StatusOK, LogoListResponse{
		Logos: res.Logos,
		Total: res.Total,
		Query: q,
	})
}

// GetLogo handles GET /api/logos/{id}.
//
//	@Summary		Get a single logo by ID
//	@Tags			logos
//	@Produce		json
//	@Param			id	path		int	true	"Logo ID (1-based catalog position)"
//	@Success		200	{object}	Logo
//	@Failure		400	{object}	errResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/logos/{id} [get]
func (h *Handler) GetLogo(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidID, "id must be an integer")
		return
	}
	logo, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
		} else {
			slog.Error("get logo failed", slog.Int("id", id), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, logo)
}

// Facets handles GET /api/facets.
//
//	@Summary		Color, type, and decade facets of the catalog
//	@Tags			logos
//	@Produce		json
//	@Success		200	{object}	FacetsResponse
//	@Security		BearerAuth
//	@Router			/facets [get]
func (h *Handler) Facets(w http.ResponseWriter, r *http.Request) {
	f, err := h.svc.Facets(r.Context())
	if err != nil {
		slog.Error("facets failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, f)
}
