package api

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/logoteca/internal/storage"
)

// ImageHandler serves catalog image files by raw identifier.
type ImageHandler struct {
	fs *storage.FS
}

// NewImageHandler creates a handler rooted at the catalog directory.
func NewImageHandler(fs *storage.FS) *ImageHandler {
	return &ImageHandler{fs: fs}
}

// ServeImage handles GET /logos/{identifier}. Identifiers contain '|', which
// clients may send percent-encoded.
func (h *ImageHandler) ServeImage(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	name, err := url.PathUnescape(raw)
	if err != nil {
		name = raw
	}

	f, info, err := h.fs.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		slog.Warn("serve image failed", slog.String("name", name), slog.String("error", err.Error()))
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	defer f.Close()

	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
