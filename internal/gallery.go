package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/logoteca/internal/catalog"
	"github.com/starford/logoteca/internal/gallery"
	"github.com/starford/logoteca/internal/index"
	"github.com/starford/logoteca/internal/parser"
	"github.com/starford/logoteca/internal/storage"
)

// Gallery bundles the components every command needs.
type Gallery struct {
	Service *gallery.Service
	Catalog *catalog.Catalog
	FS      *storage.FS
	Index   *index.DB

	// WatchPath is the file or directory whose changes reload the catalog.
	WatchPath string
}

// Close releases the facet index.
func (g *Gallery) Close() error {
	if g.Index == nil {
		return nil
	}
	return g.Index.Close()
}

// OpenGallery wires storage, the catalog source, the facet index, and the
// gallery service from cfg, and loads the first snapshot.
func OpenGallery(ctx context.Context, cfg *Config, logger *slog.Logger) (*Gallery, error) {
	if err := os.MkdirAll(cfg.Catalog.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create catalog dir: %w", err)
	}
	fs, err := storage.NewFS(cfg.Catalog.Dir)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	var src catalog.Source = catalog.DirSource{FS: fs}
	watchPath := fs.Root()
	if cfg.Catalog.Manifest != "" {
		src = catalog.ManifestSource{Path: cfg.Catalog.Manifest}
		watchPath = cfg.Catalog.Manifest
	}

	cat := catalog.New(src, parser.New(cfg.Catalog.BasePath, logger), logger)

	db, err := index.Open(cfg.Index.DSN)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	svc := gallery.NewService(cat, db, logger)
	if _, err := svc.Reload(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	return &Gallery{
		Service:   svc,
		Catalog:   cat,
		FS:        fs,
		Index:     db,
		WatchPath: watchPath,
	}, nil
}
