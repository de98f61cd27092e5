// Package gallery composes the catalog, the query engine, and the facet
// index behind one service used by every front end.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/logoteca/internal/apperr"
	"github.com/starford/logoteca/internal/catalog"
	"github.com/starford/logoteca/internal/index"
	"github.com/starford/logoteca/internal/models"
	"github.com/starford/logoteca/internal/parser"
	"github.com/starford/logoteca/internal/query"
)

// Result is a filtered view of one catalog snapshot.
type Result struct {
	Logos       []models.Logo `json:"logos"`
	Total       int           `json:"total"`
	Fingerprint string        `json:"-"`
}

// Service answers gallery queries against the current catalog snapshot.
type Service struct {
	cat    *catalog.Catalog
	idx    index.FacetIndex
	logger *slog.Logger
}

// NewService creates a new gallery service. idx may be nil, in which case
// Facets is computed from the snapshot directly.
func NewService(cat *catalog.Catalog, idx index.FacetIndex, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cat: cat, idx: idx, logger: logger}
}

// Reload re-derives the catalog from its source and refreshes the facet
// index. It reports whether the catalog changed.
func (s *Service) Reload(ctx context.Context) (bool, error) {
	snap, changed, err := s.cat.Reload(ctx)
	if err != nil {
		return false, fmt.Errorf("gallery: reload: %w", err)
	}
	if !changed {
		return false, nil
	}
	if err := s.Refresh(ctx, snap); err != nil {
		return true, err
	}
	return true, nil
}

// Refresh mirrors snap into the facet index.
func (s *Service) Refresh(ctx context.Context, snap *catalog.Snapshot) error {
	if s.idx == nil {
		return nil
	}
	if err := s.idx.Replace(ctx, snap.Logos); err != nil {
		return fmt.Errorf("gallery: refresh index: %w", err)
	}
	return nil
}

// NormalizeQuery canonicalises q and validates the structured filters.
// Unknown colors are allowed (they simply match nothing); the type filter
// must be one of the known typographies.
func NormalizeQuery(q models.Query) (models.Query, error) {
	if q.Type != "" {
		q.Type = parser.NormalizeType(q.Type)
	}
	err := validation.ValidateStruct(&q,
		validation.Field(&q.Type, validation.In(models.TypeSerif, models.TypeSansSerif)),
		validation.Field(&q.SearchTerm, validation.Length(0, 200)),
		validation.Field(&q.Color, validation.Length(0, 64)),
	)
	if err != nil {
		return q, fmt.Errorf("%w: %w", apperr.ErrInvalidQuery, err)
	}
	return q, nil
}

// Search returns the logos matching q, in catalog order.
func (s *Service) Search(_ context.Context, q models.Query) (*Result, error) {
	q, err := NormalizeQuery(q)
	if err != nil {
		return nil, err
	}
	snap := s.cat.Snapshot()
	logos := query.Filter(snap.Logos, q)
	return &Result{Logos: logos, Total: len(logos), Fingerprint: snap.Fingerprint}, nil
}

// Get returns the logo with the given ID.
func (s *Service) Get(_ context.Context, id int) (models.Logo, error) {
	l, ok := s.cat.Snapshot().Get(id)
	if !ok {
		return models.Logo{}, apperr.ErrNotFound
	}
	return l, nil
}

// Facets returns the color, type, and decade facets of the current catalog.
func (s *Service) Facets(ctx context.Context) (*index.Facets, error) {
	if s.idx != nil {
		f, err := s.idx.Facets(ctx)
		if err == nil {
			return f, nil
		}
		s.logger.Warn("gallery: index facets failed, computing from snapshot", slog.String("error", err.Error()))
	}
	return facetsFromSnapshot(s.cat.Snapshot()), nil
}

// Fingerprint identifies the current snapshot.
func (s *Service) Fingerprint() string {
	return s.cat.Snapshot().Fingerprint
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, apperr.ErrNotFound)
}
