package index

import (
	"context"

	"github.com/starford/logoteca/internal/models"
)

// FacetIndex defines the facet operations consumers depend on.
type FacetIndex interface {
	Replace(ctx context.Context, logos []models.Logo) error
	Facets(ctx context.Context) (*Facets, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// Verify *DB satisfies FacetIndex at compile time.
var _ FacetIndex = (*DB)(nil)
