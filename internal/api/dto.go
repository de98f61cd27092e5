package api

import (
	"github.com/starford/logoteca/internal/index"
	"github.com/starford/logoteca/internal/models"
)

// Logo is a single catalog entry in API responses.
type Logo = models.Logo

// LogoListResponse wraps a filtered logo listing. An empty Logos slice is
// the "no matches" state.
type LogoListResponse struct {
	Logos []Logo       `json:"logos" validate:"required"`
	Total int          `json:"total" example:"2" validate:"required"`
	Query models.Query `json:"query"`
}

// FacetsResponse lists the values the structured filters can take.
type FacetsResponse = index.Facets
