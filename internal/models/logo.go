// Package models defines the domain types for Logoteca.
package models

import "strconv"

// Catalog-wide constants.
const (
	BasePath    = "/logos"
	DefaultYear = 2000

	TypeSerif     = "serif"
	TypeSansSerif = "sans-serif"
)

// Fallback values substituted for identifiers that fail to parse.
const (
	FallbackName     = "Invalid Logo"
	FallbackColor    = "black"
	FallbackType     = TypeSerif
	FallbackImageURL = BasePath + "/invalid.png"
	FallbackSource   = "https://example.com"
)

// Logo is a catalog entry derived from one encoded filename.
type Logo struct {
	ID       int    `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Year     int    `json:"year" yaml:"year"`
	Color    string `json:"color" yaml:"color"`
	Type     string `json:"type" yaml:"type"`
	ImageURL string `json:"imageUrl" yaml:"image_url"`
	Source   string `json:"source" yaml:"source"`
}

// FallbackLogo returns the sentinel logo for the given 1-based position.
func FallbackLogo(position int) Logo {
	return Logo{
		ID:       position,
		Name:     FallbackName,
		Year:     DefaultYear,
		Color:    FallbackColor,
		Type:     FallbackType,
		ImageURL: FallbackImageURL,
		Source:   FallbackSource,
	}
}

// IsFallback reports whether l carries the sentinel values.
func (l Logo) IsFallback() bool {
	return l.Name == FallbackName && l.ImageURL == FallbackImageURL
}

// String renders a short human-readable form used by the CLI.
func (l Logo) String() string {
	return "#" + strconv.Itoa(l.ID) + " " + l.Name + " (" + strconv.Itoa(l.Year) + ", " + l.Color + ", " + l.Type + ")"
}

// Query is the interactive filter state. An empty field means the filter is unset.
type Query struct {
	SearchTerm string `json:"q,omitempty"`
	Color      string `json:"color,omitempty"`
	Type       string `json:"type,omitempty"`
}

// IsEmpty reports whether q constrains nothing.
func (q Query) IsEmpty() bool {
	return q.SearchTerm == "" && q.Color == "" && q.Type == ""
}
