// Package parser turns encoded logo filenames into catalog records.
//
// An identifier has the shape Name|Color|Source|Type|Year.ext. Parsing is
// total: malformed identifiers yield the fallback logo and a warning log line.
package parser

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/starford/logoteca/internal/models"
)

const fieldCount = 5

// Parser converts raw identifiers into logos rooted at a base image path.
type Parser struct {
	basePath string
	logger   *slog.Logger
}

// New creates a Parser. An empty basePath uses models.BasePath; a nil logger
// uses slog.Default().
func New(basePath string, logger *slog.Logger) *Parser {
	if basePath == "" {
		basePath = models.BasePath
	}
	return &Parser{basePath: strings.TrimRight(basePath, "/"), logger: logger}
}

var std = New("", nil)

// Parse converts raw into a logo with the given 1-based position as its ID.
func Parse(raw string, position int) models.Logo {
	return std.Parse(raw, position)
}

// ParseAll parses every identifier, assigning IDs by position.
func ParseAll(raws []string) []models.Logo {
	return std.ParseAll(raws)
}

func (p *Parser) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return slog.Default()
}

// Parse converts raw into a logo. It never fails: malformed input returns
// models.FallbackLogo(position).
func (p *Parser) Parse(raw string, position int) models.Logo {
	if strings.TrimSpace(raw) == "" {
		p.log().Warn("parser: empty identifier", slog.Int("position", position))
		return models.FallbackLogo(position)
	}

	parts := strings.Split(stripExt(raw), "|")
	if len(parts) != fieldCount {
		p.log().Warn("parser: wrong field count",
			slog.String("identifier", raw),
			slog.Int("position", position),
			slog.Int("fields", len(parts)))
		return models.FallbackLogo(position)
	}
	for i, f := range parts {
		if f == "" {
			p.log().Warn("parser: empty field",
				slog.String("identifier", raw),
				slog.Int("position", position),
				slog.Int("field", i+1))
			return models.FallbackLogo(position)
		}
	}

	year, ok := LeadingInt(parts[4])
	if !ok {
		year = models.DefaultYear
	}

	return models.Logo{
		ID:       position,
		Name:     SplitName(parts[0]),
		Year:     year,
		Color:    strings.ToLower(parts[1]),
		Type:     NormalizeType(parts[3]),
		ImageURL: p.basePath + "/" + raw,
		Source:   absoluteSource(parts[2]),
	}
}

// ParseAll parses raws in order; the logo at index i gets ID i+1.
func (p *Parser) ParseAll(raws []string) []models.Logo {
	out := make([]models.Logo, len(raws))
	for i, raw := range raws {
		out[i] = p.Parse(raw, i+1)
	}
	return out
}

// stripExt removes the file extension. Only a dot after the last field
// separator counts, so dotted hostnames in the source field survive.
func stripExt(raw string) string {
	dot := strings.LastIndex(raw, ".")
	if dot < 0 || dot < strings.LastIndex(raw, "|") {
		return raw
	}
	return raw[:dot]
}

// SplitName inserts a space before every upper-case letter that is not the
// first character and trims the result: "BarcelonaArchives" -> "Barcelona Archives".
func SplitName(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// NormalizeType lower-cases a typography value. The spellings of sans-serif
// ("SansSerif", "Sans Serif", "sans_serif", ...) collapse to
// models.TypeSansSerif; any other value is returned lower-cased as is.
func NormalizeType(s string) string {
	t := strings.ToLower(s)
	switch t {
	case "sansserif", "sans serif", "sans_serif", models.TypeSansSerif:
		return models.TypeSansSerif
	}
	return t
}

// LeadingInt parses an optionally signed run of leading digits, ignoring
// surrounding whitespace and any trailing text ("1922" and "1922b" both
// give 1922). It reports false when no digit is present.
func LeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

func absoluteSource(src string) string {
	if strings.HasPrefix(src, "www") {
		return "https://" + src
	}
	return src
}
