// Package query answers interactive search and filter queries against an
// in-memory logo collection.
package query

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/starford/logoteca/internal/models"
	"github.com/starford/logoteca/internal/parser"
)

// Filter returns the logos matching q in their original relative order.
// It never fails; a logo whose evaluation panics is logged and excluded.
func Filter(logos []models.Logo, q models.Query) []models.Logo {
	return Select(logos, compile(q).match)
}

// Select returns the logos for which keep reports true, preserving order.
// The result is never nil. A panic in keep excludes that logo only.
func Select(logos []models.Logo, keep func(models.Logo) bool) []models.Logo {
	out := make([]models.Logo, 0, len(logos))
	for _, l := range logos {
		if safeKeep(keep, l) {
			out = append(out, l)
		}
	}
	return out
}

// Matches reports whether a single logo satisfies q.
func Matches(l models.Logo, q models.Query) bool {
	return compile(q).match(l)
}

// InDecade reports whether year falls in the decade that contains searchYear.
// Decades are anchored at multiples of ten using floor division, so -5 lies
// in [-10, -1]. Comparing decade indices holds for every int.
func InDecade(year, searchYear int) bool {
	return floorDiv(year, 10) == floorDiv(searchYear, 10)
}

// DecadeStart returns the first year of the decade containing year. The
// decade of math.MinInt starts below the int range; it saturates.
func DecadeStart(year int) int {
	d := floorDiv(year, 10)
	if d < math.MinInt/10 {
		return math.MinInt
	}
	return d * 10
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// compiled holds the per-query values computed once per Filter call.
type compiled struct {
	term      string
	year      int
	yearValid bool
	color     string
	typ       string
}

func compile(q models.Query) compiled {
	c := compiled{
		term:  strings.ToLower(q.SearchTerm),
		color: strings.ToLower(strings.TrimSpace(q.Color)),
	}
	if t := strings.TrimSpace(q.Type); t != "" {
		c.typ = parser.NormalizeType(t)
	}
	c.year, c.yearValid = parser.LeadingInt(q.SearchTerm)
	if c.yearValid && isDecadePrefix(q.SearchTerm) {
		c.year *= 10
	}
	return c
}

// isDecadePrefix reports whether term is exactly three digits, which reads
// as the first three digits of a year: "192" selects the 1920s.
func isDecadePrefix(term string) bool {
	term = strings.TrimSpace(term)
	if len(term) != 3 {
		return false
	}
	for i := 0; i < len(term); i++ {
		if term[i] < '0' || term[i] > '9' {
			return false
		}
	}
	return true
}

func (c compiled) match(l models.Logo) bool {
	return c.matchText(l) && c.matchColor(l) && c.matchType(l)
}

func (c compiled) matchText(l models.Logo) bool {
	if strings.Contains(strings.ToLower(l.Name), c.term) {
		return true
	}
	return c.yearValid && InDecade(l.Year, c.year)
}

func (c compiled) matchColor(l models.Logo) bool {
	return c.color == "" || l.Color == c.color
}

func (c compiled) matchType(l models.Logo) bool {
	return c.typ == "" || l.Type == c.typ
}

func safeKeep(keep func(models.Logo) bool, l models.Logo) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("query: evaluation failed",
				slog.Int("id", l.ID),
				slog.String("error", fmt.Sprint(r)))
			ok = false
		}
	}()
	return keep(l)
}
