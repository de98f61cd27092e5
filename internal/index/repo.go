package index

import (
	"context"
	"fmt"

	"github.com/starford/logoteca/internal/models"
	"github.com/starford/logoteca/internal/query"
)

// Bucket is one facet value with the number of logos carrying it.
type Bucket struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// DecadeBucket counts logos per decade (the decade's first year).
type DecadeBucket struct {
	Decade int `json:"decade"`
	Count  int `json:"count"`
}

// Facets summarises the values the structured filters can take.
type Facets struct {
	Total     int            `json:"total"`
	Malformed int            `json:"malformed"`
	Colors    []Bucket       `json:"colors"`
	Types     []Bucket       `json:"types"`
	Decades   []DecadeBucket `json:"decades"`
}

// Replace swaps the mirrored logos for logos within one transaction.
func (db *DB) Replace(ctx context.Context, logos []models.Logo) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM logos`); err != nil {
		return fmt.Errorf("index: clear logos: %w", err)
	}

	if len(logos) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO logos (id, name, year, decade, color, type, image_url, source, fallback)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("index: prepare insert: %w", err)
		}
		defer stmt.Close()
		for _, l := range logos {
			if _, err := stmt.ExecContext(ctx,
				l.ID, l.Name, l.Year, query.DecadeStart(l.Year), l.Color, l.Type, l.ImageURL, l.Source, l.IsFallback(),
			); err != nil {
				return fmt.Errorf("index: insert logo %d: %w", l.ID, err)
			}
		}
	}

	return tx.Commit()
}

// Count returns the number of mirrored logos.
func (db *DB) Count(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT count(*) FROM logos`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}

// Facets aggregates counts per color, type, and decade. Buckets are sorted
// by value; fallback logos are excluded from the buckets but reported in
// Malformed.
func (db *DB) Facets(ctx context.Context) (*Facets, error) {
	f := &Facets{Colors: []Bucket{}, Types: []Bucket{}, Decades: []DecadeBucket{}}

	err := db.conn.QueryRowContext(ctx,
		`SELECT count(*), coalesce(sum(fallback), 0) FROM logos`,
	).Scan(&f.Total, &f.Malformed)
	if err != nil {
		return nil, fmt.Errorf("index: facet totals: %w", err)
	}

	if f.Colors, err = db.buckets(ctx, "color"); err != nil {
		return nil, err
	}
	if f.Types, err = db.buckets(ctx, "type"); err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT decade, count(*) FROM logos
		WHERE fallback = 0
		GROUP BY decade ORDER BY decade
	`)
	if err != nil {
		return nil, fmt.Errorf("index: decade facet: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var b DecadeBucket
		if err := rows.Scan(&b.Decade, &b.Count); err != nil {
			return nil, err
		}
		f.Decades = append(f.Decades, b)
	}
	return f, rows.Err()
}

// buckets groups by one of the fixed column names above; column is never
// user input.
func (db *DB) buckets(ctx context.Context, column string) ([]Bucket, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+column+`, count(*) FROM logos
		WHERE fallback = 0
		GROUP BY `+column+` ORDER BY `+column)
	if err != nil {
		return nil, fmt.Errorf("index: %s facet: %w", column, err)
	}
	defer rows.Close()

	out := []Bucket{}
	for rows.Next() {
		var b Bucket
		if err := rows.Scan(&b.Value, &b.Count); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
