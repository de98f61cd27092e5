package catalog

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/starford/logoteca/internal/checksum"
	"github.com/starford/logoteca/internal/models"
	"github.com/starford/logoteca/internal/parser"
)

// Snapshot is one immutable derivation of the catalog. Callers must not
// modify Logos.
type Snapshot struct {
	Logos       []models.Logo
	Fingerprint string
	Malformed   int
	LoadedAt    time.Time
}

// Get returns the logo with the given ID. IDs are 1-based positions.
func (s *Snapshot) Get(id int) (models.Logo, bool) {
	if s == nil || id < 1 || id > len(s.Logos) {
		return models.Logo{}, false
	}
	return s.Logos[id-1], true
}

// Len returns the number of logos.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Logos)
}

// Catalog holds the current snapshot and rebuilds it from its source.
// Readers never block: Reload swaps the snapshot atomically.
type Catalog struct {
	src    Source
	parser *parser.Parser
	logger *slog.Logger

	snap atomic.Pointer[Snapshot]
}

// New creates a Catalog. Call Reload to load the first snapshot.
func New(src Source, p *parser.Parser, logger *slog.Logger) *Catalog {
	if p == nil {
		p = parser.New("", logger)
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Catalog{src: src, parser: p, logger: logger}
	c.snap.Store(&Snapshot{Logos: []models.Logo{}, Fingerprint: checksum.Lines(nil)})
	return c
}

// Snapshot returns the current snapshot.
func (c *Catalog) Snapshot() *Snapshot {
	return c.snap.Load()
}

// Reload reads the source and replaces the snapshot. On error the previous
// snapshot stays in place. changed is false when the identifier list is
// identical to the current one.
func (c *Catalog) Reload(ctx context.Context) (snap *Snapshot, changed bool, err error) {
	raws, err := c.src.Identifiers(ctx)
	if err != nil {
		return c.Snapshot(), false, err
	}

	fp := checksum.Lines(raws)
	if cur := c.Snapshot(); cur.Fingerprint == fp && !cur.LoadedAt.IsZero() {
		return cur, false, nil
	}

	logos := c.parser.ParseAll(raws)
	malformed := 0
	for _, l := range logos {
		if l.IsFallback() {
			malformed++
		}
	}

	snap = &Snapshot{
		Logos:       logos,
		Fingerprint: fp,
		Malformed:   malformed,
		LoadedAt:    time.Now(),
	}
	c.snap.Store(snap)

	c.logger.Info("catalog: loaded",
		slog.Int("logos", len(logos)),
		slog.Int("malformed", malformed),
		slog.String("fingerprint", fp[:12]))
	return snap, true, nil
}
