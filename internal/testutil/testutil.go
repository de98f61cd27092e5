// Package testutil provides shared test helpers for catalogs and facet indexes.
package testutil

import (
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/logoteca/internal/index"
	"github.com/starford/logoteca/internal/storage"
)

// Canonical identifiers used across package tests.
const (
	Barcelona = "BarcelonaArchives|Blue|www.arxiu.barcelona|Serif|1922.png"
	Catalunya = "CatalunyaRadio|Red|www.ccma.cat|SansSerif|1983.png"
)

// QuietLogger discards everything below error level.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// TestIndex opens a private in-memory facet index that is closed on cleanup.
func TestIndex(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.Open("file:" + url.PathEscape(t.Name()) + "?mode=memory")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestCatalogDir creates a temporary catalog directory holding one small
// file per name. Each file's content is "img:" followed by its name.
func TestCatalogDir(t *testing.T, names ...string) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("img:"+name), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	fs, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, fs
}
