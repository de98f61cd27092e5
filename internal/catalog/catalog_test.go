package catalog

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/starford/logoteca/internal/storage"
)

var quiet = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

const (
	barcelona = "BarcelonaArchives|Blue|www.arxiu.barcelona|Serif|1922.png"
	catalunya = "CatalunyaRadio|Red|www.ccma.cat|SansSerif|1983.png"
)

type failingSource struct{}

func (failingSource) Identifiers(context.Context) ([]string, error) {
	return nil, errors.New("boom")
}

func TestCatalog_EmptyBeforeReload(t *testing.T) {
	c := New(StaticSource{barcelona}, nil, quiet)
	if c.Snapshot().Len() != 0 {
		t.Errorf("expected empty snapshot before Reload")
	}
}

func TestCatalog_Reload(t *testing.T) {
	c := New(StaticSource{barcelona, "broken", catalunya}, nil, quiet)
	snap, changed, err := c.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if !changed {
		t.Error("first reload should report a change")
	}
	if snap.Len() != 3 || snap.Malformed != 1 {
		t.Errorf("len = %d malformed = %d", snap.Len(), snap.Malformed)
	}
	if l, ok := snap.Get(3); !ok || l.Name != "Catalunya Radio" {
		t.Errorf("Get(3) = %+v, %v", l, ok)
	}
	if _, ok := snap.Get(0); ok {
		t.Error("Get(0) should miss")
	}
	if _, ok := snap.Get(4); ok {
		t.Error("Get(4) should miss")
	}

	again, changed, err := c.Reload(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if changed || again != snap {
		t.Error("reload of identical list should keep the snapshot")
	}
}

func TestCatalog_ReloadErrorKeepsSnapshot(t *testing.T) {
	c := New(failingSource{}, nil, quiet)
	before := c.Snapshot()
	snap, changed, err := c.Reload(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if changed || snap != before {
		t.Error("failed reload must keep previous snapshot")
	}
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{catalunya, barcelona, "readme.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	fs, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DirSource{FS: fs}.Identifiers(context.Background())
	if err != nil {
		t.Fatalf("Identifiers: %v", err)
	}
	if !reflect.DeepEqual(got, []string{barcelona, catalunya}) {
		t.Errorf("got %v", got)
	}
}

func TestManifestSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logos.yaml")
	doc := "logos:\n  - \"" + catalunya + "\"\n  - \"" + barcelona + "\"\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := ManifestSource{Path: path}.Identifiers(context.Background())
	if err != nil {
		t.Fatalf("Identifiers: %v", err)
	}
	if !reflect.DeepEqual(got, []string{catalunya, barcelona}) {
		t.Errorf("manifest order not preserved: %v", got)
	}
}

func TestManifestSource_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logos.yaml")
	_ = os.WriteFile(path, []byte("logos: {{{"), 0o644)
	if _, err := (ManifestSource{Path: path}).Identifiers(context.Background()); err == nil {
		t.Error("expected parse error")
	}
	if _, err := (ManifestSource{Path: path + ".missing"}).Identifiers(context.Background()); err == nil {
		t.Error("expected read error")
	}
}
