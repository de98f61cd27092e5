package storage

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func tempCatalog(t *testing.T) (string, *FS) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return dir, s
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNewFS_NotDir(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "file.png", "x")
	if _, err := NewFS(filepath.Join(dir, "file.png")); err == nil {
		t.Error("expected error for non-directory root")
	}
}

func TestList_ImagesOnlySorted(t *testing.T) {
	dir, s := tempCatalog(t)
	write(t, dir, "Zeta|Red|www.z.org|Serif|1950.png", "z")
	write(t, dir, "Alpha|Blue|www.a.org|SansSerif|1920.SVG", "a")
	write(t, dir, "notes.txt", "skip")
	write(t, dir, ".hidden.png", "skip")
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{
		"Alpha|Blue|www.a.org|SansSerif|1920.SVG",
		"Zeta|Red|www.z.org|Serif|1950.png",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("List = %v, want %v", got, want)
	}
}

func TestOpen(t *testing.T) {
	dir, s := tempCatalog(t)
	write(t, dir, "a.png", "pixels")
	f, info, err := s.Open("a.png")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	data, _ := io.ReadAll(f)
	if string(data) != "pixels" || info.Size() != 6 {
		t.Errorf("data = %q size = %d", data, info.Size())
	}
}

func TestOpen_RejectsTraversal(t *testing.T) {
	_, s := tempCatalog(t)
	for _, name := range []string{"", "..", "../etc/passwd", "a/b.png", "."} {
		if _, _, err := s.Open(name); err == nil {
			t.Errorf("Open(%q) should fail", name)
		}
	}
}

func TestOpen_Missing(t *testing.T) {
	_, s := tempCatalog(t)
	_, _, err := s.Open("missing.png")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
}
