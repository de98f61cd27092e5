// Package storage exposes the catalog image directory.
package storage

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// imageExts lists the file extensions treated as catalog assets.
var imageExts = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".svg":  {},
	".webp": {},
}

// IsImage reports whether name carries a catalog image extension.
func IsImage(name string) bool {
	_, ok := imageExts[strings.ToLower(filepath.Ext(name))]
	return ok
}

// FS provides read-only access to a flat directory of logo images.
type FS struct {
	root string // absolute path to the catalog directory
}

// NewFS creates a new FS rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute catalog directory.
func (f *FS) Root() string {
	return f.root
}

// safeName validates that name is a plain file name (no separators, no
// traversal) and returns its absolute path under the root.
func (f *FS) safeName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("storage: filename is required")
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || cleaned == ".." || cleaned == "." {
		return "", fmt.Errorf("storage: invalid filename: %s", name)
	}
	abs := filepath.Join(f.root, cleaned)
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: path escapes catalog root: %s", name)
	}
	return abs, nil
}

// List returns the names of image files directly under the root, sorted.
// Hidden files and subdirectories are skipped.
func (f *FS) List() ([]string, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !IsImage(name) {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// Open opens the named image for reading.
func (f *FS) Open(name string) (*os.File, fs.FileInfo, error) {
	abs, err := f.safeName(name)
	if err != nil {
		return nil, nil, err
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, nil, fmt.Errorf("storage: open %s: %w", name, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("storage: stat %s: %w", name, err)
	}
	if info.IsDir() {
		file.Close()
		return nil, nil, fmt.Errorf("storage: %s: %w", name, fs.ErrNotExist)
	}
	return file, info, nil
}
