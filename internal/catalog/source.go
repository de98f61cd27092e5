// Package catalog derives the logo collection from a source of raw
// identifiers and keeps the current snapshot.
package catalog

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/starford/logoteca/internal/storage"
)

// Source supplies the ordered list of raw identifiers.
type Source interface {
	Identifiers(ctx context.Context) ([]string, error)
}

// StaticSource is a fixed, in-memory identifier list.
type StaticSource []string

// Identifiers returns a copy of the list.
func (s StaticSource) Identifiers(_ context.Context) ([]string, error) {
	return append([]string(nil), s...), nil
}

// DirSource lists the image files of a catalog directory in name order.
type DirSource struct {
	FS *storage.FS
}

// Identifiers returns the image file names.
func (s DirSource) Identifiers(_ context.Context) ([]string, error) {
	names, err := s.FS.List()
	if err != nil {
		return nil, fmt.Errorf("catalog: dir source: %w", err)
	}
	return names, nil
}

// Manifest is the YAML document read by ManifestSource.
type Manifest struct {
	Logos []string `yaml:"logos"`
}

// ManifestSource reads identifiers from a YAML manifest, preserving order:
//
//	logos:
//	  - BarcelonaArchives|Blue|www.arxiu.barcelona|Serif|1922.png
type ManifestSource struct {
	Path string
}

// Identifiers reads and decodes the manifest.
func (s ManifestSource) Identifiers(_ context.Context) ([]string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read manifest %s: %w", s.Path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("catalog: parse manifest %s: %w", s.Path, err)
	}
	return m.Logos, nil
}
