package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type sample struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

func (s *sample) Validate() error {
	if s.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ExpandsEnvOverDefaults(t *testing.T) {
	t.Setenv("LOGOTECA_TEST_NAME", "gallery")
	path := writeFile(t, "name: ${LOGOTECA_TEST_NAME}\n")
	s := sample{Port: 8080}
	if err := Load(path, &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "gallery" || s.Port != 8080 {
		t.Errorf("got %+v", s)
	}
}

func TestLoad_ValidationError(t *testing.T) {
	path := writeFile(t, "port: 0\n")
	s := sample{Port: 1}
	if err := Load(path, &s); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoad_Missing(t *testing.T) {
	var s sample
	if err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &s); err == nil {
		t.Fatal("expected read error")
	}
}

func TestLoadOptional_MissingKeepsDefaults(t *testing.T) {
	s := sample{Name: "default", Port: 9000}
	if err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), &s); err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if s.Name != "default" {
		t.Errorf("defaults changed: %+v", s)
	}

	bad := sample{}
	if err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), &bad); err == nil {
		t.Error("defaults should still be validated")
	}
}
