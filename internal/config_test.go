package internal

import (
	"strings"
	"testing"
	"time"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestCatalogConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CatalogConfig)
		wantErr bool
	}{
		{"missing dir", func(c *CatalogConfig) { c.Dir = "" }, true},
		{"relative base path", func(c *CatalogConfig) { c.BasePath = "logos" }, true},
		{"empty base path", func(c *CatalogConfig) { c.BasePath = "" }, true},
		{"negative debounce", func(c *CatalogConfig) { c.Debounce = -time.Second }, true},
		{"manifest", func(c *CatalogConfig) { c.Manifest = "logos.yaml" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig().Catalog
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFullConfig_HTTPPort(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.HTTP.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("out-of-range port should fail")
	}
}
