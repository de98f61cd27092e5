package internal

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/logoteca/internal/index"
	"github.com/starford/logoteca/internal/models"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Catalog CatalogConfig     `yaml:"catalog"`
	Index   IndexConfig       `yaml:"index"`
	Auth    AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// CatalogConfig describes where raw identifiers come from.
//
// Dir holds the logo images and is always required: images are served from
// it. When Manifest is set, identifiers (and their order) are read from that
// YAML file instead of listing Dir.
type CatalogConfig struct {
	Dir      string        `yaml:"dir"`
	Manifest string        `yaml:"manifest"`
	BasePath string        `yaml:"base_path"`
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
}

// Validate validates the catalog configuration.
func (c *CatalogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.BasePath, validation.Required, validation.By(absolutePath)),
		validation.Field(&c.Debounce, validation.Min(time.Duration(0))),
	)
}

func absolutePath(v any) error {
	s, _ := v.(string)
	if !strings.HasPrefix(s, "/") {
		return fmt.Errorf("must start with /")
	}
	return nil
}

// IndexConfig holds the facet index database settings.
type IndexConfig struct {
	DSN string `yaml:"dsn"`
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Catalog: CatalogConfig{
			Dir:      "./logos",
			BasePath: models.BasePath,
			Watch:    true,
			Debounce: 300 * time.Millisecond,
		},
		Index: IndexConfig{
			DSN: index.DefaultDSN,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
