package internal

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/partsdb/internal/provider"
	"github.com/starford/partsdb/internal/provider/mouser"
)

var httpURL = regexp.MustCompile(`^https?://`)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Database DatabaseConfig    `yaml:"database"`
	Provider ProviderConfig    `yaml:"provider"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Provider.Validate(); err != nil {
		return fmt.Errorf("provider: %w", err)
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// DatabaseConfig holds the directory parts are saved in.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the database configuration.
func (c *DatabaseConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// ProviderConfig selects and configures the distributor APIs.
type ProviderConfig struct {
	Default string       `yaml:"default"`
	Mouser  MouserConfig `yaml:"mouser"`
}

// Validate validates the provider configuration.
func (c *ProviderConfig) Validate() error {
	c.Default = strings.ToLower(c.Default)
	names := provider.Names()
	allowed := make([]interface{}, len(names))
	for i, n := range names {
		allowed[i] = n
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Default, validation.Required, validation.In(allowed...)),
	); err != nil {
		return err
	}
	return c.Mouser.Validate()
}

// MouserConfig holds Mouser API settings. The API key is never read from
// the config file.
type MouserConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// Validate validates the Mouser configuration.
func (c *MouserConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Endpoint, validation.Required, validation.Match(httpURL)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelWarn,
		},
		Database: DatabaseConfig{
			Path: ".database",
		},
		Provider: ProviderConfig{
			Default: provider.DefaultName,
			Mouser: MouserConfig{
				Endpoint: mouser.DefaultEndpoint,
			},
		},
	}
}
