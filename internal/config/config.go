package config

import (
	"fmt"

	env "github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds the application configuration
// Variables without the ARMKIT_ prefix keep the names earlier releases used.
type Config struct {
	// SchemaDefinitionURL overrides the locator given to "armkit import".
	SchemaDefinitionURL string `env:"SCHEMA_DEFINITION_URL" envDefault:""`
	GitHubAccessToken   string `env:"GITHUB_ACCESS_TOKEN" envDefault:""`
	GitHubAPIURL        string `env:"ARMKIT_GITHUB_API_URL" envDefault:""`

	SchemaRepository string `env:"ARMKIT_SCHEMA_REPOSITORY" envDefault:"Azure/azure-resource-manager-schemas"`
	SchemaVersion    string `env:"ARMKIT_SCHEMA_VERSION" envDefault:"2019-04-01"`
	SchemaHost       string `env:"ARMKIT_SCHEMA_HOST" envDefault:"https://schema.management.azure.com/schemas/"`

	MaxDepth        int    `env:"ARMKIT_MAX_DEPTH" envDefault:"512"`
	ValidateSchemas bool   `env:"ARMKIT_VALIDATE_SCHEMAS" envDefault:"false"`
	LogLevel        string `env:"ARMKIT_LOG_LEVEL" envDefault:"info"`
}

// NewConfig reads the configuration from the process environment
func NewConfig() (*Config, error) {
	return Load(env.Options{})
}

// Load parses the configuration with explicit options, which lets callers
// supply their own environment map.
func Load(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if cfg.MaxDepth <= 0 {
		return nil, fmt.Errorf("ARMKIT_MAX_DEPTH must be positive, got %d", cfg.MaxDepth)
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid ARMKIT_LOG_LEVEL: %w", err)
	}
	return &cfg, nil
}

// Level returns the configured log level.
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// ImportLocator picks the schema locator for an import: the environment
// override wins over the argument, as it always has.
func (c *Config) ImportLocator(arg string) string {
	if c.SchemaDefinitionURL != "" {
		return c.SchemaDefinitionURL
	}
	return arg
}
