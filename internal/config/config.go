// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/lograca/lograca/internal/model"
)

const envPrefix = "LOGRCA_"

type Config struct {
	Primary  Primary        `koanf:"primary"`
	Server   ServerConfig   `koanf:"server" validate:"required"`
	Database DatabaseConfig `koanf:"database" validate:"required"`
	Ingest   IngestConfig   `koanf:"ingest" validate:"required"`
	Chat     ChatConfig     `koanf:"chat"`
	NewRelic NewRelicConfig `koanf:"newrelic"`
}

type Primary struct {
	Env string `koanf:"env"`
}

type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
}

type DatabaseConfig struct {
	// URL is the Postgres connection string (LOGRCA_DATABASE_URL).
	URL string `koanf:"url" validate:"required"`
}

type IngestConfig struct {
	// SourceTag is the provenance tag stamped on pipeline records.
	SourceTag string `koanf:"source_tag" validate:"required"`
	// ServiceOverride, when set, replaces the extracted service on every
	// ingested record; the extracted value moves to metadata. Empty keeps
	// the extracted service.
	ServiceOverride string `koanf:"service_override"`
	// Seed enables sample-data generation on an empty store at startup.
	Seed bool `koanf:"seed"`
}

// ChatConfig points the chat pass-through at an OpenAI-compatible
// completions API. The feature is disabled while APIKey is empty.
type ChatConfig struct {
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`
	Model   string `koanf:"model"`
}

// NewRelicConfig enables APM when a license key is present.
type NewRelicConfig struct {
	LicenseKey string `koanf:"license_key"`
	AppName    string `koanf:"app_name"`
}

// Load reads configuration from LOGRCA_* environment variables, applies
// defaults, and validates the result. The first underscore of a variable
// name separates the section from the key, so LOGRCA_DATABASE_URL maps
// to database.url and LOGRCA_SERVER_CORS_ALLOWED_ORIGINS to
// server.cors_allowed_origins.
func Load() (*Config, error) {
	k := koanf.New(".")
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.Replace(key, "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.applyDefaults()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Primary.Env == "" {
		c.Primary.Env = "development"
	}
	if c.Server.Port == "" {
		c.Server.Port = "3000"
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{"*"}
	}
	if c.Database.URL == "" {
		c.Database.URL = "postgres://localhost:5432/loganalysis"
	}
	if c.Ingest.SourceTag == "" {
		c.Ingest.SourceTag = model.DefaultSourceTag
	}
	if c.Chat.BaseURL == "" {
		c.Chat.BaseURL = "https://api.deepseek.com/v1"
	}
	if c.Chat.Model == "" {
		c.Chat.Model = "deepseek-chat"
	}
	if c.NewRelic.AppName == "" {
		c.NewRelic.AppName = "lograca"
	}
}
