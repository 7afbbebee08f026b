// Package config loads the application configuration from an optional YAML
// file with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/osamaaldaas2/Invoice2E-sub003/internal/logger"
)

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      logger.Config  `yaml:"log"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// ServerConfig configures the HTTP facade.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DefaultsConfig holds conversion defaults applied when a request leaves
// them unset. An empty Currency defers to the format-specific default
// (EUR, or PLN for KSeF).
type DefaultsConfig struct {
	Format   string `yaml:"format"`
	Currency string `yaml:"currency"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Log: logger.DefaultConfig(),
		Defaults: DefaultsConfig{
			Format: "xrechnung-ubl",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// given), then environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides configuration fields from INVOICE2E_* variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("INVOICE2E_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("INVOICE2E_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("INVOICE2E_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("INVOICE2E_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("INVOICE2E_DEFAULT_FORMAT"); v != "" {
		c.Defaults.Format = v
	}
	if v := os.Getenv("INVOICE2E_DEFAULT_CURRENCY"); v != "" {
		c.Defaults.Currency = v
	}
}
