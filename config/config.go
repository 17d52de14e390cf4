// Package config loads and validates the application configuration from
// a YAML file, a .env file, and the process environment, in increasing
// order of precedence.
package config

import (
	"fmt"

	"github.com/gastoncarriquiry/menu-maker/auth"
	"github.com/gastoncarriquiry/menu-maker/logger"
	"github.com/gastoncarriquiry/menu-maker/server"
)

// Config is the full application configuration.
type Config struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`

	Logging logger.Config    `yaml:"logging" mapstructure:"logging"`
	Server  server.Config    `yaml:"server" mapstructure:"server"`
	Auth    auth.TokenConfig `yaml:"auth" mapstructure:"auth"`
	Store   StoreConfig      `yaml:"store" mapstructure:"store"`
	Tracing TracingConfig    `yaml:"tracing" mapstructure:"tracing"`
}

// StoreConfig selects and configures the user store backend.
type StoreConfig struct {
	// Driver is "memory" or "postgres".
	Driver string `yaml:"driver" mapstructure:"driver"`

	// DSN is the PostgreSQL connection string. Required for the
	// postgres driver.
	DSN string `yaml:"dsn" mapstructure:"dsn"`
}

// TracingConfig configures OTLP trace export.
type TracingConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Endpoint is the OTLP/HTTP collector address, e.g. "localhost:4318".
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`

	// SampleRatio is the fraction of traces to sample. 0 means all.
	SampleRatio float64 `yaml:"sample_ratio" mapstructure:"sample_ratio"`
}

// ApplyDefaults fills in default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "menu-maker"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "memory"
	}
	if c.Tracing.Endpoint == "" {
		c.Tracing.Endpoint = "localhost:4318"
	}
	c.Logging.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Auth.ApplyDefaults()
}

// Validate checks the configuration for invalid or missing values.
func (c *Config) Validate() error {
	switch c.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("config: environment must be one of [development, staging, production] (got: %s)", c.Environment)
	}

	switch c.Store.Driver {
	case "memory":
	case "postgres":
		if c.Store.DSN == "" {
			return fmt.Errorf("config: store.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("config: store.driver must be memory or postgres (got: %s)", c.Store.Driver)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config: logging: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("config: server: %w", err)
	}
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("config: auth: %w", err)
	}
	return nil
}
