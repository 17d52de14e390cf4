package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// configKeys are the known configuration keys. Each is also bound to the
// matching environment variable (dots become underscores, upper-cased).
var configKeys = []string{
	"name",
	"environment",
	"debug",
	"logging.level",
	"logging.format",
	"logging.output",
	"logging.no_color",
	"server.host",
	"server.port",
	"server.read_timeout",
	"server.write_timeout",
	"server.idle_timeout",
	"server.cors_origins",
	"auth.access_secret",
	"auth.refresh_secret",
	"auth.access_ttl",
	"auth.refresh_ttl",
	"store.driver",
	"store.dsn",
	"tracing.enabled",
	"tracing.endpoint",
	"tracing.sample_ratio",
}

// envAliases maps config keys to additional environment variable names
// accepted for backwards compatibility with existing deployments.
var envAliases = map[string][]string{
	"auth.access_secret":  {"JWT_SECRET"},
	"auth.refresh_secret": {"JWT_REFRESH_SECRET"},
	"server.port":         {"PORT"},
	"store.dsn":           {"DATABASE_URL"},
}

// LoaderConfig holds optional file overrides for Load.
type LoaderConfig struct {
	ConfigFile string
	EnvFile    string
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithConfigFile sets an explicit YAML config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Load reads the application configuration. Precedence, lowest to
// highest: YAML config file, .env file, process environment. The result
// has defaults applied and is validated.
func Load(opts ...LoaderOption) (*Config, error) {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.ConfigFile == "" {
		lc.ConfigFile = findFirst("./config.yml", "./config/config.yml", "./cmd/server/config.yml")
	}
	if lc.EnvFile == "" {
		lc.EnvFile = findFirst("./.env", "./config/.env")
	}

	// godotenv only sets variables that are not already set, so the
	// process environment wins over the .env file.
	if lc.EnvFile != "" {
		if err := godotenv.Load(lc.EnvFile); err != nil {
			return nil, fmt.Errorf("config: load env file %s: %w", lc.EnvFile, err)
		}
	}

	v := viper.New()
	if lc.ConfigFile != "" {
		v.SetConfigFile(lc.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", lc.ConfigFile, err)
		}
	}

	for _, key := range configKeys {
		names := []string{key, envName(key)}
		names = append(names, envAliases[key]...)
		if err := v.BindEnv(names...); err != nil {
			return nil, fmt.Errorf("config: bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envName converts a dotted config key to its environment variable name,
// e.g. "auth.access_secret" -> "AUTH_ACCESS_SECRET".
func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// findFirst returns the first path that exists, or "".
func findFirst(paths ...string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
