// Package common provides shared utilities for Wagerbook
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Wagerbook
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Auth        AuthConfig    `toml:"auth"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Storage driver constants.
const (
	DriverSurrealDB = "surrealdb"
	DriverBadger    = "badger"
)

// StorageConfig holds storage configuration. The primary backend is SurrealDB;
// "badger" selects the embedded store for offline use. LegacyPath is where the
// pre-SurrealDB BadgerHold database lived and is consulted by the one-time
// migration on startup.
type StorageConfig struct {
	Driver     string `toml:"driver"`
	Address    string `toml:"address"`
	Namespace  string `toml:"namespace"`
	Database   string `toml:"database"`
	Username   string `toml:"username"`
	Password   string `toml:"password"`
	Path       string `toml:"path"`        // badger driver data directory
	LegacyPath string `toml:"legacy_path"` // old embedded store, migration source
}

// AuthConfig holds JWT authentication configuration.
type AuthConfig struct {
	JWTSecret   string `toml:"jwt_secret"`
	TokenExpiry string `toml:"token_expiry"` // duration string, default "24h"
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8090,
		},
		Storage: StorageConfig{
			Driver:     DriverSurrealDB,
			Address:    "ws://localhost:8000/rpc",
			Namespace:  "wagerbook",
			Database:   "wagerbook",
			Username:   "root",
			Password:   "root",
			Path:       "data/ledger",
			LegacyPath: "data/legacy",
		},
		Auth: AuthConfig{
			JWTSecret:   "dev-jwt-secret-change-in-production",
			TokenExpiry: "24h",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// Apply environment overrides
	applyEnvOverrides(config)

	// Validate storage driver
	validateStorageDriver(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("WAGERBOOK_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("WAGERBOOK_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("WAGERBOOK_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("WAGERBOOK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if driver := os.Getenv("WAGERBOOK_STORAGE_DRIVER"); driver != "" {
		config.Storage.Driver = driver
	}
	if addr := os.Getenv("WAGERBOOK_STORAGE_ADDRESS"); addr != "" {
		config.Storage.Address = addr
	}
	if ns := os.Getenv("WAGERBOOK_STORAGE_NAMESPACE"); ns != "" {
		config.Storage.Namespace = ns
	}
	if db := os.Getenv("WAGERBOOK_STORAGE_DATABASE"); db != "" {
		config.Storage.Database = db
	}
	if user := os.Getenv("WAGERBOOK_STORAGE_USERNAME"); user != "" {
		config.Storage.Username = user
	}
	if pass := os.Getenv("WAGERBOOK_STORAGE_PASSWORD"); pass != "" {
		config.Storage.Password = pass
	}
	if path := os.Getenv("WAGERBOOK_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	// Auth overrides
	if v := os.Getenv("WAGERBOOK_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("WAGERBOOK_AUTH_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// validateStorageDriver ensures the driver is a known backend, defaulting to SurrealDB.
func validateStorageDriver(config *Config) {
	d := strings.ToLower(strings.TrimSpace(config.Storage.Driver))
	if d != DriverSurrealDB && d != DriverBadger {
		d = DriverSurrealDB
	}
	config.Storage.Driver = d
}
