package config

import (
	"fmt"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig contains server configuration
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// StorageConfig selects the license store backend
type StorageConfig struct {
	Driver string `yaml:"driver"` // "memory" or "sqlite"
	Path   string `yaml:"path"`   // sqlite database path
}

// AuthConfig contains the API key gate configuration. Enforce is off by
// default: key presence is observed and logged but never rejects a request,
// matching the historical behavior.
type AuthConfig struct {
	APIKey  string `yaml:"api_key"`
	Enforce bool   `yaml:"enforce"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{ListenAddr: ":3000"},
		Storage: StorageConfig{Driver: "memory"},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}

	if c.Storage.Driver != "memory" && c.Storage.Driver != "sqlite" {
		return fmt.Errorf("storage.driver must be 'memory' or 'sqlite'")
	}
	if c.Storage.Driver == "sqlite" && c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required when storage.driver is 'sqlite'")
	}

	// The operator-side rule for accepting a key is >= 32 characters; an
	// enforcing server holding a shorter key would reject every client.
	if c.Auth.Enforce && len(c.Auth.APIKey) < 32 {
		return fmt.Errorf("auth.api_key must be at least 32 characters when auth.enforce is enabled")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("logging.format must be 'json' or 'text'")
	}

	return nil
}
