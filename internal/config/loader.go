package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load loads configuration from a YAML file. A missing file is not an error:
// the defaults are used so the server runs out of the box.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithEnv loads configuration from a file and applies environment variable
// overrides. A .env file in the working directory is read first, if present.
func LoadWithEnv(path string) (*Config, error) {
	// Ignore a missing .env; it is optional
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if listenAddr := os.Getenv("VDP_LISTEN_ADDR"); listenAddr != "" {
		cfg.Server.ListenAddr = listenAddr
	}

	if driver := os.Getenv("VDP_STORAGE_DRIVER"); driver != "" {
		cfg.Storage.Driver = driver
	}

	if dbPath := os.Getenv("VDP_DB_PATH"); dbPath != "" {
		cfg.Storage.Path = dbPath
	}

	if apiKey := os.Getenv("VDP_API_KEY"); apiKey != "" {
		cfg.Auth.APIKey = apiKey
	}

	if enforce := os.Getenv("VDP_API_KEY_ENFORCE"); enforce == "true" || enforce == "1" {
		cfg.Auth.Enforce = true
	}

	if level := os.Getenv("VDP_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}

	// Validate again after env overrides
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration after env overrides: %w", err)
	}

	return cfg, nil
}

// applyDefaults fills fields a partial config file left empty
func applyDefaults(cfg *Config) {
	def := Default()

	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = def.Server.ListenAddr
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = def.Storage.Driver
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = def.Logging.Format
	}
}
