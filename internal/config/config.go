// Package config loads tablero settings from a YAML file with environment
// overrides
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers
const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Sync    SyncConfig    `yaml:"sync"`
	Filter  FilterConfig  `yaml:"filter"`
	Theme   Theme         `yaml:"theme"`
}

// ServerConfig is used by `tablero serve` (Addr) and by remote clients (URL)
type ServerConfig struct {
	Addr string `yaml:"addr"`
	URL  string `yaml:"url"`
}

// StorageConfig selects the local backend
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// SyncConfig controls background persistence
type SyncConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	Retries      int           `yaml:"retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

// FilterConfig tunes fuzzy card filtering
type FilterConfig struct {
	MaxDistance int `yaml:"max_distance"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	c := &Config{
		Sync:   SyncConfig{Retries: 3},
		Filter: FilterConfig{MaxDistance: 1},
	}
	c.applyDefaults()
	return c
}

// Load loads config from the user's config directory, then applies
// environment overrides. Returns default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		config := Default()
		config.applyEnv()
		return config, nil
	}
	return LoadFile(configPath)
}

// LoadFile loads config from path. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	// Decoding over the defaults keeps explicit zeros such as retries: 0
	config := *Default()
	config.Theme = Theme{}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	config.applyEnv()
	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Save saves the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

// Validate rejects values no default can repair
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverFile:
	default:
		return fmt.Errorf("unknown storage driver %q (want %s or %s)", c.Storage.Driver, DriverSQLite, DriverFile)
	}
	if c.Sync.Retries < 0 {
		return fmt.Errorf("sync.retries must not be negative, got %d", c.Sync.Retries)
	}
	if c.Filter.MaxDistance < 0 {
		return fmt.Errorf("filter.max_distance must not be negative, got %d", c.Filter.MaxDistance)
	}
	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "tablero", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "tablero", "config.yaml"), nil
}

// applyEnv overrides file values with TABLERO_* variables
func (c *Config) applyEnv() {
	if url := os.Getenv("TABLERO_SERVER_URL"); url != "" {
		c.Server.URL = url
	}
	if path := os.Getenv("TABLERO_DB"); path != "" {
		c.Storage.Path = path
	}
	if retries := os.Getenv("TABLERO_SYNC_RETRIES"); retries != "" {
		if n, err := strconv.Atoi(retries); err == nil {
			c.Sync.Retries = n
		}
	}
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = "127.0.0.1:7420"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverSQLite
	}
	if c.Sync.Timeout == 0 {
		c.Sync.Timeout = 10 * time.Second
	}
	if c.Sync.RetryBackoff == 0 {
		c.Sync.RetryBackoff = 200 * time.Millisecond
	}
	c.Theme.ApplyDefaults()
}
