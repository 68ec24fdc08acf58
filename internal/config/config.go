package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the CLI configuration.
type Config struct {
	API   APIConfig   `toml:"api"`
	Store StoreConfig `toml:"store"`
	View  ViewConfig  `toml:"view"`
	Log   LogConfig   `toml:"log"`
}

// APIConfig contains dashboard backend settings.
type APIConfig struct {
	BaseURL           string  `toml:"base_url"`            // e.g. "http://localhost:8080"
	Timeout           string  `toml:"timeout"`             // request timeout (e.g. "30s")
	RequestsPerSecond float64 `toml:"requests_per_second"` // client-side rate limit
	FetchLimit        int     `toml:"fetch_limit"`         // matches requested per fetch
}

// StoreConfig contains the local cache location.
type StoreConfig struct {
	DBPath string `toml:"db_path"`
}

// ViewConfig contains defaults for the derived views.
type ViewConfig struct {
	TopHeroes          int `toml:"top_heroes"`
	ActivityWindowDays int `toml:"activity_window_days"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Dir returns the configuration directory, ~/.dotametrics.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".dotametrics")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           "http://localhost:8080",
			Timeout:           "30s",
			RequestsPerSecond: 5,
			FetchLimit:        5000,
		},
		Store: StoreConfig{
			DBPath: filepath.Join(Dir(), "matches.db"),
		},
		View: ViewConfig{
			TopHeroes:          5,
			ActivityWindowDays: 7 * 14,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, the TOML file at path (if it
// exists) and finally the environment, including a .env file in the working
// directory.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// A missing .env is normal; variables may come from the shell.
	_ = godotenv.Load()
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DOTAMETRICS_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("DOTAMETRICS_DB"); v != "" {
		cfg.Store.DBPath = v
	}
	if v := os.Getenv("DOTAMETRICS_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("DOTAMETRICS_FETCH_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.API.FetchLimit = n
		}
	}
}

// Validate checks values that would otherwise fail later at use.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("%w: api.base_url is empty", ErrInvalidConfig)
	}
	if _, err := c.RequestTimeout(); err != nil {
		return fmt.Errorf("%w: api.timeout: %v", ErrInvalidConfig, err)
	}
	if c.API.RequestsPerSecond <= 0 {
		return fmt.Errorf("%w: api.requests_per_second must be positive", ErrInvalidConfig)
	}
	if c.API.FetchLimit <= 0 {
		return fmt.Errorf("%w: api.fetch_limit must be positive", ErrInvalidConfig)
	}
	if c.View.ActivityWindowDays < 0 {
		return fmt.Errorf("%w: view.activity_window_days must not be negative", ErrInvalidConfig)
	}
	return nil
}

// RequestTimeout parses API.Timeout.
func (c *Config) RequestTimeout() (time.Duration, error) {
	return time.ParseDuration(c.API.Timeout)
}

// Save writes the configuration to path, creating the directory if needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
