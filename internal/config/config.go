// Package config manages application configuration.
//
// Settings resolve in priority order: command-line flags (applied by the
// caller), YTMETA_* environment variables, a ytmeta.json config file in the
// working directory or ~/.config/ytmeta/, then built-in defaults. A local
// .env file is loaded into the environment first when present.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Extractor backend names.
const (
	ExtractorLibrary = "library"
	ExtractorYtdlp   = "ytdlp"
	ExtractorAPI     = "api"
)

// Config holds all application configuration.
type Config struct {
	// Output settings
	OutputDir string `json:"output_dir"`
	Format    string `json:"format"`

	// Extraction settings
	Extractor    string        `json:"extractor"`
	Language     string        `json:"language"`
	APIKey       string        `json:"api_key"`
	YtdlpPath    string        `json:"ytdlp_path"`
	FetchTimeout time.Duration `json:"fetch_timeout"`

	// Retry settings
	MaxRetries        int           `json:"max_retries"`
	InitialBackoff    time.Duration `json:"initial_backoff"`
	MaxBackoff        time.Duration `json:"max_backoff"`
	BackoffMultiplier float64       `json:"backoff_multiplier"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:         "output",
		Format:            "json",
		Extractor:         ExtractorLibrary,
		Language:          "en",
		YtdlpPath:         "yt-dlp",
		FetchTimeout:      2 * time.Minute,
		MaxRetries:        5,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// Load resolves configuration from file, environment, and defaults.
func Load() (*Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if err := cfg.loadFromFile(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile reads ytmeta.json from the working directory or the user
// config directory.
func (c *Config) loadFromFile() error {
	paths := []string{
		"ytmeta.json",
		filepath.Join(os.Getenv("HOME"), ".config", "ytmeta", "ytmeta.json"),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides config with YTMETA_* environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("YTMETA_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("YTMETA_FORMAT"); v != "" {
		c.Format = v
	}
	if v := os.Getenv("YTMETA_EXTRACTOR"); v != "" {
		c.Extractor = v
	}
	if v := os.Getenv("YTMETA_LANGUAGE"); v != "" {
		c.Language = v
	}
	if v := os.Getenv("YTMETA_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("YTMETA_YTDLP_PATH"); v != "" {
		c.YtdlpPath = v
	}
	if v := os.Getenv("YTMETA_FETCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.FetchTimeout = d
		}
	}
	if v := os.Getenv("YTMETA_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv("YTMETA_INITIAL_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.InitialBackoff = d
		}
	}
	if v := os.Getenv("YTMETA_MAX_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.MaxBackoff = d
		}
	}
	if v := os.Getenv("YTMETA_BACKOFF_MULTIPLIER"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.BackoffMultiplier = f
		}
	}
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	switch c.Format {
	case "json", "text":
	default:
		return fmt.Errorf("format must be json or text, got %q", c.Format)
	}
	switch c.Extractor {
	case ExtractorLibrary, ExtractorYtdlp, ExtractorAPI:
	default:
		return fmt.Errorf("extractor must be library, ytdlp, or api, got %q", c.Extractor)
	}
	if c.Extractor == ExtractorAPI && c.APIKey == "" {
		return fmt.Errorf("api extractor requires an api key (YTMETA_API_KEY)")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if c.InitialBackoff <= 0 {
		return fmt.Errorf("initial_backoff must be positive")
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("max_backoff must be >= initial_backoff")
	}
	if c.BackoffMultiplier <= 1 {
		return fmt.Errorf("backoff_multiplier must be > 1")
	}
	return nil
}
