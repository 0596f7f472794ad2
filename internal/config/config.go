// Package config loads the tool's YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	TMDB    TMDBConfig    `yaml:"tmdb"`
	Cinema  CinemaConfig  `yaml:"cinema"`
	Cache   CacheConfig   `yaml:"cache"`
	Options OptionsConfig `yaml:"options"`
}

// TMDBConfig holds TMDB API configuration.
type TMDBConfig struct {
	APIKey   string `yaml:"api_key"`
	Language string `yaml:"language"`
}

// CinemaConfig holds the schedule source settings.
type CinemaConfig struct {
	BaseURL     string `yaml:"base_url"`
	TimeoutSecs int    `yaml:"timeout_seconds"`
}

// CacheConfig holds the rating cache settings.
type CacheConfig struct {
	Path    string `yaml:"path"`
	TTLDays int    `yaml:"ttl_days"` // 0 = cached ratings never expire
}

// OptionsConfig holds additional options.
type OptionsConfig struct {
	RateLimitDelay   int `yaml:"rate_limit_delay"`
	MaxAttempts      int `yaml:"max_attempts"`
	InitialBackoffMs int `yaml:"initial_backoff_ms"`
}

const defaultLuxURL = "https://www.lux-nijmegen.nl/film/"

// Load reads and parses the configuration file. A user-level .env file
// is loaded first so the YAML can reference credentials as ${VAR}.
func Load(path string) (*Config, error) {
	loadDotenv()

	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.TMDB.APIKey == "" || cfg.TMDB.APIKey == "your_api_key_here" {
		return nil, fmt.Errorf("TMDB API key is required. Get one from https://www.themoviedb.org/settings/api")
	}
	if cfg.TMDB.Language == "" {
		cfg.TMDB.Language = "en-US"
	}

	if cfg.Cinema.BaseURL == "" {
		cfg.Cinema.BaseURL = defaultLuxURL
	}
	if cfg.Cinema.TimeoutSecs <= 0 {
		cfg.Cinema.TimeoutSecs = 30
	}

	if cfg.Cache.Path == "" {
		cfg.Cache.Path = "~/.cache/luxinema/ratings.db"
	}
	cfg.Cache.Path, err = expandHome(cfg.Cache.Path)
	if err != nil {
		return nil, err
	}
	if cfg.Cache.TTLDays < 0 {
		return nil, fmt.Errorf("cache ttl_days must not be negative")
	}

	if cfg.Options.RateLimitDelay <= 0 {
		cfg.Options.RateLimitDelay = 250
	}
	if cfg.Options.MaxAttempts <= 0 {
		cfg.Options.MaxAttempts = 3
	}
	if cfg.Options.InitialBackoffMs <= 0 {
		cfg.Options.InitialBackoffMs = 1000
	}

	return &cfg, nil
}

// loadDotenv populates the environment from ./.env or the user-level
// credential file. Missing files are fine.
func loadDotenv() {
	godotenv.Load()
	if home, err := os.UserHomeDir(); err == nil {
		godotenv.Load(filepath.Join(home, ".config", "luxinema", ".env"))
	}
}

// expandHome expands a leading ~ to the user's home directory.
func expandHome(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
