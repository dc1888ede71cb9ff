package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"MarketArchiver/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Gateway struct {
		BaseURL               string `yaml:"base_url"`
		APIKey                string `yaml:"api_key"`
		RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
	} `yaml:"gateway"`
	Fetch struct {
		BarSize               string `yaml:"bar_size"`
		MaxWindowDays         int    `yaml:"max_window_days"`
		RequestSpacingSeconds int    `yaml:"request_spacing_seconds"`
		MaxRetries            int    `yaml:"max_retries"`
		RetryBackoffSeconds   int    `yaml:"retry_backoff_seconds"`
	} `yaml:"fetch"`
	Batch struct {
		Symbols   []string `yaml:"symbols"`
		StartDate string   `yaml:"start_date"`
		OutputDir string   `yaml:"output_dir"`
		Persist   *bool    `yaml:"persist"`
	} `yaml:"batch"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("GATEWAY_BASE_URL"); v != "" {
		cfg.Gateway.BaseURL = v
	}
	if v := os.Getenv("GATEWAY_API_KEY"); v != "" {
		cfg.Gateway.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Batch.OutputDir = v
	}
	if v := os.Getenv("START_DATE"); v != "" {
		cfg.Batch.StartDate = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("MAX_WINDOW_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Fetch.MaxWindowDays = n
		}
	}

	// Defaults
	if cfg.Fetch.BarSize == "" {
		cfg.Fetch.BarSize = model.DefaultBarSize
	}
	if cfg.Fetch.MaxWindowDays == 0 {
		cfg.Fetch.MaxWindowDays = 365
	}
	if cfg.Fetch.RequestSpacingSeconds == 0 {
		cfg.Fetch.RequestSpacingSeconds = 3
	}
	if cfg.Fetch.MaxRetries == 0 {
		cfg.Fetch.MaxRetries = 2
	}
	if cfg.Fetch.RetryBackoffSeconds == 0 {
		cfg.Fetch.RetryBackoffSeconds = 3
	}
	if cfg.Batch.OutputDir == "" {
		cfg.Batch.OutputDir = "data/bars"
	}
	if cfg.Batch.Persist == nil {
		t := true
		cfg.Batch.Persist = &t
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/market_archiver.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and well formed.
func (c *Config) Validate() error {
	if c.Gateway.BaseURL == "" {
		return fmt.Errorf("gateway.base_url is required")
	}
	if len(c.Batch.Symbols) == 0 {
		return fmt.Errorf("batch.symbols must list at least one symbol")
	}
	if c.Batch.StartDate == "" {
		return fmt.Errorf("batch.start_date is required")
	}
	if _, err := c.ParsedStartDate(); err != nil {
		return err
	}
	if _, err := model.NormalizeBarSize(c.Fetch.BarSize); err != nil {
		return fmt.Errorf("fetch.bar_size: %w", err)
	}
	if c.Fetch.MaxWindowDays < 1 {
		return fmt.Errorf("fetch.max_window_days must be positive")
	}
	if c.Fetch.MaxRetries < 0 {
		return fmt.Errorf("fetch.max_retries must not be negative")
	}
	return nil
}

// RequestTimeout converts gateway.request_timeout_seconds to a duration.
// Zero keeps the session's bar-size-based timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Gateway.RequestTimeoutSeconds) * time.Second
}

// RequestSpacing converts fetch.request_spacing_seconds to a duration.
func (c *Config) RequestSpacing() time.Duration {
	return time.Duration(c.Fetch.RequestSpacingSeconds) * time.Second
}

// RetryBackoff converts fetch.retry_backoff_seconds to a duration.
func (c *Config) RetryBackoff() time.Duration {
	return time.Duration(c.Fetch.RetryBackoffSeconds) * time.Second
}

// ParsedStartDate parses batch.start_date as a calendar date.
func (c *Config) ParsedStartDate() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.Batch.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("batch.start_date must be YYYY-MM-DD: %w", err)
	}
	return t, nil
}

// PersistEnabled reports whether series should be written to disk.
func (c *Config) PersistEnabled() bool {
	return c.Batch.Persist == nil || *c.Batch.Persist
}
