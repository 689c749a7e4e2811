// Package config loads server settings from an optional YAML file, with
// TBINFO_* environment variables overriding file values.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the service.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr"`

	// BackendURL is the base URL of the lila-tablebase backend. Empty
	// disables probing; positions then resolve from local rules alone.
	BackendURL string `yaml:"backend_url"`

	// RedisURL enables the probe cache when set, e.g.
	// redis://localhost:6379/0.
	RedisURL string `yaml:"redis_url"`

	// StatsPath points at the stats.json file, optionally
	// zstd-compressed. Empty disables the statistics endpoints.
	StatsPath string `yaml:"stats_path"`

	LogLevel string `yaml:"log_level"`

	// Rounding marks one extra histogram ply for backends serving
	// DTZ-rounded tables.
	Rounding bool `yaml:"rounding"`

	EmptyRunThreshold int     `yaml:"empty_run_threshold"`
	MinBarWidth       float64 `yaml:"min_bar_width"`

	ProbeTimeout time.Duration `yaml:"probe_timeout"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:              ":8080",
		BackendURL:        "https://tablebase.lichess.ovh",
		LogLevel:          "info",
		EmptyRunThreshold: 5,
		MinBarWidth:       0.5,
		ProbeTimeout:      10 * time.Second,
		CacheTTL:          time.Hour,
	}
}

// Load builds the configuration: defaults, then the YAML file when path
// is non-empty, then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv("TBINFO_ADDR")); v != "" {
		c.Addr = v
	}
	if v, ok := os.LookupEnv("TBINFO_BACKEND_URL"); ok {
		c.BackendURL = strings.TrimSpace(v)
	}
	if v := strings.TrimSpace(os.Getenv("TBINFO_REDIS_URL")); v != "" {
		c.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv("TBINFO_STATS_PATH")); v != "" {
		c.StatsPath = v
	}
	if v := strings.TrimSpace(os.Getenv("TBINFO_LOG_LEVEL")); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("TBINFO_ROUNDING")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: TBINFO_ROUNDING: %w", err)
		}
		c.Rounding = b
	}
	if v := strings.TrimSpace(os.Getenv("TBINFO_EMPTY_RUN_THRESHOLD")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: TBINFO_EMPTY_RUN_THRESHOLD: %w", err)
		}
		c.EmptyRunThreshold = n
	}
	if v := strings.TrimSpace(os.Getenv("TBINFO_MIN_BAR_WIDTH")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: TBINFO_MIN_BAR_WIDTH: %w", err)
		}
		c.MinBarWidth = f
	}
	if v := strings.TrimSpace(os.Getenv("TBINFO_PROBE_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: TBINFO_PROBE_TIMEOUT: %w", err)
		}
		c.ProbeTimeout = d
	}
	if v := strings.TrimSpace(os.Getenv("TBINFO_CACHE_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: TBINFO_CACHE_TTL: %w", err)
		}
		c.CacheTTL = d
	}
	return nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("config: addr must not be empty")
	}
	if c.EmptyRunThreshold < 0 {
		return fmt.Errorf("config: empty_run_threshold must not be negative")
	}
	if c.MinBarWidth < 0 {
		return fmt.Errorf("config: min_bar_width must not be negative")
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("config: probe_timeout must be positive")
	}
	return nil
}
