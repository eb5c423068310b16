// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/slotwise/internal/search"
	"github.com/javiermolinar/slotwise/internal/ui/theme"
)

// Config holds the application configuration.
type Config struct {
	Search       SearchConfig      `toml:"search"`
	Combinations CombinationConfig `toml:"combinations"`
	Storage      StorageConfig     `toml:"storage"`
	Log          LogConfig         `toml:"log"`
	UI           UIConfig          `toml:"ui"`
}

// SearchConfig holds alternative-time search settings.
type SearchConfig struct {
	Offsets      []int  `toml:"offsets"`       // probe offsets in minutes
	MinHour      int    `toml:"min_hour"`      // e.g., 9
	MaxHour      int    `toml:"max_hour"`      // e.g., 22
	MaxResults   int    `toml:"max_results"`   // recommendations per search
	FallbackDays int    `toml:"fallback_days"` // days scanned ahead when same-day search is empty
	Timezone     string `toml:"timezone"`      // e.g., "Asia/Seoul"; empty means local
}

// CombinationConfig holds combination generator settings.
type CombinationConfig struct {
	Target   int    `toml:"target"`   // combinations to produce
	Attempts int    `toml:"attempts"` // shuffles to try
	Seed     uint64 `toml:"seed"`     // 0 means time based
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath  string `toml:"db_path"`
	Profile string `toml:"profile"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Env   string `toml:"env"`   // "development" or "production"
	Level string `toml:"level"` // "debug", "info", "warn", "error"
}

// UIConfig holds display settings.
type UIConfig struct {
	Theme string `toml:"theme"` // built-in name or path to a .toml theme
}

// Default returns the default configuration.
func Default() *Config {
	opts := search.DefaultOptions()
	return &Config{
		Search: SearchConfig{
			Offsets:      opts.Offsets,
			MinHour:      opts.MinHour,
			MaxHour:      opts.MaxHour,
			MaxResults:   opts.MaxResults,
			FallbackDays: 7,
		},
		Combinations: CombinationConfig{
			Target:   3,
			Attempts: 50,
		},
		Storage: StorageConfig{
			DBPath:  defaultDBPath(),
			Profile: "default",
		},
		Log: LogConfig{
			Env:   "development",
			Level: "info",
		},
		UI: UIConfig{
			Theme: theme.DefaultName,
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "slotwise.db"
	}
	return filepath.Join(home, ".local", "share", "slotwise", "slotwise.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "slotwise", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, loads a
// .env file from the working directory if present, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	// A missing .env is fine; real environment variables still win.
	_ = godotenv.Load()

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.UI.Theme = expandPath(cfg.UI.Theme)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("SLOTWISE_OFFSETS"); v != "" {
		offsets, err := parseInts(v)
		if err != nil {
			return fmt.Errorf("SLOTWISE_OFFSETS: %w", err)
		}
		cfg.Search.Offsets = offsets
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"SLOTWISE_MIN_HOUR", &cfg.Search.MinHour},
		{"SLOTWISE_MAX_HOUR", &cfg.Search.MaxHour},
		{"SLOTWISE_MAX_RESULTS", &cfg.Search.MaxResults},
		{"SLOTWISE_FALLBACK_DAYS", &cfg.Search.FallbackDays},
		{"SLOTWISE_COMBINATION_TARGET", &cfg.Combinations.Target},
		{"SLOTWISE_COMBINATION_ATTEMPTS", &cfg.Combinations.Attempts},
	}
	for _, o := range ints {
		if v := os.Getenv(o.key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", o.key, err)
			}
			*o.dst = n
		}
	}

	if v := os.Getenv("SLOTWISE_COMBINATION_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("SLOTWISE_COMBINATION_SEED: %w", err)
		}
		cfg.Combinations.Seed = n
	}
	if v := os.Getenv("SLOTWISE_TIMEZONE"); v != "" {
		cfg.Search.Timezone = v
	}
	if v := os.Getenv("SLOTWISE_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("SLOTWISE_PROFILE"); v != "" {
		cfg.Storage.Profile = v
	}
	if v := os.Getenv("SLOTWISE_LOG_ENV"); v != "" {
		cfg.Log.Env = v
	}
	if v := os.Getenv("SLOTWISE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SLOTWISE_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	return nil
}

func parseInts(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// SearchOptions converts the search section for the search package.
func (c *Config) SearchOptions() search.Options {
	return search.Options{
		Offsets:    c.Search.Offsets,
		MinHour:    c.Search.MinHour,
		MaxHour:    c.Search.MaxHour,
		MaxResults: c.Search.MaxResults,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.SearchOptions().Validate(); err != nil {
		return err
	}
	if c.Search.FallbackDays < 0 || c.Search.FallbackDays > 31 {
		return fmt.Errorf("fallback_days must be between 0 and 31, got %d", c.Search.FallbackDays)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Combinations.Target < 1 {
		return errors.New("combinations.target must be at least 1")
	}
	if c.Combinations.Attempts < c.Combinations.Target {
		return errors.New("combinations.attempts must be at least combinations.target")
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	if strings.TrimSpace(c.Storage.Profile) == "" {
		return errors.New("profile must be set")
	}
	switch c.Log.Env {
	case "development", "production":
	default:
		return fmt.Errorf("log.env must be development or production, got %q", c.Log.Env)
	}
	if c.UI.Theme != "" && !strings.HasSuffix(c.UI.Theme, ".toml") && !theme.IsAvailable(c.UI.Theme) {
		return fmt.Errorf("ui.theme %q is not one of %s", c.UI.Theme, strings.Join(theme.Available(), ", "))
	}
	return nil
}

// Location returns the configured timezone, or time.Local when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Search.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Search.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Search.Timezone, err)
	}
	return loc, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
