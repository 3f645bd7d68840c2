// Package config loads and saves the foogie TOML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Defaults.
const (
	DefaultBaseURL         = "http://127.0.0.1:5000"
	DefaultTheme           = "flexoki-dark"
	DefaultDaemonAddr      = "127.0.0.1:8788"
	DefaultRequestTimeout  = 60
	DefaultPollIntervalSec = 15
	DefaultRecipeCount     = 3
	// DefaultMealTarget is the per-meal calorie target sent with recipe
	// requests when the day's budget is already used up.
	DefaultMealTarget = 500
)

// Environment overrides.
const (
	EnvBaseURL = "FOOGIE_BASE_URL"
	EnvBinID   = "FOOGIE_BIN_ID"
	EnvSyncURL = "FOOGIE_SYNC_URL"
)

// Config holds all foogie configuration.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Recipes    RecipesConfig    `toml:"recipes"`
	Appearance AppearanceConfig `toml:"appearance"`
	Daemon     DaemonConfig     `toml:"daemon"`
}

// ServerConfig locates the recipe/inventory service.
type ServerConfig struct {
	BaseURL           string `toml:"base_url"`
	BinID             string `toml:"bin_id,omitempty"`
	SyncURL           string `toml:"sync_url,omitempty"`
	RequestTimeoutSec int    `toml:"request_timeout_sec"`
}

// RecipesConfig holds recipe request preferences.
type RecipesConfig struct {
	DefaultCount        int    `toml:"default_count"`
	DietaryRestrictions string `toml:"dietary_restrictions,omitempty"`
	Cuisine             string `toml:"cuisine,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DaemonConfig holds local daemon settings.
type DaemonConfig struct {
	Addr            string `toml:"addr"`
	PollIntervalSec int    `toml:"poll_interval_sec"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			BaseURL:           DefaultBaseURL,
			RequestTimeoutSec: DefaultRequestTimeout,
		},
		Recipes: RecipesConfig{
			DefaultCount: DefaultRecipeCount,
		},
		Appearance: AppearanceConfig{
			Theme: DefaultTheme,
		},
		Daemon: DaemonConfig{
			Addr:            DefaultDaemonAddr,
			PollIntervalSec: DefaultPollIntervalSec,
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "foogie")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "foogie")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// LoadEnv loads a .env file from the working directory into the process
// environment. A missing file is not an error.
func LoadEnv() {
	_ = godotenv.Load()
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied last.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.fillDefaults()
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// RequestTimeout is the per-request deadline for the remote service.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSec) * time.Second
}

// PollInterval is the daemon's ledger poll interval.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.Daemon.PollIntervalSec) * time.Second
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		c.Server.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBinID)); v != "" {
		c.Server.BinID = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSyncURL)); v != "" {
		c.Server.SyncURL = v
	}
}

// fillDefaults replaces zero or invalid values left by a partial file.
func (c *Config) fillDefaults() {
	d := DefaultConfig()
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = d.Server.BaseURL
	}
	c.Server.BaseURL = strings.TrimRight(c.Server.BaseURL, "/")
	if c.Server.RequestTimeoutSec <= 0 {
		c.Server.RequestTimeoutSec = d.Server.RequestTimeoutSec
	}
	if c.Recipes.DefaultCount <= 0 {
		c.Recipes.DefaultCount = d.Recipes.DefaultCount
	}
	if c.Appearance.Theme == "" {
		c.Appearance.Theme = d.Appearance.Theme
	}
	if c.Daemon.Addr == "" {
		c.Daemon.Addr = d.Daemon.Addr
	}
	if c.Daemon.PollIntervalSec <= 0 {
		c.Daemon.PollIntervalSec = d.Daemon.PollIntervalSec
	}
}
