// Package config loads compras settings from the TOML config file and
// COMPRAS_* environment variables, and validates report filters.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/theirongolddev/compras/internal/model"
)

// EnvPrefix prefixes every environment override, e.g. COMPRAS_LOG_LEVEL.
const EnvPrefix = "COMPRAS"

// Config holds all compras configuration.
type Config struct {
	API        APIConfig        `toml:"api" envconfig:"API"`
	Defaults   DefaultsConfig   `toml:"defaults" envconfig:"DEFAULTS"`
	Cache      CacheConfig      `toml:"cache" envconfig:"CACHE"`
	Server     ServerConfig     `toml:"server" envconfig:"SERVER"`
	Appearance AppearanceConfig `toml:"appearance" envconfig:"APPEARANCE"`
	Log        LogConfig        `toml:"log" envconfig:"LOG"`
}

// APIConfig holds settings for the procurement search endpoint.
type APIConfig struct {
	Endpoint    string  `toml:"endpoint,omitempty" envconfig:"ENDPOINT" validate:"omitempty,url"`
	TimeoutSecs int     `toml:"timeout_seconds" envconfig:"TIMEOUT_SECONDS" validate:"gte=0"`
	RatePerSec  float64 `toml:"rate_per_sec" envconfig:"RATE_PER_SEC" validate:"gte=0"`
}

// Timeout returns the request timeout, or zero for the client default.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSecs) * time.Second
}

// DefaultsConfig holds the filter used when no flag overrides it.
type DefaultsConfig struct {
	Year      int    `toml:"year" envconfig:"YEAR"`
	Region    string `toml:"region" envconfig:"REGION"`
	Type      string `toml:"type" envconfig:"TYPE"`
	SinceYear int    `toml:"since_year,omitempty" envconfig:"SINCE_YEAR"`
}

// Filter returns the default filter.
func (d DefaultsConfig) Filter() model.Filter {
	return model.Filter{
		Year:      d.Year,
		Region:    d.Region,
		Type:      d.Type,
		SinceYear: d.SinceYear,
	}
}

// CacheConfig holds persistent fetch cache settings.
type CacheConfig struct {
	Enabled  bool `toml:"enabled" envconfig:"ENABLED"`
	TTLHours int  `toml:"ttl_hours" envconfig:"TTL_HOURS" validate:"gte=0"`
}

// TTL returns the cache entry lifetime. Zero means entries never expire.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// ServerConfig holds settings for `compras serve`.
type ServerConfig struct {
	Addr string `toml:"addr" envconfig:"ADDR" validate:"required,hostname_port"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme" envconfig:"THEME"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			TimeoutSecs: 30,
			RatePerSec:  2,
		},
		Defaults: DefaultsConfig{
			Year:   2024,
			Region: "Azuay",
			Type:   model.TypeGoods,
		},
		Cache: CacheConfig{
			Enabled:  true,
			TTLHours: 24,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8321",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "compras")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "compras")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist, then
// applies environment overrides.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom is Load with an explicit file path.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's config file
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("reading environment: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo is Save with an explicit file path.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // path is the user's config file
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
