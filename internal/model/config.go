package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	defaultBaseURL      = "https://api.openai.com/v1"
	defaultTimeoutSec   = 10
	defaultCacheTTLSec  = 3600
	defaultSessionModel = "o4-mini"
	defaultWidth        = 80
)

// defaultRecommended is the fixed recommendation order shown first in the
// model list.
var defaultRecommended = []string{"o4-mini", "o3"}

// CatalogConfig controls where the list of available models comes from.
type CatalogConfig struct {
	// BaseURL is the root of an OpenAI-compatible API exposing GET /models.
	// An empty value disables the remote catalog.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// Recommended is the ordered list of models to pin at the top.
	Recommended []string `mapstructure:"recommended" yaml:"recommended"`

	// Models is a static list used when no remote catalog is configured.
	Models []string `mapstructure:"models" yaml:"models"`

	// TimeoutSec bounds a single catalog fetch.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// CacheTTLSec is how long a cached catalog is served without refetching.
	CacheTTLSec int `mapstructure:"cache_ttl_sec" yaml:"cache_ttl_sec"`
}

// SessionConfig holds defaults for newly created sessions.
type SessionConfig struct {
	DefaultModel string `mapstructure:"default_model" yaml:"default_model"`
	DBPath       string `mapstructure:"db_path" yaml:"db_path"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Width int `mapstructure:"width" yaml:"width"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog"`
	Session SessionConfig `mapstructure:"session" yaml:"session"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// ConfigDir returns ~/.config/modelswitch, falling back to the working
// directory when the home directory is unknown.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "modelswitch")
}

// DefaultConfigPath returns the default path for the configuration file.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultDBPath returns the default location of the session database.
func DefaultDBPath() string {
	return filepath.Join(ConfigDir(), "sessions.db")
}

// DefaultLogPath returns the default location of the log file.
func DefaultLogPath() string {
	return filepath.Join(ConfigDir(), "modelswitch.log")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Catalog: CatalogConfig{
			BaseURL:     defaultBaseURL,
			Recommended: append([]string(nil), defaultRecommended...),
			TimeoutSec:  defaultTimeoutSec,
			CacheTTLSec: defaultCacheTTLSec,
		},
		Session: SessionConfig{
			DefaultModel: defaultSessionModel,
			DBPath:       DefaultDBPath(),
		},
		Display: DisplayConfig{
			Width: defaultWidth,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("catalog.base_url", defaultBaseURL)
	v.SetDefault("catalog.recommended", defaultRecommended)
	v.SetDefault("catalog.timeout_sec", defaultTimeoutSec)
	v.SetDefault("catalog.cache_ttl_sec", defaultCacheTTLSec)
	v.SetDefault("session.default_model", defaultSessionModel)
	v.SetDefault("session.db_path", DefaultDBPath())
	v.SetDefault("display.width", defaultWidth)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return DefaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Catalog.TimeoutSec <= 0 {
		cfg.Catalog.TimeoutSec = defaultTimeoutSec
	}
	if cfg.Session.DefaultModel == "" {
		cfg.Session.DefaultModel = defaultSessionModel
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("catalog", cfg.Catalog)
	v.Set("session", cfg.Session)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
