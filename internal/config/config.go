package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Remote   RemoteConfig   `mapstructure:"remote"`
	Log      LogConfig      `mapstructure:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	UI       UIConfig       `mapstructure:"ui"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// RemoteConfig points at the price endpoint.
type RemoteConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	PricesPath string        `mapstructure:"prices_path"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Latency    time.Duration `mapstructure:"latency"`
	Debug      bool          `mapstructure:"debug"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// MetricsConfig enables the /metrics listener when Addr is set.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Filter string `mapstructure:"filter"`
}

// Load reads configuration from file and env. Env var overrides use prefix JASKWALLET_.
func Load() (Config, error) {
	v := viper.New()

	home := os.Getenv("HOME")
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "jaskwallet", "jaskwallet.db"))
	v.SetDefault("remote.base_url", "https://www.coinhako.com/api/v3/")
	v.SetDefault("remote.prices_path", "price/all_prices_for_mobile")
	v.SetDefault("remote.timeout", "10s")
	v.SetDefault("remote.latency", "2s")
	v.SetDefault("remote.debug", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "jaskwallet", "jaskwallet.log"))
	v.SetDefault("metrics.addr", "")
	v.SetDefault("ui.filter", "ALL")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("JASKWALLET_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "jaskwallet"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("JASKWALLET")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing file is fine, a broken one is not
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the app cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is empty"))
	}
	if c.Remote.BaseURL == "" {
		errs = append(errs, errors.New("remote.base_url is empty"))
	}
	if c.Remote.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("remote.timeout must be positive, got %s", c.Remote.Timeout))
	}
	if c.Remote.Latency < 0 {
		errs = append(errs, fmt.Errorf("remote.latency must not be negative, got %s", c.Remote.Latency))
	}
	return errors.Join(errs...)
}

// Save writes the provided config to disk, creating the config directory if needed.
// This is primarily used by the TUI to persist the selected filter.
func Save(cfg Config) error {
	path := os.Getenv("JASKWALLET_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "jaskwallet", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("remote.base_url", cfg.Remote.BaseURL)
	v.Set("remote.prices_path", cfg.Remote.PricesPath)
	v.Set("remote.timeout", cfg.Remote.Timeout.String())
	v.Set("remote.latency", cfg.Remote.Latency.String())
	v.Set("remote.debug", cfg.Remote.Debug)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.path", cfg.Log.Path)
	v.Set("metrics.addr", cfg.Metrics.Addr)
	v.Set("ui.filter", cfg.UI.Filter)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
