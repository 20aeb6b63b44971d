package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	UI      UIConfig      `mapstructure:"ui"`
}

// ServerConfig holds connection settings for the MediMind backend
type ServerConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	LogFile  string `mapstructure:"log_file"`
	Preserve bool   `mapstructure:"preserve"`
	Level    string `mapstructure:"level"`
}

// UIConfig holds terminal UI configuration
type UIConfig struct {
	ShowBanners bool `mapstructure:"show_banners"`
	Width       int  `mapstructure:"width"`
}

var global *Config

// Load reads the configuration from viper into the global Config.
// Viper must already have its config file and defaults registered.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	global = cfg
	return cfg, nil
}

// Get returns the global configuration, loading it on first use
func Get() *Config {
	if global == nil {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
		}
		global = cfg
	}
	return global
}

// Set replaces the global configuration (useful for tests)
func Set(cfg *Config) {
	global = cfg
}

// Default returns the built-in configuration used when no file or
// environment overrides are present
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:     "http://localhost:8000",
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			LogFile:  "./.mindline/system.log",
			Preserve: true,
			Level:    "info",
		},
		UI: UIConfig{
			ShowBanners: true,
			Width:       80,
		},
	}
}
