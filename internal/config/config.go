// Package config provides configuration management for the pricing CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	perrors "black76/internal/errors"
	"black76/internal/logging"
	"black76/internal/numeric"
	"black76/pkg/black"
)

// Config holds all application configuration.
type Config struct {
	Pricing PricingConfig `mapstructure:"pricing"`
	Logging LoggingConfig `mapstructure:"logging"`
	Store   StoreConfig   `mapstructure:"store"`
}

// PricingConfig holds defaults applied when a command omits an input.
type PricingConfig struct {
	Precision    string  `mapstructure:"precision"`  // float32, float64
	Convention   string  `mapstructure:"convention"` // spot, carry
	DiscountRate float64 `mapstructure:"discount_rate"`
	DividendRate float64 `mapstructure:"dividend_rate"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// StoreConfig holds persistence configuration.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/blackctl"
	}
	return filepath.Join(home, ".config", "blackctl")
}

// Default returns the built-in configuration for configDir.
func Default(configDir string) *Config {
	log := logging.DefaultLogConfig()
	return &Config{
		Pricing: PricingConfig{
			Precision:  "float64",
			Convention: "spot",
		},
		Logging: LoggingConfig{
			Level:      log.Level,
			Console:    log.Console,
			File:       log.File,
			FilePath:   filepath.Join(configDir, "logs", "blackctl.log"),
			MaxSize:    log.MaxSize,
			MaxBackups: log.MaxBackups,
			MaxAge:     log.MaxAge,
		},
		Store: StoreConfig{
			Path: filepath.Join(configDir, "blackctl.db"),
		},
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing
// config.toml is created from the template and the defaults are used.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default(configDir)

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, cfg *Config) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("pricing.precision", cfg.Pricing.Precision)
	v.SetDefault("pricing.convention", cfg.Pricing.Convention)
	v.SetDefault("pricing.discount_rate", cfg.Pricing.DiscountRate)
	v.SetDefault("pricing.dividend_rate", cfg.Pricing.DividendRate)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.console", cfg.Logging.Console)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.file_path", cfg.Logging.FilePath)
	v.SetDefault("logging.max_size", cfg.Logging.MaxSize)
	v.SetDefault("logging.max_backups", cfg.Logging.MaxBackups)
	v.SetDefault("logging.max_age", cfg.Logging.MaxAge)
	v.SetDefault("store.path", cfg.Store.Path)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		if err := createTemplateConfig(configDir, name); err != nil {
			return err
		}
	}

	return v.Unmarshal(cfg)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BLACKCTL_PRECISION"); v != "" {
		cfg.Pricing.Precision = v
	}
	if v := os.Getenv("BLACKCTL_CONVENTION"); v != "" {
		cfg.Pricing.Convention = v
	}
	if v := os.Getenv("BLACKCTL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("BLACKCTL_DB_PATH"); v != "" {
		cfg.Store.Path = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := numeric.ParsePrecision(c.Pricing.Precision); err != nil {
		return fmt.Errorf("%w: pricing.precision: %v", perrors.ErrConfigInvalid, err)
	}
	if _, err := black.ParseConvention(c.Pricing.Convention); err != nil {
		return fmt.Errorf("%w: pricing.convention: %v", perrors.ErrConfigInvalid, err)
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("%w: logging.level %q (must be debug, info, warn or error)", perrors.ErrConfigInvalid, c.Logging.Level)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("%w: store.path must be set", perrors.ErrConfigInvalid)
	}
	return nil
}

// Precision returns the configured default precision.
func (c *Config) Precision() numeric.Precision {
	p, _ := numeric.ParsePrecision(c.Pricing.Precision)
	return p
}

// Convention returns the configured default discounting convention.
func (c *Config) Convention() black.Convention {
	conv, _ := black.ParseConvention(c.Pricing.Convention)
	return conv
}

// LogConfig converts the logging section for the logging package.
func (c *Config) LogConfig() logging.LogConfig {
	return logging.LogConfig{
		Level:      c.Logging.Level,
		Console:    c.Logging.Console,
		File:       c.Logging.File,
		FilePath:   c.Logging.FilePath,
		MaxSize:    c.Logging.MaxSize,
		MaxBackups: c.Logging.MaxBackups,
		MaxAge:     c.Logging.MaxAge,
	}
}
