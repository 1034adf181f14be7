// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package config

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/sigil-dev/litegraph/internal/store"
	lgerr "github.com/sigil-dev/litegraph/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. LITEGRAPH_STORAGE_PATH.
const EnvPrefix = "LITEGRAPH"

// Config is the top-level litegraph configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// StorageConfig selects the backend and tunes the repository.
type StorageConfig struct {
	Backend                 string `mapstructure:"backend"`
	Path                    string `mapstructure:"path"`
	MaxConcurrentOperations int    `mapstructure:"max_concurrent_operations"`
	PageSize                int    `mapstructure:"page_size"`
	IndexData               bool   `mapstructure:"index_data"`
}

// LoggingConfig controls the slog handler installed by the CLI.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig toggles Prometheus instrumentation.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.path", "litegraph.db")
	v.SetDefault("storage.max_concurrent_operations", 4)
	v.SetDefault("storage.page_size", store.DefaultPageSize)
	v.SetDefault("storage.index_data", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("metrics.enabled", true)
}

// Load reads configuration from the given path (or defaults) with
// environment variable overrides (prefix LITEGRAPH_).
func Load(path string) (*Config, error) {
	return LoadWith(viper.New(), path)
}

// LoadWith is Load on a caller-supplied viper instance, so command-line
// flags bound to v take precedence over file and environment values.
func LoadWith(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, lgerr.Errorf(lgerr.CodeConfigLoadReadFailure, "reading config %s: %w", path, err)
		}
		WarnInsecurePermissions(path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, lgerr.Errorf(lgerr.CodeConfigValidateInvalidValue, "unmarshalling config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, lgerr.Errorf(lgerr.CodeConfigValidateInvalidValue, "validating config: %w", errors.Join(errs...))
	}

	return &cfg, nil
}

// Validate checks the configuration for logical errors.
// It returns a slice of all validation errors found, collecting all issues
// rather than stopping at the first one.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.validateStorage()...)
	errs = append(errs, c.validateLogging()...)

	return errs
}

func (c *Config) validateStorage() []error {
	var errs []error

	validBackends := map[string]bool{"sqlite": true}
	if !validBackends[c.Storage.Backend] {
		errs = append(errs, lgerr.Errorf(lgerr.CodeConfigValidateInvalidValue,
			"config: storage.backend must be one of [sqlite], got %q",
			c.Storage.Backend,
		))
	}

	if strings.TrimSpace(c.Storage.Path) == "" {
		errs = append(errs, lgerr.Errorf(lgerr.CodeConfigValidateInvalidValue, "config: storage.path must not be empty"))
	}

	if c.Storage.MaxConcurrentOperations <= 0 {
		errs = append(errs, lgerr.Errorf(lgerr.CodeConfigValidateInvalidValue,
			"config: storage.max_concurrent_operations must be greater than 0, got %d",
			c.Storage.MaxConcurrentOperations,
		))
	}

	if c.Storage.PageSize <= 0 {
		errs = append(errs, lgerr.Errorf(lgerr.CodeConfigValidateInvalidValue,
			"config: storage.page_size must be greater than 0, got %d",
			c.Storage.PageSize,
		))
	}

	return errs
}

func (c *Config) validateLogging() []error {
	var errs []error

	if _, err := ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Logging.Format] {
		errs = append(errs, lgerr.Errorf(lgerr.CodeConfigValidateInvalidValue,
			"config: logging.format must be one of [text, json], got %q",
			c.Logging.Format,
		))
	}

	return errs
}

// ParseLevel maps a logging.level value to its slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, lgerr.Errorf(lgerr.CodeConfigValidateInvalidValue,
			"config: logging.level must be one of [debug, info, warn, error], got %q", level)
	}
}

// StorageConfig converts the storage and metrics sections into the store factory input.
func (c *Config) StorageConfig() store.StorageConfig {
	return store.StorageConfig{
		Backend:                 c.Storage.Backend,
		Path:                    c.Storage.Path,
		MaxConcurrentOperations: c.Storage.MaxConcurrentOperations,
		PageSize:                c.Storage.PageSize,
		IndexData:               c.Storage.IndexData,
		Metrics:                 c.Metrics.Enabled,
	}
}
