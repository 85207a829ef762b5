// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpsDeck Contributors

// Package config loads OpsDeck configuration from defaults, an optional
// YAML file, and command-line flags, in that order of precedence.
package config

import (
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config is the root configuration.
type Config struct {
	Auth     AuthConfig     `koanf:"auth"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
}

// AuthConfig tunes the authentication core.
type AuthConfig struct {
	MaxAttempts    int           `koanf:"max_attempts"`
	LockDuration   time.Duration `koanf:"lock_duration"`
	UsernameMinLen int           `koanf:"username_min_len"`
	UsernameMaxLen int           `koanf:"username_max_len"`
	PasswordMinLen int           `koanf:"password_min_len"`
	PasswordMaxLen int           `koanf:"password_max_len"`
}

// DatabaseConfig locates the PostgreSQL database.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// LogConfig tunes logging output.
type LogConfig struct {
	Format string `koanf:"format"`
}

// defaults are the built-in values, overridden by file and flags.
var defaults = map[string]any{
	"auth.max_attempts":     3,
	"auth.lock_duration":    "300s",
	"auth.username_min_len": 4,
	"auth.username_max_len": 20,
	"auth.password_min_len": 6,
	"auth.password_max_len": 50,
	"database.url":          "",
	"log.format":            "json",
}

// Load builds the configuration. path may be empty (no config file); flags
// may be nil (no flag overrides).
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return Config{}, oops.Code("CONFIG_DEFAULTS_FAILED").Wrap(err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.Code("CONFIG_FILE_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() Config {
	cfg, err := Load("", nil)
	if err != nil {
		// Defaults are static; failing to load them is a programming error.
		panic(err)
	}
	return cfg
}

func (c Config) validate() error {
	if c.Auth.MaxAttempts < 1 {
		return oops.Code("CONFIG_INVALID").Errorf("auth.max_attempts must be at least 1")
	}
	if c.Auth.LockDuration <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("auth.lock_duration must be positive")
	}
	if c.Auth.UsernameMinLen < 1 || c.Auth.UsernameMaxLen < c.Auth.UsernameMinLen {
		return oops.Code("CONFIG_INVALID").Errorf("invalid username length bounds")
	}
	if c.Auth.PasswordMinLen < 1 || c.Auth.PasswordMaxLen < c.Auth.PasswordMinLen {
		return oops.Code("CONFIG_INVALID").Errorf("invalid password length bounds")
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return oops.Code("CONFIG_INVALID").
			With("format", c.Log.Format).
			Errorf("log.format must be json or text")
	}
	return nil
}
