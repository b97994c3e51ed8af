// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

// Package config loads wingsctl settings. Sources are layered, each
// overriding the one before: flag defaults, the YAML config file, WINGS_*
// environment variables, then flags set on the command line.
package config

import (
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/personalwings/wings-admin/internal/xdg"
)

// EnvPrefix prefixes every environment override, e.g. WINGS_API_URL.
const EnvPrefix = "WINGS_"

// Defaults.
const (
	DefaultAPIURL    = "http://localhost:5000/api"
	DefaultTimeout   = 30 * time.Second
	DefaultLogFormat = "text"
	DefaultLogLevel  = "info"
)

// Config is the resolved wingsctl configuration.
type Config struct {
	API     APIConfig     `koanf:"api"`
	Log     LogConfig     `koanf:"log"`
	Session SessionConfig `koanf:"session"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// APIConfig locates the admin API.
type APIConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// SessionConfig locates the cookie database.
type SessionConfig struct {
	// DB is the SQLite cookie jar path. Empty means XDG_STATE_HOME/wings/session.db.
	DB string `koanf:"db"`
}

// MetricsConfig controls the request metrics export.
type MetricsConfig struct {
	// File receives a Prometheus textfile on exit. Empty disables export.
	File string `koanf:"file"`
}

// flagKeys maps command-line flags to config keys. Flags not listed here
// are not configuration.
var flagKeys = map[string]string{
	"api-url":      "api.url",
	"timeout":      "api.timeout",
	"log-format":   "log.format",
	"log-level":    "log.level",
	"session-db":   "session.db",
	"metrics-file": "metrics.file",
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("api-url", DefaultAPIURL, "admin API base URL")
	fs.Duration("timeout", DefaultTimeout, "per-request timeout")
	fs.String("log-format", DefaultLogFormat, "log format (json or text)")
	fs.String("log-level", DefaultLogLevel, "log level (debug, info, warn, error)")
	fs.String("session-db", "", "session cookie database (default: XDG_STATE_HOME/wings/session.db)")
	fs.String("metrics-file", "", "write request metrics to this Prometheus textfile on exit")
}

// Load resolves the configuration. path names the YAML file; when empty the
// default XDG config file is read if it exists. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = defaultConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrapf(err, "read config file")
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").Wrapf(err, "read environment")
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, flagValue(flags)), nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").Wrapf(err, "read flags")
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").Wrapf(err, "decode config")
	}
	if cfg.Session.DB == "" {
		db, err := xdg.SessionDB()
		if err != nil {
			return nil, err
		}
		cfg.Session.DB = db
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		API: APIConfig{URL: DefaultAPIURL, Timeout: DefaultTimeout},
		Log: LogConfig{Format: DefaultLogFormat, Level: DefaultLogLevel},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return oops.Code("CONFIG_INVALID").With("api.url", c.API.URL).Errorf("api.url must be an absolute URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return oops.Code("CONFIG_INVALID").With("api.url", c.API.URL).Errorf("api.url scheme must be http or https, got %q", u.Scheme)
	}
	if c.API.Timeout <= 0 {
		return oops.Code("CONFIG_INVALID").With("api.timeout", c.API.Timeout).Errorf("api.timeout must be positive")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").With("log.format", c.Log.Format).Errorf("log.format must be 'json' or 'text', got %q", c.Log.Format)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return oops.Code("CONFIG_INVALID").With("log.level", c.Log.Level).Errorf("unknown log.level %q", c.Log.Level)
	}
	return nil
}

// envKey turns WINGS_API_URL into api.url.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(s, "_", ".", 1)
}

func flagValue(fs *pflag.FlagSet) func(*pflag.Flag) (string, any) {
	return func(f *pflag.Flag) (string, any) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return "", nil
		}
		return key, posflag.FlagVal(fs, f)
	}
}

// defaultConfigFile returns the XDG config file if it exists.
func defaultConfigFile() string {
	path, err := xdg.ConfigFile()
	if err != nil {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
