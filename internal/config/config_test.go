// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/personalwings/wings-admin/pkg/errutil"
)

// isolate points the XDG directories at a temp dir so no real config leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	for _, key := range []string{"WINGS_API_URL", "WINGS_API_TIMEOUT", "WINGS_LOG_FORMAT", "WINGS_LOG_LEVEL", "WINGS_SESSION_DB", "WINGS_METRICS_FILE"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return dir
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	fs.Bool("verbose", false, "not configuration")
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("", newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.API.URL)
	assert.Equal(t, DefaultTimeout, cfg.API.Timeout)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, filepath.Join(dir, "state", "wings", "session.db"), cfg.Session.DB)
	assert.Empty(t, cfg.Metrics.File)
}

func TestLoad_NilFlags(t *testing.T) {
	isolate(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, cfg.API.URL)
}

func TestLoad_Precedence(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "wings.yaml")
	writeFile(t, path, `
api:
  url: https://file.example.com/api
  timeout: 10s
log:
  format: json
  level: debug
metrics:
  file: /tmp/file.prom
`)

	t.Run("file over defaults", func(t *testing.T) {
		cfg, err := Load(path, newFlags(t))
		require.NoError(t, err)
		assert.Equal(t, "https://file.example.com/api", cfg.API.URL)
		assert.Equal(t, 10*time.Second, cfg.API.Timeout)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "/tmp/file.prom", cfg.Metrics.File)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv("WINGS_API_URL", "https://env.example.com/api")
		t.Setenv("WINGS_API_TIMEOUT", "5s")
		cfg, err := Load(path, newFlags(t))
		require.NoError(t, err)
		assert.Equal(t, "https://env.example.com/api", cfg.API.URL)
		assert.Equal(t, 5*time.Second, cfg.API.Timeout)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("flags over env", func(t *testing.T) {
		t.Setenv("WINGS_API_URL", "https://env.example.com/api")
		cfg, err := Load(path, newFlags(t, "--api-url", "https://flag.example.com/api", "--timeout", "1m", "--verbose"))
		require.NoError(t, err)
		assert.Equal(t, "https://flag.example.com/api", cfg.API.URL)
		assert.Equal(t, time.Minute, cfg.API.Timeout)
	})
}

func TestLoad_DefaultConfigFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "config", "wings", "config.yaml"), "session:\n  db: /var/tmp/wings.db\n")

	cfg, err := Load("", newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "/var/tmp/wings.db", cfg.Session.DB)
}

func TestLoad_Errors(t *testing.T) {
	dir := isolate(t)

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.yaml"), nil)
		errutil.AssertErrorCode(t, err, "CONFIG_LOAD_FAILED")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		writeFile(t, path, "api: [unclosed")
		_, err := Load(path, nil)
		errutil.AssertErrorCode(t, err, "CONFIG_LOAD_FAILED")
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("WINGS_LOG_FORMAT", "xml")
		_, err := Load("", nil)
		errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errKey string
	}{
		{"defaults", func(*Config) {}, ""},
		{"https url", func(c *Config) { c.API.URL = "https://api.example.com" }, ""},
		{"relative url", func(c *Config) { c.API.URL = "/api" }, "api.url"},
		{"ftp url", func(c *Config) { c.API.URL = "ftp://example.com" }, "api.url"},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }, "api.timeout"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"warning level", func(c *Config) { c.Log.Level = "WARNING" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.errKey == "" {
				assert.NoError(t, err)
				return
			}
			errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
			errutil.AssertErrorContext(t, err, tt.errKey, contextValue(cfg, tt.errKey))
		})
	}
}

func contextValue(cfg Config, key string) any {
	switch key {
	case "api.url":
		return cfg.API.URL
	case "api.timeout":
		return cfg.API.Timeout
	case "log.format":
		return cfg.Log.Format
	default:
		return cfg.Log.Level
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "api.url", envKey("WINGS_API_URL"))
	assert.Equal(t, "session.db", envKey("WINGS_SESSION_DB"))
	assert.Equal(t, "metrics.file", envKey("WINGS_METRICS_FILE"))
}
