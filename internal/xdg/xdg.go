// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

// Package xdg provides XDG Base Directory paths for wingsctl.
package xdg

import (
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

const appName = "wings"

// File names inside the XDG directories.
const (
	ConfigFileName = "config.yaml"
	SessionDBName  = "session.db"
)

// ConfigDir returns the XDG config directory for wings.
// Checks XDG_CONFIG_HOME first, falls back to ~/.config.
func ConfigDir() (string, error) {
	return resolve("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for wings.
// Checks XDG_STATE_HOME first, falls back to ~/.local/state.
func StateDir() (string, error) {
	return resolve("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

// ConfigFile returns the default config file path.
func ConfigFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// SessionDB returns the default persisted session database path.
func SessionDB() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SessionDBName), nil
}

// EnsureDir creates a directory and all parent directories if they don't exist.
// Directories are created with 0700 permissions.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return oops.Code("XDG_MKDIR_FAILED").With("path", path).Wrap(err)
	}
	return nil
}

func resolve(envVar, homeRelative string) (string, error) {
	base := os.Getenv(envVar)
	if base == "" {
		home := os.Getenv("HOME")
		if home == "" {
			return "", oops.Code("XDG_NO_HOME").
				With("env", envVar).
				Errorf("neither %s nor HOME is set", envVar)
		}
		base = filepath.Join(home, homeRelative)
	}
	return filepath.Join(base, appName), nil
}
