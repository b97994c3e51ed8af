// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

// Package main is the entry point for wingsctl, the Personal Wings admin CLI.
package main

import (
	"fmt"
	"os"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

// run executes the root command and returns the process exit code.
func run() int {
	cmd := NewRootCmd()
	cmd.Version = formatVersion(version, commit, date)

	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func formatVersion(version, commit, date string) string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
}
