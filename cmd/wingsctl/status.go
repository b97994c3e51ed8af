// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
	"github.com/spf13/cobra"

	"github.com/personalwings/wings-admin/internal/services"
)

// Backoff base for status --wait.
const statusRetryBase = 250 * time.Millisecond

// APIStatus is what the status command reports.
type APIStatus struct {
	URL        string `json:"url"`
	Reachable  bool   `json:"reachable"`
	Status     string `json:"status,omitempty"`
	Version    string `json:"version,omitempty"`
	Constraint string `json:"constraint"`
	Compatible bool   `json:"compatible"`
	Error      string `json:"error,omitempty"`
}

// statusConfig holds configuration for the status command.
type statusConfig struct {
	jsonOutput bool
	wait       time.Duration
	minVersion string
}

func newStatusCmd() *cobra.Command {
	cfg := &statusConfig{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether the admin API is reachable and compatible",
		Long: `Query the API health endpoint and check the reported version against the
minimum this client supports. With --wait, keep retrying with exponential
backoff until the API is healthy or the wait runs out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				return runStatus(ctx, cmd, a, cfg)
			})
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output status as JSON")
	cmd.Flags().DurationVar(&cfg.wait, "wait", 0, "keep retrying for up to this long")
	cmd.Flags().StringVar(&cfg.minVersion, "min-version", services.MinimumAPIVersion, "semver constraint the API version must satisfy")
	return cmd
}

func runStatus(ctx context.Context, cmd *cobra.Command, a *app, cfg *statusConfig) error {
	status := checkStatus(ctx, a.health, cfg.wait)
	status.URL = a.client.BaseURL()
	status.Constraint = cfg.minVersion

	if status.Reachable && status.Version != "" {
		ok, err := services.Compatible(status.Version, cfg.minVersion)
		if err != nil {
			status.Error = err.Error()
		}
		status.Compatible = ok
	}

	if cfg.jsonOutput {
		data, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return oops.Code("CLI_OUTPUT_FAILED").Wrap(err)
		}
		cmd.Println(string(data))
	} else {
		cmd.Print(formatStatusTable(status))
	}

	if !status.Reachable {
		return oops.Code("CLI_API_UNREACHABLE").With("url", status.URL).Errorf("%s", status.Error)
	}
	return nil
}

// checkStatus probes the health endpoint once, or with backoff while wait
// has not elapsed.
func checkStatus(ctx context.Context, health *services.HealthService, wait time.Duration) APIStatus {
	var status APIStatus
	probe := func(ctx context.Context) error {
		res := health.Check(ctx)
		if !res.Success {
			status.Error = res.Error
			return retry.RetryableError(errors.New(res.Error))
		}
		status = APIStatus{Reachable: true, Status: res.Data.Status, Version: res.Data.Version}
		return nil
	}

	if wait <= 0 {
		_ = probe(ctx)
		return status
	}
	backoff := retry.WithMaxDuration(wait, retry.NewExponential(statusRetryBase))
	_ = retry.Do(ctx, backoff, probe)
	return status
}

// formatStatusTable formats the status as a human-readable table.
func formatStatusTable(s APIStatus) string {
	var buf []byte
	w := tabwriter.NewWriter((*byteWriter)(&buf), 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "API\tSTATUS\tVERSION\tCOMPATIBLE")
	_, _ = fmt.Fprintln(w, "---\t------\t-------\t----------")
	if s.Reachable {
		version := s.Version
		if version == "" {
			version = "-"
		}
		compat := "no"
		if s.Compatible {
			compat = "yes"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s (%s)\n", s.URL, s.Status, version, compat, s.Constraint)
	} else {
		_, _ = fmt.Fprintf(w, "%s\tunreachable\t-\t%s\n", s.URL, s.Error)
	}

	_ = w.Flush()
	return string(buf)
}

// byteWriter adapts a byte slice to io.Writer for tabwriter.
type byteWriter []byte

func (b *byteWriter) Write(p []byte) (int, error) {
	*b = append(*b, p...)
	return len(p), nil
}
