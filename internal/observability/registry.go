// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

// Package observability collects wingsctl metrics and exports them as a
// Prometheus textfile for node_exporter's textfile collector.
package observability

import (
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/samber/oops"

	"github.com/personalwings/wings-admin/internal/apiclient"
	"github.com/personalwings/wings-admin/internal/xdg"
)

// Command outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Registry owns a private Prometheus registry with the API client and
// command collectors registered on it.
type Registry struct {
	registry        *prometheus.Registry
	api             *apiclient.Metrics
	commandsTotal   *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
}

// NewRegistry creates a Registry. It does not touch the global registry.
func NewRegistry() *Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewBuildInfoCollector())

	r := &Registry{
		registry: registry,
		api:      apiclient.NewMetrics(registry),
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wings_cli_commands_total",
				Help: "Total number of wingsctl commands by command and outcome",
			},
			[]string{"command", "outcome"},
		),
		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wings_cli_command_duration_seconds",
				Help:    "wingsctl command duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"command"},
		),
	}
	registry.MustRegister(r.commandsTotal, r.commandDuration)
	return r
}

// API returns the collectors to hand to apiclient.WithMetrics.
func (r *Registry) API() *apiclient.Metrics {
	return r.api
}

// Gatherer exposes the registry for tests and exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// RecordCommand counts one finished command.
func (r *Registry) RecordCommand(command string, err error, d time.Duration) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	r.commandsTotal.WithLabelValues(command, outcome).Inc()
	r.commandDuration.WithLabelValues(command).Observe(d.Seconds())
}

// WriteTextfile writes every collected metric to path in the text
// exposition format. The file is replaced atomically.
func (r *Registry) WriteTextfile(path string) error {
	if err := xdg.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return oops.Code("METRICS_EXPORT_FAILED").With("path", path).Wrap(err)
	}
	return nil
}
