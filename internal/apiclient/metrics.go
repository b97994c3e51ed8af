// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package apiclient

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StatusNetworkError labels requests that never produced an HTTP status.
const StatusNetworkError = "network_error"

// Metrics holds the client's Prometheus collectors.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates the client collectors and registers them with reg.
// Panics if registration fails (following prometheus convention).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wings_api_requests_total",
				Help: "Total number of API requests by method and status",
			},
			[]string{"method", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wings_api_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}

	reg.MustRegister(m.RequestsTotal)
	reg.MustRegister(m.RequestDuration)

	return m
}

func (m *Metrics) observe(method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	label := StatusNetworkError
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.RequestsTotal.WithLabelValues(method, label).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(d.Seconds())
}
