// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package services

import (
	"context"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/oops"

	"github.com/personalwings/wings-admin/internal/apiclient"
)

// PathHealth is the backend liveness endpoint.
const PathHealth = "/health"

// MinimumAPIVersion is the backend version range this client speaks.
const MinimumAPIVersion = ">= 1.0.0-0"

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Uptime  any    `json:"uptime,omitempty"`
}

// HealthService probes the backend.
type HealthService struct {
	api API
}

// NewHealthService creates a HealthService.
func NewHealthService(api API) (*HealthService, error) {
	if api == nil {
		return nil, oops.Code("SERVICE_INVALID_ARGUMENT").Errorf("api client is required")
	}
	return &HealthService{api: api}, nil
}

// Check fetches the backend health.
func (h *HealthService) Check(ctx context.Context) Result[HealthStatus] {
	resp, err := h.api.Get(ctx, PathHealth)
	return settle[HealthStatus](resp, err, decoding{depth: apiclient.DepthRaw}, "Health check failed")
}

// Compatible reports whether version satisfies constraint.
func Compatible(version, constraint string) (bool, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false, oops.Code("SERVICE_BAD_VERSION").With("version", version).Wrap(err)
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, oops.Code("SERVICE_BAD_CONSTRAINT").With("constraint", constraint).Wrap(err)
	}
	return c.Check(v), nil
}
