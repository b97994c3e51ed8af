// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

// Package services provides typed calls to the Personal Wings API.
//
// Every call returns a Result. Server rejections, transport failures, and
// malformed envelopes are all reported as Result{Success: false} with a
// user-facing Error; nothing is retried.
package services
