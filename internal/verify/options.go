// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package verify

import (
	"log/slog"
	"time"
)

// Countdown defaults, in ticks.
const (
	DefaultExpirySeconds = 600
	DefaultResendSeconds = 60
	DefaultTickInterval  = time.Second
)

// Options configure a workflow. Zero fields take their defaults.
type Options struct {
	// TickInterval is how often both countdowns decrement.
	TickInterval time.Duration
	// ExpirySeconds is how many ticks a sent code stays valid.
	ExpirySeconds int
	// ResendSeconds is the cooldown before another code can be requested.
	ResendSeconds int
	// ResetToken is the token delivered in the reset link, if any. When empty
	// the verified code is used instead.
	ResetToken string
	Logger     *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.TickInterval <= 0 {
		o.TickInterval = DefaultTickInterval
	}
	if o.ExpirySeconds <= 0 {
		o.ExpirySeconds = DefaultExpirySeconds
	}
	if o.ResendSeconds <= 0 {
		o.ResendSeconds = DefaultResendSeconds
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Step is a workflow state.
type Step string

// Workflow steps.
const (
	StepForgot  Step = "forgot"
	StepDetails Step = "details"
	StepOTP     Step = "otp"
	StepReset   Step = "reset"
	StepDone    Step = "done"
)
