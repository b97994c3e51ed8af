// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package main

import (
	"context"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/personalwings/wings-admin/internal/services"
	"github.com/personalwings/wings-admin/internal/verify"
)

// forgotConfig holds configuration for the forgot-password command.
type forgotConfig struct {
	email string
	token string
	demo  bool
}

func newForgotPasswordCmd() *cobra.Command {
	cfg := &forgotConfig{}

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Reset a password with an emailed one-time code",
		Long: `Request a one-time code by email, enter it, then choose a new password.
The code expires after 10 minutes and a new one can be requested once a
minute. A token from the reset link can be supplied with --token.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				return runForgotPassword(ctx, a, cfg)
			})
		},
	}

	cmd.Flags().StringVar(&cfg.email, "email", "", "account email (prompted when empty)")
	cmd.Flags().StringVar(&cfg.token, "token", "", "reset token from the emailed link")
	cmd.Flags().BoolVar(&cfg.demo, "demo", false, "accept the fixed demo code instead of asking the server")
	return cmd
}

func runForgotPassword(ctx context.Context, a *app, cfg *forgotConfig) error {
	var verifier verify.OTPVerifier = verify.ServiceVerifier{Service: a.auth, Purpose: services.PurposePasswordReset}
	if cfg.demo {
		verifier = verify.DemoVerifier{}
	}

	flow, err := verify.NewPasswordResetFlow(a.auth, verifier, verify.Options{
		ResetToken: cfg.token,
		Logger:     a.logger,
	})
	if err != nil {
		return err
	}
	defer flow.Close()

	p := a.prompt
	email := cfg.email
	for attempt := 1; flow.Step() == verify.StepForgot; attempt++ {
		if email, err = p.LineDefault("Email", email); err != nil {
			return err
		}
		n := flow.SubmitEmail(ctx, email)
		p.Notify(n)
		if n.Failed() && (cfg.email != "" || attempt == maxAttempts) {
			return oops.Code("CLI_RESET_FAILED").Errorf("%s", n.Message)
		}
		email = ""
	}

	if err := collectOTP(ctx, p, flow); err != nil {
		return err
	}

	for attempt := 1; flow.Step() == verify.StepReset; attempt++ {
		password, err := p.Password("New password")
		if err != nil {
			return err
		}
		strength, _ := flow.MeasurePasswords(password, "")
		p.Notify(strengthNotice(strength))

		confirm, err := p.Password("Confirm password")
		if err != nil {
			return err
		}
		n := flow.SubmitReset(ctx, password, confirm)
		p.Notify(n)
		if n.Failed() && attempt == maxAttempts {
			return oops.Code("CLI_RESET_FAILED").Errorf("%s", n.Message)
		}
	}
	return nil
}
