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

// registerConfig holds configuration for the register command.
type registerConfig struct {
	name  string
	email string
	phone string
	demo  bool
}

func newRegisterCmd() *cobra.Command {
	cfg := &registerConfig{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and verify its email",
		Long: `Create an account, then confirm the email address with the one-time code
the server sends. A verified registration signs you in.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				return runRegister(ctx, a, cfg)
			})
		},
	}

	cmd.Flags().StringVar(&cfg.name, "name", "", "full name (prompted when empty)")
	cmd.Flags().StringVar(&cfg.email, "email", "", "account email (prompted when empty)")
	cmd.Flags().StringVar(&cfg.phone, "phone", "", "phone number")
	cmd.Flags().BoolVar(&cfg.demo, "demo", false, "accept the fixed demo code instead of asking the server")
	return cmd
}

func runRegister(ctx context.Context, a *app, cfg *registerConfig) error {
	var verifier verify.OTPVerifier = verify.ServiceVerifier{Service: a.auth, Purpose: services.PurposeRegistration}
	if cfg.demo {
		verifier = verify.DemoVerifier{}
	}

	flow, err := verify.NewRegistrationFlow(a.auth, verifier, verify.Options{Logger: a.logger})
	if err != nil {
		return err
	}
	defer flow.Close()

	p := a.prompt
	req := services.RegisterRequest{Phone: cfg.phone}
	if req.Name, err = p.LineDefault("Name", cfg.name); err != nil {
		return err
	}
	if req.Email, err = p.LineDefault("Email", cfg.email); err != nil {
		return err
	}

	for attempt := 1; flow.Step() == verify.StepDetails; attempt++ {
		if req.Password, err = p.Password("Password"); err != nil {
			return err
		}
		strength, _ := flow.MeasurePasswords(req.Password, "")
		p.Notify(strengthNotice(strength))
		if req.ConfirmPassword, err = p.Password("Confirm password"); err != nil {
			return err
		}

		n := flow.SubmitDetails(ctx, req)
		p.Notify(n)
		if n.Failed() && attempt == maxAttempts {
			return oops.Code("CLI_REGISTER_FAILED").Errorf("%s", n.Message)
		}
	}

	return collectOTP(ctx, p, flow)
}
