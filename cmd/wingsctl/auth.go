// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/personalwings/wings-admin/internal/services"
)

func newLoginCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Long: `Sign in with email and password. The returned token is stored in the
session cookie database and sent as a bearer token on later commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				return runLogin(ctx, cmd, a, email)
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (prompted when empty)")
	return cmd
}

func runLogin(ctx context.Context, cmd *cobra.Command, a *app, email string) error {
	email, err := a.prompt.LineDefault("Email", email)
	if err != nil {
		return err
	}
	password, err := a.prompt.Password("Password")
	if err != nil {
		return err
	}

	res := a.auth.Login(ctx, services.Credentials{Email: email, Password: password})
	if err := resultError(res, "CLI_LOGIN_FAILED"); err != nil {
		return err
	}

	who := email
	if res.Data.User != nil && res.Data.User.Name != "" {
		who = res.Data.User.Name
	}
	cmd.Printf("Logged in as %s\n", who)
	return nil
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				res := a.auth.Logout(ctx)
				if !res.Success {
					a.logger.WarnContext(ctx, "server logout failed, local session cleared", "error", res.Error)
				}
				cmd.Println("Logged out")
				return nil
			})
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	output := outputJSON

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				res := a.auth.Me(ctx)
				if err := resultError(res, "CLI_WHOAMI_FAILED"); err != nil {
					return err
				}
				return printValue(cmd.OutOrStdout(), output, res.Data)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "output format (json or yaml)")
	return cmd
}
