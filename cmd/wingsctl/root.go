// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/personalwings/wings-admin/internal/config"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the wingsctl CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wingsctl",
		Short: "Personal Wings admin client",
		Long: `wingsctl talks to the Personal Wings admin API: sign in, recover a
password with an emailed one-time code, register accounts, and manage
catalog and CMS resources.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default: XDG_CONFIG_HOME/wings/config.yaml)")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newWhoamiCmd())
	cmd.AddCommand(newRegisterCmd())
	cmd.AddCommand(newForgotPasswordCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newRequestCmd())
	cmd.AddCommand(newResourceCmd())

	return cmd
}
