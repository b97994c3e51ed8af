// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/personalwings/wings-admin/internal/apiclient"
	"github.com/personalwings/wings-admin/internal/config"
	"github.com/personalwings/wings-admin/internal/logging"
	"github.com/personalwings/wings-admin/internal/observability"
	"github.com/personalwings/wings-admin/internal/services"
	"github.com/personalwings/wings-admin/internal/session"
	"github.com/personalwings/wings-admin/pkg/errutil"
)

// app is everything a command needs, built from the resolved config.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Registry
	jar     *session.SQLiteJar
	store   *session.Store
	client  *apiclient.Client
	auth    *services.AuthService
	health  *services.HealthService
	prompt  *prompter
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger := logging.Setup("wingsctl", version, cfg.Log.Format, cfg.Log.Level, cmd.ErrOrStderr())
	metrics := observability.NewRegistry()

	jar, err := session.OpenSQLiteJar(ctx, cfg.Session.DB)
	if err != nil {
		return nil, err
	}
	store := session.NewStore(jar)

	client, err := apiclient.New(
		apiclient.Config{BaseURL: cfg.API.URL, Timeout: cfg.API.Timeout, UserAgent: "wingsctl/" + version},
		apiclient.WithTokenSource(store),
		apiclient.WithLogger(logger),
		apiclient.WithMetrics(metrics.API()),
	)
	if err != nil {
		_ = jar.Close()
		return nil, err
	}

	auth, err := services.NewAuthService(client, store, logger)
	if err != nil {
		_ = jar.Close()
		return nil, err
	}
	health, err := services.NewHealthService(client)
	if err != nil {
		_ = jar.Close()
		return nil, err
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		jar:     jar,
		store:   store,
		client:  client,
		auth:    auth,
		health:  health,
		prompt:  newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
	}, nil
}

// close exports metrics when configured and releases the session database.
func (a *app) close() error {
	var exportErr error
	if a.cfg.Metrics.File != "" {
		exportErr = a.metrics.WriteTextfile(a.cfg.Metrics.File)
	}
	if err := a.jar.Close(); err != nil {
		return oops.Code("CLI_CLOSE_FAILED").Wrap(err)
	}
	return exportErr
}

// runWithApp builds the app, runs fn, records the command and tears down.
func runWithApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	runErr := fn(ctx, a)
	a.metrics.RecordCommand(cmd.Name(), runErr, time.Since(start))
	if runErr != nil {
		a.logger.DebugContext(ctx, "command failed", append([]any{"command", cmd.Name()}, errutil.Attrs(runErr)...)...)
	}

	if closeErr := a.close(); closeErr != nil {
		errutil.LogErrorContext(ctx, a.logger, "cleanup failed", closeErr)
		if runErr == nil {
			return closeErr
		}
	}
	return runErr
}

// resultError turns a failed service result into an error carrying code.
func resultError[T any](res services.Result[T], code string) error {
	if res.Success {
		return nil
	}
	if res.Err != nil {
		return oops.Code(code).Wrap(res.Err)
	}
	return oops.Code(code).Errorf("%s", res.Error)
}
