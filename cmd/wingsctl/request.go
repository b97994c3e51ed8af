// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/personalwings/wings-admin/internal/apiclient"
)

// requestConfig holds configuration for the request command.
type requestConfig struct {
	params   []string
	headers  []string
	data     string
	form     []string
	files    []string
	unwrap   int
	output   string
	progress bool
}

var requestMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

func newRequestCmd() *cobra.Command {
	cfg := &requestConfig{}

	cmd := &cobra.Command{
		Use:   "request METHOD PATH",
		Short: "Send a raw request to the admin API",
		Long: `Send an authenticated request to a path relative to the API base URL and
print the response. --data sends a JSON body; --form and --file send
multipart form data. --unwrap N descends N levels of the data envelope.`,
		Example: `  wingsctl request GET /courses --param page=2 --unwrap 1
  wingsctl request POST /products/upload --file image=./cover.png --form title=Cover`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			method := strings.ToUpper(args[0])
			if !requestMethods[method] {
				return oops.Code("CLI_INVALID_ARGUMENT").With("method", args[0]).Errorf("unsupported method %q", args[0])
			}
			if err := validateOutput(cfg.output); err != nil {
				return err
			}
			return runWithApp(cmd, func(ctx context.Context, a *app) error {
				return runRequest(ctx, cmd, a, method, args[1], cfg)
			})
		},
	}

	cmd.Flags().StringArrayVar(&cfg.params, "param", nil, "query parameter as key=value (repeatable)")
	cmd.Flags().StringArrayVarP(&cfg.headers, "header", "H", nil, "request header as key=value (repeatable)")
	cmd.Flags().StringVarP(&cfg.data, "data", "d", "", "JSON request body")
	cmd.Flags().StringArrayVar(&cfg.form, "form", nil, "multipart form field as key=value (repeatable)")
	cmd.Flags().StringArrayVar(&cfg.files, "file", nil, "multipart file as field=path (repeatable)")
	cmd.Flags().IntVar(&cfg.unwrap, "unwrap", apiclient.DepthRaw, "envelope levels to unwrap before printing")
	cmd.Flags().StringVarP(&cfg.output, "output", "o", outputJSON, "output format (json or yaml)")
	cmd.Flags().BoolVar(&cfg.progress, "progress", false, "report upload progress on stderr")
	cmd.MarkFlagsMutuallyExclusive("data", "form")
	cmd.MarkFlagsMutuallyExclusive("data", "file")
	return cmd
}

func runRequest(ctx context.Context, cmd *cobra.Command, a *app, method, path string, cfg *requestConfig) error {
	var opts []apiclient.RequestOption
	for _, p := range cfg.params {
		key, value, err := splitPair("param", p)
		if err != nil {
			return err
		}
		opts = append(opts, apiclient.WithParam(key, value))
	}
	for _, h := range cfg.headers {
		key, value, err := splitPair("header", h)
		if err != nil {
			return err
		}
		opts = append(opts, apiclient.WithHeader(key, value))
	}
	if cfg.progress {
		errOut := cmd.ErrOrStderr()
		opts = append(opts, apiclient.WithUploadProgress(func(p apiclient.Progress) {
			_, _ = fmt.Fprintf(errOut, "upload %3d%%\n", p.Percent())
		}))
	}

	body, closeFiles, err := requestBody(cfg)
	if err != nil {
		return err
	}
	defer closeFiles()

	resp, err := a.client.Do(ctx, method, path, body, opts...)
	if err != nil {
		var httpErr *apiclient.HTTPError
		if errors.As(err, &httpErr) && len(httpErr.Body) > 0 {
			_ = printValue(cmd.OutOrStdout(), cfg.output, httpErr.Body)
		}
		return err
	}

	data, err := apiclient.UnwrapData(resp.Data, cfg.unwrap)
	if err != nil {
		return err
	}
	return printValue(cmd.OutOrStdout(), cfg.output, data)
}

// requestBody builds the body from --data or --form/--file. The returned
// func closes any opened files.
func requestBody(cfg *requestConfig) (any, func(), error) {
	noop := func() {}
	if cfg.data != "" {
		if !json.Valid([]byte(cfg.data)) {
			return nil, noop, oops.Code("CLI_INVALID_ARGUMENT").Errorf("--data is not valid JSON")
		}
		return json.RawMessage(cfg.data), noop, nil
	}
	if len(cfg.form) == 0 && len(cfg.files) == 0 {
		return nil, noop, nil
	}

	form := apiclient.NewFormData()
	for _, f := range cfg.form {
		key, value, err := splitPair("form", f)
		if err != nil {
			return nil, noop, err
		}
		form.Set(key, value)
	}

	var opened []*os.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}
	for _, f := range cfg.files {
		field, path, err := splitPair("file", f)
		if err != nil {
			closeAll()
			return nil, noop, err
		}
		file, err := os.Open(path) //nolint:gosec // path is supplied by the operator
		if err != nil {
			closeAll()
			return nil, noop, oops.Code("CLI_INVALID_ARGUMENT").With("path", path).Wrap(err)
		}
		opened = append(opened, file)
		form.AddFile(field, filepath.Base(path), file)
	}
	return form, closeAll, nil
}

func splitPair(flag, s string) (string, string, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return "", "", oops.Code("CLI_INVALID_ARGUMENT").With("flag", flag).Errorf("--%s must be key=value, got %q", flag, s)
	}
	return key, value, nil
}
