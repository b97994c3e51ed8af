// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/personalwings/wings-admin/internal/apiclient"
	"github.com/personalwings/wings-admin/internal/services"
)

func newResourceCmd() *cobra.Command {
	output := outputJSON

	cmd := &cobra.Command{
		Use:   "resource",
		Short: "Manage catalog and CMS resources",
		Long: `List, read, create, update, delete and upload to the admin resources:
courses, products, categories and the CMS sections.`,
	}
	cmd.PersistentFlags().StringVarP(&output, "output", "o", outputJSON, "output format (json or yaml)")
	cmd.PersistentPreRunE = func(*cobra.Command, []string) error {
		return validateOutput(output)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "names",
		Short: "List the known resource names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range services.EndpointNames() {
				ep, _ := services.LookupEndpoint(name)
				cmd.Printf("%-22s %s\n", name, ep.Path)
			}
			return nil
		},
	})

	var params []string
	list := &cobra.Command{
		Use:   "list NAME",
		Short: "List a resource collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := map[string]any{}
			for _, p := range params {
				key, value, err := splitPair("param", p)
				if err != nil {
					return err
				}
				query[key] = value
			}
			return withResource(cmd, args[0], func(ctx context.Context, r *services.Resource[json.RawMessage]) error {
				return printResult(cmd, output, r.List(ctx, query))
			})
		},
	}
	list.Flags().StringArrayVar(&params, "param", nil, "query parameter as key=value (repeatable)")
	cmd.AddCommand(list)

	cmd.AddCommand(&cobra.Command{
		Use:   "get NAME ID",
		Short: "Show one item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withResource(cmd, args[0], func(ctx context.Context, r *services.Resource[json.RawMessage]) error {
				return printResult(cmd, output, r.Get(ctx, args[1]))
			})
		},
	})

	var createData string
	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Create an item from a JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := parseDocument(createData)
			if err != nil {
				return err
			}
			return withResource(cmd, args[0], func(ctx context.Context, r *services.Resource[json.RawMessage]) error {
				return printResult(cmd, output, r.Create(ctx, doc))
			})
		},
	}
	create.Flags().StringVarP(&createData, "data", "d", "", "JSON document")
	_ = create.MarkFlagRequired("data")
	cmd.AddCommand(create)

	var updateData string
	update := &cobra.Command{
		Use:   "update NAME ID",
		Short: "Replace an item with a JSON document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := parseDocument(updateData)
			if err != nil {
				return err
			}
			return withResource(cmd, args[0], func(ctx context.Context, r *services.Resource[json.RawMessage]) error {
				return printResult(cmd, output, r.Update(ctx, args[1], doc))
			})
		},
	}
	update.Flags().StringVarP(&updateData, "data", "d", "", "JSON document")
	_ = update.MarkFlagRequired("data")
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete NAME ID",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withResource(cmd, args[0], func(ctx context.Context, r *services.Resource[json.RawMessage]) error {
				res := r.Delete(ctx, args[1])
				if err := resultError(res, "CLI_RESOURCE_FAILED"); err != nil {
					return err
				}
				cmd.Printf("Deleted %s %s\n", args[0], args[1])
				return nil
			})
		},
	})

	var field string
	upload := &cobra.Command{
		Use:   "upload NAME PATH",
		Short: "Upload a file to a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[1]) //nolint:gosec // path is supplied by the operator
			if err != nil {
				return oops.Code("CLI_INVALID_ARGUMENT").With("path", args[1]).Wrap(err)
			}
			defer func() { _ = file.Close() }()

			errOut := cmd.ErrOrStderr()
			progress := func(p apiclient.Progress) {
				_, _ = fmt.Fprintf(errOut, "upload %3d%%\n", p.Percent())
			}
			return withResource(cmd, args[0], func(ctx context.Context, r *services.Resource[json.RawMessage]) error {
				return printResult(cmd, output, r.Upload(ctx, field, filepath.Base(args[1]), file, progress))
			})
		},
	}
	upload.Flags().StringVar(&field, "field", "file", "multipart field name")
	cmd.AddCommand(upload)

	return cmd
}

// withResource resolves name against the catalog and runs fn with a client
// for it.
func withResource(cmd *cobra.Command, name string, fn func(ctx context.Context, r *services.Resource[json.RawMessage]) error) error {
	ep, ok := services.LookupEndpoint(name)
	if !ok {
		return oops.Code("CLI_UNKNOWN_RESOURCE").
			With("resource", name).
			Errorf("unknown resource %q (known: %s)", name, strings.Join(services.EndpointNames(), ", "))
	}
	return runWithApp(cmd, func(ctx context.Context, a *app) error {
		return fn(ctx, services.NewResource[json.RawMessage](a.client, ep))
	})
}

func printResult[T any](cmd *cobra.Command, output string, res services.Result[T]) error {
	if err := resultError(res, "CLI_RESOURCE_FAILED"); err != nil {
		return err
	}
	return printValue(cmd.OutOrStdout(), output, res.Data)
}

func parseDocument(data string) (services.Document, error) {
	var doc services.Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, oops.Code("CLI_INVALID_ARGUMENT").Wrapf(err, "--data must be a JSON object")
	}
	return doc, nil
}
