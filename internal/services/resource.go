// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package services

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/personalwings/wings-admin/internal/apiclient"
)

// Document is an untyped resource payload.
type Document = map[string]any

// Resource is a CRUD client for one catalog endpoint.
type Resource[T any] struct {
	api API
	ep  Endpoint
}

// NewResource creates a client for ep.
func NewResource[T any](api API, ep Endpoint) *Resource[T] {
	return &Resource[T]{api: api, ep: ep}
}

// Endpoint returns the catalog entry this resource talks to.
func (r *Resource[T]) Endpoint() Endpoint {
	return r.ep
}

func (r *Resource[T]) item(id string) string {
	return strings.TrimRight(r.ep.Path, "/") + "/" + url.PathEscape(id)
}

func (r *Resource[T]) decoding() decoding {
	return decoding{depth: r.ep.Depth}
}

// List fetches the collection. Nil param values are omitted.
func (r *Resource[T]) List(ctx context.Context, params map[string]any) Result[[]T] {
	resp, err := r.api.Get(ctx, r.ep.Path, apiclient.WithParams(params))
	return settle[[]T](resp, err, r.decoding(), "Failed to load "+r.ep.Name)
}

// Get fetches one item.
func (r *Resource[T]) Get(ctx context.Context, id string) Result[T] {
	resp, err := r.api.Get(ctx, r.item(id))
	return settle[T](resp, err, r.decoding(), "Failed to load "+r.ep.Name)
}

// Create posts a new item.
func (r *Resource[T]) Create(ctx context.Context, item any) Result[T] {
	resp, err := r.api.Post(ctx, r.ep.Path, item)
	return settle[T](resp, err, r.decoding(), "Failed to create "+r.ep.Name)
}

// Update replaces an item.
func (r *Resource[T]) Update(ctx context.Context, id string, item any) Result[T] {
	resp, err := r.api.Put(ctx, r.item(id), item)
	return settle[T](resp, err, r.decoding(), "Failed to update "+r.ep.Name)
}

// Delete removes an item.
func (r *Resource[T]) Delete(ctx context.Context, id string) Result[Ack] {
	resp, err := r.api.Delete(ctx, r.item(id))
	return settle[Ack](resp, err, decoding{depth: apiclient.DepthRaw}, "Failed to delete "+r.ep.Name)
}

// Upload sends a file to the collection's upload endpoint. progress may be
// nil.
func (r *Resource[T]) Upload(ctx context.Context, field, filename string, data io.Reader, progress apiclient.ProgressFunc) Result[T] {
	form := apiclient.NewFormData().AddFile(field, filename, data)
	var opts []apiclient.RequestOption
	if progress != nil {
		opts = append(opts, apiclient.WithUploadProgress(progress))
	}
	resp, err := r.api.Post(ctx, strings.TrimRight(r.ep.Path, "/")+"/upload", form, opts...)
	return settle[T](resp, err, r.decoding(), "Failed to upload to "+r.ep.Name)
}
