// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package apiclient

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"sort"
	"strconv"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. The configured timeout
// is not applied to a caller-supplied client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTokenSource sets where the bearer token is read from before each request.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithLogger sets the logger used for request debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records request counts and latencies into m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithRedactedHeaders adds glob patterns for headers whose values are masked
// in debug logs. Patterns are matched against lower-cased header names.
func WithRedactedHeaders(patterns ...string) Option {
	return func(c *Client) {
		c.redactPatterns = append(c.redactPatterns, patterns...)
	}
}

// RequestOption configures a single request.
type RequestOption func(*requestOptions)

type requestOptions struct {
	params   url.Values
	headers  http.Header
	progress ProgressFunc
}

func newRequestOptions(opts []RequestOption) *requestOptions {
	ro := &requestOptions{
		params:  url.Values{},
		headers: http.Header{},
	}
	for _, opt := range opts {
		opt(ro)
	}
	return ro
}

// WithParam adds a query parameter. Nil values, including nil pointers, are
// omitted.
func WithParam(key string, value any) RequestOption {
	return func(ro *requestOptions) {
		if s, ok := stringify(value); ok {
			ro.params.Add(key, s)
		}
	}
}

// WithParams adds every entry of params as a query parameter.
func WithParams(params map[string]any) RequestOption {
	return func(ro *requestOptions) {
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			WithParam(k, params[k])(ro)
		}
	}
}

// WithHeader sets a request header. Caller headers replace the client's
// defaults, except Content-Type on multipart bodies.
func WithHeader(key, value string) RequestOption {
	return func(ro *requestOptions) {
		ro.headers.Set(key, value)
	}
}

// WithUploadProgress reports body upload progress to fn.
func WithUploadProgress(fn ProgressFunc) RequestOption {
	return func(ro *requestOptions) {
		ro.progress = fn
	}
}

func stringify(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case fmt.Stringer:
		return v.String(), true
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		return stringify(rv.Elem().Interface())
	}
	return fmt.Sprint(value), true
}
