// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel/propagation"
)

// Default client settings.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "wingsctl"
)

// Header names set by the client.
const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderRequestID     = "X-Request-ID"
)

// TokenSource supplies the bearer token for outgoing requests. ok is false
// when no token is stored.
type TokenSource interface {
	AuthToken(ctx context.Context) (token string, ok bool, err error)
}

// Config holds the client connection settings.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client is the HTTP facade for the Personal Wings API.
type Client struct {
	baseURL        *url.URL
	userAgent      string
	httpClient     *http.Client
	tokens         TokenSource
	logger         *slog.Logger
	metrics        *Metrics
	redactPatterns []string
	redactor       *redactor
	propagator     propagation.TextMapPropagator
}

// Response is a successful API response.
type Response struct {
	StatusCode int
	Header     http.Header
	// Data is the parsed JSON body, or {} when the body was not JSON.
	Data json.RawMessage
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Data, v); err != nil {
		return oops.Code(CodeDecodeFailed).With("status", r.StatusCode).Wrap(err)
	}
	return nil
}

// Envelope decodes the response body as a backend envelope.
func (r *Response) Envelope() (*Envelope, error) {
	return DecodeEnvelope(r.Data)
}

// New creates a client for cfg.BaseURL.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, oops.Code(CodeInvalidConfig).Errorf("base URL is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, oops.Code(CodeInvalidConfig).With("base_url", cfg.BaseURL).Wrapf(err, "invalid base URL")
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, oops.Code(CodeInvalidConfig).With("base_url", cfg.BaseURL).Errorf("base URL must be absolute")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	c := &Client{
		baseURL:        base,
		userAgent:      cfg.UserAgent,
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		logger:         slog.Default(),
		redactPatterns: append([]string(nil), DefaultRedactedHeaders...),
		propagator:     propagation.TraceContext{},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.redactor, err = newRedactor(c.redactPatterns)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// BaseURL returns the URL paths are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, opts...)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, opts...)
}

// Post issues a POST request with body.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, opts...)
}

// Put issues a PUT request with body.
func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, body, opts...)
}

// Patch issues a PATCH request with body.
func (c *Client) Patch(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, path, body, opts...)
}

// Do issues a request. A nil body sends nothing, a *FormData body is sent as
// multipart/form-data, and any other body is sent as JSON.
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error) {
	ro := newRequestOptions(opts)

	target, err := c.resolve(path, ro.params)
	if err != nil {
		return nil, err
	}

	payload, contentType, isMultipart, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	var (
		reader   io.Reader
		progress *progressReader
	)
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	if ro.progress != nil {
		progress = newProgressReader(reader, int64(len(payload)), ro.progress)
		if reader != nil {
			reader = progress
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, oops.Code(CodeInvalidRequest).With("method", method).With("path", path).Wrap(err)
	}
	if payload != nil {
		req.ContentLength = int64(len(payload))
	}
	c.applyHeaders(ctx, req, contentType, isMultipart, ro.headers)

	log := c.logger.With(
		"method", method,
		"url", target.Redacted(),
		"request_id", req.Header.Get(HeaderRequestID),
	)
	log.DebugContext(ctx, "api request", "headers", c.redactor.headers(req.Header))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(method, 0, time.Since(start))
		log.DebugContext(ctx, "api request failed", "error", err)
		return nil, oops.Code(CodeRequestFailed).With("method", method).With("path", path).Wrap(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.observe(method, 0, time.Since(start))
		return nil, oops.Code(CodeRequestFailed).
			With("method", method).
			With("path", path).
			With("status", resp.StatusCode).
			Wrapf(err, "read response body")
	}
	if progress != nil {
		progress.finish()
	}

	elapsed := time.Since(start)
	c.metrics.observe(method, resp.StatusCode, elapsed)
	log.DebugContext(ctx, "api response", "status", resp.StatusCode, "duration", elapsed)

	data := parseBody(raw)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newHTTPError(resp.StatusCode, data)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Data:       data,
	}, nil
}

// resolve joins path onto the base URL and merges params into any query
// already present in the base URL or path.
func (c *Client) resolve(path string, params url.Values) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, oops.Code(CodeInvalidRequest).With("path", path).Wrapf(err, "invalid request path")
	}

	var u url.URL
	query := url.Values{}
	if ref.IsAbs() {
		u = *ref
	} else {
		u = *c.baseURL
		if ref.Path != "" {
			u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(ref.Path, "/")
			u.RawPath = ""
		}
		query = c.baseURL.Query()
	}

	for key, values := range ref.Query() {
		query[key] = append(query[key], values...)
	}
	for key, values := range params {
		for _, v := range values {
			query.Add(key, v)
		}
	}
	u.RawQuery = query.Encode()
	u.Fragment = ""
	return &u, nil
}

func (c *Client) applyHeaders(ctx context.Context, req *http.Request, contentType string, isMultipart bool, custom http.Header) {
	h := req.Header
	h.Set("Accept", contentTypeJSON)
	h.Set("User-Agent", c.userAgent)
	h.Set(HeaderRequestID, ulid.Make().String())
	if isMultipart {
		h.Set(HeaderContentType, contentType)
	} else {
		h.Set(HeaderContentType, contentTypeJSON)
	}

	if token := c.authToken(ctx); token != "" {
		h.Set(HeaderAuthorization, "Bearer "+token)
	}
	c.propagator.Inject(ctx, propagation.HeaderCarrier(h))

	for name, values := range custom {
		if isMultipart && http.CanonicalHeaderKey(name) == HeaderContentType {
			continue
		}
		h.Del(name)
		for _, v := range values {
			h.Add(name, v)
		}
	}
}

// authToken returns the stored token, or "" when none is available. Read
// failures are logged and the request proceeds unauthenticated.
func (c *Client) authToken(ctx context.Context) string {
	if c.tokens == nil {
		return ""
	}
	token, ok, err := c.tokens.AuthToken(ctx)
	if err != nil {
		c.logger.DebugContext(ctx, "auth token unavailable", "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return token
}

func parseBody(raw []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return json.RawMessage(`{}`)
	}
	return json.RawMessage(trimmed)
}
