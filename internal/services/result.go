// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package services

import (
	"context"
	"errors"

	"github.com/samber/oops"

	"github.com/personalwings/wings-admin/internal/apiclient"
)

// Result is the outcome of a service call. Expected failures are reported
// with Success false and a user-facing Error; Err keeps the underlying error
// for errors.Is and errors.As.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Err     error  `json:"-"`
}

// Failed reports whether the call did not succeed.
func (r Result[T]) Failed() bool {
	return !r.Success
}

// Cause returns the error behind a failed result, or nil on success.
func (r Result[T]) Cause() error {
	if r.Success {
		return nil
	}
	return r.Err
}

// Ack is the payload of calls that return nothing beyond success.
type Ack struct{}

// API is the subset of the HTTP client the services use.
type API interface {
	Get(ctx context.Context, path string, opts ...apiclient.RequestOption) (*apiclient.Response, error)
	Delete(ctx context.Context, path string, opts ...apiclient.RequestOption) (*apiclient.Response, error)
	Post(ctx context.Context, path string, body any, opts ...apiclient.RequestOption) (*apiclient.Response, error)
	Put(ctx context.Context, path string, body any, opts ...apiclient.RequestOption) (*apiclient.Response, error)
	Patch(ctx context.Context, path string, body any, opts ...apiclient.RequestOption) (*apiclient.Response, error)
}

var _ API = (*apiclient.Client)(nil)

// ErrRejected marks an envelope the server answered with success=false.
var ErrRejected = errors.New("request rejected by server")

func succeed[T any](data T, message string) Result[T] {
	return Result[T]{Success: true, Data: data, Message: message}
}

// fail folds err into a failed result. The error text is shown to the user;
// fallback is used when err carries no text.
func fail[T any](err error, fallback string) Result[T] {
	msg := fallback
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return Result[T]{Success: false, Error: msg, Err: err}
}

// decoding describes where a payload sits in the response envelope.
type decoding struct {
	depth int
	// optional tolerates a missing payload and yields the zero value.
	optional bool
}

// settle converts a facade response into a Result, decoding the payload at
// the declared depth.
func settle[T any](resp *apiclient.Response, err error, d decoding, fallback string) Result[T] {
	if err != nil {
		return fail[T](err, fallback)
	}

	env, err := resp.Envelope()
	if err != nil {
		return fail[T](err, fallback)
	}
	if !env.Succeeded() {
		msg := env.Failure()
		if msg == "" {
			msg = fallback
		}
		return Result[T]{Success: false, Error: msg, Err: oops.Code("SERVICE_REJECTED").Wrapf(ErrRejected, "%s", msg)}
	}

	if d.optional && d.depth > 0 && len(env.Data) == 0 {
		var zero T
		return succeed(zero, env.Message)
	}
	data, err := apiclient.Unwrap[T](resp.Data, d.depth)
	if err != nil {
		return fail[T](err, fallback)
	}
	return succeed(data, env.Message)
}
