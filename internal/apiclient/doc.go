// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

// Package apiclient is the single HTTP facade every call to the Personal Wings
// API goes through.
//
// The client resolves paths against a configured base URL, attaches the bearer
// token from an injected TokenSource, encodes bodies as JSON or multipart form
// data, and normalizes responses:
//
//   - 2xx bodies are returned unchanged in Response.Data
//   - non-2xx responses become *HTTPError carrying the server message
//   - bodies that are not JSON are treated as an empty object
//
// Network failures are returned as oops errors with code API_REQUEST_FAILED.
// The client never retries on its own.
//
// Backend payloads use a {success, message, error, data} envelope, and some
// endpoints nest data more than once. DecodeEnvelope and UnwrapData decode
// those shapes at an explicit depth.
package apiclient
