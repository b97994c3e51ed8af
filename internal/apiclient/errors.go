// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error codes carried by oops errors from this package.
const (
	CodeInvalidConfig  = "API_INVALID_CONFIG"
	CodeInvalidRequest = "API_INVALID_REQUEST"
	CodeRequestFailed  = "API_REQUEST_FAILED"
	CodeDecodeFailed   = "API_DECODE_FAILED"
	CodeEnvelopeShape  = "API_ENVELOPE_SHAPE"
)

// HTTPError is returned for responses outside the 2xx range.
type HTTPError struct {
	StatusCode int
	Message    string
	Body       json.RawMessage
}

func (e *HTTPError) Error() string {
	return e.Message
}

// IsStatus reports whether err is an *HTTPError with the given status code.
func IsStatus(err error, status int) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == status
}

// newHTTPError picks the message from the body's error member, then its
// message member, and finally falls back to the bare status.
func newHTTPError(status int, body json.RawMessage) *HTTPError {
	msg := fmt.Sprintf("HTTP %d", status)

	var fields struct {
		Error   any `json:"error"`
		Message any `json:"message"`
	}
	if err := json.Unmarshal(body, &fields); err == nil {
		if s, ok := fields.Error.(string); ok && s != "" {
			msg = s
		} else if s, ok := fields.Message.(string); ok && s != "" {
			msg = s
		}
	}

	return &HTTPError{StatusCode: status, Message: msg, Body: body}
}
