// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package apiclient

import (
	"bytes"
	"encoding/json"

	"github.com/samber/oops"
)

// Envelope depths used by the backend.
const (
	DepthRaw    = 0 // body is the payload
	DepthData   = 1 // body.data
	DepthNested = 2 // body.data.data
)

// Envelope is the backend's response wrapper.
type Envelope struct {
	Success *bool           `json:"success,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Succeeded reports whether the envelope signals success. Bodies without a
// success member are treated as successful.
func (e *Envelope) Succeeded() bool {
	return e.Success == nil || *e.Success
}

// Failure returns the server's explanation for an unsuccessful envelope.
func (e *Envelope) Failure() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

// DecodeEnvelope parses raw as a response envelope.
func DecodeEnvelope(raw json.RawMessage) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, oops.Code(CodeEnvelopeShape).Wrapf(err, "response is not an envelope")
	}
	return &env, nil
}

// UnwrapData descends into the data member exactly depth times. A level that
// is not an object or has no data member is an error.
func UnwrapData(raw json.RawMessage, depth int) (json.RawMessage, error) {
	if depth < 0 {
		return nil, oops.Code(CodeEnvelopeShape).With("depth", depth).Errorf("negative envelope depth")
	}

	cur := raw
	for level := 1; level <= depth; level++ {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(cur, &obj); err != nil || obj == nil {
			return nil, oops.Code(CodeEnvelopeShape).
				With("level", level).
				With("depth", depth).
				Errorf("envelope level %d is not an object", level)
		}
		next, ok := obj["data"]
		if !ok {
			return nil, oops.Code(CodeEnvelopeShape).
				With("level", level).
				With("depth", depth).
				Errorf("envelope level %d has no data member", level)
		}
		cur = next
	}
	return cur, nil
}

// Unwrap unwraps raw to depth and decodes the payload into T. A JSON null
// payload yields the zero value.
func Unwrap[T any](raw json.RawMessage, depth int) (T, error) {
	var out T
	data, err := UnwrapData(raw, depth)
	if err != nil {
		return out, err
	}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, oops.Code(CodeEnvelopeShape).With("depth", depth).Wrapf(err, "decode envelope payload")
	}
	return out, nil
}
