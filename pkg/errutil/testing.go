// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package errutil

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertErrorCode asserts that err is an oops error with the given code.
func AssertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T: %v", err, err)
	assert.Equal(t, code, oopsErr.Code(), "error: %v", err)
}

// Outcome is a call result that reports failure as a value instead of an
// error return.
type Outcome interface {
	Failed() bool
	Cause() error
}

// AssertResultCode asserts that res failed with an oops error carrying code.
func AssertResultCode(t *testing.T, res Outcome, code string) {
	t.Helper()
	require.True(t, res.Failed(), "expected a failed result")
	require.Error(t, res.Cause(), "failed result carries no error")
	AssertErrorCode(t, res.Cause(), code)
}

// AssertErrorContext asserts that err is an oops error with the given context key/value.
func AssertErrorContext(t *testing.T, err error, key string, value any) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T", err)
	ctx := oopsErr.Context()
	assert.Contains(t, ctx, key)
	assert.Equal(t, value, ctx[key])
}
