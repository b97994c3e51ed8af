// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package apiclient

import (
	"net/http"
	"strings"

	"github.com/gobwas/glob"
	"github.com/samber/oops"
)

const redactedValue = "[REDACTED]"

// DefaultRedactedHeaders are header name patterns masked in debug logs.
var DefaultRedactedHeaders = []string{
	"authorization",
	"cookie",
	"set-cookie",
	"*token*",
	"*api-key*",
	"*secret*",
}

type redactor struct {
	patterns []glob.Glob
}

func newRedactor(patterns []string) (*redactor, error) {
	r := &redactor{patterns: make([]glob.Glob, 0, len(patterns))}
	for _, p := range patterns {
		g, err := glob.Compile(strings.ToLower(p))
		if err != nil {
			return nil, oops.Code(CodeInvalidConfig).With("pattern", p).Wrapf(err, "invalid redaction pattern")
		}
		r.patterns = append(r.patterns, g)
	}
	return r, nil
}

func (r *redactor) sensitive(name string) bool {
	lower := strings.ToLower(name)
	for _, g := range r.patterns {
		if g.Match(lower) {
			return true
		}
	}
	return false
}

// headers flattens h for logging with sensitive values masked.
func (r *redactor) headers(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		if r.sensitive(name) {
			out[name] = redactedValue
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}
