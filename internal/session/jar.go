// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package session

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/samber/oops"
)

// Jar is a cookie context. Write accepts one Set-Cookie line; Read returns
// every live cookie as "name=value" pairs joined by "; ".
// Implementations must be safe for concurrent use.
type Jar interface {
	Write(ctx context.Context, setCookie string) error
	Read(ctx context.Context) (string, error)
}

// JarOption configures a jar.
type JarOption func(*jarOptions)

type jarOptions struct {
	now func() time.Time
}

// WithJarClock sets the clock used to evaluate expiry.
func WithJarClock(now func() time.Time) JarOption {
	return func(o *jarOptions) {
		if now != nil {
			o.now = now
		}
	}
}

func newJarOptions(opts []JarOption) jarOptions {
	o := jarOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// cookieKey identifies a cookie. Writes with the same key replace each other.
type cookieKey struct {
	name   string
	domain string
	path   string
}

type jarEntry struct {
	key      cookieKey
	value    string
	expires  time.Time // zero for session cookies
	secure   bool
	sameSite http.SameSite
}

// expired reports whether the entry is dead at now.
func (e jarEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !e.expires.After(now)
}

// parseEntry parses a Set-Cookie line into a jar entry. Max-Age wins over
// Expires, and a non-positive Max-Age expires the cookie immediately.
func parseEntry(line string, now time.Time) (jarEntry, error) {
	c, err := http.ParseSetCookie(line)
	if err != nil {
		return jarEntry{}, oops.Code(CodeInvalidCookie).Wrapf(err, "parse Set-Cookie")
	}

	path := c.Path
	if path == "" {
		path = DefaultPath
	}
	entry := jarEntry{
		key: cookieKey{
			name:   c.Name,
			domain: strings.TrimPrefix(strings.ToLower(c.Domain), "."),
			path:   path,
		},
		value:    c.Value,
		secure:   c.Secure,
		sameSite: c.SameSite,
	}

	switch {
	case c.MaxAge < 0:
		entry.expires = now
	case c.MaxAge > 0:
		entry.expires = now.Add(time.Duration(c.MaxAge) * time.Second)
	case !c.Expires.IsZero():
		entry.expires = c.Expires
	}
	return entry, nil
}

func joinPairs(entries []jarEntry) string {
	pairs := make([]string, 0, len(entries))
	for _, e := range entries {
		pairs = append(pairs, e.key.name+"="+e.value)
	}
	return strings.Join(pairs, "; ")
}
