// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package session

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samber/oops"
)

// Cookie defaults.
const (
	DefaultPath          = "/"
	AuthTokenCookie      = "auth_token"
	DefaultAuthTokenDays = 7
)

// Error codes for session operations.
const (
	CodeInvalidCookie = "SESSION_INVALID_COOKIE"
	CodeDecodeFailed  = "SESSION_DECODE_FAILED"
	CodeJarFailed     = "SESSION_JAR_FAILED"
)

// CookieOptions are the attributes written with a cookie.
type CookieOptions struct {
	// Expires sets an absolute expiry and takes precedence over ExpiresInDays.
	Expires time.Time
	// ExpiresInDays sets a relative expiry. Zero with no Expires makes a
	// session cookie.
	ExpiresInDays int
	// Path defaults to "/".
	Path   string
	Domain string
	// Insecure drops the Secure attribute, which is set by default.
	Insecure bool
	// SameSite defaults to Lax.
	SameSite http.SameSite
}

// FormatCookie renders a Set-Cookie line for name and value. Both are
// query-escaped so separators survive a round trip.
func FormatCookie(name, value string, opts CookieOptions, now time.Time) (string, error) {
	if name == "" {
		return "", oops.Code(CodeInvalidCookie).Errorf("cookie name cannot be empty")
	}

	c := &http.Cookie{
		Name:     url.QueryEscape(name),
		Value:    url.QueryEscape(value),
		Path:     opts.Path,
		Domain:   opts.Domain,
		Secure:   !opts.Insecure,
		SameSite: opts.SameSite,
	}
	if c.Path == "" {
		c.Path = DefaultPath
	}
	if c.SameSite == 0 {
		c.SameSite = http.SameSiteLaxMode
	}
	switch {
	case !opts.Expires.IsZero():
		c.Expires = opts.Expires.UTC()
	case opts.ExpiresInDays > 0:
		c.Expires = now.Add(time.Duration(opts.ExpiresInDays) * 24 * time.Hour).UTC()
	}

	if err := c.Valid(); err != nil {
		return "", oops.Code(CodeInvalidCookie).With("name", name).With("domain", opts.Domain).Wrap(err)
	}
	return c.String(), nil
}

// lookup finds name in a "a=1; b=2" cookie string and decodes its value.
func lookup(header, name string) (string, bool, error) {
	want := url.QueryEscape(name)
	for _, pair := range strings.Split(header, ";") {
		key, value, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found || strings.TrimSpace(key) != want {
			continue
		}
		decoded, err := url.QueryUnescape(strings.TrimSpace(value))
		if err != nil {
			return "", false, oops.Code(CodeDecodeFailed).With("name", name).Wrap(err)
		}
		return decoded, true, nil
	}
	return "", false, nil
}
