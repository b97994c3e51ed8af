// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package session

import (
	"context"
	"time"

	"github.com/samber/oops"
)

// Store reads and writes named cookies through a Jar. A Store without a jar
// has no cookie context: reads report nothing and writes are ignored.
type Store struct {
	jar Jar
	now func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock sets the clock used to compute relative expiries.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates a cookie store over jar. jar may be nil.
func NewStore(jar Jar, opts ...StoreOption) *Store {
	s := &Store{jar: jar, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Set writes a cookie.
func (s *Store) Set(ctx context.Context, name, value string, opts CookieOptions) error {
	if s.jar == nil {
		return nil
	}
	line, err := FormatCookie(name, value, opts, s.now())
	if err != nil {
		return err
	}
	if err := s.jar.Write(ctx, line); err != nil {
		return oops.Code(CodeJarFailed).With("name", name).Wrap(err)
	}
	return nil
}

// Get returns the decoded value of name. ok is false when the cookie is
// absent.
func (s *Store) Get(ctx context.Context, name string) (value string, ok bool, err error) {
	if s.jar == nil {
		return "", false, nil
	}
	header, err := s.jar.Read(ctx)
	if err != nil {
		return "", false, oops.Code(CodeJarFailed).With("name", name).Wrap(err)
	}
	return lookup(header, name)
}

// Has reports whether name is present.
func (s *Store) Has(ctx context.Context, name string) (bool, error) {
	_, ok, err := s.Get(ctx, name)
	return ok, err
}

// Remove expires name. opts must carry the Path and Domain the cookie was set
// with; otherwise the original cookie is left untouched.
func (s *Store) Remove(ctx context.Context, name string, opts CookieOptions) error {
	opts.Expires = time.Unix(0, 0)
	opts.ExpiresInDays = 0
	return s.Set(ctx, name, "", opts)
}
