// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package session

import "context"

// TokenStore persists the API bearer token.
type TokenStore interface {
	AuthToken(ctx context.Context) (token string, ok bool, err error)
	SetAuthToken(ctx context.Context, token string, expiresInDays int) error
	RemoveAuthToken(ctx context.Context) error
}

var _ TokenStore = (*Store)(nil)

// SetAuthToken stores token in the auth_token cookie. expiresInDays <= 0
// uses DefaultAuthTokenDays.
func (s *Store) SetAuthToken(ctx context.Context, token string, expiresInDays int) error {
	if expiresInDays <= 0 {
		expiresInDays = DefaultAuthTokenDays
	}
	return s.Set(ctx, AuthTokenCookie, token, CookieOptions{
		ExpiresInDays: expiresInDays,
		Path:          DefaultPath,
	})
}

// AuthToken returns the stored token. An empty cookie counts as absent.
func (s *Store) AuthToken(ctx context.Context) (string, bool, error) {
	token, ok, err := s.Get(ctx, AuthTokenCookie)
	if err != nil || !ok || token == "" {
		return "", false, err
	}
	return token, true, nil
}

// RemoveAuthToken deletes the auth_token cookie. Removing an absent token is
// not an error.
func (s *Store) RemoveAuthToken(ctx context.Context) error {
	return s.Remove(ctx, AuthTokenCookie, CookieOptions{Path: DefaultPath})
}
