// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package session_test

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/personalwings/wings-admin/internal/session"
	"github.com/personalwings/wings-admin/pkg/errutil"
)

func TestFormatCookie(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		cookie   string
		value    string
		opts     session.CookieOptions
		contains []string
		excludes []string
	}{
		{
			name:     "defaults",
			cookie:   "k",
			value:    "v",
			contains: []string{"k=v", "Path=/", "Secure", "SameSite=Lax"},
			excludes: []string{"Expires", "Domain"},
		},
		{
			name:     "relative expiry",
			cookie:   "k",
			value:    "v",
			opts:     session.CookieOptions{ExpiresInDays: 7},
			contains: []string{"Expires=Thu, 08 Jan 2026 00:00:00 GMT"},
		},
		{
			name:     "absolute expiry wins",
			cookie:   "k",
			value:    "v",
			opts:     session.CookieOptions{ExpiresInDays: 7, Expires: now.Add(time.Hour)},
			contains: []string{"Expires=Thu, 01 Jan 2026 01:00:00 GMT"},
		},
		{
			name:     "insecure strict with domain",
			cookie:   "k",
			value:    "v",
			opts:     session.CookieOptions{Insecure: true, SameSite: http.SameSiteStrictMode, Domain: "admin.example.com", Path: "/cms"},
			contains: []string{"Domain=admin.example.com", "Path=/cms", "SameSite=Strict"},
			excludes: []string{"Secure"},
		},
		{
			name:     "separators escaped",
			cookie:   "a=b",
			value:    "x; y=z",
			contains: []string{"a%3Db=x%3B+y%3Dz"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := session.FormatCookie(tt.cookie, tt.value, tt.opts, now)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, line, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, line, s)
			}
		})
	}
}

func TestFormatCookie_InvalidDomain(t *testing.T) {
	_, err := session.FormatCookie("k", "v", session.CookieOptions{Domain: "bad domain"}, time.Now())
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, session.CodeInvalidCookie)
}

func TestMemoryJar_MaxAge(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	jar := session.NewMemoryJar(session.WithJarClock(func() time.Time { return now }))

	require.NoError(t, jar.Write(ctx, "a=1; Max-Age=60"))
	require.NoError(t, jar.Write(ctx, "b=2"))
	got, err := jar.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a=1; b=2", got)

	require.NoError(t, jar.Write(ctx, "a=1; Max-Age=0"))
	got, err = jar.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b=2", got)
	assert.Equal(t, 1, jar.Len())
}

func TestMemoryJar_KeysByDomainAndPath(t *testing.T) {
	ctx := context.Background()
	jar := session.NewMemoryJar()

	require.NoError(t, jar.Write(ctx, "k=root; Path=/"))
	require.NoError(t, jar.Write(ctx, "k=admin; Path=/admin"))
	require.NoError(t, jar.Write(ctx, "k=dom; Path=/; Domain=.Example.com"))
	assert.Equal(t, 3, jar.Len())

	require.NoError(t, jar.Write(ctx, "k=dom2; Path=/; Domain=example.com"))
	assert.Equal(t, 3, jar.Len(), "leading dot and case are normalized")
}

func TestMemoryJar_RejectsGarbage(t *testing.T) {
	err := session.NewMemoryJar().Write(context.Background(), "")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, session.CodeInvalidCookie)
}

func TestSQLiteJar_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	jar, err := session.OpenSQLiteJar(ctx, path)
	require.NoError(t, err)
	store := session.NewStore(jar)
	require.NoError(t, store.SetAuthToken(ctx, "persisted", 7))
	require.NoError(t, jar.Close())

	reopened, err := session.OpenSQLiteJar(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	token, ok, err := session.NewStore(reopened).AuthToken(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", token)
}

func TestSQLiteJar_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	jar, err := session.OpenSQLiteJar(ctx, filepath.Join(t.TempDir(), "session.db"), session.WithJarClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(func() { _ = jar.Close() })

	require.NoError(t, jar.Write(ctx, "a=1; Max-Age=60"))
	require.NoError(t, jar.Write(ctx, "b=2"))

	clock.Advance(2 * time.Minute)
	n, err := jar.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := jar.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b=2", got)
}

func TestMigrator_Version(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	require.NoError(t, session.Migrate(path))
	require.NoError(t, session.Migrate(path), "migrating twice is a no-op")

	m, err := session.NewMigrator(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
}

func TestSQLiteJar_PathWithSpaces(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "John Doe", "wings", "session.db")

	jar, err := session.OpenSQLiteJar(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = jar.Close() })

	require.NoError(t, session.NewStore(jar).SetAuthToken(ctx, "spaced", 7))
	assert.FileExists(t, path)

	m, err := session.NewMigrator(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	version, _, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}
