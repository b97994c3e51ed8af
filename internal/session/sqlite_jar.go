// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package session

import (
	"context"
	"database/sql"
	"path/filepath"
	"time"

	"github.com/samber/oops"
	// Register the pure-Go "sqlite" database/sql driver.
	_ "modernc.org/sqlite"

	"github.com/personalwings/wings-admin/internal/xdg"
)

// SQLiteJar persists cookies in a SQLite database so the session survives
// between invocations.
type SQLiteJar struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLiteJar opens (creating and migrating if needed) the jar at path.
func OpenSQLiteJar(ctx context.Context, path string, opts ...JarOption) (*SQLiteJar, error) {
	if err := xdg.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, err
	}
	if err := Migrate(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, oops.Code(CodeJarFailed).With("path", path).Wrapf(err, "open session database")
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, oops.Code(CodeJarFailed).With("path", path).Wrapf(err, "ping session database")
	}

	o := newJarOptions(opts)
	return &SQLiteJar{db: db, now: o.now}, nil
}

// Write stores, replaces, or deletes a cookie.
func (j *SQLiteJar) Write(ctx context.Context, setCookie string) error {
	now := j.now()
	entry, err := parseEntry(setCookie, now)
	if err != nil {
		return err
	}

	if entry.expired(now) {
		_, err := j.db.ExecContext(ctx,
			`DELETE FROM cookies WHERE name = ? AND domain = ? AND path = ?`,
			entry.key.name, entry.key.domain, entry.key.path)
		if err != nil {
			return oops.Code(CodeJarFailed).With("operation", "delete").With("name", entry.key.name).Wrap(err)
		}
		return nil
	}

	var expiresAt sql.NullInt64
	if !entry.expires.IsZero() {
		expiresAt = sql.NullInt64{Int64: entry.expires.UnixMilli(), Valid: true}
	}
	_, err = j.db.ExecContext(ctx, `
		INSERT INTO cookies (name, domain, path, value, expires_at, secure, same_site)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (name, domain, path) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			secure = excluded.secure,
			same_site = excluded.same_site`,
		entry.key.name, entry.key.domain, entry.key.path, entry.value,
		expiresAt, entry.secure, int(entry.sameSite))
	if err != nil {
		return oops.Code(CodeJarFailed).With("operation", "upsert").With("name", entry.key.name).Wrap(err)
	}
	return nil
}

// Read returns live cookies in insertion order.
func (j *SQLiteJar) Read(ctx context.Context) (string, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT name, value FROM cookies
		WHERE expires_at IS NULL OR expires_at > ?
		ORDER BY rowid`, j.now().UnixMilli())
	if err != nil {
		return "", oops.Code(CodeJarFailed).With("operation", "read").Wrap(err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var entries []jarEntry
	for rows.Next() {
		var e jarEntry
		if err := rows.Scan(&e.key.name, &e.value); err != nil {
			return "", oops.Code(CodeJarFailed).With("operation", "scan").Wrap(err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return "", oops.Code(CodeJarFailed).With("operation", "read").Wrap(err)
	}
	return joinPairs(entries), nil
}

// DeleteExpired removes cookies whose expiry has passed and returns how many
// were removed.
func (j *SQLiteJar) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := j.db.ExecContext(ctx,
		`DELETE FROM cookies WHERE expires_at IS NOT NULL AND expires_at <= ?`, j.now().UnixMilli())
	if err != nil {
		return 0, oops.Code(CodeJarFailed).With("operation", "delete_expired").Wrap(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, oops.Code(CodeJarFailed).With("operation", "delete_expired").Wrap(err)
	}
	return n, nil
}

// Close closes the database.
func (j *SQLiteJar) Close() error {
	if err := j.db.Close(); err != nil {
		return oops.Code(CodeJarFailed).With("operation", "close").Wrap(err)
	}
	return nil
}
