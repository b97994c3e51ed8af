// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package session

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryJar keeps cookies in process memory.
type MemoryJar struct {
	mu      sync.Mutex
	now     func() time.Time
	seq     uint64
	cookies map[cookieKey]memoryCookie
}

type memoryCookie struct {
	jarEntry
	seq uint64
}

// NewMemoryJar creates an empty in-memory jar.
func NewMemoryJar(opts ...JarOption) *MemoryJar {
	o := newJarOptions(opts)
	return &MemoryJar{
		now:     o.now,
		cookies: make(map[cookieKey]memoryCookie),
	}
}

// Write stores, replaces, or deletes a cookie.
func (j *MemoryJar) Write(_ context.Context, setCookie string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	entry, err := parseEntry(setCookie, now)
	if err != nil {
		return err
	}
	if entry.expired(now) {
		delete(j.cookies, entry.key)
		return nil
	}

	stored := memoryCookie{jarEntry: entry}
	if existing, ok := j.cookies[entry.key]; ok {
		stored.seq = existing.seq
	} else {
		j.seq++
		stored.seq = j.seq
	}
	j.cookies[entry.key] = stored
	return nil
}

// Read returns live cookies in insertion order. Expired cookies are dropped.
func (j *MemoryJar) Read(_ context.Context) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	live := make([]memoryCookie, 0, len(j.cookies))
	for key, c := range j.cookies {
		if c.expired(now) {
			delete(j.cookies, key)
			continue
		}
		live = append(live, c)
	}
	sort.Slice(live, func(a, b int) bool { return live[a].seq < live[b].seq })

	entries := make([]jarEntry, len(live))
	for i, c := range live {
		entries[i] = c.jarEntry
	}
	return joinPairs(entries), nil
}

// Len returns the number of stored cookies, including any not yet swept.
func (j *MemoryJar) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.cookies)
}
