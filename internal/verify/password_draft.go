// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package verify

import "sync"

// passwordDraft holds what is derived from the password pair being entered.
// The passwords themselves are not kept.
type passwordDraft struct {
	mu       sync.Mutex
	strength Strength
	match    bool
}

// MeasurePasswords records the strength of password and whether confirm
// matches it. An empty confirmation never matches.
func (d *passwordDraft) MeasurePasswords(password, confirm string) (Strength, bool) {
	strength := MeasureStrength(password)
	match := confirm != "" && password == confirm

	d.mu.Lock()
	d.strength = strength
	d.match = match
	d.mu.Unlock()
	return strength, match
}

// DraftStrength returns the strength from the last MeasurePasswords call.
func (d *passwordDraft) DraftStrength() Strength {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.strength
}

// DraftMatches reports whether the last measured pair matched.
func (d *passwordDraft) DraftMatches() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.match
}
