// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

// Package session stores the API session credential as a cookie.
//
// A Store reads and writes named cookies through a Jar. Jars behave like a
// browser cookie context: writes take a formatted Set-Cookie line, reads
// return the "name=value; name=value" string of every live cookie, and a
// cookie written with an expiry in the past is deleted. MemoryJar keeps
// cookies for the lifetime of the process; SQLiteJar persists them between
// wingsctl invocations.
//
// Removal only affects a cookie whose path and domain match the ones it was
// set with. A Remove with different options leaves the original in place.
package session
