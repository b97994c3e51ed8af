// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

// Package verify implements the password reset and registration workflows:
// six-slot one-time code entry, the code expiry and resend countdowns,
// password strength scoring, and schema checks on the payloads sent to the
// server. Validation failures are reported as Notifications, not errors.
package verify
