// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package verify

import "strings"

// OTPLength is the number of digits in a one-time code.
const OTPLength = 6

// OTPInput is a six-slot code entry with a focus cursor. The zero value is
// empty with focus on slot 0.
type OTPInput struct {
	slots [OTPLength]string
	focus int
	// overflow is set when the last paste held more than OTPLength digits.
	overflow bool
}

// Type enters s into slot i. Input containing a non-digit is ignored. Only
// the last digit is kept, and focus moves to the next slot unless i is the
// last one. Typing an empty string clears the slot without moving focus.
func (o *OTPInput) Type(i int, s string) {
	if i < 0 || i >= OTPLength || !allDigits(s) {
		return
	}
	o.focus = i
	o.overflow = false
	if s == "" {
		o.slots[i] = ""
		return
	}
	o.slots[i] = s[len(s)-1:]
	if i < OTPLength-1 {
		o.focus = i + 1
	}
}

// Backspace clears slot i. On an already empty slot focus moves back one.
func (o *OTPInput) Backspace(i int) {
	if i < 0 || i >= OTPLength {
		return
	}
	o.overflow = false
	if o.slots[i] == "" {
		if i > 0 {
			o.focus = i - 1
		}
		return
	}
	o.slots[i] = ""
	o.focus = i
}

// Paste fills slots from the start with the digits of s, ignoring anything
// else, and focuses the slot after the last one filled. Pasting more than
// OTPLength digits fills the slots but leaves the input incomplete until it
// is edited or cleared.
func (o *OTPInput) Paste(s string) {
	var digits []string
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits = append(digits, string(r))
		}
	}
	if len(digits) == 0 {
		return
	}
	n := copy(o.slots[:], digits)
	o.overflow = len(digits) > OTPLength
	o.focus = min(n, OTPLength-1)
}

// Code returns the slots concatenated.
func (o *OTPInput) Code() string {
	return strings.Join(o.slots[:], "")
}

// Complete reports whether every slot holds a digit and no extra digits
// were pasted.
func (o *OTPInput) Complete() bool {
	if o.overflow {
		return false
	}
	for _, s := range o.slots {
		if s == "" {
			return false
		}
	}
	return true
}

// Clear empties every slot and focuses slot 0.
func (o *OTPInput) Clear() {
	o.slots = [OTPLength]string{}
	o.focus = 0
	o.overflow = false
}

// Focus returns the focused slot.
func (o *OTPInput) Focus() int {
	return o.focus
}

// Slots returns a copy of the slot values.
func (o *OTPInput) Slots() []string {
	out := make([]string, OTPLength)
	copy(out, o.slots[:])
	return out
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
