// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package verify

import "unicode/utf8"

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

const strengthStep = 25

// StrengthLabel buckets a strength score for display.
type StrengthLabel string

// Strength labels.
const (
	StrengthWeak   StrengthLabel = "Weak"
	StrengthMedium StrengthLabel = "Medium"
	StrengthStrong StrengthLabel = "Strong"
)

// PasswordStrength scores pw in steps of 25: one step each for reaching
// MinPasswordLength, containing an ASCII uppercase letter, containing a
// digit, and containing a character that is neither letter nor digit.
func PasswordStrength(pw string) int {
	var upper, digit, symbol bool
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'a' && r <= 'z':
		default:
			symbol = true
		}
	}

	score := 0
	for _, met := range []bool{utf8.RuneCountInString(pw) >= MinPasswordLength, upper, digit, symbol} {
		if met {
			score += strengthStep
		}
	}
	return score
}

// LabelFor maps a score to its label.
func LabelFor(score int) StrengthLabel {
	switch {
	case score < 50:
		return StrengthWeak
	case score < 75:
		return StrengthMedium
	default:
		return StrengthStrong
	}
}

// Strength is a scored password.
type Strength struct {
	Score int
	Label StrengthLabel
}

// MeasureStrength scores and labels pw.
func MeasureStrength(pw string) Strength {
	score := PasswordStrength(pw)
	return Strength{Score: score, Label: LabelFor(score)}
}
