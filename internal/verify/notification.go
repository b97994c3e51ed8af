// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package verify

// Severity classifies a Notification.
type Severity string

// Notification severities.
const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notification is user-facing feedback from a workflow step.
type Notification struct {
	Message  string
	Severity Severity
}

// Failed reports whether the step was rejected.
func (n Notification) Failed() bool {
	return n.Severity == SeverityError || n.Severity == SeverityWarning
}

func notifySuccess(msg string) Notification {
	return Notification{Message: msg, Severity: SeveritySuccess}
}

func notifyError(msg string) Notification {
	return Notification{Message: msg, Severity: SeverityError}
}

func notifyWarning(msg string) Notification {
	return Notification{Message: msg, Severity: SeverityWarning}
}

// User-facing messages.
const (
	msgEmailRequired     = "Please enter your email address"
	msgEmailInvalid      = "Please enter a valid email address"
	msgOTPSent           = "OTP sent to your email"
	msgOTPSendFailed     = "Failed to send OTP"
	msgOTPIncomplete     = "Please enter the complete 6-digit OTP"
	msgOTPExpired        = "OTP has expired. Please request a new one."
	msgOTPVerified       = "OTP verified successfully"
	msgOTPInvalid        = "Invalid OTP. Please try again."
	msgOTPResent         = "A new OTP has been sent to your email"
	msgOTPResendFailed   = "Failed to resend OTP"
	msgResendWait        = "Please wait before requesting a new OTP"
	msgFieldsRequired    = "Please fill in all fields"
	msgPasswordTooShort  = "Password must be at least 8 characters long"
	msgPasswordMismatch  = "Passwords do not match"
	msgResetSucceeded    = "Password reset successfully"
	msgResetFailed       = "Failed to reset password"
	msgRegistered        = "Registration successful. Please verify your email."
	msgRegisterFailed    = "Registration failed"
	msgRegistrationDone  = "Email verified. Your account is ready."
	msgWrongStep         = "This step is not available right now"
	msgInvalidSubmission = "Some fields are invalid"
)
