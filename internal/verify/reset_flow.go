// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package verify

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/samber/oops"

	"github.com/personalwings/wings-admin/internal/services"
)

// ResetBackend is the server side of the password reset workflow.
type ResetBackend interface {
	ForgotPassword(ctx context.Context, email string) services.Result[services.Ack]
	ResendOTP(ctx context.Context, req services.ResendOTPRequest) services.Result[services.Ack]
	ResetPassword(ctx context.Context, req services.ResetPasswordRequest) services.Result[services.Ack]
}

var _ ResetBackend = (*services.AuthService)(nil)

// PasswordResetFlow walks a user from forgot -> otp -> reset -> done.
// Steps only move forward; a rejected code keeps the flow on otp.
type PasswordResetFlow struct {
	*otpSession
	passwordDraft

	backend  ResetBackend
	verifier OTPVerifier

	mu    sync.Mutex
	step  Step
	email string
	code  string

	closeOnce sync.Once
}

// NewPasswordResetFlow returns a flow on the forgot step.
func NewPasswordResetFlow(backend ResetBackend, verifier OTPVerifier, opts Options) (*PasswordResetFlow, error) {
	if backend == nil {
		return nil, oops.Code("VERIFY_INVALID_FLOW").Errorf("reset backend is required")
	}
	if verifier == nil {
		return nil, oops.Code("VERIFY_INVALID_FLOW").Errorf("otp verifier is required")
	}
	return &PasswordResetFlow{
		otpSession: newOTPSession(opts.withDefaults()),
		backend:    backend,
		verifier:   verifier,
		step:       StepForgot,
	}, nil
}

// Step returns the current step.
func (f *PasswordResetFlow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Email returns the address a code was sent to.
func (f *PasswordResetFlow) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

// SubmitEmail requests a reset code for email and starts both countdowns.
func (f *PasswordResetFlow) SubmitEmail(ctx context.Context, email string) Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepForgot {
		return notifyError(msgWrongStep)
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return notifyError(msgEmailRequired)
	}
	if !validEmail(email) {
		return notifyError(msgEmailInvalid)
	}

	res := f.backend.ForgotPassword(ctx, email)
	if !res.Success {
		f.opts.Logger.WarnContext(ctx, "forgot password failed", "email", email, "error", res.Err)
		return notifyError(orDefault(res.Error, msgOTPSendFailed))
	}

	f.email = email
	f.step = StepOTP
	f.startTimers()
	return notifySuccess(msgOTPSent)
}

// SubmitOTP verifies the entered code.
func (f *PasswordResetFlow) SubmitOTP(ctx context.Context) Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepOTP {
		return notifyError(msgWrongStep)
	}
	code, n, ok := f.verify(ctx, f.verifier, f.email)
	if !ok {
		return n
	}
	f.code = code
	f.step = StepReset
	return n
}

// Resend requests a new code once the cooldown has run out.
func (f *PasswordResetFlow) Resend(ctx context.Context) Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepOTP {
		return notifyError(msgWrongStep)
	}
	return f.requestResend(ctx, f.backend, f.email, services.PurposePasswordReset)
}

// SubmitReset sets the new password.
func (f *PasswordResetFlow) SubmitReset(ctx context.Context, password, confirm string) Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepReset {
		return notifyError(msgWrongStep)
	}
	f.MeasurePasswords(password, confirm)
	if n, ok := checkPasswords(password, confirm); !ok {
		return n
	}

	token := f.opts.ResetToken
	if token == "" {
		token = f.code
	}
	req := services.ResetPasswordRequest{
		Email:           f.email,
		Token:           token,
		Password:        password,
		ConfirmPassword: confirm,
	}
	if err := ValidatePayload(req); err != nil {
		logInvalid(ctx, f.opts.Logger, err)
		return notifyError(msgInvalidSubmission)
	}

	res := f.backend.ResetPassword(ctx, req)
	if !res.Success {
		f.opts.Logger.WarnContext(ctx, "reset password failed", "email", f.email, "error", res.Err)
		return notifyError(orDefault(res.Error, msgResetFailed))
	}
	f.step = StepDone
	return notifySuccess(msgResetSucceeded)
}

// Close stops both countdowns. It is safe to call more than once.
func (f *PasswordResetFlow) Close() {
	f.closeOnce.Do(f.close)
}

func checkPasswords(password, confirm string) (Notification, bool) {
	switch {
	case password == "" || confirm == "":
		return notifyError(msgFieldsRequired), false
	case utf8.RuneCountInString(password) < MinPasswordLength:
		return notifyError(msgPasswordTooShort), false
	case password != confirm:
		return notifyError(msgPasswordMismatch), false
	}
	return Notification{}, true
}
