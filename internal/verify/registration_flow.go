// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package verify

import (
	"context"
	"strings"
	"sync"

	"github.com/samber/oops"

	"github.com/personalwings/wings-admin/internal/services"
)

// RegistrationBackend is the server side of account registration.
type RegistrationBackend interface {
	Register(ctx context.Context, req services.RegisterRequest) services.Result[services.Ack]
	ResendOTP(ctx context.Context, req services.ResendOTPRequest) services.Result[services.Ack]
}

var _ RegistrationBackend = (*services.AuthService)(nil)

// RegistrationFlow walks a new account from details -> otp -> done.
type RegistrationFlow struct {
	*otpSession
	passwordDraft

	backend  RegistrationBackend
	verifier OTPVerifier

	mu    sync.Mutex
	step  Step
	email string

	closeOnce sync.Once
}

// NewRegistrationFlow returns a flow on the details step. A ServiceVerifier
// with services.PurposeRegistration stores the session token on success.
func NewRegistrationFlow(backend RegistrationBackend, verifier OTPVerifier, opts Options) (*RegistrationFlow, error) {
	if backend == nil {
		return nil, oops.Code("VERIFY_INVALID_FLOW").Errorf("registration backend is required")
	}
	if verifier == nil {
		return nil, oops.Code("VERIFY_INVALID_FLOW").Errorf("otp verifier is required")
	}
	return &RegistrationFlow{
		otpSession: newOTPSession(opts.withDefaults()),
		backend:    backend,
		verifier:   verifier,
		step:       StepDetails,
	}, nil
}

// Step returns the current step.
func (f *RegistrationFlow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Email returns the registered address.
func (f *RegistrationFlow) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

// SubmitDetails registers the account and starts both countdowns.
func (f *RegistrationFlow) SubmitDetails(ctx context.Context, req services.RegisterRequest) Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepDetails {
		return notifyError(msgWrongStep)
	}
	f.MeasurePasswords(req.Password, req.ConfirmPassword)
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Name == "" || req.Email == "" {
		return notifyError(msgFieldsRequired)
	}
	if !validEmail(req.Email) {
		return notifyError(msgEmailInvalid)
	}
	if n, ok := checkPasswords(req.Password, req.ConfirmPassword); !ok {
		return n
	}
	if err := ValidatePayload(req); err != nil {
		logInvalid(ctx, f.opts.Logger, err)
		return notifyError(msgInvalidSubmission)
	}

	res := f.backend.Register(ctx, req)
	if !res.Success {
		f.opts.Logger.WarnContext(ctx, "registration failed", "email", req.Email, "error", res.Err)
		return notifyError(orDefault(res.Error, msgRegisterFailed))
	}

	f.email = req.Email
	f.step = StepOTP
	f.startTimers()
	return notifySuccess(msgRegistered)
}

// SubmitOTP verifies the entered code and completes registration.
func (f *RegistrationFlow) SubmitOTP(ctx context.Context) Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepOTP {
		return notifyError(msgWrongStep)
	}
	if _, n, ok := f.verify(ctx, f.verifier, f.email); !ok {
		return n
	}
	f.step = StepDone
	return notifySuccess(msgRegistrationDone)
}

// Resend requests a new code once the cooldown has run out.
func (f *RegistrationFlow) Resend(ctx context.Context) Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepOTP {
		return notifyError(msgWrongStep)
	}
	return f.requestResend(ctx, f.backend, f.email, services.PurposeRegistration)
}

// Close stops both countdowns. It is safe to call more than once.
func (f *RegistrationFlow) Close() {
	f.closeOnce.Do(f.close)
}
