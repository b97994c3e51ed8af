// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package verify

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"
	"sync"

	"github.com/personalwings/wings-admin/internal/services"
)

// otpResender requests a fresh code.
type otpResender interface {
	ResendOTP(ctx context.Context, req services.ResendOTPRequest) services.Result[services.Ack]
}

// otpSession is the code-entry stage shared by both workflows: the input
// slots plus the expiry and resend countdowns. Callers holding a flow lock
// take it before s.mu.
type otpSession struct {
	opts   Options
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	input  OTPInput
	expiry *Countdown
	resend *Countdown
}

func newOTPSession(opts Options) *otpSession {
	ctx, cancel := context.WithCancel(context.Background())
	return &otpSession{opts: opts, ctx: ctx, cancel: cancel}
}

// TypeDigit enters s into slot i.
func (s *otpSession) TypeDigit(i int, d string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input.Type(i, d)
}

// Backspace clears slot i, or moves focus back when it is already empty.
func (s *otpSession) Backspace(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input.Backspace(i)
}

// Paste fills the slots from a pasted code.
func (s *otpSession) Paste(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input.Paste(code)
}

// ClearInput empties every slot and focuses slot 0.
func (s *otpSession) ClearInput() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input.Clear()
}

// Slots returns the current slot values.
func (s *otpSession) Slots() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input.Slots()
}

// Focus returns the focused slot.
func (s *otpSession) Focus() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input.Focus()
}

// Code returns the entered digits.
func (s *otpSession) Code() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input.Code()
}

// ExpiresIn returns the ticks left before the current code expires.
func (s *otpSession) ExpiresIn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiry.Remaining()
}

// ResendIn returns the ticks left before another code may be requested.
func (s *otpSession) ResendIn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resend.Remaining()
}

// CanResend reports whether the resend cooldown has run out.
func (s *otpSession) CanResend() bool {
	return s.ResendIn() == 0
}

func (s *otpSession) startTimers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiry.Stop()
	s.resend.Stop()
	s.expiry = StartCountdown(s.ctx, s.opts.ExpirySeconds, s.opts.TickInterval, nil)
	s.resend = StartCountdown(s.ctx, s.opts.ResendSeconds, s.opts.TickInterval, nil)
	s.input.Clear()
}

// restartResend resets the cooldown. The expiry countdown keeps running
// unless it has already run out, in which case the new code gets a fresh one.
func (s *otpSession) restartResend() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resend.Stop()
	s.resend = StartCountdown(s.ctx, s.opts.ResendSeconds, s.opts.TickInterval, nil)
	if s.expiry.Remaining() == 0 {
		s.expiry.Stop()
		s.expiry = StartCountdown(s.ctx, s.opts.ExpirySeconds, s.opts.TickInterval, nil)
	}
	s.input.Clear()
}

func (s *otpSession) stopTimers() {
	s.mu.Lock()
	expiry, resend := s.expiry, s.resend
	s.mu.Unlock()
	expiry.Stop()
	resend.Stop()
}

// close cancels the countdown context and waits for both goroutines.
func (s *otpSession) close() {
	s.cancel()
	s.stopTimers()
}

// verify checks the entered code. On rejection the input is cleared.
func (s *otpSession) verify(ctx context.Context, verifier OTPVerifier, email string) (string, Notification, bool) {
	s.mu.Lock()
	complete := s.input.Complete()
	code := s.input.Code()
	expired := s.expiry.Remaining() == 0
	s.mu.Unlock()

	if !complete {
		return "", notifyError(msgOTPIncomplete), false
	}
	if expired {
		return "", notifyError(msgOTPExpired), false
	}

	if err := verifier.VerifyOTP(ctx, email, code); err != nil {
		s.opts.Logger.DebugContext(ctx, "otp rejected", "email", email, "error", err)
		s.mu.Lock()
		s.input.Clear()
		s.mu.Unlock()
		return "", notifyError(rejectionMessage(err)), false
	}

	s.stopTimers()
	return code, notifySuccess(msgOTPVerified), true
}

func (s *otpSession) requestResend(ctx context.Context, backend otpResender, email, purpose string) Notification {
	if !s.CanResend() {
		return notifyWarning(msgResendWait)
	}
	res := backend.ResendOTP(ctx, services.ResendOTPRequest{Email: email, Purpose: purpose})
	if !res.Success {
		s.opts.Logger.WarnContext(ctx, "resend otp failed", "email", email, "error", res.Err)
		return notifyError(orDefault(res.Error, msgOTPResendFailed))
	}
	s.restartResend()
	return notifySuccess(msgOTPResent)
}

func orDefault(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}

// validEmail accepts a bare address such as user@example.com.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email && strings.Contains(email, "@")
}

// logInvalid records why a payload failed its schema.
func logInvalid(ctx context.Context, logger *slog.Logger, err error) {
	logger.DebugContext(ctx, "payload failed validation", "error", err)
}
