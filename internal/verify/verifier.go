// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package verify

import (
	"context"
	"errors"

	"github.com/samber/oops"

	"github.com/personalwings/wings-admin/internal/services"
)

// DemoOTPCode is the code DemoVerifier accepts by default.
const DemoOTPCode = "123456"

// ErrInvalidOTP is returned when a code is rejected.
var ErrInvalidOTP = errors.New("invalid OTP")

// OTPVerifier checks a one-time code for email.
type OTPVerifier interface {
	VerifyOTP(ctx context.Context, email, code string) error
}

// DemoVerifier accepts a single fixed code without calling the server.
type DemoVerifier struct {
	// Code defaults to DemoOTPCode.
	Code string
}

// VerifyOTP implements OTPVerifier.
func (d DemoVerifier) VerifyOTP(_ context.Context, _, code string) error {
	want := d.Code
	if want == "" {
		want = DemoOTPCode
	}
	if code != want {
		return ErrInvalidOTP
	}
	return nil
}

// OTPService is the server call ServiceVerifier delegates to.
type OTPService interface {
	VerifyOTP(ctx context.Context, req services.VerifyOTPRequest) services.Result[services.AuthPayload]
}

// ServiceVerifier checks codes against the API.
type ServiceVerifier struct {
	Service OTPService
	Purpose string
}

// RejectedError carries the server's reason for refusing a code.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return e.Reason
}

func (e *RejectedError) Unwrap() error {
	return ErrInvalidOTP
}

// VerifyOTP implements OTPVerifier. A server rejection is a *RejectedError,
// which matches ErrInvalidOTP.
func (v ServiceVerifier) VerifyOTP(ctx context.Context, email, code string) error {
	res := v.Service.VerifyOTP(ctx, services.VerifyOTPRequest{Email: email, OTP: code, Purpose: v.Purpose})
	if res.Success {
		return nil
	}
	return oops.Code("VERIFY_OTP_REJECTED").
		With("purpose", v.Purpose).
		Wrap(&RejectedError{Reason: res.Error})
}

// rejectionMessage picks the message shown for a failed verification.
func rejectionMessage(err error) string {
	var rejected *RejectedError
	if errors.As(err, &rejected) && rejected.Reason != "" {
		return rejected.Reason
	}
	return msgOTPInvalid
}
