// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package services

import (
	"context"
	"log/slog"

	"github.com/samber/oops"

	"github.com/personalwings/wings-admin/internal/apiclient"
	"github.com/personalwings/wings-admin/internal/session"
)

// Auth endpoint paths, relative to the API base URL.
const (
	PathLogin          = "/auth/login"
	PathRegister       = "/auth/register"
	PathLogout         = "/auth/logout"
	PathMe             = "/auth/me"
	PathForgotPassword = "/auth/forgot-password"
	PathVerifyOTP      = "/auth/verify-otp"
	PathResendOTP      = "/auth/resend-otp"
	PathResetPassword  = "/auth/reset-password"
)

// OTP purposes sent with verify and resend calls.
const (
	PurposeRegistration  = "registration"
	PurposePasswordReset = "password_reset"
)

// Credentials are the login form fields.
type Credentials struct {
	Email    string `json:"email" jsonschema:"format=email"`
	Password string `json:"password" jsonschema:"minLength=1"`
}

// RegisterRequest is the registration form payload.
type RegisterRequest struct {
	Name            string `json:"name" jsonschema:"minLength=1"`
	Email           string `json:"email" jsonschema:"format=email"`
	Phone           string `json:"phone,omitempty"`
	Password        string `json:"password" jsonschema:"minLength=8"`
	ConfirmPassword string `json:"confirmPassword" jsonschema:"minLength=8"`
}

// VerifyOTPRequest submits a one-time code.
type VerifyOTPRequest struct {
	Email   string `json:"email" jsonschema:"format=email"`
	OTP     string `json:"otp" jsonschema:"pattern=^[0-9]{6}$"`
	Purpose string `json:"purpose,omitempty" jsonschema:"enum=registration,enum=password_reset"`
}

// ResendOTPRequest asks for a fresh one-time code.
type ResendOTPRequest struct {
	Email   string `json:"email" jsonschema:"format=email"`
	Purpose string `json:"purpose,omitempty" jsonschema:"enum=registration,enum=password_reset"`
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" jsonschema:"format=email"`
}

// ResetPasswordRequest sets a new password with a reset token.
type ResetPasswordRequest struct {
	Email           string `json:"email,omitempty" jsonschema:"format=email"`
	Token           string `json:"token" jsonschema:"minLength=1"`
	Password        string `json:"password" jsonschema:"minLength=8"`
	ConfirmPassword string `json:"confirmPassword" jsonschema:"minLength=8"`
}

// User is an authenticated account.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// AuthPayload is returned by login and by verified registration.
type AuthPayload struct {
	Token string `json:"token,omitempty"`
	User  *User  `json:"user,omitempty"`
}

// AuthService calls the authentication endpoints and keeps the session token
// in step with them.
type AuthService struct {
	api    API
	tokens session.TokenStore
	logger *slog.Logger
}

// NewAuthService creates an AuthService. logger may be nil.
func NewAuthService(api API, tokens session.TokenStore, logger *slog.Logger) (*AuthService, error) {
	if api == nil {
		return nil, oops.Code("SERVICE_INVALID_ARGUMENT").Errorf("api client is required")
	}
	if tokens == nil {
		return nil, oops.Code("SERVICE_INVALID_ARGUMENT").Errorf("token store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{api: api, tokens: tokens, logger: logger}, nil
}

// Login authenticates and stores the returned token.
func (s *AuthService) Login(ctx context.Context, creds Credentials) Result[AuthPayload] {
	resp, err := s.api.Post(ctx, PathLogin, creds)
	res := settle[AuthPayload](resp, err, decoding{depth: apiclient.DepthData}, "Login failed")
	if !res.Success {
		return res
	}
	if res.Data.Token == "" {
		return fail[AuthPayload](oops.Code("SERVICE_NO_TOKEN").Errorf("login response carried no token"), "Login failed")
	}
	if err := s.tokens.SetAuthToken(ctx, res.Data.Token, session.DefaultAuthTokenDays); err != nil {
		return fail[AuthPayload](err, "Could not store session")
	}
	s.logger.DebugContext(ctx, "session token stored", "email", creds.Email)
	return res
}

// Register submits a new account. The server answers by sending a
// verification code.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) Result[Ack] {
	resp, err := s.api.Post(ctx, PathRegister, req)
	return settle[Ack](resp, err, decoding{depth: apiclient.DepthRaw}, "Registration failed")
}

// Logout ends the server session. The local token is cleared even when the
// server call fails.
func (s *AuthService) Logout(ctx context.Context) Result[Ack] {
	resp, err := s.api.Post(ctx, PathLogout, nil)
	res := settle[Ack](resp, err, decoding{depth: apiclient.DepthRaw}, "Logout failed")

	if clearErr := s.tokens.RemoveAuthToken(ctx); clearErr != nil {
		s.logger.WarnContext(ctx, "failed to clear session token", "error", clearErr)
		if res.Success {
			return fail[Ack](clearErr, "Could not clear session")
		}
	}
	return res
}

// Me returns the authenticated user.
func (s *AuthService) Me(ctx context.Context) Result[User] {
	resp, err := s.api.Get(ctx, PathMe)
	return settle[User](resp, err, decoding{depth: apiclient.DepthData}, "Failed to load profile")
}

// ForgotPassword asks the server to email a reset code.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) Result[Ack] {
	resp, err := s.api.Post(ctx, PathForgotPassword, ForgotPasswordRequest{Email: email})
	return settle[Ack](resp, err, decoding{depth: apiclient.DepthRaw}, "Failed to send OTP")
}

// VerifyOTP checks a one-time code. When the server answers with a token
// (verified registration) it is stored as the session.
func (s *AuthService) VerifyOTP(ctx context.Context, req VerifyOTPRequest) Result[AuthPayload] {
	resp, err := s.api.Post(ctx, PathVerifyOTP, req)
	res := settle[AuthPayload](resp, err, decoding{depth: apiclient.DepthData, optional: true}, "OTP verification failed")
	if !res.Success || res.Data.Token == "" {
		return res
	}
	if err := s.tokens.SetAuthToken(ctx, res.Data.Token, session.DefaultAuthTokenDays); err != nil {
		return fail[AuthPayload](err, "Could not store session")
	}
	return res
}

// ResendOTP asks for a fresh code.
func (s *AuthService) ResendOTP(ctx context.Context, req ResendOTPRequest) Result[Ack] {
	resp, err := s.api.Post(ctx, PathResendOTP, req)
	return settle[Ack](resp, err, decoding{depth: apiclient.DepthRaw}, "Failed to resend OTP")
}

// ResetPassword sets a new password.
func (s *AuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) Result[Ack] {
	resp, err := s.api.Post(ctx, PathResetPassword, req)
	return settle[Ack](resp, err, decoding{depth: apiclient.DepthRaw}, "Failed to reset password")
}
