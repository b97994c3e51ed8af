// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForgotPassword_DemoFlow(t *testing.T) {
	c := newCLI(t)
	c.api.reply("POST /api/auth/forgot-password", http.StatusOK, `{"success":true,"message":"sent"}`)
	c.api.reply("POST /api/auth/reset-password", http.StatusOK, `{"success":true}`)
	stubPasswords(t, "Secret123!", "Secret123!")

	res := c.run("ada@example.com\n000000\n123456\n", "forgot-password", "--demo")
	require.NoError(t, res.err, res.stdout)

	assert.Contains(t, res.stdout, "[success] OTP sent to your email")
	assert.Contains(t, res.stdout, "[error] Invalid OTP. Please try again.")
	assert.Contains(t, res.stdout, "[success] OTP verified successfully")
	assert.Contains(t, res.stdout, "Password strength: Strong (100%)")
	assert.Contains(t, res.stdout, "[success] Password reset successfully")

	reset := c.api.last(t, http.MethodPost, "/api/auth/reset-password").json(t)
	assert.Equal(t, "123456", reset["token"])
	assert.Equal(t, "ada@example.com", reset["email"])
	assert.Equal(t, "Secret123!", reset["password"])
}

func TestForgotPassword_LinkTokenAndServerVerification(t *testing.T) {
	c := newCLI(t)
	c.api.reply("POST /api/auth/forgot-password", http.StatusOK, `{"success":true}`)
	c.api.reply("POST /api/auth/verify-otp", http.StatusOK, `{"success":true}`)
	c.api.reply("POST /api/auth/reset-password", http.StatusOK, `{"success":true}`)
	stubPasswords(t, "short", "short", "Secret123!", "Secret123!")

	res := c.run("424242\n", "forgot-password", "--email", "ada@example.com", "--token", "link-abc")
	require.NoError(t, res.err, res.stdout)
	assert.Contains(t, res.stdout, "[error] Password must be at least 8 characters long")

	verify := c.api.last(t, http.MethodPost, "/api/auth/verify-otp").json(t)
	assert.Equal(t, "424242", verify["otp"])
	assert.Equal(t, "password_reset", verify["purpose"])

	reset := c.api.last(t, http.MethodPost, "/api/auth/reset-password").json(t)
	assert.Equal(t, "link-abc", reset["token"])
}

func TestForgotPassword_ResendDuringCooldown(t *testing.T) {
	c := newCLI(t)
	c.api.reply("POST /api/auth/forgot-password", http.StatusOK, `{"success":true}`)
	c.api.reply("POST /api/auth/reset-password", http.StatusOK, `{"success":true}`)
	stubPasswords(t, "Secret123!", "Secret123!")

	res := c.run("r\n123456\n", "forgot-password", "--email", "ada@example.com", "--demo")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "[warning] Please wait before requesting a new OTP")
}

func TestForgotPassword_UnknownEmailWithFlag(t *testing.T) {
	c := newCLI(t)
	c.api.reply("POST /api/auth/forgot-password", http.StatusNotFound, `{"success":false,"error":"No account with that email"}`)

	res := c.run("", "forgot-password", "--email", "ghost@example.com", "--demo")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "No account with that email")
}

func TestForgotPassword_TooManyWrongCodes(t *testing.T) {
	c := newCLI(t)
	c.api.reply("POST /api/auth/forgot-password", http.StatusOK, `{"success":true}`)

	res := c.run("111111\n222222\n333333\n", "forgot-password", "--email", "ada@example.com", "--demo")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "Invalid OTP")
}

func TestRegister_VerifiedRegistrationSignsIn(t *testing.T) {
	c := newCLI(t)
	c.api.reply("POST /api/auth/register", http.StatusCreated, `{"success":true}`)
	c.api.handle("POST /api/auth/verify-otp", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		if body["otp"] != "555555" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"success":false,"error":"Wrong code"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"token":"fresh-token"}}`))
	})
	c.api.reply("GET /api/auth/me", http.StatusOK, `{"success":true,"data":{"id":"u2","email":"grace@example.com"}}`)
	stubPasswords(t, "Compiler1!", "Compiler1!")

	res := c.run("Grace Hopper\ngrace@example.com\n123456\n555555\n", "register", "--phone", "+1 555 0100")
	require.NoError(t, res.err, res.stdout)
	assert.Contains(t, res.stdout, "[error] Wrong code")
	assert.Contains(t, res.stdout, "[success] Email verified. Your account is ready.")

	reg := c.api.last(t, http.MethodPost, "/api/auth/register").json(t)
	assert.Equal(t, "Grace Hopper", reg["name"])
	assert.Equal(t, "+1 555 0100", reg["phone"])
	assert.Equal(t, "Compiler1!", reg["confirmPassword"])

	require.NoError(t, c.run("", "whoami").err)
	assert.Equal(t, "Bearer fresh-token", c.api.last(t, http.MethodGet, "/api/auth/me").Header.Get("Authorization"))
}

func TestFormatCountdown(t *testing.T) {
	assert.Equal(t, "10:00", formatCountdown(600))
	assert.Equal(t, "0:59", formatCountdown(59))
	assert.Equal(t, "0:00", formatCountdown(0))
}

func TestForgotPassword_ExtraDigitsAreRejected(t *testing.T) {
	c := newCLI(t)
	c.api.reply("POST /api/auth/forgot-password", http.StatusOK, `{"success":true}`)
	c.api.reply("POST /api/auth/reset-password", http.StatusOK, `{"success":true}`)
	stubPasswords(t, "Secret123!", "Secret123!")

	res := c.run("1234567\n123456\n", "forgot-password", "--email", "ada@example.com", "--demo")
	require.NoError(t, res.err, res.stdout)
	assert.Contains(t, res.stdout, "[error] Please enter the complete 6-digit OTP")
	assert.Equal(t, 1, strings.Count(res.stdout, "[success] OTP verified successfully"))
}
