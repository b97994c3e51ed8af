// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

//go:build integration

package workflow_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
)

// fakeAPI is an in-memory admin API covering the auth endpoints.
type fakeAPI struct {
	server *httptest.Server

	mu         sync.Mutex
	code       string
	sent       map[string]int
	passwords  map[string]string
	authHeader []string
}

func newFakeAPI() *fakeAPI {
	f := &fakeAPI{
		code:      "123456",
		sent:      map[string]int{},
		passwords: map[string]string{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/forgot-password", f.forgotPassword)
	mux.HandleFunc("POST /api/auth/register", f.register)
	mux.HandleFunc("POST /api/auth/resend-otp", f.resendOTP)
	mux.HandleFunc("POST /api/auth/verify-otp", f.verifyOTP)
	mux.HandleFunc("POST /api/auth/reset-password", f.resetPassword)
	mux.HandleFunc("GET /api/auth/me", f.me)
	f.server = httptest.NewServer(f.record(mux))
	return f
}

func (f *fakeAPI) URL() string {
	return f.server.URL + "/api"
}

func (f *fakeAPI) Close() {
	f.server.Close()
}

func (f *fakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.authHeader = append(f.authHeader, r.Header.Get("Authorization"))
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (f *fakeAPI) sentTo(email string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[email]
}

func (f *fakeAPI) password(email string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.passwords[email]
}

func (f *fakeAPI) lastAuthHeader() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.authHeader) == 0 {
		return ""
	}
	return f.authHeader[len(f.authHeader)-1]
}

func decode(r *http.Request) map[string]string {
	var body map[string]string
	_ = json.NewDecoder(r.Body).Decode(&body)
	return body
}

func reply(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (f *fakeAPI) forgotPassword(w http.ResponseWriter, r *http.Request) {
	body := decode(r)
	f.mu.Lock()
	f.sent[body["email"]]++
	f.mu.Unlock()
	reply(w, http.StatusOK, map[string]any{"success": true, "message": "OTP sent"})
}

func (f *fakeAPI) register(w http.ResponseWriter, r *http.Request) {
	body := decode(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, taken := f.passwords[body["email"]]; taken {
		reply(w, http.StatusConflict, map[string]any{"success": false, "error": "Email already registered"})
		return
	}
	f.passwords[body["email"]] = body["password"]
	f.sent[body["email"]]++
	reply(w, http.StatusCreated, map[string]any{"success": true})
}

func (f *fakeAPI) resendOTP(w http.ResponseWriter, r *http.Request) {
	f.forgotPassword(w, r)
}

func (f *fakeAPI) verifyOTP(w http.ResponseWriter, r *http.Request) {
	body := decode(r)
	if body["otp"] != f.code {
		reply(w, http.StatusBadRequest, map[string]any{"success": false, "error": "Invalid or expired code"})
		return
	}
	data := map[string]any{}
	if body["purpose"] == "registration" {
		data["token"] = "session-" + body["email"]
	}
	reply(w, http.StatusOK, map[string]any{"success": true, "data": data})
}

func (f *fakeAPI) resetPassword(w http.ResponseWriter, r *http.Request) {
	body := decode(r)
	if body["token"] != f.code {
		reply(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "Reset token expired"})
		return
	}
	f.mu.Lock()
	f.passwords[body["email"]] = body["password"]
	f.mu.Unlock()
	reply(w, http.StatusOK, map[string]any{"success": true, "message": "Password updated"})
}

func (f *fakeAPI) me(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") == "" {
		reply(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "Not authenticated"})
		return
	}
	reply(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    map[string]any{"id": "u1", "email": "ada@example.com", "role": "admin"},
	})
}
