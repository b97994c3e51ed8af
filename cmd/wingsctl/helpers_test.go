// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// testAPI is a fake admin API. Routes are keyed "METHOD /api/path".
type testAPI struct {
	server *httptest.Server

	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []recordedRequest
}

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	api := &testAPI{routes: map[string]http.HandlerFunc{}}
	api.server = httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(api.server.Close)
	return api
}

func (a *testAPI) URL() string {
	return a.server.URL + "/api"
}

func (a *testAPI) handle(route string, h http.HandlerFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.routes[route] = h
}

// reply registers a route answering with a fixed status and JSON body.
func (a *testAPI) reply(route string, status int, body string) {
	a.handle(route, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func (a *testAPI) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))

	a.mu.Lock()
	a.requests = append(a.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   body,
	})
	h, ok := a.routes[r.Method+" "+r.URL.Path]
	a.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"success":false,"error":"not found"}`)
		return
	}
	h(w, r)
}

// last returns the most recent request to path.
func (a *testAPI) last(t *testing.T, method, path string) recordedRequest {
	t.Helper()
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := len(a.requests) - 1; i >= 0; i-- {
		if a.requests[i].Method == method && a.requests[i].Path == path {
			return a.requests[i]
		}
	}
	t.Fatalf("no %s %s request recorded", method, path)
	return recordedRequest{}
}

func (r recordedRequest) json(t *testing.T) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(r.Body, &body))
	return body
}

// cli runs wingsctl commands against a testAPI with isolated state.
type cli struct {
	t         *testing.T
	api       *testAPI
	sessionDB string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	for _, key := range []string{"WINGS_API_URL", "WINGS_API_TIMEOUT", "WINGS_LOG_FORMAT", "WINGS_LOG_LEVEL", "WINGS_SESSION_DB", "WINGS_METRICS_FILE"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return &cli{t: t, api: newTestAPI(t), sessionDB: filepath.Join(dir, "session.db")}
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// run executes args with stdin as the answers to line prompts.
func (c *cli) run(stdin string, args ...string) cliResult {
	c.t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--api-url", c.api.URL(), "--session-db", c.sessionDB}, args...))
	err := cmd.Execute()
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// stubPasswords makes password prompts answer with pws in order.
func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	original := readPassword
	t.Cleanup(func() { readPassword = original })

	var mu sync.Mutex
	readPassword = func(int) ([]byte, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(pws) == 0 {
			return nil, errors.New("no password stubbed")
		}
		pw := pws[0]
		pws = pws[1:]
		return []byte(pw), nil
	}
}
