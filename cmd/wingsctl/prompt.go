// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/term"

	"github.com/personalwings/wings-admin/internal/verify"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// errInputClosed is returned when stdin ends before a prompt is answered.
var errInputClosed = errors.New("input closed")

// prompter reads answers from in and writes prompts and notices to out.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// Line prints label and reads one trimmed line. A final line without a
// newline is still returned.
func (p *prompter) Line(label string) (string, error) {
	if _, err := fmt.Fprintf(p.out, "%s: ", label); err != nil {
		return "", oops.Code("CLI_PROMPT_FAILED").Wrap(err)
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", errInputClosed
		}
		return "", oops.Code("CLI_PROMPT_FAILED").Wrap(err)
	}
	return strings.TrimSpace(line), nil
}

// LineDefault is Line that skips the prompt when value is already set.
func (p *prompter) LineDefault(label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	return p.Line(label)
}

// Password reads a secret from the terminal without echo.
func (p *prompter) Password(label string) (string, error) {
	if _, err := fmt.Fprintf(p.out, "%s: ", label); err != nil {
		return "", oops.Code("CLI_PROMPT_FAILED").Wrap(err)
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	_, _ = fmt.Fprintln(p.out)
	if err != nil {
		return "", oops.Code("CLI_PROMPT_FAILED").Wrapf(err, "read password")
	}
	return string(pw), nil
}

// Notify prints a workflow notification.
func (p *prompter) Notify(n verify.Notification) {
	_, _ = fmt.Fprintf(p.out, "[%s] %s\n", n.Severity, n.Message)
}
