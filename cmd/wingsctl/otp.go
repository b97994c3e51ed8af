// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

package main

import (
	"context"
	"fmt"

	"github.com/samber/oops"

	"github.com/personalwings/wings-admin/internal/verify"
)

// resendCommand asks for a new code at the OTP prompt.
const resendCommand = "r"

// maxAttempts bounds how often a rejected step is prompted again.
const maxAttempts = 3

// otpStage is the code entry step both workflows share.
type otpStage interface {
	Step() verify.Step
	ClearInput()
	Paste(code string)
	SubmitOTP(ctx context.Context) verify.Notification
	Resend(ctx context.Context) verify.Notification
	ExpiresIn() int
}

// collectOTP prompts for codes until the flow leaves the OTP step. Resend
// requests do not count as attempts.
func collectOTP(ctx context.Context, p *prompter, flow otpStage) error {
	attempts := 0
	for flow.Step() == verify.StepOTP {
		label := fmt.Sprintf("Code (expires in %s, %q to resend)", formatCountdown(flow.ExpiresIn()), resendCommand)
		line, err := p.Line(label)
		if err != nil {
			return err
		}
		if line == resendCommand {
			p.Notify(flow.Resend(ctx))
			continue
		}
		flow.ClearInput()
		flow.Paste(line)
		n := flow.SubmitOTP(ctx)
		p.Notify(n)
		attempts++
		if n.Failed() && attempts == maxAttempts {
			return oops.Code("CLI_OTP_FAILED").Errorf("%s", n.Message)
		}
	}
	return nil
}

// strengthNotice reports a password strength while the user types.
func strengthNotice(s verify.Strength) verify.Notification {
	return verify.Notification{
		Message:  fmt.Sprintf("Password strength: %s (%d%%)", s.Label, s.Score),
		Severity: verify.SeverityInfo,
	}
}

// formatCountdown renders seconds as m:ss.
func formatCountdown(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
