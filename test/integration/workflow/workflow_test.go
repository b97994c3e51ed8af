// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Personal Wings Contributors

//go:build integration

package workflow_test

import (
	"context"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/personalwings/wings-admin/internal/apiclient"
	"github.com/personalwings/wings-admin/internal/services"
	"github.com/personalwings/wings-admin/internal/session"
	"github.com/personalwings/wings-admin/internal/verify"
)

var _ = Describe("Verification workflows", func() {
	var (
		ctx   context.Context
		api   *fakeAPI
		jar   *session.SQLiteJar
		store *session.Store
		auth  *services.AuthService
	)

	BeforeEach(func() {
		ctx = context.Background()
		api = newFakeAPI()
		DeferCleanup(api.Close)

		var err error
		jar, err = session.OpenSQLiteJar(ctx, filepath.Join(GinkgoT().TempDir(), "session.db"))
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(jar.Close)
		store = session.NewStore(jar)

		client, err := apiclient.New(apiclient.Config{BaseURL: api.URL()}, apiclient.WithTokenSource(store))
		Expect(err).NotTo(HaveOccurred())
		auth, err = services.NewAuthService(client, store, nil)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("password reset", func() {
		var flow *verify.PasswordResetFlow

		BeforeEach(func() {
			var err error
			flow, err = verify.NewPasswordResetFlow(auth, verify.DemoVerifier{}, verify.Options{TickInterval: time.Hour})
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(flow.Close)
		})

		It("moves from email to code to new password", func() {
			n := flow.SubmitEmail(ctx, "ada@example.com")
			Expect(n.Failed()).To(BeFalse())
			Expect(flow.Step()).To(Equal(verify.StepOTP))
			Expect(api.sentTo("ada@example.com")).To(Equal(1))
			Expect(flow.ExpiresIn()).To(Equal(verify.DefaultExpirySeconds))
			Expect(flow.CanResend()).To(BeFalse())

			flow.Paste("000000")
			n = flow.SubmitOTP(ctx)
			Expect(n.Severity).To(Equal(verify.SeverityError))
			Expect(flow.Slots()).To(HaveEach(BeEmpty()))
			Expect(flow.Focus()).To(Equal(0))

			flow.Paste(verify.DemoOTPCode)
			Expect(flow.SubmitOTP(ctx).Failed()).To(BeFalse())
			Expect(flow.Step()).To(Equal(verify.StepReset))

			Expect(flow.SubmitReset(ctx, "short", "short").Failed()).To(BeTrue())
			n = flow.SubmitReset(ctx, "Secret123!", "Secret123!")
			Expect(n.Severity).To(Equal(verify.SeveritySuccess))
			Expect(flow.Step()).To(Equal(verify.StepDone))
			Expect(api.password("ada@example.com")).To(Equal("Secret123!"))
		})

		It("surfaces the server's rejection of a bad link token", func() {
			linked, err := verify.NewPasswordResetFlow(auth, verify.DemoVerifier{}, verify.Options{
				TickInterval: time.Hour,
				ResetToken:   "stale-link",
			})
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(linked.Close)

			Expect(linked.SubmitEmail(ctx, "ada@example.com").Failed()).To(BeFalse())
			linked.Paste(verify.DemoOTPCode)
			Expect(linked.SubmitOTP(ctx).Failed()).To(BeFalse())

			n := linked.SubmitReset(ctx, "Secret123!", "Secret123!")
			Expect(n).To(Equal(verify.Notification{Message: "Reset token expired", Severity: verify.SeverityError}))
			Expect(linked.Step()).To(Equal(verify.StepReset))
		})
	})

	Describe("registration", func() {
		It("stores the session token once the code is verified", func() {
			verifier := verify.ServiceVerifier{Service: auth, Purpose: services.PurposeRegistration}
			flow, err := verify.NewRegistrationFlow(auth, verifier, verify.Options{TickInterval: time.Hour})
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(flow.Close)

			n := flow.SubmitDetails(ctx, services.RegisterRequest{
				Name:            "Ada Lovelace",
				Email:           "ada@example.com",
				Password:        "Analytical1!",
				ConfirmPassword: "Analytical1!",
			})
			Expect(n.Failed()).To(BeFalse())

			flow.Paste("999999")
			n = flow.SubmitOTP(ctx)
			Expect(n.Message).To(Equal("Invalid or expired code"))
			_, ok, err := store.AuthToken(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())

			flow.Paste("123456")
			Expect(flow.SubmitOTP(ctx).Failed()).To(BeFalse())
			Expect(flow.Step()).To(Equal(verify.StepDone))

			token, ok, err := store.AuthToken(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(token).To(Equal("session-ada@example.com"))

			me := auth.Me(ctx)
			Expect(me.Success).To(BeTrue())
			Expect(me.Data.Role).To(Equal("admin"))
			Expect(api.lastAuthHeader()).To(Equal("Bearer session-ada@example.com"))
		})

		It("reports a duplicate account", func() {
			flow, err := verify.NewRegistrationFlow(auth, verify.DemoVerifier{}, verify.Options{TickInterval: time.Hour})
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(flow.Close)

			req := services.RegisterRequest{
				Name:            "Ada",
				Email:           "ada@example.com",
				Password:        "Analytical1!",
				ConfirmPassword: "Analytical1!",
			}
			Expect(auth.Register(ctx, req).Success).To(BeTrue())

			n := flow.SubmitDetails(ctx, req)
			Expect(n.Message).To(Equal("Email already registered"))
			Expect(flow.Step()).To(Equal(verify.StepDetails))
		})
	})
})
