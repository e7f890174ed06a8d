package services

import (
	"context"
	"sync"
	"time"

	"cinepoll/internal/api"
	cinepoll_errors "cinepoll/pkg/errors"
)

// OTPValidity is how long a dispatched code stays usable.
const OTPValidity = 10 * time.Minute

const otpLength = 6

// PasswordResetFlow walks forgot -> verify -> reset. The countdown is not a
// ticking timer: it is derived from the fixed expiry instant and the clock at
// each read, so there is no interval to start or clean up.
type PasswordResetFlow struct {
	mu       sync.Mutex
	api      *api.Client
	now      func() time.Time
	email    string
	expiry   time.Time
	verified string
}

func NewPasswordResetFlow(apiClient *api.Client) *PasswordResetFlow {
	return &PasswordResetFlow{api: apiClient, now: time.Now}
}

// Start requests an OTP for the address and records its expiry instant.
func (f *PasswordResetFlow) Start(ctx context.Context, email string) error {
	if email == "" {
		return cinepoll_errors.ErrInvalidInput
	}
	if err := f.api.ForgotPassword(ctx, email); err != nil {
		return err
	}

	f.mu.Lock()
	f.email = email
	f.expiry = f.now().Add(OTPValidity)
	f.verified = ""
	f.mu.Unlock()
	return nil
}

// Resend re-dispatches the code and restarts the countdown.
func (f *PasswordResetFlow) Resend(ctx context.Context) error {
	f.mu.Lock()
	email := f.email
	f.mu.Unlock()
	if email == "" {
		return cinepoll_errors.ErrInvalidInput
	}
	return f.Start(ctx, email)
}

// SecondsRemaining reports the countdown, clamped at zero.
func (f *PasswordResetFlow) SecondsRemaining() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.expiry.IsZero() {
		return 0
	}
	left := f.expiry.Sub(f.now())
	if left < 0 {
		return 0
	}
	return int(left / time.Second)
}

// Verify checks the code with the server. An incomplete code is rejected
// locally; an expired one never leaves the client.
func (f *PasswordResetFlow) Verify(ctx context.Context, otp string) error {
	f.mu.Lock()
	email := f.email
	expired := !f.expiry.IsZero() && f.now().After(f.expiry)
	f.mu.Unlock()

	if email == "" || !isCompleteOTP(otp) {
		return cinepoll_errors.ErrInvalidInput
	}
	if expired {
		return cinepoll_errors.ErrOTPExpired
	}

	if err := f.api.VerifyOTP(ctx, email, otp); err != nil {
		return err
	}
	f.mu.Lock()
	f.verified = otp
	f.mu.Unlock()
	return nil
}

// Reset sets the new password using the verified code.
func (f *PasswordResetFlow) Reset(ctx context.Context, newPassword string) error {
	f.mu.Lock()
	email, otp := f.email, f.verified
	f.mu.Unlock()

	if email == "" || otp == "" {
		return cinepoll_errors.ErrInvalidInput
	}
	if len(newPassword) < 6 {
		return cinepoll_errors.ErrInvalidInput
	}
	return f.api.ResetPassword(ctx, email, otp, newPassword)
}

func isCompleteOTP(otp string) bool {
	if len(otp) != otpLength {
		return false
	}
	for _, r := range otp {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
