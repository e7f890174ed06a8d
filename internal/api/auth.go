package api

import (
	"context"
	"net/http"

	"cinepoll/internal/domain/user"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type forgotRequest struct {
	Email string `json:"email"`
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

type googleAuthRequest struct {
	IDToken string `json:"idToken"`
}

// AuthPayload is the success payload of login and Google sign-in.
type AuthPayload struct {
	Access  string    `json:"access"`
	Refresh string    `json:"refresh,omitempty"`
	User    user.User `json:"user"`
}

// Login exchanges credentials for tokens and the user record.
func (c *Client) Login(ctx context.Context, email, password string) (AuthPayload, error) {
	var payload AuthPayload
	err := c.do(ctx, http.MethodPost, "/auth/login/", false,
		loginRequest{Email: email, Password: password}, &payload, "Login failed")
	return payload, err
}

// Register creates the account. Callers log in afterwards with the same
// credentials; registration itself returns no tokens.
func (c *Client) Register(ctx context.Context, email, password, firstName, lastName string) error {
	return c.do(ctx, http.MethodPost, "/auth/register/", false,
		registerRequest{Email: email, Password: password, FirstName: firstName, LastName: lastName},
		nil, "Registration failed")
}

// ForgotPassword asks the server to dispatch an OTP to the address.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/forgot/", false,
		forgotRequest{Email: email}, nil, "Failed to send OTP")
}

// VerifyOTP checks the one-time code before the reset step.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) error {
	return c.do(ctx, http.MethodPost, "/auth/verify-otp/", false,
		verifyOTPRequest{Email: email, OTP: otp}, nil, "Invalid OTP")
}

// ResetPassword sets a new password authorized by the verified OTP.
func (c *Client) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	return c.do(ctx, http.MethodPost, "/auth/reset-password/", false,
		resetPasswordRequest{Email: email, OTP: otp, NewPassword: newPassword},
		nil, "Failed to reset password")
}

// GoogleAuth exchanges a Google ID token for service tokens and a user record.
func (c *Client) GoogleAuth(ctx context.Context, idToken string) (AuthPayload, error) {
	var payload AuthPayload
	err := c.do(ctx, http.MethodPost, "/auth/google/", false,
		googleAuthRequest{IDToken: idToken}, &payload, "Google authentication failed")
	return payload, err
}
