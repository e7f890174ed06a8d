package cinepoll_errors

import "errors"

// Common errors
var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrNoSession      = errors.New("no active session")
	ErrPollClosed     = errors.New("poll closed")
	ErrAlreadyVoted   = errors.New("already voted")
	ErrNoSelection    = errors.New("no option selected")
	ErrSubmitInFlight = errors.New("submission already in flight")
	ErrNotLoaded      = errors.New("poll not loaded")
	ErrOTPExpired     = errors.New("otp expired")
)
