package services

import (
	"context"
	"regexp"
	"strings"

	"cinepoll/internal/api"
	"cinepoll/internal/session"
	cinepoll_errors "cinepoll/pkg/errors"
	"cinepoll/pkg/logger"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// FieldErrors maps a form field to its validation message. It is returned
// before any network call is made; the caller shows each message inline.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for field, message := range f {
		parts = append(parts, field+": "+message)
	}
	return strings.Join(parts, "; ")
}

type AuthService struct {
	api      *api.Client
	sessions *session.Store
	log      *logger.Logger
}

func NewAuthService(apiClient *api.Client, sessions *session.Store, log *logger.Logger) *AuthService {
	return &AuthService{api: apiClient, sessions: sessions, log: log}
}

type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Login authenticates and replaces the session wholesale. On failure the
// prior session, if any, is left untouched.
func (s *AuthService) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return cinepoll_errors.ErrInvalidInput
	}

	payload, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := s.sessions.Set(ctx, payload.User, payload.Access, payload.Refresh); err != nil {
		return err
	}
	s.log.Infof("logged in as %s", payload.User.Email)
	return nil
}

// Register validates the form locally, creates the account, then logs in
// with the same credentials.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) error {
	if errs := validateRegister(in); len(errs) > 0 {
		return errs
	}

	if err := s.api.Register(ctx, in.Email, in.Password, in.FirstName, in.LastName); err != nil {
		return err
	}
	return s.Login(ctx, in.Email, in.Password)
}

// GoogleLogin exchanges a Google ID token and replaces the session.
func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) error {
	if idToken == "" {
		return cinepoll_errors.ErrInvalidInput
	}

	payload, err := s.api.GoogleAuth(ctx, idToken)
	if err != nil {
		return err
	}
	return s.sessions.Set(ctx, payload.User, payload.Access, payload.Refresh)
}

// Logout clears the session and its persisted record. Purely local.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.sessions.Clear(ctx)
}

func validateRegister(in RegisterInput) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(in.FirstName) == "" {
		errs["firstName"] = "First name is required"
	}
	if strings.TrimSpace(in.LastName) == "" {
		errs["lastName"] = "Last name is required"
	}

	switch {
	case in.Email == "":
		errs["email"] = "Email is required"
	case !emailPattern.MatchString(in.Email):
		errs["email"] = "Please enter a valid email"
	}

	switch {
	case in.Password == "":
		errs["password"] = "Password is required"
	case len(in.Password) < 6:
		errs["password"] = "Password must be at least 6 characters"
	}

	if in.Password != in.ConfirmPassword {
		errs["confirmPassword"] = "Passwords do not match"
	}

	return errs
}
