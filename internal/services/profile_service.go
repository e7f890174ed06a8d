package services

import (
	"context"

	"cinepoll/internal/api"
	"cinepoll/internal/domain/user"
	"cinepoll/internal/session"
	cinepoll_errors "cinepoll/pkg/errors"
)

// ProfileService pushes profile edits and keeps the stored user record in
// step with the server's canonical copy.
type ProfileService struct {
	api      *api.Client
	sessions *session.Store
}

func NewProfileService(apiClient *api.Client, sessions *session.Store) *ProfileService {
	return &ProfileService{api: apiClient, sessions: sessions}
}

func (s *ProfileService) Update(ctx context.Context, input api.ProfileInput) (user.User, error) {
	current, ok := s.sessions.Current()
	if !ok {
		return user.User{}, cinepoll_errors.ErrNoSession
	}

	updated, err := s.api.UpdateProfile(ctx, input)
	if err != nil {
		return user.User{}, err
	}

	// Servers differ in how much of the record they echo back; keep the
	// identity stable when fields are omitted.
	if updated.ID == "" {
		updated.ID = current.ID
	}
	if updated.Email == "" {
		updated.Email = current.Email
	}
	updated.IsAdmin = current.IsAdmin

	if err := s.sessions.ReplaceUser(ctx, updated); err != nil {
		return user.User{}, err
	}
	return updated, nil
}
