package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"cinepoll/internal/api"
	"cinepoll/internal/domain/poll"
	"cinepoll/internal/session"
	cinepoll_errors "cinepoll/pkg/errors"
)

const minAnswerChoices = 3

// CreatePollForm carries the admin's create-poll input before validation.
type CreatePollForm struct {
	Question     string
	Options      []string
	Category     string
	IsAnonymous  bool
	DurationDays int
	Visibility   string
	ImageURL     string
}

// PollAdmin creates polls on behalf of the signed-in creator.
type PollAdmin struct {
	api      *api.Client
	sessions *session.Store
	now      func() time.Time
}

func NewPollAdmin(apiClient *api.Client, sessions *session.Store) *PollAdmin {
	return &PollAdmin{api: apiClient, sessions: sessions, now: time.Now}
}

// Create validates locally and then issues the create request. Empty option
// rows are dropped before the minimum-choice check.
func (a *PollAdmin) Create(ctx context.Context, form CreatePollForm) (poll.Poll, error) {
	creator, ok := a.sessions.Current()
	if !ok {
		return poll.Poll{}, cinepoll_errors.ErrNoSession
	}

	question := strings.TrimSpace(form.Question)
	if question == "" {
		return poll.Poll{}, errors.New("Question is required")
	}

	options := make([]string, 0, len(form.Options))
	for _, option := range form.Options {
		if trimmed := strings.TrimSpace(option); trimmed != "" {
			options = append(options, trimmed)
		}
	}
	if len(options) < minAnswerChoices {
		return poll.Poll{}, errors.New("Please provide at least 3 answer choices")
	}

	category := form.Category
	if category == "" {
		category = "Movies"
	}

	input := api.CreatePollInput{
		Question:        question,
		Options:         options,
		Category:        category,
		IsAnonymous:     form.IsAnonymous,
		Visibility:      form.Visibility,
		ImageURL:        strings.TrimSpace(form.ImageURL),
		CreatedByUserID: creator.ID,
	}
	if form.DurationDays > 0 {
		deadline := a.now().AddDate(0, 0, form.DurationDays)
		input.Duration = deadline.UTC().Format(time.RFC3339)
	}

	return a.api.CreatePoll(ctx, input)
}
