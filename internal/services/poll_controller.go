package services

import (
	"context"
	"sync"
	"time"

	"cinepoll/internal/api"
	"cinepoll/internal/domain/poll"
	"cinepoll/internal/session"
	cinepoll_errors "cinepoll/pkg/errors"
	"cinepoll/pkg/logger"
)

// State is the lifecycle of a viewed poll.
type State int

const (
	StateLoading State = iota
	StateReady
	StateError
)

// VoteState is the sub-state within StateReady.
type VoteState int

const (
	VoteNone VoteState = iota
	VoteSelectionPending
	VoteSubmitting
	VoteVoted
)

// PollController owns the lifecycle of a single poll being viewed and voted:
// it loads the record, tracks the pending selection, submits the vote, and
// exposes the derived display values. After a successful write it always
// re-fetches from the server rather than tallying locally; consistency is
// preferred over responsiveness.
type PollController struct {
	mu       sync.Mutex
	api      *api.Client
	sessions *session.Store
	log      *logger.Logger
	now      func() time.Time

	state      State
	voteState  VoteState
	poll       poll.Poll
	selection  string
	lastError  string
	submitting bool
}

func NewPollController(apiClient *api.Client, sessions *session.Store, log *logger.Logger) *PollController {
	return &PollController{
		api:      apiClient,
		sessions: sessions,
		log:      log,
		now:      time.Now,
	}
}

// Load fetches the poll detail and seeds the selection and voted flag from
// the record's userVote.
func (c *PollController) Load(ctx context.Context, pollID string) error {
	c.mu.Lock()
	c.state = StateLoading
	c.lastError = ""
	c.mu.Unlock()

	fetched, err := c.api.GetPoll(ctx, pollID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateError
		c.lastError = err.Error()
		return err
	}

	c.state = StateReady
	c.poll = fetched
	c.selection = fetched.UserVote
	if fetched.UserVote != "" {
		c.voteState = VoteVoted
	} else {
		c.voteState = VoteNone
	}
	return nil
}

// SelectOption records a pending selection. It is purely local and a no-op
// when the poll is expired or the viewer has already voted.
func (c *PollController) SelectOption(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReady {
		return cinepoll_errors.ErrNotLoaded
	}
	if c.voteState == VoteVoted {
		return cinepoll_errors.ErrAlreadyVoted
	}
	if c.poll.IsExpired(c.now()) {
		return cinepoll_errors.ErrPollClosed
	}
	if c.voteState == VoteSubmitting {
		return cinepoll_errors.ErrSubmitInFlight
	}

	found := false
	for _, opt := range c.poll.Options {
		if opt.Key == key {
			found = true
			break
		}
	}
	if !found {
		return cinepoll_errors.ErrInvalidInput
	}

	c.selection = key
	c.voteState = VoteSelectionPending
	return nil
}

// SubmitVote sends the pending selection. Submission is single-flight: a
// second call while one is pending is rejected, never queued. On success the
// poll is re-fetched for authoritative counts and the state becomes voted;
// on failure the selection survives and the error message is surfaced.
func (c *PollController) SubmitVote(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return cinepoll_errors.ErrNotLoaded
	}
	if c.submitting {
		c.mu.Unlock()
		return cinepoll_errors.ErrSubmitInFlight
	}
	if c.voteState == VoteVoted {
		c.mu.Unlock()
		return cinepoll_errors.ErrAlreadyVoted
	}
	if c.poll.IsExpired(c.now()) {
		c.mu.Unlock()
		return cinepoll_errors.ErrPollClosed
	}
	if c.selection == "" {
		c.mu.Unlock()
		return cinepoll_errors.ErrNoSelection
	}
	viewer, ok := c.sessions.Current()
	if !ok {
		c.mu.Unlock()
		return cinepoll_errors.ErrNoSession
	}

	pollID := c.poll.ID
	selection := c.selection
	c.submitting = true
	c.voteState = VoteSubmitting
	c.mu.Unlock()

	err := c.api.SubmitVote(ctx, pollID, selection, viewer.ID)
	if err != nil {
		c.mu.Lock()
		c.submitting = false
		c.voteState = VoteSelectionPending
		c.lastError = err.Error()
		c.mu.Unlock()
		return err
	}

	// The vote is recorded server-side; local counts are never touched.
	// Re-fetch for the authoritative tally.
	refreshed, fetchErr := c.api.GetPoll(ctx, pollID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	c.voteState = VoteVoted
	if fetchErr != nil {
		// The vote succeeded but the refresh did not; keep the stale
		// counts and surface the load failure.
		c.poll.UserVote = selection
		c.lastError = fetchErr.Error()
		if c.log != nil {
			c.log.Errorf("vote recorded but refresh failed for poll %s: %v", pollID, fetchErr)
		}
		return nil
	}
	c.poll = refreshed
	if c.poll.UserVote == "" {
		c.poll.UserVote = selection
	}
	c.selection = c.poll.UserVote
	c.lastError = ""
	return nil
}

// State returns the load lifecycle state.
func (c *PollController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// VoteState returns the voting sub-state.
func (c *PollController) VoteState() VoteState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.voteState
}

// Poll returns a copy of the loaded poll.
func (c *PollController) Poll() poll.Poll {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.poll
}

// Selection returns the pending or confirmed option key.
func (c *PollController) Selection() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection
}

// HasVoted reports whether the viewer's vote is confirmed.
func (c *PollController) HasVoted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.voteState == VoteVoted
}

// ErrorMessage returns the last surfaced failure, empty when none.
func (c *PollController) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// IsExpired reports whether voting is closed, by deadline or activity flag.
func (c *PollController) IsExpired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.poll.IsExpired(c.now())
}

// PercentageFor returns the display percentage for an option key.
func (c *PollController) PercentageFor(key string) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.poll.PercentageFor(key)
}

// RankedOptions returns options sorted descending by votes, ties stable.
func (c *PollController) RankedOptions() []poll.Ranked {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.poll.RankedOptions()
}
