package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"cinepoll/internal/domain/poll"
)

// wirePoll is the union of the two poll record shapes the backend iterations
// produce: structured movie options with deadline/status, or plain-string
// options with duration/is_active and a per-option votes mapping.
type wirePoll struct {
	ID          flexString        `json:"id"`
	Question    string            `json:"question"`
	Description string            `json:"description"`
	Options     []json.RawMessage `json:"options"`
	Deadline    string            `json:"deadline"`
	Status      string            `json:"status"`
	Duration    string            `json:"duration"`
	IsActive    *bool             `json:"is_active"`
	Votes       map[string]int    `json:"votes"`
	TotalVotes  *int              `json:"totalVotes"`
	UserVote    string            `json:"userVote"`
	Category    string            `json:"category"`
	ImageURL    string            `json:"image_url"`
	CreatedBy   flexString        `json:"createdBy"`
	CreatedByID flexString        `json:"created_by"`
	CreatedAt   string            `json:"createdAt"`
	CreatedAtV2 string            `json:"created_at"`
}

type wireMovieOption struct {
	ID    flexString  `json:"id"`
	Movie *poll.Movie `json:"movie"`
	Votes int         `json:"votes"`
}

// flexString accepts both string and numeric identifiers off the wire.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type listEnvelope struct {
	Results []wirePoll `json:"results"`
}

type voteRequest struct {
	Option      string `json:"option"`
	VoterUserID string `json:"voterUserId"`
}

// CreatePollInput mirrors the create-poll form.
type CreatePollInput struct {
	Question        string   `json:"question"`
	Options         []string `json:"options"`
	Category        string   `json:"category"`
	IsAnonymous     bool     `json:"isAnonymous,omitempty"`
	Duration        string   `json:"duration,omitempty"`
	Visibility      string   `json:"visibility,omitempty"`
	ImageURL        string   `json:"imageUrl,omitempty"`
	CreatedByUserID string   `json:"createdByUserId"`
}

// ListPolls fetches every visible poll. The endpoint returns either a bare
// array or a paginated {"results": [...]} envelope; both are accepted.
func (c *Client) ListPolls(ctx context.Context) ([]poll.Poll, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/polls/", true, nil, &raw, "Failed to fetch polls"); err != nil {
		return nil, err
	}

	var records []wirePoll
	if err := json.Unmarshal(raw, &records); err != nil {
		var envelope listEnvelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("Failed to fetch polls: %w", err)
		}
		records = envelope.Results
	}

	polls := make([]poll.Poll, 0, len(records))
	for _, record := range records {
		polls = append(polls, normalizePoll(record))
	}
	return polls, nil
}

// GetPoll fetches one poll including its votes mapping.
func (c *Client) GetPoll(ctx context.Context, id string) (poll.Poll, error) {
	var record wirePoll
	path := "/polls/" + url.PathEscape(id) + "/"
	if err := c.do(ctx, http.MethodGet, path, true, nil, &record, "Failed to fetch poll detail"); err != nil {
		return poll.Poll{}, err
	}
	return normalizePoll(record), nil
}

// SubmitVote records the viewer's choice. The caller re-fetches the poll
// afterwards for authoritative counts; no tally is derived from this call.
func (c *Client) SubmitVote(ctx context.Context, pollID, optionKey, voterUserID string) error {
	path := "/polls/" + url.PathEscape(pollID) + "/vote/"
	return c.do(ctx, http.MethodPost, path, true,
		voteRequest{Option: optionKey, VoterUserID: voterUserID}, nil, "Failed to submit vote")
}

// GetResults fetches the aggregated results record for a poll.
func (c *Client) GetResults(ctx context.Context, id string) (poll.Poll, error) {
	var record wirePoll
	path := "/polls/" + url.PathEscape(id) + "/results/"
	if err := c.do(ctx, http.MethodGet, path, true, nil, &record, "Failed to fetch poll results"); err != nil {
		return poll.Poll{}, err
	}
	return normalizePoll(record), nil
}

// CreatePoll creates a poll and returns the server's canonical record.
func (c *Client) CreatePoll(ctx context.Context, input CreatePollInput) (poll.Poll, error) {
	var record wirePoll
	if err := c.do(ctx, http.MethodPost, "/polls/create/", true, input, &record, "Failed to create poll"); err != nil {
		return poll.Poll{}, err
	}
	return normalizePoll(record), nil
}

// normalizePoll folds either server shape into the canonical representation.
// Nothing outside this package sees the raw wire records.
func normalizePoll(record wirePoll) poll.Poll {
	normalized := poll.Poll{
		ID:          string(record.ID),
		Question:    record.Question,
		Description: record.Description,
		Category:    record.Category,
		ImageURL:    record.ImageURL,
		UserVote:    record.UserVote,
	}

	normalized.CreatedBy = string(record.CreatedBy)
	if normalized.CreatedBy == "" {
		normalized.CreatedBy = string(record.CreatedByID)
	}
	normalized.CreatedAt = parseWireTime(record.CreatedAt, record.CreatedAtV2)

	if deadline := parseWireTime(record.Deadline, record.Duration); !deadline.IsZero() {
		normalized.Deadline = &deadline
	}

	switch {
	case record.IsActive != nil:
		normalized.IsActive = *record.IsActive
	case record.Status != "":
		normalized.IsActive = record.Status == "active"
	default:
		normalized.IsActive = true
	}

	for i, raw := range record.Options {
		key := strconv.Itoa(i + 1)

		var label string
		if err := json.Unmarshal(raw, &label); err == nil {
			normalized.Options = append(normalized.Options, poll.Option{
				Key:   key,
				Label: label,
				Votes: record.Votes[key],
			})
			continue
		}

		var structured wireMovieOption
		if err := json.Unmarshal(raw, &structured); err != nil {
			continue
		}
		if structured.ID != "" {
			key = string(structured.ID)
		}
		option := poll.Option{Key: key, Movie: structured.Movie, Votes: structured.Votes}
		if structured.Movie != nil {
			option.Label = structured.Movie.Title
		}
		if option.Votes == 0 {
			option.Votes = record.Votes[key]
		}
		normalized.Options = append(normalized.Options, option)
	}

	if record.Votes != nil || record.TotalVotes == nil {
		// Preserve the invariant that the total equals the sum of the
		// per-option counts whenever a votes mapping is present.
		normalized.RecomputeTotal()
	} else {
		normalized.TotalVotes = *record.TotalVotes
	}

	return normalized
}

func parseWireTime(candidates ...string) time.Time {
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, candidate); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
