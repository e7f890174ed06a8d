package views

import (
	"strings"
	"testing"
	"time"

	"cinepoll/internal/domain/poll"
	"cinepoll/internal/services"
)

func tournamentPoll(deadline *time.Time) poll.Poll {
	p := poll.Poll{
		ID:       "7",
		Question: "Friday night feature?",
		IsActive: true,
		Deadline: deadline,
		Options: []poll.Option{
			{Key: "1", Label: "Dune", Votes: 2},
			{Key: "2", Label: "Arrival", Votes: 5},
			{Key: "3", Label: "Alien", Votes: 1},
		},
	}
	p.RecomputeTotal()
	return p
}

func TestRenderDetailHidesTallyBeforeVote(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(3 * time.Hour)

	var out strings.Builder
	RenderDetail(&out, tournamentPoll(&deadline), "2", false, now)
	text := out.String()

	if !strings.Contains(text, "(x) 2. Arrival") {
		t.Errorf("selection marker missing:\n%s", text)
	}
	if !strings.Contains(text, "( ) 1. Dune") {
		t.Errorf("unselected marker missing:\n%s", text)
	}
	if strings.Contains(text, "%") {
		t.Errorf("tally shown before voting:\n%s", text)
	}
	if !strings.Contains(text, "3h 0m left") {
		t.Errorf("countdown missing:\n%s", text)
	}
}

func TestRenderDetailShowsTallyAfterVote(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	var out strings.Builder
	RenderDetail(&out, tournamentPoll(nil), "2", true, now)
	text := out.String()

	if !strings.Contains(text, "62.5%") {
		t.Errorf("percentages missing:\n%s", text)
	}
	if !strings.Contains(text, "(5 votes)") {
		t.Errorf("vote counts missing:\n%s", text)
	}
}

func TestRenderDetailClosedPoll(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	var out strings.Builder
	RenderDetail(&out, tournamentPoll(&past), "", false, now)
	text := out.String()

	if !strings.Contains(text, "Poll Closed") {
		t.Errorf("closed banner missing:\n%s", text)
	}
	// Closed polls reveal the tally even without a vote.
	if !strings.Contains(text, "62.5%") {
		t.Errorf("tally hidden on closed poll:\n%s", text)
	}
	if strings.Contains(text, "( )") || strings.Contains(text, "(x)") {
		t.Errorf("vote markers shown on closed poll:\n%s", text)
	}
}

func TestRenderResultsRanksAndCrownsWinner(t *testing.T) {
	var out strings.Builder
	RenderResults(&out, tournamentPoll(nil))
	text := out.String()

	if !strings.Contains(text, "Winner: Arrival (5 votes, 62.5%)") {
		t.Errorf("winner banner wrong:\n%s", text)
	}

	first := strings.Index(text, "#1 Arrival")
	second := strings.Index(text, "#2 Dune")
	third := strings.Index(text, "#3 Alien")
	if first == -1 || second == -1 || third == -1 || !(first < second && second < third) {
		t.Errorf("ranking order wrong:\n%s", text)
	}
}

func TestRenderResultsZeroVotes(t *testing.T) {
	p := tournamentPoll(nil)
	for i := range p.Options {
		p.Options[i].Votes = 0
	}
	p.RecomputeTotal()

	var out strings.Builder
	RenderResults(&out, p)
	text := out.String()

	// No division blowup and every row reads exactly zero.
	if strings.Count(text, "  0.0% (0 votes)") != 3 {
		t.Errorf("zero-vote rows wrong:\n%s", text)
	}
}

func TestRenderPollListEmpty(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	var out strings.Builder
	RenderPollList(&out, nil, services.BrowseStats{Total: 3, Active: 1, TotalVotes: 1200}, now)
	text := out.String()

	if !strings.Contains(text, "1 active · 1,200 votes · 3 polls") {
		t.Errorf("stats line wrong:\n%s", text)
	}
	if !strings.Contains(text, "No polls found") {
		t.Errorf("empty message missing:\n%s", text)
	}
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{600, "10:00"},
		{345, "5:45"},
		{9, "0:09"},
		{0, "0:00"},
		{-5, "0:00"},
	}
	for _, tt := range tests {
		if got := FormatCountdown(tt.seconds); got != tt.want {
			t.Errorf("FormatCountdown(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
