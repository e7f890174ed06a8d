package poll

import (
	"testing"
	"time"
)

func samplePoll(deadline *time.Time, active bool) Poll {
	return Poll{
		ID:       "7",
		Question: "Which movie should we watch this weekend?",
		Options: []Option{
			{Key: "1", Label: "A", Votes: 2},
			{Key: "2", Label: "B", Votes: 5},
			{Key: "3", Label: "C", Votes: 1},
		},
		Deadline:   deadline,
		IsActive:   active,
		TotalVotes: 8,
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name     string
		deadline *time.Time
		active   bool
		want     bool
	}{
		{"future deadline, active", &future, true, false},
		{"past deadline, active", &past, true, true},
		{"deadline exactly now", &now, true, true},
		{"no deadline never time-expires", nil, true, false},
		{"inactive closes regardless of deadline", &future, false, true},
		{"inactive with no deadline", nil, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := samplePoll(tt.deadline, tt.active)
			if got := p.IsExpired(now); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeRemaining(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	deadline := now.Add(2*time.Hour + 35*time.Minute)
	p := samplePoll(&deadline, true)
	hours, minutes, ok := p.TimeRemaining(now)
	if !ok || hours != 2 || minutes != 35 {
		t.Errorf("TimeRemaining() = %d, %d, %v, want 2, 35, true", hours, minutes, ok)
	}

	past := now.Add(-time.Hour)
	p = samplePoll(&past, true)
	hours, minutes, ok = p.TimeRemaining(now)
	if !ok || hours != 0 || minutes != 0 {
		t.Errorf("past deadline not clamped at zero: %d, %d, %v", hours, minutes, ok)
	}

	p = samplePoll(nil, true)
	if _, _, ok := p.TimeRemaining(now); ok {
		t.Error("expected no time remaining for poll without deadline")
	}
}

func TestPercentageFor(t *testing.T) {
	p := samplePoll(nil, true)

	tests := []struct {
		key  string
		want float64
	}{
		{"1", 25},
		{"2", 62.5},
		{"3", 12.5},
		{"99", 0}, // absent keys count zero votes
	}
	for _, tt := range tests {
		if got := p.PercentageFor(tt.key); got != tt.want {
			t.Errorf("PercentageFor(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}

	empty := Poll{Options: []Option{{Key: "1", Label: "A"}}, TotalVotes: 0}
	if got := empty.PercentageFor("1"); got != 0 {
		t.Errorf("PercentageFor with zero total = %v, want exactly 0", got)
	}
}

func TestRankedOptionsStableTies(t *testing.T) {
	p := Poll{
		Options: []Option{
			{Key: "1", Label: "A", Votes: 3},
			{Key: "2", Label: "B", Votes: 7},
			{Key: "3", Label: "C", Votes: 3},
			{Key: "4", Label: "D", Votes: 3},
		},
		TotalVotes: 16,
	}

	ranked := p.RankedOptions()
	wantOrder := []string{"2", "1", "3", "4"}
	if len(ranked) != len(wantOrder) {
		t.Fatalf("expected %d ranked options, got %d", len(wantOrder), len(ranked))
	}
	for i, want := range wantOrder {
		if ranked[i].Option.Key != want {
			t.Errorf("rank %d = option %q, want %q", i+1, ranked[i].Option.Key, want)
		}
		if ranked[i].Rank != i+1 {
			t.Errorf("rank field = %d, want %d", ranked[i].Rank, i+1)
		}
	}

	winner, ok := p.Winner()
	if !ok || winner.Key != "2" {
		t.Errorf("Winner() = %v, %v, want option 2", winner.Key, ok)
	}
}

func TestRecomputeTotal(t *testing.T) {
	p := samplePoll(nil, true)
	p.TotalVotes = 999
	p.RecomputeTotal()
	if p.TotalVotes != 8 {
		t.Errorf("RecomputeTotal() = %d, want 8", p.TotalVotes)
	}
}
