package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cinepoll/internal/api"
)

func newBrowserFixture(t *testing.T, now time.Time) *PollBrowser {
	t.Helper()

	past := now.Add(-time.Hour).UTC().Format(time.RFC3339)
	future := now.Add(48 * time.Hour).UTC().Format(time.RFC3339)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/polls/" {
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `[
			{"id":"1","question":"Best sci-fi night","options":["A","B","C"],"totalVotes":40,"is_active":true,"deadline":%q,"created_at":"2026-02-01T00:00:00Z"},
			{"id":"2","question":"Horror marathon pick","options":["A","B","C"],"totalVotes":90,"is_active":true,"created_at":"2026-02-03T00:00:00Z"},
			{"id":"3","question":"Closed sci-fi rerun","options":["A","B","C"],"totalVotes":25,"is_active":true,"deadline":%q,"created_at":"2026-01-15T00:00:00Z"},
			{"id":"4","question":"Retired comedy poll","options":["A","B","C"],"totalVotes":10,"is_active":false,"created_at":"2026-02-05T00:00:00Z"}
		]`, future, past)
	}))
	t.Cleanup(server.Close)

	sessions := newVoterSession(t)
	browser := NewPollBrowser(api.NewClient(server.URL, server.Client(), sessions, nil))
	browser.now = func() time.Time { return now }
	return browser
}

func TestBrowseStatsCoverFullList(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	browser := newBrowserFixture(t, now)

	// Even a narrowing query leaves the stats untouched.
	_, stats, err := browser.Browse(context.Background(), BrowseQuery{Search: "sci-fi", Filter: FilterActive})
	if err != nil {
		t.Fatalf("Browse failed: %v", err)
	}
	if stats.Total != 4 {
		t.Errorf("total = %d, want 4", stats.Total)
	}
	if stats.TotalVotes != 165 {
		t.Errorf("total votes = %d, want 165", stats.TotalVotes)
	}
	// Poll 3 is past deadline and poll 4 is inactive.
	if stats.Active != 2 {
		t.Errorf("active = %d, want 2", stats.Active)
	}
}

func TestBrowseFilterAndSearch(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		query BrowseQuery
		ids   []string
	}{
		{"all sorted by votes", BrowseQuery{Filter: FilterAll}, []string{"2", "1", "3", "4"}},
		{"active only", BrowseQuery{Filter: FilterActive}, []string{"2", "1"}},
		{"closed only", BrowseQuery{Filter: FilterClosed}, []string{"3", "4"}},
		{"search is case-insensitive", BrowseQuery{Search: "SCI-FI"}, []string{"1", "3"}},
		{"search plus filter", BrowseQuery{Search: "sci-fi", Filter: FilterActive}, []string{"1"}},
		{"newest first", BrowseQuery{SortBy: SortNewest}, []string{"4", "2", "1", "3"}},
		{"no match", BrowseQuery{Search: "documentary"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			browser := newBrowserFixture(t, now)
			matched, _, err := browser.Browse(ctx, tt.query)
			if err != nil {
				t.Fatalf("Browse failed: %v", err)
			}
			if len(matched) != len(tt.ids) {
				t.Fatalf("got %d polls, want %d", len(matched), len(tt.ids))
			}
			for i, want := range tt.ids {
				if matched[i].ID != want {
					t.Errorf("polls[%d].ID = %q, want %q", i, matched[i].ID, want)
				}
			}
		})
	}
}
