package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"cinepoll/internal/api"
	"cinepoll/internal/domain/poll"
)

// Filter selects which polls a browse returns.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterActive Filter = "active"
	FilterClosed Filter = "closed"
)

// SortBy orders the browse result.
type SortBy string

const (
	SortPopular SortBy = "popular"
	SortNewest  SortBy = "newest"
)

// BrowseQuery narrows and orders the poll list.
type BrowseQuery struct {
	Search string
	Filter Filter
	SortBy SortBy
}

// BrowseStats are the aggregate counters shown above the list.
type BrowseStats struct {
	Active     int
	TotalVotes int
	Total      int
}

// PollBrowser fetches and shapes the poll list for display.
type PollBrowser struct {
	api *api.Client
	now func() time.Time
}

func NewPollBrowser(apiClient *api.Client) *PollBrowser {
	return &PollBrowser{api: apiClient, now: time.Now}
}

// Browse lists polls matching the query. Stats always cover the full list,
// not the filtered slice.
func (b *PollBrowser) Browse(ctx context.Context, query BrowseQuery) ([]poll.Poll, BrowseStats, error) {
	polls, err := b.api.ListPolls(ctx)
	if err != nil {
		return nil, BrowseStats{}, err
	}

	now := b.now()
	stats := BrowseStats{Total: len(polls)}
	for _, p := range polls {
		stats.TotalVotes += p.TotalVotes
		if !p.IsExpired(now) {
			stats.Active++
		}
	}

	matched := make([]poll.Poll, 0, len(polls))
	needle := strings.ToLower(query.Search)
	for _, p := range polls {
		if needle != "" && !strings.Contains(strings.ToLower(p.Question), needle) {
			continue
		}
		switch query.Filter {
		case FilterActive:
			if p.IsExpired(now) {
				continue
			}
		case FilterClosed:
			if !p.IsExpired(now) {
				continue
			}
		}
		matched = append(matched, p)
	}

	switch query.SortBy {
	case SortNewest:
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		})
	default:
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].TotalVotes > matched[j].TotalVotes
		})
	}

	return matched, stats, nil
}
