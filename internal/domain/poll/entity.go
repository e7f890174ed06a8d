package poll

import (
	"sort"
	"time"
)

// Movie carries the structured metadata attached to an option when the
// server returns the movie-record shape.
type Movie struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Poster      string  `json:"poster,omitempty"`
	Genre       string  `json:"genre,omitempty"`
	ReleaseDate string  `json:"releaseDate,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
}

// Option is one selectable answer. Key is the stable 1-based stringified
// index used to address the option and its vote count.
type Option struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Movie *Movie `json:"movie,omitempty"`
	Votes int    `json:"votes"`
}

// Poll is the canonical client-side representation. Both server shapes
// normalize into it at the API boundary; nothing past that boundary ever
// sees the raw wire records.
type Poll struct {
	ID          string     `json:"id"`
	Question    string     `json:"question"`
	Description string     `json:"description,omitempty"`
	Options     []Option   `json:"options"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedBy   string     `json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at,omitempty"`
	Category    string     `json:"category,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	TotalVotes  int        `json:"total_votes"`
	UserVote    string     `json:"user_vote,omitempty"`
}

// Ranked is one row of the descending ranking.
type Ranked struct {
	Rank   int
	Option Option
}

// IsExpired reports whether the poll can no longer accept votes. A poll
// without a deadline never expires by time; only the activity flag closes it.
func (p *Poll) IsExpired(now time.Time) bool {
	if !p.IsActive {
		return true
	}
	if p.Deadline == nil {
		return false
	}
	return !now.Before(*p.Deadline)
}

// TimeRemaining returns whole hours and minutes until the deadline, both
// clamped at zero. ok is false when the poll carries no deadline.
func (p *Poll) TimeRemaining(now time.Time) (hours, minutes int, ok bool) {
	if p.Deadline == nil {
		return 0, 0, false
	}
	left := p.Deadline.Sub(now)
	if left < 0 {
		left = 0
	}
	hours = int(left / time.Hour)
	minutes = int((left % time.Hour) / time.Minute)
	return hours, minutes, true
}

// VotesFor returns the vote count for an option key; absent keys count zero.
func (p *Poll) VotesFor(key string) int {
	for _, opt := range p.Options {
		if opt.Key == key {
			return opt.Votes
		}
	}
	return 0
}

// PercentageFor returns votes[key]/totalVotes*100, and exactly 0 when the
// total is zero.
func (p *Poll) PercentageFor(key string) float64 {
	if p.TotalVotes <= 0 {
		return 0
	}
	return float64(p.VotesFor(key)) / float64(p.TotalVotes) * 100
}

// RankedOptions sorts options descending by vote count. The sort is stable,
// so ties keep their original order.
func (p *Poll) RankedOptions() []Ranked {
	sorted := make([]Option, len(p.Options))
	copy(sorted, p.Options)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Votes > sorted[j].Votes
	})
	ranked := make([]Ranked, 0, len(sorted))
	for i, opt := range sorted {
		ranked = append(ranked, Ranked{Rank: i + 1, Option: opt})
	}
	return ranked
}

// Winner returns the top-ranked option, or false for a poll with no options.
func (p *Poll) Winner() (Option, bool) {
	ranked := p.RankedOptions()
	if len(ranked) == 0 {
		return Option{}, false
	}
	return ranked[0].Option, true
}

// RecomputeTotal restores the invariant that TotalVotes equals the sum of
// per-option counts.
func (p *Poll) RecomputeTotal() {
	total := 0
	for _, opt := range p.Options {
		total += opt.Votes
	}
	p.TotalVotes = total
}
