package views

import (
	"fmt"
	"io"
	"strings"
	"time"

	"cinepoll/internal/domain/poll"
	"cinepoll/internal/services"

	"github.com/dustin/go-humanize"
)

const barWidth = 24

// RenderPollList writes the browse view: aggregate stats followed by one
// card per poll.
func RenderPollList(w io.Writer, polls []poll.Poll, stats services.BrowseStats, now time.Time) {
	fmt.Fprintf(w, "%d active · %s votes · %d polls\n\n",
		stats.Active, humanize.Comma(int64(stats.TotalVotes)), stats.Total)

	if len(polls) == 0 {
		fmt.Fprintln(w, "No polls found. Try adjusting your search or filters.")
		return
	}
	for _, p := range polls {
		RenderPollCard(w, p, now)
		fmt.Fprintln(w)
	}
}

// RenderPollCard writes the one-line summary card for a poll.
func RenderPollCard(w io.Writer, p poll.Poll, now time.Time) {
	fmt.Fprintf(w, "[%s] %s\n", p.ID, p.Question)
	if p.Description != "" {
		fmt.Fprintf(w, "    %s\n", p.Description)
	}

	line := fmt.Sprintf("    %s votes", humanize.Comma(int64(p.TotalVotes)))
	if p.IsExpired(now) {
		line += " · closed"
	} else if hours, minutes, ok := p.TimeRemaining(now); ok {
		line += " · " + formatTimeLeft(hours, minutes)
	}
	if !p.CreatedAt.IsZero() {
		line += " · created " + humanize.Time(p.CreatedAt)
	}
	if p.UserVote != "" {
		line += " · voted"
	}
	fmt.Fprintln(w, line)
}

// RenderDetail writes the voting view. Tallies only appear once the viewer
// has voted or the poll is closed, matching what the vote flow reveals.
func RenderDetail(w io.Writer, p poll.Poll, selection string, hasVoted bool, now time.Time) {
	expired := p.IsExpired(now)

	fmt.Fprintln(w, p.Question)
	if p.Description != "" {
		fmt.Fprintln(w, p.Description)
	}
	fmt.Fprintf(w, "%s votes", humanize.Comma(int64(p.TotalVotes)))
	if expired {
		fmt.Fprint(w, " · Poll Closed")
	} else if hours, minutes, ok := p.TimeRemaining(now); ok {
		fmt.Fprintf(w, " · %s", formatTimeLeft(hours, minutes))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)

	showTally := hasVoted || expired
	for _, opt := range p.Options {
		marker := "( )"
		if opt.Key == selection {
			marker = "(x)"
		}
		if expired && !hasVoted {
			marker = "   "
		}

		label := opt.Label
		if opt.Movie != nil && opt.Movie.Genre != "" {
			label = fmt.Sprintf("%s · %s", opt.Label, opt.Movie.Genre)
		}
		fmt.Fprintf(w, "%s %s. %s\n", marker, opt.Key, label)

		if showTally {
			percent := p.PercentageFor(opt.Key)
			fmt.Fprintf(w, "      %s %5.1f%% (%d votes)\n", bar(percent), percent, opt.Votes)
		}
	}
}

// RenderResults writes the final tally: winner banner plus the ranking.
func RenderResults(w io.Writer, p poll.Poll) {
	fmt.Fprintf(w, "Poll Results: %s\n\n", p.Question)

	if winner, ok := p.Winner(); ok {
		percent := p.PercentageFor(winner.Key)
		fmt.Fprintf(w, "Winner: %s (%d votes, %.1f%%)\n\n", winner.Label, winner.Votes, percent)
	}

	for _, row := range p.RankedOptions() {
		percent := p.PercentageFor(row.Option.Key)
		fmt.Fprintf(w, "#%d %-30s %s %5.1f%% (%d votes)\n",
			row.Rank, row.Option.Label, bar(percent), percent, row.Option.Votes)
	}
}

// FormatCountdown renders an OTP countdown as m:ss.
func FormatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func formatTimeLeft(hours, minutes int) string {
	if hours > 0 {
		return fmt.Sprintf("%dh %dm left", hours, minutes)
	}
	return fmt.Sprintf("%dm left", minutes)
}

func bar(percent float64) string {
	filled := int(percent / 100 * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}
