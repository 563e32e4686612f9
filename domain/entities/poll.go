package entities

import (
	"sort"
	"time"
)

const (
	MinPollOptions = 2
	MaxPollOptions = 20
)

// Poll is a reaction poll posted in a channel
type Poll struct {
	ID            int64
	GuildID       int64
	ChannelID     int64
	MessageID     *int64 // Set once the poll message is posted
	AuthorID      int64
	Question      string
	Options       []string
	Emojis        []string // Emojis[i] votes for Options[i]
	MultipleVotes bool
	Embed         bool
	EndTime       time.Time
	Closed        bool
	CreatedAt     time.Time
}

// PollVote is one user's reaction on a poll option
type PollVote struct {
	PollID int64
	UserID int64
	Emoji  string
}

// PollResult is the final tally for one option
type PollResult struct {
	Option string
	Emoji  string
	Votes  int
}

// OptionIndex returns the option index for emoji, or -1
func (p *Poll) OptionIndex(emoji string) int {
	for i, e := range p.Emojis {
		if e == emoji {
			return i
		}
	}
	return -1
}

// HasEmoji reports whether emoji votes for one of the options
func (p *Poll) HasEmoji(emoji string) bool {
	return p.OptionIndex(emoji) >= 0
}

// IsExpired reports whether the poll should be closed at now
func (p *Poll) IsExpired(now time.Time) bool {
	return !p.Closed && !now.Before(p.EndTime)
}

// Tally turns per-emoji counts into results sorted by votes descending.
// Ties keep option order.
func (p *Poll) Tally(counts map[string]int) []PollResult {
	results := make([]PollResult, 0, len(p.Options))
	for i, option := range p.Options {
		results = append(results, PollResult{
			Option: option,
			Emoji:  p.Emojis[i],
			Votes:  counts[p.Emojis[i]],
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Votes > results[j].Votes
	})
	return results
}

// TotalVotes sums the votes across results
func TotalVotes(results []PollResult) int {
	total := 0
	for _, r := range results {
		total += r.Votes
	}
	return total
}

// ParsedPoll is the result of parsing a poll command
type ParsedPoll struct {
	Question      string
	Options       []string
	Duration      time.Duration
	MultipleVotes bool
}
