package entities

import "time"

// MsgVoteSettings configures vote-to-delete for a guild
type MsgVoteSettings struct {
	GuildID    int64
	BotEnabled bool // Also vote on messages written by bots
	Duration   time.Duration
	Threshold  int
	UpEmoji    string
	DownEmoji  string
	Channels   []int64
}

// IsChannelEnabled reports whether msgvote runs in channelID
func (s *MsgVoteSettings) IsChannelEnabled(channelID int64) bool {
	for _, id := range s.Channels {
		if id == channelID {
			return true
		}
	}
	return false
}

// IsVoteEmoji reports whether emoji is the configured up or down emoji
func (s *MsgVoteSettings) IsVoteEmoji(emoji string) bool {
	return emoji == s.UpEmoji || emoji == s.DownEmoji
}

// ShouldDelete decides whether a message with the given non-bot counts is removed.
// A zero threshold disables deletion.
func (s *MsgVoteSettings) ShouldDelete(up, down int) bool {
	if s.Threshold == 0 {
		return false
	}
	return down-up >= s.Threshold
}

// WithinWindow reports whether a message posted at postedAt can still be voted off
func (s *MsgVoteSettings) WithinWindow(postedAt, now time.Time) bool {
	return now.Sub(postedAt) <= s.Duration
}
