package events

import "time"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypePollOpened             EventType = "poll.opened"
	EventTypePollClosed             EventType = "poll.closed"
	EventTypeMessageVotedDown       EventType = "msgvote.deleted"
	EventTypeDefconChanged          EventType = "defcon.changed"
	EventTypeSoundPlayed            EventType = "sfx.played"
	EventTypeSmartReactionTriggered EventType = "smartreact.triggered"
)

// AllEventTypes lists every event type the bot emits
func AllEventTypes() []EventType {
	return []EventType{
		EventTypePollOpened,
		EventTypePollClosed,
		EventTypeMessageVotedDown,
		EventTypeDefconChanged,
		EventTypeSoundPlayed,
		EventTypeSmartReactionTriggered,
	}
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// PollOpenedEvent is emitted once a poll message has been posted
type PollOpenedEvent struct {
	PollID    int64     `json:"poll_id"`
	GuildID   int64     `json:"guild_id"`
	ChannelID int64     `json:"channel_id"`
	MessageID int64     `json:"message_id"`
	AuthorID  int64     `json:"author_id"`
	Question  string    `json:"question"`
	Options   []string  `json:"options"`
	EndTime   time.Time `json:"end_time"`
}

func (e PollOpenedEvent) Type() EventType {
	return EventTypePollOpened
}

// PollOptionResult is the final count for one poll option
type PollOptionResult struct {
	Option string `json:"option"`
	Emoji  string `json:"emoji"`
	Votes  int    `json:"votes"`
}

// PollClosedEvent is emitted after a poll has been tallied and closed
type PollClosedEvent struct {
	PollID   int64              `json:"poll_id"`
	GuildID  int64              `json:"guild_id"`
	Question string             `json:"question"`
	Results  []PollOptionResult `json:"results"`
}

func (e PollClosedEvent) Type() EventType {
	return EventTypePollClosed
}

// MessageVotedDownEvent is emitted when msgvote deletes a message
type MessageVotedDownEvent struct {
	GuildID   int64 `json:"guild_id"`
	ChannelID int64 `json:"channel_id"`
	MessageID int64 `json:"message_id"`
	AuthorID  int64 `json:"author_id"`
	UpVotes   int   `json:"up_votes"`
	DownVotes int   `json:"down_votes"`
}

func (e MessageVotedDownEvent) Type() EventType {
	return EventTypeMessageVotedDown
}

// DefconChangedEvent is emitted whenever a guild's DEFCON level is written
type DefconChangedEvent struct {
	GuildID   int64  `json:"guild_id"`
	OldLevel  int    `json:"old_level"`
	NewLevel  int    `json:"new_level"`
	Authority string `json:"authority"`
}

func (e DefconChangedEvent) Type() EventType {
	return EventTypeDefconChanged
}

// SoundPlayedEvent is emitted after a queued sound finished playing
type SoundPlayedEvent struct {
	GuildID   int64  `json:"guild_id"`
	ChannelID int64  `json:"channel_id"`
	Name      string `json:"name"`
	Kind      string `json:"kind"` // "sfx" or "tts"
}

func (e SoundPlayedEvent) Type() EventType {
	return EventTypeSoundPlayed
}

// SmartReactionTriggeredEvent is emitted when a keyword reaction is added
type SmartReactionTriggeredEvent struct {
	GuildID   int64  `json:"guild_id"`
	ChannelID int64  `json:"channel_id"`
	MessageID int64  `json:"message_id"`
	Emoji     string `json:"emoji"`
}

func (e SmartReactionTriggeredEvent) Type() EventType {
	return EventTypeSmartReactionTriggered
}
