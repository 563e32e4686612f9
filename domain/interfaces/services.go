package interfaces

import (
	"context"
	"time"

	"cogbot/domain/entities"
)

// GuildSettingsService defines guild-wide settings operations
type GuildSettingsService interface {
	// GetOrCreateSettings retrieves guild settings or creates default ones
	GetOrCreateSettings(ctx context.Context, guildID int64) (*entities.GuildSettings, error)

	// SetDefaultRole sets the role given to new members; nil clears it
	SetDefaultRole(ctx context.Context, guildID int64, roleID *int64) error

	// ToggleWatIgnored flips the wat ignore flag and returns the new value
	ToggleWatIgnored(ctx context.Context, guildID int64) (bool, error)
}

// SmartReactService defines keyword reaction operations
type SmartReactService interface {
	AddReaction(ctx context.Context, emoji, word string) error
	RemoveReaction(ctx context.Context, emoji, word string) error
	ClearEmoji(ctx context.Context, emoji string) (int64, error)
	ListReactions(ctx context.Context) (entities.SmartReactionSet, error)

	// MatchMessage returns the emojis to add to a message with content
	MatchMessage(ctx context.Context, content string) ([]string, error)

	// RecordTriggered publishes a smartreact.triggered event
	RecordTriggered(ctx context.Context, guildID, channelID, messageID int64, emoji string) error
}

// MsgVoteService defines vote-to-delete settings and decisions
type MsgVoteService interface {
	GetSettings(ctx context.Context) (*entities.MsgVoteSettings, error)
	SetChannelEnabled(ctx context.Context, channelID int64, enabled bool) (bool, error)
	ToggleBotVoting(ctx context.Context) (bool, error)
	SetUpEmoji(ctx context.Context, emoji string) error
	SetDownEmoji(ctx context.Context, emoji string) error
	SetDuration(ctx context.Context, seconds int) error
	SetThreshold(ctx context.Context, threshold int) error

	// RecordDeletion publishes a msgvote.deleted event
	RecordDeletion(ctx context.Context, guildID, channelID, messageID, authorID int64, up, down int) error
}

// CreatePollRequest carries a parsed poll and where it is posted
type CreatePollRequest struct {
	GuildID   int64
	ChannelID int64
	AuthorID  int64
	Parsed    *entities.ParsedPoll
	Now       time.Time
}

// VoteOutcome reports the side effects of casting a vote
type VoteOutcome struct {
	Recorded bool
	Replaced []string // Emojis of earlier votes removed in single-vote mode
}

// PollService defines reaction poll operations
type PollService interface {
	CreatePoll(ctx context.Context, req CreatePollRequest) (*entities.Poll, error)
	AttachMessage(ctx context.Context, poll *entities.Poll, messageID int64) error
	GetByMessageID(ctx context.Context, messageID int64) (*entities.Poll, error)
	GetByID(ctx context.Context, pollID int64) (*entities.Poll, error)
	GetOpenPolls(ctx context.Context) ([]*entities.Poll, error)
	GetExpiredPolls(ctx context.Context, now time.Time) ([]*entities.Poll, error)
	CastVote(ctx context.Context, poll *entities.Poll, userID int64, emoji string) (*VoteOutcome, error)
	RetractVote(ctx context.Context, poll *entities.Poll, userID int64, emoji string) error

	// ClosePoll marks the poll closed and returns its results. When counts is
	// nil the stored votes are used.
	ClosePoll(ctx context.Context, poll *entities.Poll, counts map[string]int) ([]entities.PollResult, error)
}

// DefconService defines DEFCON meter operations
type DefconService interface {
	GetDefcon(ctx context.Context) (*entities.Defcon, error)

	// Raise moves one level closer to DEFCON 1
	Raise(ctx context.Context, authority string) (*entities.Defcon, error)

	// Lower moves one level closer to DEFCON 5
	Lower(ctx context.Context, authority string) (*entities.Defcon, error)

	SetLevel(ctx context.Context, level int, authority string) (*entities.Defcon, error)
}

// ProfileService defines battletag and Smite name operations
type ProfileService interface {
	GetBattletag(ctx context.Context, discordID int64) (string, error)
	SetBattletag(ctx context.Context, discordID int64, battletag string) error
	ClearBattletag(ctx context.Context, discordID int64) error
	GetSmiteName(ctx context.Context, discordID int64) (string, error)
	SetSmiteName(ctx context.Context, discordID int64, name string) error
	ClearSmiteName(ctx context.Context, discordID int64) error
}

// CredentialService defines access to global API credentials
type CredentialService interface {
	GetBlizzardAPIKey(ctx context.Context) (string, error)
	SetBlizzardAPIKey(ctx context.Context, key string) error
	GetSmiteCredentials(ctx context.Context) (*entities.SmiteCredentials, error)
	SetSmiteCredentials(ctx context.Context, devID, authKey string) error
	SetSmiteSession(ctx context.Context, sessionID string) error
}

// BlizzardSettingsService defines patch note setting operations
type BlizzardSettingsService interface {
	GetSettings(ctx context.Context) (*entities.BlizzardSettings, error)
	SetNotesFormat(ctx context.Context, format string) error
	SetNotesTimeout(ctx context.Context, seconds int) error
}

// SoundSettingsService defines per-sound volume operations
type SoundSettingsService interface {
	// GetVolume returns the stored volume or fallback when none is stored
	GetVolume(ctx context.Context, soundName string, fallback int) (int, error)
	SetVolume(ctx context.Context, soundName string, volume int) error
	ForgetSound(ctx context.Context, soundName string) error
}

// WordcloudSettingsService defines wordcloud setting operations
type WordcloudSettingsService interface {
	GetSettings(ctx context.Context) (*entities.WordcloudSettings, error)
	SetBgColor(ctx context.Context, color string) error
	SetMaxWords(ctx context.Context, maxWords int) error
	ExcludeWord(ctx context.Context, word string) error
	ClearExcludedWords(ctx context.Context) error
	ToggleColorMask(ctx context.Context) (bool, error)
	SetMask(ctx context.Context, file *string) error
}

// ModerationService defines colorme role protection and wat channel ignores
type ModerationService interface {
	GetProtectedRoles(ctx context.Context) ([]int64, error)
	ProtectRole(ctx context.Context, roleID int64) error
	UnprotectRole(ctx context.Context, roleID int64) error
	IsProtected(ctx context.Context, roleID int64) (bool, error)
	ToggleWatChannel(ctx context.Context, channelID int64) (bool, error)
	IsWatChannelIgnored(ctx context.Context, channelID int64) (bool, error)
}
