package interfaces

import (
	"context"
	"time"

	"cogbot/domain/entities"
	"cogbot/events"
)

// GuildSettingsRepository defines the interface for guild settings data access
type GuildSettingsRepository interface {
	// GetOrCreateGuildSettings retrieves guild settings or creates default ones
	GetOrCreateGuildSettings(ctx context.Context, guildID int64) (*entities.GuildSettings, error)

	// UpdateGuildSettings persists the mutable guild settings
	UpdateGuildSettings(ctx context.Context, settings *entities.GuildSettings) error
}

// SmartReactionRepository stores keyword reactions for the scoped guild
type SmartReactionRepository interface {
	// GetAll returns every emoji with its trigger words
	GetAll(ctx context.Context) (entities.SmartReactionSet, error)

	// Add stores the pair and reports false when it already existed
	Add(ctx context.Context, emoji, word string) (bool, error)

	// Remove deletes the pair and reports false when it did not exist
	Remove(ctx context.Context, emoji, word string) (bool, error)

	// RemoveEmoji deletes every word for emoji and returns how many were removed
	RemoveEmoji(ctx context.Context, emoji string) (int64, error)
}

// MsgVoteRepository stores vote-to-delete settings for the scoped guild
type MsgVoteRepository interface {
	// GetOrCreateSettings returns settings including enabled channels
	GetOrCreateSettings(ctx context.Context) (*entities.MsgVoteSettings, error)

	// UpdateSettings persists everything except the channel list
	UpdateSettings(ctx context.Context, settings *entities.MsgVoteSettings) error

	// SetChannelEnabled adds or removes a channel and reports whether anything changed
	SetChannelEnabled(ctx context.Context, channelID int64, enabled bool) (bool, error)
}

// PollRepository stores reaction polls and their votes
type PollRepository interface {
	// Create inserts the poll and fills in ID and CreatedAt
	Create(ctx context.Context, poll *entities.Poll) error

	// GetByID returns the poll or entities.ErrPollNotFound
	GetByID(ctx context.Context, id int64) (*entities.Poll, error)

	// GetByMessageID returns the poll posted as messageID or entities.ErrPollNotFound
	GetByMessageID(ctx context.Context, messageID int64) (*entities.Poll, error)

	// SetMessageID records the posted message for a poll
	SetMessageID(ctx context.Context, pollID, messageID int64) error

	// GetOpen returns the open polls of the scoped guild ordered by end time
	GetOpen(ctx context.Context) ([]*entities.Poll, error)

	// GetExpired returns open polls in any guild whose end time is not after now
	GetExpired(ctx context.Context, now time.Time) ([]*entities.Poll, error)

	// MarkClosed closes the poll and reports false if it was already closed
	MarkClosed(ctx context.Context, pollID int64) (bool, error)

	// AddVote records a vote; duplicates are ignored
	AddVote(ctx context.Context, vote *entities.PollVote) error

	// RemoveVote deletes a vote and reports whether it existed
	RemoveVote(ctx context.Context, vote *entities.PollVote) (bool, error)

	// GetUserVotes returns the emojis a user has voted with on a poll
	GetUserVotes(ctx context.Context, pollID, userID int64) ([]string, error)

	// GetVoteCounts returns votes per emoji for a poll
	GetVoteCounts(ctx context.Context, pollID int64) (map[string]int, error)
}

// DefconRepository stores the DEFCON meter for the scoped guild
type DefconRepository interface {
	// GetOrCreate returns the current level, creating level 5 when absent
	GetOrCreate(ctx context.Context) (*entities.Defcon, error)

	// Save persists level and authority
	Save(ctx context.Context, defcon *entities.Defcon) error
}

// ProfileRepository stores global per-user game names
type ProfileRepository interface {
	// GetBattletag returns the stored battletag or "" when none is stored
	GetBattletag(ctx context.Context, discordID int64) (string, error)
	SetBattletag(ctx context.Context, discordID int64, battletag string) error
	ClearBattletag(ctx context.Context, discordID int64) (bool, error)

	// GetSmiteName returns the stored Smite name or "" when none is stored
	GetSmiteName(ctx context.Context, discordID int64) (string, error)
	SetSmiteName(ctx context.Context, discordID int64, name string) error
	ClearSmiteName(ctx context.Context, discordID int64) (bool, error)
}

// CredentialRepository stores global API credentials
type CredentialRepository interface {
	// Get returns the value and whether it was present
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// BlizzardSettingsRepository stores the global patch note settings
type BlizzardSettingsRepository interface {
	GetOrCreate(ctx context.Context) (*entities.BlizzardSettings, error)
	Update(ctx context.Context, settings *entities.BlizzardSettings) error
}

// SoundSettingsRepository stores per-sound volumes for the scoped guild
type SoundSettingsRepository interface {
	// GetVolume returns the stored volume and whether one was stored
	GetVolume(ctx context.Context, soundName string) (int, bool, error)
	SetVolume(ctx context.Context, soundName string, volume int) error
	Delete(ctx context.Context, soundName string) error
}

// WordcloudSettingsRepository stores wordcloud settings for the scoped guild
type WordcloudSettingsRepository interface {
	GetOrCreate(ctx context.Context) (*entities.WordcloudSettings, error)
	Update(ctx context.Context, settings *entities.WordcloudSettings) error
}

// ModerationRepository stores colorme protected roles and wat ignored channels
type ModerationRepository interface {
	GetProtectedRoles(ctx context.Context) ([]int64, error)
	AddProtectedRole(ctx context.Context, roleID int64) (bool, error)
	RemoveProtectedRole(ctx context.Context, roleID int64) (bool, error)

	IsWatChannelIgnored(ctx context.Context, channelID int64) (bool, error)
	SetWatChannelIgnored(ctx context.Context, channelID int64, ignored bool) error
}

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(event events.Event) error
}
