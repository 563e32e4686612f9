package testhelpers

import (
	"context"
	"time"

	"cogbot/domain/entities"
	"cogbot/events"

	"github.com/stretchr/testify/mock"
)

// MockGuildSettingsRepository is a mock implementation of GuildSettingsRepository
type MockGuildSettingsRepository struct {
	mock.Mock
}

func (m *MockGuildSettingsRepository) GetOrCreateGuildSettings(ctx context.Context, guildID int64) (*entities.GuildSettings, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.GuildSettings), args.Error(1)
}

func (m *MockGuildSettingsRepository) UpdateGuildSettings(ctx context.Context, settings *entities.GuildSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockSmartReactionRepository is a mock implementation of SmartReactionRepository
type MockSmartReactionRepository struct {
	mock.Mock
}

func (m *MockSmartReactionRepository) GetAll(ctx context.Context) (entities.SmartReactionSet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entities.SmartReactionSet), args.Error(1)
}

func (m *MockSmartReactionRepository) Add(ctx context.Context, emoji, word string) (bool, error) {
	args := m.Called(ctx, emoji, word)
	return args.Bool(0), args.Error(1)
}

func (m *MockSmartReactionRepository) Remove(ctx context.Context, emoji, word string) (bool, error) {
	args := m.Called(ctx, emoji, word)
	return args.Bool(0), args.Error(1)
}

func (m *MockSmartReactionRepository) RemoveEmoji(ctx context.Context, emoji string) (int64, error) {
	args := m.Called(ctx, emoji)
	return args.Get(0).(int64), args.Error(1)
}

// MockMsgVoteRepository is a mock implementation of MsgVoteRepository
type MockMsgVoteRepository struct {
	mock.Mock
}

func (m *MockMsgVoteRepository) GetOrCreateSettings(ctx context.Context) (*entities.MsgVoteSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MsgVoteSettings), args.Error(1)
}

func (m *MockMsgVoteRepository) UpdateSettings(ctx context.Context, settings *entities.MsgVoteSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockMsgVoteRepository) SetChannelEnabled(ctx context.Context, channelID int64, enabled bool) (bool, error) {
	args := m.Called(ctx, channelID, enabled)
	return args.Bool(0), args.Error(1)
}

// MockPollRepository is a mock implementation of PollRepository
type MockPollRepository struct {
	mock.Mock
}

func (m *MockPollRepository) Create(ctx context.Context, poll *entities.Poll) error {
	args := m.Called(ctx, poll)
	return args.Error(0)
}

func (m *MockPollRepository) GetByID(ctx context.Context, id int64) (*entities.Poll, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Poll), args.Error(1)
}

func (m *MockPollRepository) GetByMessageID(ctx context.Context, messageID int64) (*entities.Poll, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Poll), args.Error(1)
}

func (m *MockPollRepository) SetMessageID(ctx context.Context, pollID, messageID int64) error {
	args := m.Called(ctx, pollID, messageID)
	return args.Error(0)
}

func (m *MockPollRepository) GetOpen(ctx context.Context) ([]*entities.Poll, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Poll), args.Error(1)
}

func (m *MockPollRepository) GetExpired(ctx context.Context, now time.Time) ([]*entities.Poll, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Poll), args.Error(1)
}

func (m *MockPollRepository) MarkClosed(ctx context.Context, pollID int64) (bool, error) {
	args := m.Called(ctx, pollID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPollRepository) AddVote(ctx context.Context, vote *entities.PollVote) error {
	args := m.Called(ctx, vote)
	return args.Error(0)
}

func (m *MockPollRepository) RemoveVote(ctx context.Context, vote *entities.PollVote) (bool, error) {
	args := m.Called(ctx, vote)
	return args.Bool(0), args.Error(1)
}

func (m *MockPollRepository) GetUserVotes(ctx context.Context, pollID, userID int64) ([]string, error) {
	args := m.Called(ctx, pollID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockPollRepository) GetVoteCounts(ctx context.Context, pollID int64) (map[string]int, error) {
	args := m.Called(ctx, pollID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

// MockDefconRepository is a mock implementation of DefconRepository
type MockDefconRepository struct {
	mock.Mock
}

func (m *MockDefconRepository) GetOrCreate(ctx context.Context) (*entities.Defcon, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Defcon), args.Error(1)
}

func (m *MockDefconRepository) Save(ctx context.Context, defcon *entities.Defcon) error {
	args := m.Called(ctx, defcon)
	return args.Error(0)
}

// MockProfileRepository is a mock implementation of ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetBattletag(ctx context.Context, discordID int64) (string, error) {
	args := m.Called(ctx, discordID)
	return args.String(0), args.Error(1)
}

func (m *MockProfileRepository) SetBattletag(ctx context.Context, discordID int64, battletag string) error {
	args := m.Called(ctx, discordID, battletag)
	return args.Error(0)
}

func (m *MockProfileRepository) ClearBattletag(ctx context.Context, discordID int64) (bool, error) {
	args := m.Called(ctx, discordID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileRepository) GetSmiteName(ctx context.Context, discordID int64) (string, error) {
	args := m.Called(ctx, discordID)
	return args.String(0), args.Error(1)
}

func (m *MockProfileRepository) SetSmiteName(ctx context.Context, discordID int64, name string) error {
	args := m.Called(ctx, discordID, name)
	return args.Error(0)
}

func (m *MockProfileRepository) ClearSmiteName(ctx context.Context, discordID int64) (bool, error) {
	args := m.Called(ctx, discordID)
	return args.Bool(0), args.Error(1)
}

// MockCredentialRepository is a mock implementation of CredentialRepository
type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockCredentialRepository) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// MockBlizzardSettingsRepository is a mock implementation of BlizzardSettingsRepository
type MockBlizzardSettingsRepository struct {
	mock.Mock
}

func (m *MockBlizzardSettingsRepository) GetOrCreate(ctx context.Context) (*entities.BlizzardSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BlizzardSettings), args.Error(1)
}

func (m *MockBlizzardSettingsRepository) Update(ctx context.Context, settings *entities.BlizzardSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockSoundSettingsRepository is a mock implementation of SoundSettingsRepository
type MockSoundSettingsRepository struct {
	mock.Mock
}

func (m *MockSoundSettingsRepository) GetVolume(ctx context.Context, soundName string) (int, bool, error) {
	args := m.Called(ctx, soundName)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockSoundSettingsRepository) SetVolume(ctx context.Context, soundName string, volume int) error {
	args := m.Called(ctx, soundName, volume)
	return args.Error(0)
}

func (m *MockSoundSettingsRepository) Delete(ctx context.Context, soundName string) error {
	args := m.Called(ctx, soundName)
	return args.Error(0)
}

// MockWordcloudSettingsRepository is a mock implementation of WordcloudSettingsRepository
type MockWordcloudSettingsRepository struct {
	mock.Mock
}

func (m *MockWordcloudSettingsRepository) GetOrCreate(ctx context.Context) (*entities.WordcloudSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WordcloudSettings), args.Error(1)
}

func (m *MockWordcloudSettingsRepository) Update(ctx context.Context, settings *entities.WordcloudSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockModerationRepository is a mock implementation of ModerationRepository
type MockModerationRepository struct {
	mock.Mock
}

func (m *MockModerationRepository) GetProtectedRoles(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockModerationRepository) AddProtectedRole(ctx context.Context, roleID int64) (bool, error) {
	args := m.Called(ctx, roleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockModerationRepository) RemoveProtectedRole(ctx context.Context, roleID int64) (bool, error) {
	args := m.Called(ctx, roleID)
	return args.Bool(0), args.Error(1)
}

func (m *MockModerationRepository) IsWatChannelIgnored(ctx context.Context, channelID int64) (bool, error) {
	args := m.Called(ctx, channelID)
	return args.Bool(0), args.Error(1)
}

func (m *MockModerationRepository) SetWatChannelIgnored(ctx context.Context, channelID int64, ignored bool) error {
	args := m.Called(ctx, channelID, ignored)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
