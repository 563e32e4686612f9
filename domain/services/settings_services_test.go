package services

import (
	"context"
	"testing"

	"cogbot/domain/entities"
	"cogbot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestValidBattletag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag  string
		want bool
	}{
		{"Player#1234", true},
		{"Player#12345", true},
		{"Player#123", false},
		{"#1234", false},
		{"Player1234", false},
		{"Player#123456", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidBattletag(tt.tag), tt.tag)
	}
}

func TestProfileService_SetBattletag(t *testing.T) {
	t.Parallel()

	t.Run("valid tag is stored", func(t *testing.T) {
		t.Parallel()

		mockRepo := new(testhelpers.MockProfileRepository)
		mockRepo.On("SetBattletag", mock.Anything, int64(10), "Jeff#1111").Return(nil)

		err := NewProfileService(mockRepo).SetBattletag(context.Background(), 10, " Jeff#1111 ")
		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("invalid tag is rejected", func(t *testing.T) {
		t.Parallel()

		mockRepo := new(testhelpers.MockProfileRepository)
		err := NewProfileService(mockRepo).SetBattletag(context.Background(), 10, "Jeff")
		assert.ErrorIs(t, err, entities.ErrInvalidBattletag)
		mockRepo.AssertNotCalled(t, "SetBattletag", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestBlizzardSettingsService(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		call    func(s *blizzardSettingsService) error
		wantErr error
		check   func(t *testing.T, settings *entities.BlizzardSettings)
	}{
		{
			name: "embed format",
			call: func(s *blizzardSettingsService) error {
				return s.SetNotesFormat(context.Background(), entities.NotesFormatEmbed)
			},
			check: func(t *testing.T, settings *entities.BlizzardSettings) {
				assert.Equal(t, "embed", settings.NotesFormat)
			},
		},
		{
			name: "unknown format",
			call: func(s *blizzardSettingsService) error {
				return s.SetNotesFormat(context.Background(), "scroll")
			},
			wantErr: entities.ErrInvalidNotesFormat,
		},
		{
			name: "timeout at lower bound",
			call: func(s *blizzardSettingsService) error {
				return s.SetNotesTimeout(context.Background(), 5)
			},
			check: func(t *testing.T, settings *entities.BlizzardSettings) {
				assert.Equal(t, 5, settings.NotesTimeoutSeconds)
			},
		},
		{
			name: "timeout too long",
			call: func(s *blizzardSettingsService) error {
				return s.SetNotesTimeout(context.Background(), 3601)
			},
			wantErr: entities.ErrInvalidNotesTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockRepo := new(testhelpers.MockBlizzardSettingsRepository)
			settings := &entities.BlizzardSettings{NotesFormat: "paged", NotesTimeoutSeconds: 60}
			if tt.wantErr == nil {
				mockRepo.On("GetOrCreate", mock.Anything).Return(settings, nil)
				mockRepo.On("Update", mock.Anything, settings).Return(nil)
			}

			service := NewBlizzardSettingsService(mockRepo).(*blizzardSettingsService)
			err := tt.call(service)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, settings)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCredentialService_GetSmiteCredentials(t *testing.T) {
	t.Parallel()

	t.Run("complete", func(t *testing.T) {
		t.Parallel()

		mockRepo := new(testhelpers.MockCredentialRepository)
		mockRepo.On("Get", mock.Anything, entities.CredentialSmiteDevID).Return("1004", true, nil)
		mockRepo.On("Get", mock.Anything, entities.CredentialSmiteAuthKey).Return("secret", true, nil)
		mockRepo.On("Get", mock.Anything, entities.CredentialSmiteSession).Return("", false, nil)

		creds, err := NewCredentialService(mockRepo).GetSmiteCredentials(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "1004", creds.DevID)
		assert.Equal(t, "secret", creds.AuthKey)
		assert.Empty(t, creds.SessionID)
	})

	t.Run("missing auth key", func(t *testing.T) {
		t.Parallel()

		mockRepo := new(testhelpers.MockCredentialRepository)
		mockRepo.On("Get", mock.Anything, entities.CredentialSmiteDevID).Return("1004", true, nil)
		mockRepo.On("Get", mock.Anything, entities.CredentialSmiteAuthKey).Return("", false, nil)
		mockRepo.On("Get", mock.Anything, entities.CredentialSmiteSession).Return("", false, nil)

		_, err := NewCredentialService(mockRepo).GetSmiteCredentials(context.Background())
		assert.ErrorIs(t, err, entities.ErrCredentialsMissing)
	})
}

func TestSoundSettingsService(t *testing.T) {
	t.Parallel()

	mockRepo := new(testhelpers.MockSoundSettingsRepository)
	mockRepo.On("GetVolume", mock.Anything, "airhorn").Return(0, false, nil)
	mockRepo.On("GetVolume", mock.Anything, "quiet").Return(20, true, nil)

	service := NewSoundSettingsService(mockRepo)

	volume, err := service.GetVolume(context.Background(), "airhorn", 75)
	require.NoError(t, err)
	assert.Equal(t, 75, volume)

	volume, err = service.GetVolume(context.Background(), "quiet", 75)
	require.NoError(t, err)
	assert.Equal(t, 20, volume)

	assert.ErrorIs(t, service.SetVolume(context.Background(), "quiet", 201), entities.ErrInvalidVolume)
	assert.ErrorIs(t, service.SetVolume(context.Background(), "quiet", -1), entities.ErrInvalidVolume)
}

func TestWordcloudSettingsService_ExcludeWord(t *testing.T) {
	t.Parallel()

	mockRepo := new(testhelpers.MockWordcloudSettingsRepository)
	settings := &entities.WordcloudSettings{BgColor: "black", ExcludedWords: []string{"lol"}}
	mockRepo.On("GetOrCreate", mock.Anything).Return(settings, nil)
	mockRepo.On("Update", mock.Anything, settings).Return(nil)

	service := NewWordcloudSettingsService(mockRepo)

	require.NoError(t, service.ExcludeWord(context.Background(), "Pog"))
	assert.Equal(t, []string{"lol", "pog"}, settings.ExcludedWords)
	assert.ErrorIs(t, service.ExcludeWord(context.Background(), "LOL"), entities.ErrWordAlreadyExcluded)
}

func TestModerationService_ToggleWatChannel(t *testing.T) {
	t.Parallel()

	mockRepo := new(testhelpers.MockModerationRepository)
	mockRepo.On("IsWatChannelIgnored", mock.Anything, int64(8)).Return(false, nil)
	mockRepo.On("SetWatChannelIgnored", mock.Anything, int64(8), true).Return(nil)

	ignored, err := NewModerationService(mockRepo).ToggleWatChannel(context.Background(), 8)
	require.NoError(t, err)
	assert.True(t, ignored)
	mockRepo.AssertExpectations(t)
}

func TestGuildSettingsService_ToggleWatIgnored(t *testing.T) {
	t.Parallel()

	mockRepo := new(testhelpers.MockGuildSettingsRepository)
	settings := &entities.GuildSettings{GuildID: 3}
	mockRepo.On("GetOrCreateGuildSettings", mock.Anything, int64(3)).Return(settings, nil)
	mockRepo.On("UpdateGuildSettings", mock.Anything, settings).Return(nil)

	ignored, err := NewGuildSettingsService(mockRepo).ToggleWatIgnored(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, ignored)
	mockRepo.AssertExpectations(t)
}
