package services

import (
	"context"
	"testing"

	"cogbot/domain/entities"
	"cogbot/domain/testhelpers"
	"cogbot/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDefconService_Changes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		startLevel   int
		action       func(s *defconService) (*entities.Defcon, error)
		wantLevel    int
		wantErr      error
		expectChange bool
	}{
		{
			name:       "raise moves toward defcon 1",
			startLevel: 3,
			action: func(s *defconService) (*entities.Defcon, error) {
				return s.Raise(context.Background(), "Alice")
			},
			wantLevel:    2,
			expectChange: true,
		},
		{
			name:       "raise at defcon 1 is refused",
			startLevel: 1,
			action: func(s *defconService) (*entities.Defcon, error) {
				return s.Raise(context.Background(), "Alice")
			},
			wantLevel: 1,
			wantErr:   entities.ErrDefconAtMaximum,
		},
		{
			name:       "lower moves toward defcon 5",
			startLevel: 4,
			action: func(s *defconService) (*entities.Defcon, error) {
				return s.Lower(context.Background(), "Alice")
			},
			wantLevel:    5,
			expectChange: true,
		},
		{
			name:       "lower at defcon 5 is refused",
			startLevel: 5,
			action: func(s *defconService) (*entities.Defcon, error) {
				return s.Lower(context.Background(), "Alice")
			},
			wantLevel: 5,
			wantErr:   entities.ErrDefconAtMinimum,
		},
		{
			name:       "set to an explicit level",
			startLevel: 5,
			action: func(s *defconService) (*entities.Defcon, error) {
				return s.SetLevel(context.Background(), 2, "Alice")
			},
			wantLevel:    2,
			expectChange: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockRepo := new(testhelpers.MockDefconRepository)
			mockPublisher := new(testhelpers.MockEventPublisher)

			mockRepo.On("GetOrCreate", mock.Anything).Return(&entities.Defcon{
				GuildID:   77,
				Level:     tt.startLevel,
				Authority: entities.DefaultAuthority,
			}, nil)
			if tt.expectChange {
				mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(d *entities.Defcon) bool {
					return d.Level == tt.wantLevel && d.Authority == "Alice"
				})).Return(nil)
				mockPublisher.On("Publish", events.DefconChangedEvent{
					GuildID:   77,
					OldLevel:  tt.startLevel,
					NewLevel:  tt.wantLevel,
					Authority: "Alice",
				}).Return(nil)
			}

			service := NewDefconService(mockRepo, mockPublisher).(*defconService)
			got, err := tt.action(service)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantLevel, got.Level)

			mockRepo.AssertExpectations(t)
			mockPublisher.AssertExpectations(t)
			if !tt.expectChange {
				mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestDefconService_SetLevelRejectsInvalid(t *testing.T) {
	t.Parallel()

	for _, level := range []int{0, 6, -1} {
		mockRepo := new(testhelpers.MockDefconRepository)
		service := NewDefconService(mockRepo, new(testhelpers.MockEventPublisher))

		_, err := service.SetLevel(context.Background(), level, "Bob")
		assert.ErrorIs(t, err, entities.ErrInvalidDefconLevel, "level %d", level)
		mockRepo.AssertNotCalled(t, "GetOrCreate", mock.Anything)
	}
}
