package services

import (
	"context"
	"errors"
	"testing"

	"cogbot/domain/entities"
	"cogbot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSmartReactService_AddReaction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		emoji       string
		word        string
		setupMock   func(*testhelpers.MockSmartReactionRepository)
		wantErr     error
		errContains string
	}{
		{
			name:  "word is lowercased",
			emoji: "🔥",
			word:  "  Fire ",
			setupMock: func(m *testhelpers.MockSmartReactionRepository) {
				m.On("Add", mock.Anything, "🔥", "fire").Return(true, nil)
			},
		},
		{
			name:  "duplicate pair",
			emoji: "🔥",
			word:  "fire",
			setupMock: func(m *testhelpers.MockSmartReactionRepository) {
				m.On("Add", mock.Anything, "🔥", "fire").Return(false, nil)
			},
			wantErr: entities.ErrReactionExists,
		},
		{
			name:      "multiple words rejected",
			emoji:     "🔥",
			word:      "on fire",
			setupMock: func(m *testhelpers.MockSmartReactionRepository) {},
			wantErr:   entities.ErrInvalidWord,
		},
		{
			name:  "repository error",
			emoji: "🔥",
			word:  "fire",
			setupMock: func(m *testhelpers.MockSmartReactionRepository) {
				m.On("Add", mock.Anything, "🔥", "fire").Return(false, errors.New("boom"))
			},
			errContains: "failed to add smart reaction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockRepo := new(testhelpers.MockSmartReactionRepository)
			tt.setupMock(mockRepo)

			service := NewSmartReactService(mockRepo, new(testhelpers.MockEventPublisher))
			err := service.AddReaction(context.Background(), tt.emoji, tt.word)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errContains != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			default:
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestSmartReactService_RemoveReactionMissing(t *testing.T) {
	t.Parallel()

	mockRepo := new(testhelpers.MockSmartReactionRepository)
	mockRepo.On("Remove", mock.Anything, "🐸", "frog").Return(false, nil)

	service := NewSmartReactService(mockRepo, new(testhelpers.MockEventPublisher))
	err := service.RemoveReaction(context.Background(), "🐸", "FROG")

	assert.ErrorIs(t, err, entities.ErrReactionNotFound)
	mockRepo.AssertExpectations(t)
}

func TestSmartReactService_MatchMessage(t *testing.T) {
	t.Parallel()

	mockRepo := new(testhelpers.MockSmartReactionRepository)
	mockRepo.On("GetAll", mock.Anything).Return(entities.SmartReactionSet{
		{Emoji: "🐸", Words: []string{"frog", "toad"}},
		{Emoji: "🔥", Words: []string{"fire"}},
		{Emoji: "🍕", Words: []string{"pizza"}},
	}, nil)

	service := NewSmartReactService(mockRepo, new(testhelpers.MockEventPublisher))
	got, err := service.MatchMessage(context.Background(), "A TOAD sat by the fire, eating pizza!")

	require.NoError(t, err)
	// "pizza!" keeps its punctuation so it does not match
	assert.Equal(t, []string{"🐸"}, got)
}
