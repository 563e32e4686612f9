package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"cogbot/domain/entities"
	"cogbot/domain/interfaces"
	"cogbot/domain/testhelpers"
	"cogbot/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestPoll(multi bool) *entities.Poll {
	return &entities.Poll{
		ID:            42,
		GuildID:       1001,
		ChannelID:     2002,
		AuthorID:      3003,
		Question:      "Best pet?",
		Options:       []string{"cat", "dog", "fish"},
		Emojis:        PollEmojis(3),
		MultipleVotes: multi,
		EndTime:       time.Now().Add(time.Minute),
	}
}

func TestPollService_CreatePoll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(testhelpers.MockPollRepository)
	mockPublisher := new(testhelpers.MockEventPublisher)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mockRepo.On("Create", ctx, mock.MatchedBy(func(p *entities.Poll) bool {
		return p.Question == "Best pet?" && len(p.Emojis) == 2 && p.EndTime.Equal(now.Add(5*time.Minute))
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*entities.Poll).ID = 7
	}).Return(nil)

	service := NewPollService(mockRepo, mockPublisher)
	poll, err := service.CreatePoll(ctx, interfaces.CreatePollRequest{
		GuildID:   1,
		ChannelID: 2,
		AuthorID:  3,
		Parsed: &entities.ParsedPoll{
			Question: "Best pet?",
			Options:  []string{"cat", "dog"},
			Duration: 5 * time.Minute,
		},
		Now: now,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), poll.ID)
	assert.Equal(t, []string{"1️⃣", "2️⃣"}, poll.Emojis)
	assert.True(t, poll.Embed)
	mockRepo.AssertExpectations(t)
	mockPublisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestPollService_AttachMessagePublishesOpened(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mockRepo := new(testhelpers.MockPollRepository)
	mockPublisher := new(testhelpers.MockEventPublisher)
	poll := newTestPoll(false)

	mockRepo.On("SetMessageID", ctx, int64(42), int64(555)).Return(nil)
	mockPublisher.On("Publish", mock.MatchedBy(func(e events.PollOpenedEvent) bool {
		return e.PollID == 42 && e.MessageID == 555 && e.Question == "Best pet?"
	})).Return(nil)

	service := NewPollService(mockRepo, mockPublisher)
	require.NoError(t, service.AttachMessage(ctx, poll, 555))

	require.NotNil(t, poll.MessageID)
	assert.Equal(t, int64(555), *poll.MessageID)
	mockRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestPollService_CastVote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		multi        bool
		closed       bool
		emoji        string
		setupMock    func(*testhelpers.MockPollRepository)
		wantReplaced []string
		wantErr      error
	}{
		{
			name:  "first vote in single-vote mode",
			emoji: "1️⃣",
			setupMock: func(m *testhelpers.MockPollRepository) {
				m.On("GetUserVotes", mock.Anything, int64(42), int64(9)).Return([]string{}, nil)
				m.On("AddVote", mock.Anything, &entities.PollVote{PollID: 42, UserID: 9, Emoji: "1️⃣"}).Return(nil)
			},
		},
		{
			name:  "changing vote removes the previous one",
			emoji: "2️⃣",
			setupMock: func(m *testhelpers.MockPollRepository) {
				m.On("GetUserVotes", mock.Anything, int64(42), int64(9)).Return([]string{"1️⃣"}, nil)
				m.On("RemoveVote", mock.Anything, &entities.PollVote{PollID: 42, UserID: 9, Emoji: "1️⃣"}).Return(true, nil)
				m.On("AddVote", mock.Anything, &entities.PollVote{PollID: 42, UserID: 9, Emoji: "2️⃣"}).Return(nil)
			},
			wantReplaced: []string{"1️⃣"},
		},
		{
			name:  "multi-vote keeps earlier votes",
			multi: true,
			emoji: "3️⃣",
			setupMock: func(m *testhelpers.MockPollRepository) {
				m.On("AddVote", mock.Anything, &entities.PollVote{PollID: 42, UserID: 9, Emoji: "3️⃣"}).Return(nil)
			},
		},
		{
			name:      "emoji outside the poll",
			emoji:     "🍕",
			setupMock: func(m *testhelpers.MockPollRepository) {},
			wantErr:   entities.ErrInvalidEmoji,
		},
		{
			name:      "closed poll",
			closed:    true,
			emoji:     "1️⃣",
			setupMock: func(m *testhelpers.MockPollRepository) {},
			wantErr:   entities.ErrPollClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockRepo := new(testhelpers.MockPollRepository)
			tt.setupMock(mockRepo)
			poll := newTestPoll(tt.multi)
			poll.Closed = tt.closed

			service := NewPollService(mockRepo, new(testhelpers.MockEventPublisher))
			outcome, err := service.CastVote(context.Background(), poll, 9, tt.emoji)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, outcome)
			} else {
				require.NoError(t, err)
				assert.True(t, outcome.Recorded)
				assert.Equal(t, tt.wantReplaced, outcome.Replaced)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestPollService_ClosePoll(t *testing.T) {
	t.Parallel()

	t.Run("uses provided counts and publishes results", func(t *testing.T) {
		t.Parallel()

		mockRepo := new(testhelpers.MockPollRepository)
		mockPublisher := new(testhelpers.MockEventPublisher)
		poll := newTestPoll(false)

		mockRepo.On("MarkClosed", mock.Anything, int64(42)).Return(true, nil)
		mockPublisher.On("Publish", mock.MatchedBy(func(e events.PollClosedEvent) bool {
			return e.PollID == 42 && len(e.Results) == 3 && e.Results[0].Option == "dog"
		})).Return(nil)

		service := NewPollService(mockRepo, mockPublisher)
		results, err := service.ClosePoll(context.Background(), poll, map[string]int{"1️⃣": 1, "2️⃣": 4})

		require.NoError(t, err)
		assert.Equal(t, "dog", results[0].Option)
		assert.Equal(t, 4, results[0].Votes)
		assert.Equal(t, "cat", results[1].Option)
		assert.Equal(t, 0, results[2].Votes)
		assert.True(t, poll.Closed)
		mockRepo.AssertExpectations(t)
		mockPublisher.AssertExpectations(t)
	})

	t.Run("falls back to stored votes", func(t *testing.T) {
		t.Parallel()

		mockRepo := new(testhelpers.MockPollRepository)
		mockPublisher := new(testhelpers.MockEventPublisher)
		poll := newTestPoll(false)

		mockRepo.On("GetVoteCounts", mock.Anything, int64(42)).Return(map[string]int{"3️⃣": 2}, nil)
		mockRepo.On("MarkClosed", mock.Anything, int64(42)).Return(true, nil)
		mockPublisher.On("Publish", mock.Anything).Return(nil)

		service := NewPollService(mockRepo, mockPublisher)
		results, err := service.ClosePoll(context.Background(), poll, nil)

		require.NoError(t, err)
		assert.Equal(t, "fish", results[0].Option)
		mockRepo.AssertExpectations(t)
	})

	t.Run("already closed elsewhere", func(t *testing.T) {
		t.Parallel()

		mockRepo := new(testhelpers.MockPollRepository)
		mockPublisher := new(testhelpers.MockEventPublisher)
		poll := newTestPoll(false)

		mockRepo.On("MarkClosed", mock.Anything, int64(42)).Return(false, nil)

		service := NewPollService(mockRepo, mockPublisher)
		_, err := service.ClosePoll(context.Background(), poll, map[string]int{})

		assert.ErrorIs(t, err, entities.ErrPollClosed)
		mockPublisher.AssertNotCalled(t, "Publish", mock.Anything)
	})

	t.Run("repository error is wrapped", func(t *testing.T) {
		t.Parallel()

		mockRepo := new(testhelpers.MockPollRepository)
		poll := newTestPoll(false)

		mockRepo.On("MarkClosed", mock.Anything, int64(42)).Return(false, errors.New("connection reset"))

		service := NewPollService(mockRepo, new(testhelpers.MockEventPublisher))
		_, err := service.ClosePoll(context.Background(), poll, map[string]int{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to close poll")
	})
}
