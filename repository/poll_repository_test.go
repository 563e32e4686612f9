package repository

import (
	"context"
	"testing"
	"time"

	"cogbot/domain/entities"
	"cogbot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollRepository_Lifecycle(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewPollRepositoryScoped(testDB.DB, 100)

	poll := testutil.CreateTestPoll(10, 20, time.Hour)
	require.NoError(t, repo.Create(ctx, poll))
	require.NotZero(t, poll.ID)
	assert.Equal(t, int64(100), poll.GuildID)

	t.Run("get by id round trips options", func(t *testing.T) {
		loaded, err := repo.GetByID(ctx, poll.ID)
		require.NoError(t, err)
		assert.Equal(t, poll.Question, loaded.Question)
		assert.Equal(t, poll.Options, loaded.Options)
		assert.Equal(t, poll.Emojis, loaded.Emojis)
		assert.Nil(t, loaded.MessageID)
		assert.False(t, loaded.Closed)
	})

	t.Run("message id lookup", func(t *testing.T) {
		_, err := repo.GetByMessageID(ctx, 9999)
		assert.ErrorIs(t, err, entities.ErrPollNotFound)

		require.NoError(t, repo.SetMessageID(ctx, poll.ID, 9999))

		loaded, err := repo.GetByMessageID(ctx, 9999)
		require.NoError(t, err)
		assert.Equal(t, poll.ID, loaded.ID)
		require.NotNil(t, loaded.MessageID)
		assert.Equal(t, int64(9999), *loaded.MessageID)
	})

	t.Run("other guild cannot see poll", func(t *testing.T) {
		other := NewPollRepositoryScoped(testDB.DB, 200)
		_, err := other.GetByID(ctx, poll.ID)
		assert.ErrorIs(t, err, entities.ErrPollNotFound)
	})

	t.Run("votes are counted per emoji", func(t *testing.T) {
		require.NoError(t, repo.AddVote(ctx, &entities.PollVote{PollID: poll.ID, UserID: 1, Emoji: "1️⃣"}))
		require.NoError(t, repo.AddVote(ctx, &entities.PollVote{PollID: poll.ID, UserID: 2, Emoji: "1️⃣"}))
		require.NoError(t, repo.AddVote(ctx, &entities.PollVote{PollID: poll.ID, UserID: 3, Emoji: "2️⃣"}))
		// Duplicate reaction events are ignored
		require.NoError(t, repo.AddVote(ctx, &entities.PollVote{PollID: poll.ID, UserID: 3, Emoji: "2️⃣"}))

		counts, err := repo.GetVoteCounts(ctx, poll.ID)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"1️⃣": 2, "2️⃣": 1}, counts)

		votes, err := repo.GetUserVotes(ctx, poll.ID, 3)
		require.NoError(t, err)
		assert.Equal(t, []string{"2️⃣"}, votes)
	})

	t.Run("remove vote", func(t *testing.T) {
		removed, err := repo.RemoveVote(ctx, &entities.PollVote{PollID: poll.ID, UserID: 2, Emoji: "1️⃣"})
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = repo.RemoveVote(ctx, &entities.PollVote{PollID: poll.ID, UserID: 2, Emoji: "1️⃣"})
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("mark closed only once", func(t *testing.T) {
		closed, err := repo.MarkClosed(ctx, poll.ID)
		require.NoError(t, err)
		assert.True(t, closed)

		closed, err = repo.MarkClosed(ctx, poll.ID)
		require.NoError(t, err)
		assert.False(t, closed)

		open, err := repo.GetOpen(ctx)
		require.NoError(t, err)
		assert.Empty(t, open)
	})
}

func TestPollRepository_GetExpiredSpansGuilds(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	now := time.Now().UTC()
	guildA := NewPollRepositoryScoped(testDB.DB, 1)
	guildB := NewPollRepositoryScoped(testDB.DB, 2)

	expiredA := testutil.CreateTestPollWithOptions(10, []string{"a", "b"}, false, now.Add(-time.Minute))
	expiredB := testutil.CreateTestPollWithOptions(20, []string{"a", "b", "c"}, true, now.Add(-time.Second))
	future := testutil.CreateTestPollWithOptions(10, []string{"a", "b"}, false, now.Add(time.Hour))
	require.NoError(t, guildA.Create(ctx, expiredA))
	require.NoError(t, guildB.Create(ctx, expiredB))
	require.NoError(t, guildA.Create(ctx, future))

	global := NewPollRepositoryScoped(testDB.DB, 0)
	expired, err := global.GetExpired(ctx, now)
	require.NoError(t, err)
	require.Len(t, expired, 2)
	assert.Equal(t, expiredA.ID, expired[0].ID)
	assert.Equal(t, int64(1), expired[0].GuildID)
	assert.Equal(t, expiredB.ID, expired[1].ID)
	assert.Equal(t, int64(2), expired[1].GuildID)
	assert.True(t, expired[1].MultipleVotes)

	open, err := guildA.GetOpen(ctx)
	require.NoError(t, err)
	assert.Len(t, open, 2)
}
