package repository

import (
	"context"
	"testing"

	"cogbot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmartReactionRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewSmartReactionRepositoryScoped(testDB.DB, 100)
	other := NewSmartReactionRepositoryScoped(testDB.DB, 200)

	t.Run("add reports new pairs only", func(t *testing.T) {
		added, err := repo.Add(ctx, "🍕", "pizza")
		require.NoError(t, err)
		assert.True(t, added)

		added, err = repo.Add(ctx, "🍕", "pizza")
		require.NoError(t, err)
		assert.False(t, added)

		added, err = repo.Add(ctx, "🍕", "calzone")
		require.NoError(t, err)
		assert.True(t, added)

		added, err = repo.Add(ctx, "🌮", "taco")
		require.NoError(t, err)
		assert.True(t, added)
	})

	t.Run("get all groups words by emoji", func(t *testing.T) {
		set, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, set, 2)

		byEmoji := map[string][]string{}
		for _, r := range set {
			byEmoji[r.Emoji] = r.Words
		}
		assert.ElementsMatch(t, []string{"pizza", "calzone"}, byEmoji["🍕"])
		assert.Equal(t, []string{"taco"}, byEmoji["🌮"])
	})

	t.Run("guilds are isolated", func(t *testing.T) {
		set, err := other.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, set)

		removed, err := other.Remove(ctx, "🍕", "pizza")
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("remove single pair", func(t *testing.T) {
		removed, err := repo.Remove(ctx, "🍕", "calzone")
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = repo.Remove(ctx, "🍕", "calzone")
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("remove emoji clears its words", func(t *testing.T) {
		count, err := repo.RemoveEmoji(ctx, "🍕")
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		set, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, set, 1)
		assert.Equal(t, "🌮", set[0].Emoji)
	})
}
