package repository

import (
	"context"
	"testing"

	"cogbot/domain/entities"
	"cogbot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewProfileRepositoryWithTx(testDB.DB)

	t.Run("battletag", func(t *testing.T) {
		tag, err := repo.GetBattletag(ctx, 42)
		require.NoError(t, err)
		assert.Empty(t, tag)

		require.NoError(t, repo.SetBattletag(ctx, 42, "Player#1234"))
		require.NoError(t, repo.SetBattletag(ctx, 42, "Player#5678"))

		tag, err = repo.GetBattletag(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, "Player#5678", tag)

		cleared, err := repo.ClearBattletag(ctx, 42)
		require.NoError(t, err)
		assert.True(t, cleared)

		cleared, err = repo.ClearBattletag(ctx, 42)
		require.NoError(t, err)
		assert.False(t, cleared)
	})

	t.Run("smite name", func(t *testing.T) {
		require.NoError(t, repo.SetSmiteName(ctx, 42, "Zeus"))

		name, err := repo.GetSmiteName(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, "Zeus", name)

		cleared, err := repo.ClearSmiteName(ctx, 42)
		require.NoError(t, err)
		assert.True(t, cleared)
	})
}

func TestCredentialRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewCredentialRepositoryWithTx(testDB.DB)

	_, ok, err := repo.Get(ctx, entities.CredentialBlizzardAPIKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Set(ctx, entities.CredentialBlizzardAPIKey, "first"))
	require.NoError(t, repo.Set(ctx, entities.CredentialBlizzardAPIKey, "second"))

	value, ok, err := repo.Get(ctx, entities.CredentialBlizzardAPIKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", value)
}

func TestBlizzardSettingsRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	repo := NewBlizzardSettingsRepositoryWithTx(testDB.DB)

	settings, err := repo.GetOrCreate(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.NotesFormatPaged, settings.NotesFormat)
	assert.Equal(t, 60, settings.NotesTimeoutSeconds)

	settings.NotesFormat = entities.NotesFormatEmbed
	settings.NotesTimeoutSeconds = 120
	require.NoError(t, repo.Update(ctx, settings))

	reloaded, err := repo.GetOrCreate(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.NotesFormatEmbed, reloaded.NotesFormat)
	assert.Equal(t, 120, reloaded.NotesTimeoutSeconds)
}
