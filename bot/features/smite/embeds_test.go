package smite

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeagueTier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tier int
		want string
	}{
		{0, "None"},
		{1, "Bronze V"},
		{12, "Gold IV"},
		{25, "Diamond I"},
		{26, "Masters I"},
		{27, "None"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LeagueTier(tt.tier), "tier %d", tt.tier)
	}
}

func TestQueueType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Conquest Ranked", QueueType("430"))
	assert.Equal(t, "Unknown", QueueType("999"))
}

func TestID_Unmarshal(t *testing.T) {
	t.Parallel()

	var v struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"440","b":451,"c":null}`), &v))
	assert.Equal(t, ID("440"), v.A)
	assert.Equal(t, ID("451"), v.B)
	assert.Equal(t, ID(""), v.C)
}

func TestBuildStatsEmbed_Defaults(t *testing.T) {
	t.Parallel()

	embed := BuildStatsEmbed(&Player{Name: "Kunkulada", Wins: 10, RankedDuel: League{Tier: 26}})
	assert.Equal(t, colorSmite, embed.Color)
	assert.Equal(t, defaultAvatar, embed.Thumbnail.URL)
	require.Len(t, embed.Fields, 8)
	assert.Equal(t, "*none*", embed.Fields[0].Value)
	assert.Equal(t, "10", embed.Fields[1].Value)
	assert.Equal(t, "Masters I", embed.Fields[7].Value)
}

func TestStatusName(t *testing.T) {
	t.Parallel()

	name, ok := StatusName(StatusOnlineNoData)
	assert.True(t, ok)
	assert.Equal(t, "Online - No Data", name)

	_, ok = StatusName(9)
	assert.False(t, ok)
}

func TestBuildStatusEmbed(t *testing.T) {
	t.Parallel()

	offline := BuildStatusEmbed("Offline", nil)
	assert.Equal(t, "Offline", offline.Author.Name)
	assert.Empty(t, offline.Fields)

	embed := BuildStatusEmbed("In Game", []MatchPlayer{
		{TaskForce: 1, PlayerName: "A", GodName: "Ymir", Tier: 5, Queue: "440"},
		{TaskForce: 2, PlayerName: "B", GodName: "Thor", Tier: 0, Queue: "440"},
	})
	assert.Equal(t, "In Game - Joust League", embed.Author.Name)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "**A**\nGod: Ymir\nTier: Bronze I", embed.Fields[0].Value)
	assert.Equal(t, "**B**\nGod: Thor\nTier: None", embed.Fields[1].Value)
}
