package msgvote

import (
	"testing"
	"time"

	"cogbot/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildStatusEmbed(t *testing.T) {
	t.Parallel()

	embed := BuildStatusEmbed(&entities.MsgVoteSettings{
		Duration:  300 * time.Second,
		Threshold: 0,
		UpEmoji:   "👍",
		DownEmoji: "👎",
		Channels:  []int64{123, 456},
	})

	require.Len(t, embed.Fields, 5)
	assert.Equal(t, "<#123> <#456>", embed.Fields[0].Value)
	assert.Equal(t, "👍 / 👎", embed.Fields[1].Value)
	assert.Equal(t, "300s", embed.Fields[2].Value)
	assert.Equal(t, "0 (deletion disabled)", embed.Fields[3].Value)
	assert.Equal(t, "OFF", embed.Fields[4].Value)
}
