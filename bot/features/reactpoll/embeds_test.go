package reactpoll

import (
	"strings"
	"testing"
	"time"

	"cogbot/config"
	"cogbot/domain/entities"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPoll() *entities.Poll {
	return &entities.Poll{
		ID:       7,
		Question: "Lunch?",
		Options:  []string{"Pizza", "Tacos", "Salad"},
		Emojis:   []string{"1️⃣", "2️⃣", "3️⃣"},
		EndTime:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestBuildPollEmbed(t *testing.T) {
	t.Parallel()

	embed := BuildPollEmbed(testPoll(), "alice")

	assert.Equal(t, "POLL STARTED!", embed.Author.Name)
	assert.Equal(t, "Lunch?", embed.Title)
	assert.Equal(t, "**1**. Pizza\n**2**. Tacos\n**3**. Salad", embed.Description)
	assert.Equal(t, "alice created a poll | ends at", embed.Footer.Text)
	assert.Equal(t, "2024-05-01T12:00:00Z", embed.Timestamp)
	assert.Empty(t, embed.Fields)
}

func TestBuildPollEmbed_LongOptionsContinueInFields(t *testing.T) {
	t.Parallel()

	poll := testPoll()
	poll.Options = make([]string, 20)
	poll.Emojis = make([]string, 20)
	for idx := range poll.Options {
		poll.Options[idx] = strings.Repeat("x", 100)
	}

	embed := BuildPollEmbed(poll, "alice")

	require.NotEmpty(t, embed.Fields)
	assert.LessOrEqual(t, len(embed.Description), embedFieldLimit)
	for _, field := range embed.Fields {
		assert.Equal(t, "Options continued", field.Name)
		assert.LessOrEqual(t, len(field.Value), embedFieldLimit)
	}
}

func TestBuildResultsEmbed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		counts   map[string]int
		expected string
	}{
		{
			name:     "sorted by votes",
			counts:   map[string]int{"1️⃣": 1, "2️⃣": 4, "3️⃣": 2},
			expected: "Lunch?\n\n**4** - Tacos\n**2** - Salad\n**1** - Pizza",
		},
		{
			name:     "no votes",
			counts:   map[string]int{},
			expected: "Lunch?\n\n***NO ONE VOTED.***",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			poll := testPoll()
			embed := BuildResultsEmbed(poll, poll.Tally(tt.counts))
			assert.Equal(t, "POLL ENDED", embed.Title)
			assert.Equal(t, tt.expected, embed.Description)
		})
	}
}

func TestFormatPollList(t *testing.T) {
	t.Parallel()

	messageID := int64(99)
	poll := testPoll()
	poll.ChannelID = 5
	poll.MessageID = &messageID

	got := FormatPollList("1", []*entities.Poll{poll})

	assert.Equal(t, "**Open polls**\n`#7` Lunch? (ends <t:1714564800:R>) https://discord.com/channels/1/5/99", got)
}

func TestCountHumans(t *testing.T) {
	t.Parallel()

	users := []*discordgo.User{{ID: "1"}, {ID: "2", Bot: true}, nil, {ID: "3"}}
	assert.Equal(t, 2, CountHumans(users))
}

func TestChangedVoteMessage(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "You've already voted on `Lunch?`, changing vote to 2️⃣.", ChangedVoteMessage("Lunch?", "2️⃣"))
}

func TestTracking(t *testing.T) {
	t.Parallel()

	f := NewFeature(nil, nil, config.DefaultFeatures().Poll)
	f.track(42)
	assert.True(t, f.isTracked(42))
	assert.False(t, f.isTracked(43))

	f.untrack(42)
	assert.False(t, f.isTracked(42))
}
