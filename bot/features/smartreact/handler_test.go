package smartreact

import (
	"errors"
	"net/http"
	"testing"

	"cogbot/domain/entities"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestFormatReactionList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		set      entities.SmartReactionSet
		expected string
	}{
		{
			name:     "empty",
			set:      nil,
			expected: "Smart Reactions for Guild:\nNone.",
		},
		{
			name: "one line per emoji",
			set: entities.SmartReactionSet{
				{Emoji: "🌮", Words: []string{"taco"}},
				{Emoji: "🍕", Words: []string{"calzone", "pizza"}},
			},
			expected: "Smart Reactions for Guild:\n🌮: taco\n🍕: calzone, pizza",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, FormatReactionList("Guild", tt.set))
		})
	}
}

func TestIsUnknownEmoji(t *testing.T) {
	t.Parallel()

	unknown := &discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusBadRequest},
		Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownEmoji},
	}
	forbidden := &discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusForbidden},
		Message:  &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingPermissions},
	}

	assert.True(t, isUnknownEmoji(unknown))
	assert.False(t, isUnknownEmoji(forbidden))
	assert.False(t, isUnknownEmoji(errors.New("boom")))
}
