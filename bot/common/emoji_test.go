package common

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmoji(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		ok      bool
		stored  string
		apiName string
		custom  bool
	}{
		{name: "simple unicode", input: "🍕", ok: true, stored: "🍕", apiName: "🍕"},
		{name: "variation selector", input: "❤️", ok: true, stored: "❤️", apiName: "❤️"},
		{name: "zwj sequence", input: "👨‍👩‍👧", ok: true, stored: "👨‍👩‍👧", apiName: "👨‍👩‍👧"},
		{name: "skin tone", input: "👍🏽", ok: true, stored: "👍🏽", apiName: "👍🏽"},
		{name: "keycap", input: "1️⃣", ok: true, stored: "1️⃣", apiName: "1️⃣"},
		{name: "flag", input: "🇺🇸", ok: true, stored: "🇺🇸", apiName: "🇺🇸"},
		{name: "custom", input: "<:pepe:123456789012345678>", ok: true, stored: "<:pepe:123456789012345678>", apiName: "pepe:123456789012345678", custom: true},
		{name: "animated custom", input: "<a:dance:123456789012345678>", ok: true, stored: "<a:dance:123456789012345678>", apiName: "dance:123456789012345678", custom: true},
		{name: "plain text", input: "pizza", ok: false},
		{name: "bare digit", input: "1", ok: false},
		{name: "shortcode", input: ":pizza:", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e, ok := ParseEmoji(tt.input)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.stored, e.String())
			assert.Equal(t, tt.apiName, e.APIName())
			assert.Equal(t, tt.custom, e.IsCustom())
		})
	}
}

func TestReactionKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "🐝", ReactionKey(discordgo.Emoji{Name: "🐝"}))
	assert.Equal(t, "<:pepe:123>", ReactionKey(discordgo.Emoji{Name: "pepe", ID: "123"}))
	assert.Equal(t, "<a:dance:456>", ReactionKey(discordgo.Emoji{Name: "dance", ID: "456", Animated: true}))
}

func TestAPIName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "👍", APIName("👍"))
	assert.Equal(t, "pepe:123456789012345678", APIName("<:pepe:123456789012345678>"))
}
