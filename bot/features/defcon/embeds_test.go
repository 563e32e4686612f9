package defcon

import (
	"testing"

	"cogbot/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefconEmbed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level     int
		color     int
		thumbnail string
	}{
		{5, 0x0080ff, "http://i.imgur.com/uTPeW7N.gif"},
		{4, 0x00ff00, "http://i.imgur.com/siIWL5V.gif"},
		{3, 0xffff00, "http://i.imgur.com/E71VSBE.gif"},
		{2, 0xff0000, "http://i.imgur.com/PxKhT7h.gif"},
		{1, 0xffffff, "http://i.imgur.com/wzXSNWi.gif"},
	}

	for _, tt := range tests {
		embed := BuildDefconEmbed(&entities.Defcon{Level: tt.level, Authority: "Alice"})

		assert.Equal(t, tt.color, embed.Color)
		assert.Equal(t, tt.thumbnail, embed.Thumbnail.URL)
		assert.Equal(t, "\u2063", embed.Title)
		assert.Equal(t, authorIconURL, embed.Author.IconURL)
		assert.Contains(t, embed.Author.Name, "DEFCON LEVEL")
		assert.Equal(t, "Authority: Alice", embed.Footer.Text)
		require.Len(t, embed.Fields, 1)
		assert.NotEmpty(t, embed.Fields[0].Value)
	}
}

func TestBuildDefconEmbed_AuthorText(t *testing.T) {
	t.Parallel()

	embed := BuildDefconEmbed(&entities.Defcon{Level: 3, Authority: "none"})
	assert.Equal(t, "This server is at DEFCON LEVEL 3.", embed.Author.Name)
	assert.Equal(t, "Authority: none", embed.Footer.Text)
}
