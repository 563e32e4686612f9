package blizzard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTokenPrice(t *testing.T) {
	t.Parallel()

	doc := parseHTML(t, `<html><body>
		<div class="mui-panel realm-panel" id="eu-panel">
			<h2>Europe</h2>
			<table><tr>
				<td class="buy-price" id="EU-buy">210,000g</td>
				<td><span id="EU-24min">205,000g</span> <span id="EU-24max">214,500g</span></td>
				<td id="EU-updatedhtml">5 minutes ago</td>
			</tr></table>
		</div>
	</body></html>`)

	price, err := ExtractTokenPrice(doc, "eu")
	require.NoError(t, err)
	assert.Equal(t, &TokenPrice{
		Description: "Europe",
		BuyPrice:    "210,000g",
		DayLow:      "205,000g",
		DayHigh:     "214,500g",
		Updated:     "5 minutes ago",
	}, price)

	embed := BuildTokenEmbed(price)
	assert.Equal(t, "WoW Token Info", embed.Title)
	assert.Equal(t, colorWowToken, embed.Color)
	assert.Equal(t, "205,000g - 214,500g", embed.Fields[1].Value)
	assert.Equal(t, "Updated: 5 minutes ago", embed.Footer.Text)

	_, err = ExtractTokenPrice(doc, "na")
	assert.ErrorIs(t, err, errTokenMissing)
}

func TestValidRealm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		realm string
		want  bool
	}{
		{"na", true},
		{"eu", true},
		{"cn", true},
		{"tw", true},
		{"kr", true},
		{"us", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidRealm(tt.realm), tt.realm)
	}
}
