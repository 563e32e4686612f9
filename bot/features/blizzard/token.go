package blizzard

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bwmarrin/discordgo"
)

const (
	wowTokenURL   = "https://wowtoken.info/"
	wowTokenThumb = "http://wowtokenprices.com/assets/wowtokeninterlaced.png"
	colorWowToken = 0xFFD966
)

var tokenRealms = []string{"na", "eu", "cn", "tw", "kr"}

var errTokenMissing = errors.New("token price not on page")

// ValidRealm reports whether realm has a token market
func ValidRealm(realm string) bool {
	for _, r := range tokenRealms {
		if r == realm {
			return true
		}
	}
	return false
}

// TokenPrice is one realm's WoW token quote
type TokenPrice struct {
	Description string
	BuyPrice    string
	DayLow      string
	DayHigh     string
	Updated     string
}

// ExtractTokenPrice reads a realm panel from the wowtoken.info front page
func ExtractTokenPrice(doc *goquery.Document, realm string) (*TokenPrice, error) {
	lower, upper := strings.ToLower(realm), strings.ToUpper(realm)
	text := func(selector string) string {
		return strings.TrimSpace(doc.Find(selector).First().Text())
	}

	price := &TokenPrice{
		Description: text("div.realm-panel#" + lower + "-panel h2"),
		BuyPrice:    text("td.buy-price#" + upper + "-buy"),
		DayLow:      text("span#" + upper + "-24min"),
		DayHigh:     text("span#" + upper + "-24max"),
		Updated:     text("td#" + upper + "-updatedhtml"),
	}
	if price.BuyPrice == "" || price.DayLow == "" || price.DayHigh == "" {
		return nil, errTokenMissing
	}
	return price, nil
}

func BuildTokenEmbed(p *TokenPrice) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "WoW Token Info",
		Description: p.Description,
		Color:       colorWowToken,
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: wowTokenThumb},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Buy Price", Value: p.BuyPrice},
			{Name: "24-Hour Range", Value: p.DayLow + " - " + p.DayHigh},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Updated: " + p.Updated},
	}
}
