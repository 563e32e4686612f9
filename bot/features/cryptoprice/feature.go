package cryptoprice

import (
	"context"
	"time"

	"cogbot/bot/common"
	"cogbot/infrastructure/web"

	"github.com/PuerkitoBio/goquery"
	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	fetchTimeout  = 30 * time.Second
	msgNoMatch    = "Couldn't find a currency matching your query."
	msgFetchError = "I couldn't reach coinmarketcap. Try again later."
)

type documentFetcher interface {
	GetDocument(ctx context.Context, req web.Request) (*goquery.Document, error)
}

// Feature prints price tables scraped from coinmarketcap listings
type Feature struct {
	web     documentFetcher
	baseURL string
}

func NewFeature(client documentFetcher) *Feature {
	return &Feature{web: client, baseURL: "https://coinmarketcap.com/"}
}

// HandleCommand answers /cprice [currency]
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	_, opts := common.Subcommand(i)
	currency := opts.String("currency")

	if err := common.DeferResponse(s, i, false); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	rows, err := f.search(ctx, SearchTerm(currency))
	if err != nil && len(rows) == 0 {
		common.HandleError(s, i, common.NewFetchError(err, msgFetchError, "Failed to fetch coinmarketcap listings"), true)
		return
	}
	if err != nil {
		log.WithError(err).Debug("Some coinmarketcap pages failed")
	}

	if _, err := common.FollowUp(s, i, Reply(rows, currency != ""), false); err != nil {
		common.HandleError(s, i, err, true)
	}
}
