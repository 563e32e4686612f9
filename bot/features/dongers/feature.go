package dongers

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"cogbot/bot/common"
	"cogbot/infrastructure/web"

	"github.com/PuerkitoBio/goquery"
	"github.com/bwmarrin/discordgo"
)

const (
	pageCount    = 40
	fetchTimeout = 15 * time.Second
	msgNoDongers = `I couldn't find any dongers. ¯\_(ツ)_/¯`
)

type documentFetcher interface {
	GetDocument(ctx context.Context, req web.Request) (*goquery.Document, error)
}

// Feature posts a random donger from dongerlist.com
type Feature struct {
	web documentFetcher
}

func NewFeature(client documentFetcher) *Feature {
	return &Feature{web: client}
}

// HandleCommand answers /donger
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, false); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	doc, err := f.web.GetDocument(ctx, web.Request{
		URL:    fmt.Sprintf("http://dongerlist.com/page/%d", rand.IntN(pageCount)+1),
		Source: "dongerlist",
	})
	if err != nil {
		common.HandleError(s, i, common.NewFetchError(err, msgNoDongers, "Failed to fetch donger page"), true)
		return
	}

	dongers := ExtractDongers(doc)
	if len(dongers) == 0 {
		common.FollowUpWithError(s, i, msgNoDongers)
		return
	}
	if _, err := common.FollowUp(s, i, dongers[rand.IntN(len(dongers))], false); err != nil {
		common.HandleError(s, i, err, true)
	}
}

// ExtractDongers returns the text of every donger on a list page
func ExtractDongers(doc *goquery.Document) []string {
	var dongers []string
	doc.Find("textarea.donger").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			dongers = append(dongers, text)
		}
	})
	return dongers
}
