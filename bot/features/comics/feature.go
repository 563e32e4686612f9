package comics

import (
	"context"
	"errors"
	"time"

	"cogbot/bot/common"
	"cogbot/infrastructure/web"

	"github.com/PuerkitoBio/goquery"
	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	fetchTimeout = 20 * time.Second
	msgNotFound  = "I couldn't find that comic."
)

type fetcher interface {
	GetDocument(ctx context.Context, req web.Request) (*goquery.Document, error)
	GetJSON(ctx context.Context, req web.Request, v any) error
}

// Feature posts random strips from web comics
type Feature struct {
	web fetcher
	now func() time.Time
}

func NewFeature(client fetcher) *Feature {
	return &Feature{web: client, now: time.Now}
}

// HandleCommand answers /comic name [date]
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	_, opts := common.Subcommand(i)

	src, ok := sources[opts.String("name")]
	if !ok {
		common.RespondWithError(s, i, msgNotFound)
		return
	}

	var date time.Time
	if raw := opts.String("date"); raw != "" {
		if src.dates == nil {
			common.RespondWithError(s, i, "That comic can't be looked up by date.")
			return
		}
		parsed, err := src.dates.parse(raw, f.now())
		if err != nil {
			common.RespondWithError(s, i, err.Error())
			return
		}
		date = parsed
	} else if src.dates != nil {
		date = src.dates.random(f.now())
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	imageURL, err := src.find(ctx, f.web, date)
	if err == nil && imageURL == "" {
		err = errors.New("no image on comic page")
	}
	if err != nil {
		log.WithError(err).WithField("comic", src.name).Debug("Failed to find comic")
		common.FollowUpWithError(s, i, msgNotFound)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: src.title,
		Color: common.ColorPrimary,
		Image: &discordgo.MessageEmbedImage{URL: imageURL},
	}
	if !date.IsZero() {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: date.Format(time.DateOnly)}
	}
	if _, err := common.FollowUpWithEmbed(s, i, embed, nil, false); err != nil {
		common.HandleError(s, i, err, true)
	}
}

// Choices lists the comic names for command registration
func Choices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(sourceOrder))
	for _, name := range sourceOrder {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: sources[name].title, Value: name})
	}
	return choices
}
