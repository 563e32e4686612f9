package blizzard

import (
	"context"
	"time"

	"cogbot/application"
	"cogbot/bot/common"
	"cogbot/config"
	"cogbot/domain/interfaces"
	"cogbot/domain/services"
	"cogbot/infrastructure/web"

	"github.com/PuerkitoBio/goquery"
	"github.com/bwmarrin/discordgo"
)

const fetchTimeout = 20 * time.Second

type fetcher interface {
	GetJSON(ctx context.Context, req web.Request, v any) error
	GetDocument(ctx context.Context, req web.Request) (*goquery.Document, error)
}

// Feature serves Blizzard patch notes, player stats and token prices
type Feature struct {
	uowFactory     application.UnitOfWorkFactory
	web            fetcher
	interactive    *common.Interactive
	isOwner        func(discordID int64) bool
	defaultTimeout time.Duration
}

// NewFeature creates a new blizzard feature instance
func NewFeature(uowFactory application.UnitOfWorkFactory, client fetcher, interactive *common.Interactive, cfg *config.Config) *Feature {
	return &Feature{
		uowFactory:     uowFactory,
		web:            client,
		interactive:    interactive,
		isOwner:        cfg.IsOwner,
		defaultTimeout: cfg.Features.Blizzard.DefaultNotesTimeout.Duration,
	}
}

// HandleBlizzard routes the owner-only /blizzard settings
func (f *Feature) HandleBlizzard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, opts := common.Subcommand(i)

	var err error
	switch sub {
	case "apikey":
		err = f.handleAPIKey(s, i, opts.String("key"))
	case "noteformat":
		err = f.handleNoteFormat(s, i, opts.String("format"))
	case "notetimeout":
		seconds, _ := opts.Int("seconds")
		err = f.handleNoteTimeout(s, i, int(seconds))
	}
	if err != nil {
		common.HandleError(s, i, err, false)
	}
}

// HandleBattletag routes /battletag set and clear
func (f *Feature) HandleBattletag(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, opts := common.Subcommand(i)

	var err error
	switch sub {
	case "set":
		err = f.handleSetBattletag(s, i, opts.String("tag"))
	case "clear":
		err = f.handleClearBattletag(s, i)
	}
	if err != nil {
		common.HandleError(s, i, err, false)
	}
}

// HandleOverwatch answers /overwatch stats
func (f *Feature) HandleOverwatch(s *discordgo.Session, i *discordgo.InteractionCreate) {
	_, opts := common.Subcommand(i)
	f.handleOverwatchStats(s, i, opts.String("tag"), opts.String("region"))
}

// HandleDiablo3 answers /diablo3 stats
func (f *Feature) HandleDiablo3(s *discordgo.Session, i *discordgo.InteractionCreate) {
	_, opts := common.Subcommand(i)
	f.handleDiabloStats(s, i, opts.String("tag"))
}

// HandleWowToken answers /wowtoken
func (f *Feature) HandleWowToken(s *discordgo.Session, i *discordgo.InteractionCreate) {
	_, opts := common.Subcommand(i)
	f.handleWowToken(s, i, opts.String("realm"))
}

// HandlePatchNotes answers /patchnotes
func (f *Feature) HandlePatchNotes(s *discordgo.Session, i *discordgo.InteractionCreate) {
	_, opts := common.Subcommand(i)
	f.handlePatchNotes(s, i, opts.String("game"))
}

func (f *Feature) withProfiles(fn func(svc interfaces.ProfileService) error) error {
	return application.WithUnitOfWork(context.Background(), f.uowFactory, application.GlobalScope, func(uow application.UnitOfWork) error {
		return fn(services.NewProfileService(uow.ProfileRepository()))
	})
}
