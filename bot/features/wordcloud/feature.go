package wordcloud

import (
	"context"
	"time"

	"cogbot/application"
	"cogbot/bot/common"
	"cogbot/config"
	"cogbot/domain/interfaces"
	"cogbot/domain/services"
	"cogbot/infrastructure/web"

	"github.com/bwmarrin/discordgo"
)

type byteFetcher interface {
	GetBytes(ctx context.Context, req web.Request) ([]byte, error)
}

// Feature renders word clouds from channel history
type Feature struct {
	uowFactory    application.UnitOfWorkFactory
	web           byteFetcher
	interactive   *common.Interactive
	maskDir       string
	isOwner       func(discordID int64) bool
	defaultLimit  int
	maxLimit      int
	renderTimeout time.Duration
	cooldown      *common.Cooldown
}

// NewFeature creates a new wordcloud feature instance
func NewFeature(uowFactory application.UnitOfWorkFactory, client byteFetcher, interactive *common.Interactive, cfg *config.Config) *Feature {
	wc := cfg.Features.Wordcloud
	return &Feature{
		uowFactory:    uowFactory,
		web:           client,
		interactive:   interactive,
		maskDir:       cfg.MaskDir,
		isOwner:       cfg.IsOwner,
		defaultLimit:  wc.DefaultLimit,
		maxLimit:      wc.MaxLimit,
		renderTimeout: wc.RenderTimeout.Duration,
		cooldown:      common.NewCooldown(1, wc.Cooldown.Duration),
	}
}

// HandleCommand answers /wordcloud
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	_, opts := common.Subcommand(i)
	limit, _ := opts.Int("limit")
	if err := f.handleWordcloud(s, i, opts.ID("channel"), opts.ID("user"), int(limit)); err != nil {
		common.HandleError(s, i, err, false)
	}
}

// HandleSettings routes /wcset subcommands
func (f *Feature) HandleSettings(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, opts := common.Subcommand(i)

	var err error
	switch sub {
	case "bgcolor":
		err = f.handleBgColor(s, i, opts.String("color"))
	case "maxwords":
		n, _ := opts.Int("count")
		err = f.handleMaxWords(s, i, int(n))
	case "exclude":
		err = f.handleExclude(s, i, opts.String("word"))
	case "clearwords":
		err = f.handleClearWords(s, i)
	case "colormask":
		err = f.handleColorMask(s, i)
	case "mask list":
		err = f.handleMaskList(s, i)
	case "mask set":
		err = f.handleMaskSet(s, i, opts.String("file"))
	case "mask clear":
		err = f.handleMaskClear(s, i)
	case "mask upload":
		err = f.handleMaskUpload(s, i, opts.ID("image"))
	}
	if err != nil {
		common.HandleError(s, i, err, false)
	}
}

func (f *Feature) withSettings(ctx context.Context, guildID string, fn func(svc interfaces.WordcloudSettingsService) error) error {
	id, err := common.ParseID(guildID)
	if err != nil {
		return err
	}
	return application.WithUnitOfWork(ctx, f.uowFactory, id, func(uow application.UnitOfWork) error {
		return fn(services.NewWordcloudSettingsService(uow.WordcloudSettingsRepository()))
	})
}
