package sfx

import (
	"context"

	"cogbot/application"
	"cogbot/bot/common"
	"cogbot/config"
	"cogbot/domain/interfaces"
	"cogbot/domain/services"

	"github.com/bwmarrin/discordgo"
)

// Feature plays sound effects and text-to-speech in voice channels
type Feature struct {
	uowFactory    application.UnitOfWorkFactory
	library       *Library
	player        *Player
	speech        *Speech
	web           byteFetcher
	isOwner       func(discordID int64) bool
	defaultVolume int
	ttsVolume     int
}

// NewFeature creates a new sfx feature instance
func NewFeature(uowFactory application.UnitOfWorkFactory, library *Library, player *Player, speech *Speech, client byteFetcher, cfg *config.Config) *Feature {
	return &Feature{
		uowFactory:    uowFactory,
		library:       library,
		player:        player,
		speech:        speech,
		web:           client,
		isOwner:       cfg.IsOwner,
		defaultVolume: cfg.Features.Sfx.DefaultVolume,
		ttsVolume:     cfg.Features.Sfx.TTSVolume,
	}
}

// HandleCommand routes /sfx subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, opts := common.Subcommand(i)

	var err error
	deferred := false
	switch sub {
	case "play":
		err = f.handlePlay(s, i, opts.String("name"))
	case "list":
		err = f.handleList(s, i)
	case "add":
		deferred = true
		err = f.handleAdd(s, i, opts.String("name"), opts.ID("file"))
	case "delete":
		err = f.handleDelete(s, i, opts.String("name"))
	case "get":
		deferred = true
		err = f.handleGet(s, i, opts.String("name"))
	case "volume":
		percent, set := opts.Int("percent")
		err = f.handleVolume(s, i, opts.String("name"), int(percent), set)
	}
	if err != nil {
		common.HandleError(s, i, err, deferred)
	}
}

// HandleTTS answers /tts
func (f *Feature) HandleTTS(s *discordgo.Session, i *discordgo.InteractionCreate) {
	_, opts := common.Subcommand(i)
	if err := f.handleTTS(s, i, opts.String("text")); err != nil {
		common.HandleError(s, i, err, true)
	}
}

func (f *Feature) withSoundSettings(ctx context.Context, guildID string, fn func(svc interfaces.SoundSettingsService) error) error {
	gid, err := common.ParseID(guildID)
	if err != nil {
		return err
	}
	return application.WithUnitOfWork(ctx, f.uowFactory, gid, func(uow application.UnitOfWork) error {
		return fn(services.NewSoundSettingsService(uow.SoundSettingsRepository()))
	})
}

func (f *Feature) volumeFor(guildID, name string) (int, error) {
	volume := f.defaultVolume
	err := f.withSoundSettings(context.Background(), guildID, func(svc interfaces.SoundSettingsService) error {
		var err error
		volume, err = svc.GetVolume(context.Background(), name, f.defaultVolume)
		return err
	})
	return volume, err
}
