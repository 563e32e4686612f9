package bot

import (
	"context"
	"fmt"
	"path/filepath"

	"cogbot/application"
	"cogbot/bot/common"
	"cogbot/bot/features/bees"
	"cogbot/bot/features/bigmoji"
	"cogbot/bot/features/blizzard"
	"cogbot/bot/features/colorme"
	"cogbot/bot/features/comics"
	"cogbot/bot/features/cryptoprice"
	"cogbot/bot/features/defcon"
	"cogbot/bot/features/dongers"
	"cogbot/bot/features/msgvote"
	"cogbot/bot/features/reactpoll"
	"cogbot/bot/features/sfx"
	"cogbot/bot/features/smartreact"
	"cogbot/bot/features/smite"
	"cogbot/bot/features/spoiler"
	"cogbot/bot/features/wat"
	"cogbot/bot/features/wordcloud"
	"cogbot/config"
	"cogbot/domain/entities"
	"cogbot/domain/interfaces"
	"cogbot/domain/services"
	"cogbot/infrastructure/observability"
	"cogbot/infrastructure/web"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsGuildMessageReactions |
	discordgo.IntentsGuildMembers |
	discordgo.IntentsGuildVoiceStates |
	discordgo.IntentsMessageContent |
	discordgo.IntentsDirectMessages

// Bot manages the Discord session and all feature modules
type Bot struct {
	// Core components
	config      *config.Config
	session     *discordgo.Session
	uowFactory  application.UnitOfWorkFactory
	interactive *common.Interactive
	player      *sfx.Player

	// Feature modules
	smartReact  *smartreact.Feature
	msgVote     *msgvote.Feature
	reactPoll   *reactpoll.Feature
	sfx         *sfx.Feature
	defcon      *defcon.Feature
	cryptoPrice *cryptoprice.Feature
	blizzard    *blizzard.Feature
	smite       *smite.Feature
	wordcloud   *wordcloud.Feature
	bigmoji     *bigmoji.Feature
	dongers     *dongers.Feature
	comics      *comics.Feature
	colorme     *colorme.Feature
	spoiler     *spoiler.Feature
	wat         *wat.Feature
	bees        *bees.Feature

	// Worker cleanup functions
	stopPollCloser func()
}

// New creates the bot, opens the gateway connection and registers commands.
// Played sounds are published to publisher.
func New(cfg *config.Config, uowFactory application.UnitOfWorkFactory, client *web.Client, publisher interfaces.EventPublisher) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = intents

	interactive := common.NewInteractive()
	sfxCfg := cfg.Features.Sfx

	bot := &Bot{
		config:      cfg,
		session:     dg,
		uowFactory:  uowFactory,
		interactive: interactive,
		player: sfx.NewPlayer(
			sfx.DiscordDialer{Session: dg},
			sfx.NewFFmpeg(sfxCfg.FFmpegPath),
			publisher,
			sfxCfg.QueueSize,
			sfxCfg.IdleTimeout.Duration,
		),
	}

	// Create feature modules
	bot.smartReact = smartreact.NewFeature(dg, uowFactory, interactive)
	bot.msgVote = msgvote.NewFeature(dg, uowFactory)
	bot.reactPoll = reactpoll.NewFeature(dg, uowFactory, cfg.Features.Poll)
	bot.sfx = sfx.NewFeature(
		uowFactory,
		sfx.NewLibrary(cfg.SoundDir),
		bot.player,
		sfx.NewSpeech(client, sfxCfg.TTSLanguage, filepath.Join(cfg.SoundDir, "temp")),
		client,
		cfg,
	)
	bot.defcon = defcon.NewFeature(dg, uowFactory)
	bot.cryptoPrice = cryptoprice.NewFeature(client)
	bot.blizzard = blizzard.NewFeature(uowFactory, client, interactive, cfg)
	bot.smite = smite.NewFeature(uowFactory, smite.NewClient(client), cfg)
	bot.wordcloud = wordcloud.NewFeature(uowFactory, client, interactive, cfg)
	bot.bigmoji = bigmoji.NewFeature(client)
	bot.dongers = dongers.NewFeature(client)
	bot.comics = comics.NewFeature(client)
	bot.colorme = colorme.NewFeature(dg, uowFactory, interactive, cfg.Features.Colorme)
	bot.spoiler = spoiler.NewFeature()
	bot.wat = wat.NewFeature(dg, uowFactory)
	bot.bees = bees.NewFeature()

	// Register handlers
	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleInteractions)
	dg.AddHandler(bot.handleGuildCreate)
	dg.AddHandler(bot.handleGuildMemberAdd)
	dg.AddHandler(bot.handleMessageCreate)
	dg.AddHandler(bot.handleReactionAdd)
	dg.AddHandler(bot.handleReactionRemove)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		bot.player.Stop()
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		bot.player.Stop()
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// Start background workers
	bot.stopPollCloser = bot.StartPollCloserWorker(context.Background(), cfg.Features.Poll.CloseInterval.Duration)
	log.Info("Background workers started")

	return bot, nil
}

// Close gracefully shuts down the bot
func (b *Bot) Close() error {
	if b.stopPollCloser != nil {
		b.stopPollCloser()
	}
	log.Info("Background workers stopped")

	// Leaves every voice channel and drops queued sounds
	b.player.Stop()

	return b.session.Close()
}

// handleCommands routes slash commands to the feature that owns them
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	observability.GetMetrics().RecordCommand(name)

	switch name {
	case "smartreact":
		b.smartReact.HandleCommand(s, i)
	case "msgvote":
		b.msgVote.HandleCommand(s, i)
	case "rpoll":
		b.reactPoll.HandleCommand(s, i)
	case "sfx":
		b.sfx.HandleCommand(s, i)
	case "tts":
		b.sfx.HandleTTS(s, i)
	case "defcon":
		b.defcon.HandleCommand(s, i)
	case "cprice":
		b.cryptoPrice.HandleCommand(s, i)
	case "patchnotes":
		b.blizzard.HandlePatchNotes(s, i)
	case "battletag":
		b.blizzard.HandleBattletag(s, i)
	case "overwatch":
		b.blizzard.HandleOverwatch(s, i)
	case "diablo3":
		b.blizzard.HandleDiablo3(s, i)
	case "wowtoken":
		b.blizzard.HandleWowToken(s, i)
	case "blizzard":
		b.blizzard.HandleBlizzard(s, i)
	case "smite":
		b.smite.HandleCommand(s, i)
	case "wordcloud":
		b.wordcloud.HandleCommand(s, i)
	case "wcset":
		b.wordcloud.HandleSettings(s, i)
	case "bigmoji":
		b.bigmoji.HandleCommand(s, i)
	case "donger":
		b.dongers.HandleCommand(s, i)
	case "comic":
		b.comics.HandleCommand(s, i)
	case "colorme":
		b.colorme.HandleCommand(s, i)
	case "spoiler":
		b.spoiler.HandleCommand(s, i)
	case "wat":
		b.wat.HandleCommand(s, i)
	case "bees":
		b.bees.HandleCommand(s, i)
	default:
		log.WithField("command", name).Warn("Received unknown command")
	}
}

// handleInteractions routes menu and confirmation buttons
func (b *Bot) handleInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type == discordgo.InteractionMessageComponent {
		b.interactive.HandleInteraction(s, i)
	}
}

// handleGuildCreate handles the bot joining or reconnecting to a guild
func (b *Bot) handleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	ctx := context.Background()

	guildID, err := common.ParseID(g.ID)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", g.ID, err)
		return
	}

	var settings *entities.GuildSettings
	err = application.WithUnitOfWork(ctx, b.uowFactory, guildID, func(uow application.UnitOfWork) error {
		var err error
		settings, err = services.NewGuildSettingsService(uow.GuildSettingsRepository()).GetOrCreateSettings(ctx, guildID)
		return err
	})
	if err != nil {
		log.Errorf("Failed to track guild %s (%s): %v", g.Name, g.ID, err)
		return
	}

	log.WithFields(log.Fields{
		"guild_id":     settings.GuildID,
		"guild_name":   g.Name,
		"default_role": settings.HasDefaultRole(),
		"wat_ignored":  settings.WatIgnored,
	}).Info("Guild available")

	if err := b.reactPoll.LoadGuild(ctx, guildID); err != nil {
		log.WithError(err).Error("Failed to reload open polls")
	}
}

func (b *Bot) handleGuildMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	b.colorme.HandleGuildMemberAdd(s, m)
}

// handleMessageCreate fans guild messages out to the listening features
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Skip if message is not from a guild
	if m.Author == nil || m.GuildID == "" {
		log.Debugf("Skipping message %s - not from a guild (possibly a DM)", m.ID)
		return
	}

	// Vote reactions go on bot messages too when the guild allows it.
	// It pauses between reactions so it runs on its own goroutine.
	go b.msgVote.HandleMessageCreate(s, m)

	// Skip messages from our own bot to avoid loops
	if m.Author.ID == s.State.User.ID {
		return
	}

	b.spoiler.HandleMessageCreate(s, m)
	b.smartReact.HandleMessageCreate(s, m)
	b.bees.HandleMessageCreate(s, m)
	b.wat.HandleMessageCreate(s, m)
}

func (b *Bot) handleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.UserID == s.State.User.ID {
		return
	}
	b.msgVote.HandleReactionAdd(s, r)
	b.reactPoll.HandleReactionAdd(s, r)
}

func (b *Bot) handleReactionRemove(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	if r.UserID == s.State.User.ID {
		return
	}
	b.msgVote.HandleReactionRemove(s, r)
	b.reactPoll.HandleReactionRemove(s, r)
}
