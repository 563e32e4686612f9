package wordcloud

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"path/filepath"
	"time"

	"cogbot/bot/common"
	"cogbot/domain/entities"
	"cogbot/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	"github.com/fogleman/gg"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/colornames"
	"golang.org/x/sync/errgroup"
)

const (
	historyPageSize = 100
	historyTimeout  = 5 * time.Minute
	msgNiceTry      = "😏 Nice try."
	msgNoWords      = "Wordcloud creation failed. There were no words to use."
	msgTimedOut     = "Wordcloud creation timed out."
	msgCantSee      = "Wordcloud creation failed. I can't see that channel!"
	msgBadMask      = "I could not load your mask file. It may have been deleted. `/wcset mask clear` may resolve this."
)

type messageLister interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
}

func (f *Feature) clampLimit(limit int) int {
	if limit <= 0 {
		return f.defaultLimit
	}
	return min(limit, f.maxLimit)
}

func (f *Feature) handleWordcloud(s *discordgo.Session, i *discordgo.InteractionCreate, channelID, userID string, limit int) error {
	if i.GuildID == "" {
		return common.NewUserError("This command only works in a server.", "wordcloud outside guild")
	}
	if channelID == "" {
		channelID = i.ChannelID
	}
	limit = f.clampLimit(limit)

	channel, err := s.State.Channel(channelID)
	if err != nil {
		channel, err = s.Channel(channelID)
	}
	caller := common.InteractionUser(i)
	if err != nil || channel.GuildID != i.GuildID ||
		!common.HasChannelPermission(s, channelID, caller.ID, discordgo.PermissionViewChannel|discordgo.PermissionReadMessageHistory) {
		return common.NewPublicUserError(msgNiceTry, "Wordcloud for unreadable channel")
	}

	if ok, wait := f.cooldown.Allow(i.GuildID, time.Now()); !ok {
		return common.NewUserError(
			fmt.Sprintf("Wordcloud is on cooldown, try again in %ds.", int(math.Ceil(wait.Seconds()))),
			"wordcloud cooldown",
		)
	}

	if err := common.Respond(s, i, announcement(s, i.GuildID, channel, userID, limit), false); err != nil {
		return nil
	}

	logger := log.WithFields(log.Fields{"guild_id": i.GuildID, "channel_id": channelID, "limit": limit})

	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()

	var (
		texts    []string
		settings *entities.WordcloudSettings
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		texts, err = collectHistory(gctx, s, channelID, userID, limit)
		return err
	})
	g.Go(func() error {
		return f.withSettings(gctx, i.GuildID, func(svc interfaces.WordcloudSettingsService) error {
			var err error
			settings, err = svc.GetSettings(gctx)
			return err
		})
	})
	if err := g.Wait(); err != nil {
		if isForbidden(err) {
			common.FollowUpWithError(s, i, msgCantSee)
			return nil
		}
		logger.WithError(err).Error("Failed to gather wordcloud input")
		common.FollowUpWithError(s, i, common.GenericErrorMessage)
		return nil
	}

	words := Frequencies(texts, settings.ExcludedWords)
	if len(words) == 0 {
		common.FollowUpWithError(s, i, msgNoWords)
		return nil
	}

	opts, err := f.renderOptions(settings)
	if err != nil {
		logger.WithError(err).Warn("Failed to load wordcloud mask")
		common.FollowUpWithError(s, i, msgBadMask)
		return nil
	}

	renderCtx, cancelRender := context.WithTimeout(context.Background(), f.renderTimeout)
	defer cancelRender()

	start := time.Now()
	png, err := Render(renderCtx, words, opts)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("Wordcloud render timed out")
		common.FollowUpWithError(s, i, msgTimedOut)
		return nil
	case errors.Is(err, ErrNoWords):
		common.FollowUpWithError(s, i, msgNoWords)
		return nil
	case err != nil:
		logger.WithError(err).Error("Failed to render wordcloud")
		common.FollowUpWithError(s, i, common.GenericErrorMessage)
		return nil
	}
	logger.WithFields(log.Fields{"words": len(words), "duration": time.Since(start)}).Info("Rendered wordcloud")

	if _, err := common.FollowUpWithFile(s, i, "", "wordcloud.png", "image/png", png); err != nil {
		logger.WithError(err).Error("Failed to upload wordcloud")
	}
	return nil
}

func announcement(s *discordgo.Session, guildID string, channel *discordgo.Channel, userID string, limit int) string {
	guildName := guildID
	if guild, err := s.State.Guild(guildID); err == nil {
		guildName = guild.Name
	}
	target := guildName + "/" + channel.Name
	if userID != "" {
		target += "/" + common.GetDisplayName(s, guildID, userID)
	}
	return fmt.Sprintf("Generating wordcloud for **%s** using the last %d messages. (this might take a while)", target, limit)
}

// renderOptions turns guild settings into canvas options, loading the mask
// image when one is set
func (f *Feature) renderOptions(settings *entities.WordcloudSettings) (Options, error) {
	opts := Options{
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		MaxWords:  settings.EffectiveMaxWords(),
		ColorMask: settings.ColorMask,
		Seed:      uint64(time.Now().UnixNano()),
	}

	bg, err := ParseColor(settings.BgColor)
	if err != nil {
		log.WithField("bg_color", settings.BgColor).Warn("Unknown wordcloud background, using black")
		bg = colornames.Black
	}
	opts.Background = bg

	if settings.MaskFile != nil {
		mask, err := gg.LoadImage(filepath.Join(f.maskDir, filepath.Base(*settings.MaskFile)))
		if err != nil {
			return opts, err
		}
		opts.Mask = mask
	}
	return opts, nil
}

// collectHistory pages backwards through a channel, returning the content
// of up to limit messages. Bot messages are skipped, as is everyone but
// userID when it is set.
func collectHistory(ctx context.Context, lister messageLister, channelID, userID string, limit int) ([]string, error) {
	var texts []string
	before := ""
	for fetched := 0; fetched < limit; {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n := min(historyPageSize, limit-fetched)
		msgs, err := lister.ChannelMessages(channelID, n, before, "", "", discordgo.WithContext(ctx))
		if err != nil {
			return nil, err
		}
		for _, m := range msgs {
			if m.Author == nil || m.Author.Bot {
				continue
			}
			if userID != "" && m.Author.ID != userID {
				continue
			}
			texts = append(texts, m.ContentWithMentionsReplaced())
		}
		fetched += len(msgs)
		if len(msgs) < n {
			break
		}
		before = msgs[len(msgs)-1].ID
	}
	return texts, nil
}

func isForbidden(err error) bool {
	var restErr *discordgo.RESTError
	return errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden
}
