package smartreact

import (
	"context"
	"errors"
	"net/http"

	"cogbot/bot/common"
	"cogbot/domain/interfaces"
	"cogbot/infrastructure/observability"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// HandleMessageCreate reacts to messages containing trigger words
func (f *Feature) HandleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.GuildID == "" || m.Author == nil || m.Author.ID == s.State.User.ID {
		return
	}
	if !common.BotCanInChannel(s, m.ChannelID, discordgo.PermissionAddReactions) {
		return
	}

	var emojis []string
	err := f.withService(m.GuildID, func(ctx context.Context, svc interfaces.SmartReactService) error {
		var err error
		emojis, err = svc.MatchMessage(ctx, m.Content)
		return err
	})
	if err != nil {
		log.WithError(err).WithField("guild_id", m.GuildID).Error("Failed to match smart reactions")
		return
	}
	if len(emojis) == 0 {
		return
	}

	var added, unknown []string
	for _, emoji := range emojis {
		err := s.MessageReactionAdd(m.ChannelID, m.ID, common.APIName(emoji))
		if err == nil {
			added = append(added, emoji)
			observability.GetMetrics().RecordReactionAdded("smartreact")
			continue
		}
		if isUnknownEmoji(err) {
			unknown = append(unknown, emoji)
			continue
		}
		log.WithError(err).WithFields(log.Fields{
			"guild_id":   m.GuildID,
			"channel_id": m.ChannelID,
			"emoji":      emoji,
		}).Debug("Failed to add smart reaction")
	}

	channelID, _ := common.ParseID(m.ChannelID)
	messageID, _ := common.ParseID(m.ID)
	guildID, _ := common.ParseID(m.GuildID)

	err = f.withService(m.GuildID, func(ctx context.Context, svc interfaces.SmartReactService) error {
		for _, emoji := range unknown {
			if _, err := svc.ClearEmoji(ctx, emoji); err != nil {
				return err
			}
			log.WithFields(log.Fields{"guild_id": m.GuildID, "emoji": emoji}).Info("Removed smart reactions for unknown emoji")
		}
		for _, emoji := range added {
			if err := svc.RecordTriggered(ctx, guildID, channelID, messageID, emoji); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.WithError(err).WithField("guild_id", m.GuildID).Error("Failed to record smart reactions")
	}
}

// isUnknownEmoji reports whether Discord rejected the reaction emoji itself
func isUnknownEmoji(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownEmoji {
		return true
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusBadRequest && restErr.Message == nil
}
