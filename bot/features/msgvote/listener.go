package msgvote

import (
	"context"
	"errors"
	"net/http"
	"time"

	"cogbot/bot/common"
	"cogbot/domain/entities"
	"cogbot/domain/interfaces"
	"cogbot/infrastructure/observability"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	reactionDelay       = 500 * time.Millisecond
	msgMissingManageMsg = "I require the 'Manage Messages' permission to delete downvoted messages!"
)

// HandleMessageCreate seeds vote reactions on new messages in enabled channels
func (f *Feature) HandleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.GuildID == "" || m.Author == nil {
		return
	}
	channelID, err := common.ParseID(m.ChannelID)
	if err != nil {
		return
	}

	settings, err := f.settings(m.GuildID)
	if err != nil {
		log.WithError(err).WithField("guild_id", m.GuildID).Error("Failed to load msgvote settings")
		return
	}
	if !settings.IsChannelEnabled(channelID) {
		return
	}
	if m.Author.Bot && !settings.BotEnabled {
		return
	}

	logger := log.WithFields(log.Fields{
		"guild_id":   m.GuildID,
		"channel_id": m.ChannelID,
		"message_id": m.ID,
	})
	if err := s.MessageReactionAdd(m.ChannelID, m.ID, common.APIName(settings.UpEmoji)); err != nil {
		logger.WithError(err).Debug("Failed to add upvote reaction")
		return
	}
	time.Sleep(reactionDelay)
	if err := s.MessageReactionAdd(m.ChannelID, m.ID, common.APIName(settings.DownEmoji)); err != nil {
		logger.WithError(err).Debug("Failed to add downvote reaction")
		return
	}
	observability.GetMetrics().RecordReactionAdded("msgvote")
}

// HandleReactionAdd re-evaluates a message when a vote is cast
func (f *Feature) HandleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	f.evaluate(s, r.MessageReaction)
}

// HandleReactionRemove re-evaluates a message when a vote is withdrawn
func (f *Feature) HandleReactionRemove(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	f.evaluate(s, r.MessageReaction)
}

func (f *Feature) evaluate(s *discordgo.Session, r *discordgo.MessageReaction) {
	if r.GuildID == "" || r.UserID == s.State.User.ID {
		return
	}
	channelID, err := common.ParseID(r.ChannelID)
	if err != nil {
		return
	}

	settings, err := f.settings(r.GuildID)
	if err != nil {
		log.WithError(err).WithField("guild_id", r.GuildID).Error("Failed to load msgvote settings")
		return
	}
	if settings.Threshold == 0 || !settings.IsChannelEnabled(channelID) {
		return
	}
	if !settings.IsVoteEmoji(common.ReactionKey(r.Emoji)) {
		return
	}

	postedAt, err := discordgo.SnowflakeTimestamp(r.MessageID)
	if err != nil || !settings.WithinWindow(postedAt, time.Now()) {
		return
	}

	msg, err := s.ChannelMessage(r.ChannelID, r.MessageID)
	if err != nil {
		log.WithError(err).WithField("message_id", r.MessageID).Debug("Failed to fetch voted message")
		return
	}

	tally, botVoted := TallyVotes(msg.Reactions, settings.UpEmoji, settings.DownEmoji)
	if !botVoted[common.ReactionKey(r.Emoji)] {
		return
	}
	if !settings.ShouldDelete(tally.Up, tally.Down) {
		return
	}

	logger := log.WithFields(log.Fields{
		"guild_id":   r.GuildID,
		"channel_id": r.ChannelID,
		"message_id": r.MessageID,
		"up":         tally.Up,
		"down":       tally.Down,
	})

	if err := s.ChannelMessageDelete(r.ChannelID, r.MessageID); err != nil {
		if isForbidden(err) {
			if _, err := common.SendChannelMessage(s, r.ChannelID, msgMissingManageMsg); err != nil {
				logger.WithError(err).Warn("Failed to send missing permission notice")
			}
			return
		}
		logger.WithError(err).Error("Failed to delete downvoted message")
		return
	}
	logger.Info("Deleted downvoted message")

	var authorID int64
	if msg.Author != nil {
		authorID, _ = common.ParseID(msg.Author.ID)
	}
	guildID, _ := common.ParseID(r.GuildID)
	messageID, _ := common.ParseID(r.MessageID)

	err = f.withService(r.GuildID, func(ctx context.Context, svc interfaces.MsgVoteService) error {
		return svc.RecordDeletion(ctx, guildID, channelID, messageID, authorID, tally.Up, tally.Down)
	})
	if err != nil {
		logger.WithError(err).Error("Failed to record msgvote deletion")
	}
}

// Tally holds vote counts without the bot's own reactions
type Tally struct {
	Up   int
	Down int
}

// TallyVotes counts the up and down reactions on a message, not counting the
// bot. The returned map records which vote emojis the bot reacted with.
func TallyVotes(reactions []*discordgo.MessageReactions, upEmoji, downEmoji string) (Tally, map[string]bool) {
	var tally Tally
	botVoted := make(map[string]bool, 2)
	for _, reaction := range reactions {
		if reaction == nil || reaction.Emoji == nil {
			continue
		}
		key := common.ReactionKey(*reaction.Emoji)
		count := reaction.Count
		if reaction.Me {
			count--
		}
		switch key {
		case upEmoji:
			tally.Up = count
			botVoted[key] = botVoted[key] || reaction.Me
		case downEmoji:
			tally.Down = count
			botVoted[key] = botVoted[key] || reaction.Me
		}
	}
	return tally, botVoted
}

func (f *Feature) settings(guildID string) (*entities.MsgVoteSettings, error) {
	var settings *entities.MsgVoteSettings
	err := f.withService(guildID, func(ctx context.Context, svc interfaces.MsgVoteService) error {
		var err error
		settings, err = svc.GetSettings(ctx)
		return err
	})
	return settings, err
}

func isForbidden(err error) bool {
	var restErr *discordgo.RESTError
	return errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden
}
