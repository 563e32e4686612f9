package reactpoll

import (
	"context"
	"errors"
	"fmt"

	"cogbot/application"
	"cogbot/bot/common"
	"cogbot/domain/entities"
	"cogbot/domain/interfaces"
	"cogbot/domain/services"
	"cogbot/infrastructure/observability"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const msgClutter = "Don't clutter the poll."

// HandleReactionAdd records votes and removes stray reactions on open polls
func (f *Feature) HandleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.Member != nil && r.Member.User != nil && r.Member.User.Bot {
		return
	}
	messageID, userID, ok := f.voteTarget(s, r.MessageReaction)
	if !ok {
		return
	}
	emoji := common.ReactionKey(r.Emoji)

	var (
		poll    *entities.Poll
		outcome *interfaces.VoteOutcome
		clutter bool
	)
	err := f.withPoll(r.GuildID, messageID, func(ctx context.Context, svc interfaces.PollService, p *entities.Poll) error {
		poll = p
		if !p.HasEmoji(emoji) {
			clutter = true
			return nil
		}
		var err error
		outcome, err = svc.CastVote(ctx, p, userID, emoji)
		return err
	})
	if errors.Is(err, entities.ErrPollClosed) || errors.Is(err, entities.ErrPollNotFound) {
		return
	}
	if err != nil {
		log.WithError(err).WithField("message_id", r.MessageID).Error("Failed to record poll vote")
		return
	}

	if clutter {
		if err := s.MessageReactionRemove(r.ChannelID, r.MessageID, r.Emoji.APIName(), r.UserID); err != nil {
			log.WithError(err).WithField("poll_id", poll.ID).Debug("Failed to remove stray poll reaction")
		}
		sendDM(s, r.UserID, msgClutter)
		return
	}

	observability.GetMetrics().RecordReactionAdded("reactpoll")
	for _, prev := range outcome.Replaced {
		if err := s.MessageReactionRemove(r.ChannelID, r.MessageID, common.APIName(prev), r.UserID); err != nil {
			log.WithError(err).WithField("poll_id", poll.ID).Debug("Failed to remove replaced poll reaction")
		}
	}
	if len(outcome.Replaced) > 0 {
		sendDM(s, r.UserID, ChangedVoteMessage(poll.Question, emoji))
	}
}

// HandleReactionRemove withdraws a vote when its reaction is removed
func (f *Feature) HandleReactionRemove(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	messageID, userID, ok := f.voteTarget(s, r.MessageReaction)
	if !ok {
		return
	}
	emoji := common.ReactionKey(r.Emoji)

	err := f.withPoll(r.GuildID, messageID, func(ctx context.Context, svc interfaces.PollService, p *entities.Poll) error {
		if !p.HasEmoji(emoji) {
			return nil
		}
		return svc.RetractVote(ctx, p, userID, emoji)
	})
	if err != nil && !errors.Is(err, entities.ErrPollClosed) && !errors.Is(err, entities.ErrPollNotFound) {
		log.WithError(err).WithField("message_id", r.MessageID).Error("Failed to retract poll vote")
	}
}

// ChangedVoteMessage is sent when a single-vote poll replaces a vote
func ChangedVoteMessage(question, emoji string) string {
	return fmt.Sprintf("You've already voted on `%s`, changing vote to %s.", question, emoji)
}

func (f *Feature) voteTarget(s *discordgo.Session, r *discordgo.MessageReaction) (messageID, userID int64, ok bool) {
	if r.GuildID == "" || r.UserID == s.State.User.ID {
		return 0, 0, false
	}
	messageID, err := common.ParseID(r.MessageID)
	if err != nil || !f.isTracked(messageID) {
		return 0, 0, false
	}
	userID, err = common.ParseID(r.UserID)
	if err != nil {
		return 0, 0, false
	}
	return messageID, userID, true
}

func (f *Feature) withPoll(guildIDStr string, messageID int64, fn func(context.Context, interfaces.PollService, *entities.Poll) error) error {
	guildID, err := common.ParseID(guildIDStr)
	if err != nil {
		return fmt.Errorf("invalid guild ID %q: %w", guildIDStr, err)
	}
	ctx := context.Background()
	return application.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		svc := services.NewPollService(uow.PollRepository(), uow.EventBus())
		poll, err := svc.GetByMessageID(ctx, messageID)
		if err != nil {
			return err
		}
		if poll.Closed {
			return entities.ErrPollClosed
		}
		return fn(ctx, svc, poll)
	})
}

func sendDM(s *discordgo.Session, userID, content string) {
	channel, err := s.UserChannelCreate(userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Debug("Failed to open DM channel")
		return
	}
	if _, err := common.SendChannelMessage(s, channel.ID, content); err != nil {
		log.WithError(err).WithField("user_id", userID).Debug("Failed to send DM")
	}
}
