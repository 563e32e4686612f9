package reactpoll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cogbot/application"
	"cogbot/bot/common"
	"cogbot/domain/entities"
	"cogbot/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// reactionPageSize is the most users Discord returns per reaction request
const reactionPageSize = 100

// LoadGuild caches the open polls of a guild so their reactions are handled.
// Called whenever the bot becomes available in a guild.
func (f *Feature) LoadGuild(ctx context.Context, guildID int64) error {
	var polls []*entities.Poll
	err := application.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		var err error
		polls, err = services.NewPollService(uow.PollRepository(), uow.EventBus()).GetOpenPolls(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to load open polls for guild %d: %w", guildID, err)
	}

	for _, p := range polls {
		if p.MessageID != nil {
			f.track(*p.MessageID)
		}
	}
	if len(polls) > 0 {
		log.WithFields(log.Fields{"guild_id": guildID, "polls": len(polls)}).Info("Reloaded open polls")
	}
	return nil
}

// CloseExpired closes every poll across all guilds whose end time has passed
func (f *Feature) CloseExpired(ctx context.Context, now time.Time) error {
	var expired []*entities.Poll
	// Guild 0 reads expired polls across every guild
	err := application.WithUnitOfWork(ctx, f.uowFactory, 0, func(uow application.UnitOfWork) error {
		var err error
		expired, err = services.NewPollService(uow.PollRepository(), uow.EventBus()).GetExpiredPolls(ctx, now)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to get expired polls: %w", err)
	}

	for _, poll := range expired {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := f.closePoll(ctx, poll); err != nil && !errors.Is(err, entities.ErrPollClosed) {
			log.WithError(err).WithFields(log.Fields{
				"poll_id":  poll.ID,
				"guild_id": poll.GuildID,
			}).Error("Failed to close poll")
		}
	}
	return nil
}

// closePoll tallies, stores and announces the results. The poll is marked
// closed before anything is posted so results are announced once.
func (f *Feature) closePoll(ctx context.Context, poll *entities.Poll) error {
	channelID := common.FormatID(poll.ChannelID)
	var messageID string
	if poll.MessageID != nil {
		messageID = common.FormatID(*poll.MessageID)
	}

	counts := f.tallyReactions(poll, channelID, messageID)

	var results []entities.PollResult
	err := application.WithUnitOfWork(ctx, f.uowFactory, poll.GuildID, func(uow application.UnitOfWork) error {
		var err error
		results, err = services.NewPollService(uow.PollRepository(), uow.EventBus()).ClosePoll(ctx, poll, counts)
		return err
	})
	if poll.MessageID != nil {
		f.untrack(*poll.MessageID)
	}
	if err != nil {
		return err
	}

	logger := log.WithFields(log.Fields{
		"poll_id":  poll.ID,
		"guild_id": poll.GuildID,
		"votes":    entities.TotalVotes(results),
	})

	if counts != nil {
		if err := f.session.MessageReactionsRemoveAll(channelID, messageID); err != nil {
			logger.WithError(err).Debug("Failed to clear poll reactions")
		}
	}
	if _, err := f.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:          []*discordgo.MessageEmbed{BuildResultsEmbed(poll, results)},
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}); err != nil {
		logger.WithError(err).Warn("Failed to post poll results")
	}

	logger.Info("Poll closed")
	return nil
}

// tallyReactions counts non-bot reactions per poll emoji. It returns nil when
// the poll message cannot be read so stored votes are used instead.
func (f *Feature) tallyReactions(poll *entities.Poll, channelID, messageID string) map[string]int {
	if messageID == "" {
		return nil
	}
	if _, err := f.session.ChannelMessage(channelID, messageID); err != nil {
		log.WithError(err).WithField("poll_id", poll.ID).Debug("Poll message unavailable, using stored votes")
		return nil
	}

	counts := make(map[string]int, len(poll.Emojis))
	for _, emoji := range poll.Emojis {
		after := ""
		for {
			users, err := f.session.MessageReactions(channelID, messageID, common.APIName(emoji), reactionPageSize, "", after)
			if err != nil {
				log.WithError(err).WithField("poll_id", poll.ID).Debug("Failed to read poll reactions, using stored votes")
				return nil
			}
			counts[emoji] += CountHumans(users)
			if len(users) < reactionPageSize {
				break
			}
			after = users[len(users)-1].ID
		}
	}
	return counts
}

// CountHumans counts users that are not bots
func CountHumans(users []*discordgo.User) int {
	n := 0
	for _, u := range users {
		if u != nil && !u.Bot {
			n++
		}
	}
	return n
}
