package reactpoll

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cogbot/application"
	"cogbot/bot/common"
	"cogbot/domain/entities"
	"cogbot/domain/interfaces"
	"cogbot/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	msgPollNotFound = "No open poll with that ID."
	msgPollEnded    = "That poll has already ended."
	msgNotAuthor    = "Only the poll author or a moderator can end this poll."
	msgNoOpenPolls  = "There are no open polls in this server."
)

func (f *Feature) handleNew(s *discordgo.Session, i *discordgo.InteractionCreate, text string) error {
	parsed, err := services.ParsePoll(text, f.cfg.DefaultDuration.Duration)
	if err != nil {
		return common.NewUserError(err.Error(), "Invalid poll")
	}

	user := common.InteractionUser(i)
	if user == nil {
		return common.NewSystemError(errors.New("interaction has no user"), "Missing poll author")
	}
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		return common.NewSystemError(err, "Invalid guild ID")
	}
	channelID, err := common.ParseID(i.ChannelID)
	if err != nil {
		return common.NewSystemError(err, "Invalid channel ID")
	}
	authorID, err := common.ParseID(user.ID)
	if err != nil {
		return common.NewSystemError(err, "Invalid user ID")
	}

	now := time.Now()
	poll := &entities.Poll{
		Question:      parsed.Question,
		Options:       parsed.Options,
		Emojis:        services.PollEmojis(len(parsed.Options)),
		MultipleVotes: parsed.MultipleVotes,
		EndTime:       now.Add(parsed.Duration),
	}

	authorName := common.GetDisplayName(s, i.GuildID, user.ID)
	if err := common.RespondWithEmbed(s, i, BuildPollEmbed(poll, authorName), nil, false); err != nil {
		return err
	}
	msg, err := s.InteractionResponse(i.Interaction)
	if err != nil {
		log.WithError(err).WithField("guild_id", i.GuildID).Error("Failed to fetch poll message")
		return nil
	}
	messageID, err := common.ParseID(msg.ID)
	if err != nil {
		return nil
	}

	err = application.WithUnitOfWork(context.Background(), f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		svc := services.NewPollService(uow.PollRepository(), uow.EventBus())
		created, err := svc.CreatePoll(context.Background(), interfaces.CreatePollRequest{
			GuildID:   guildID,
			ChannelID: channelID,
			AuthorID:  authorID,
			Parsed:    parsed,
			Now:       now,
		})
		if err != nil {
			return err
		}
		poll = created
		return svc.AttachMessage(context.Background(), poll, messageID)
	})
	if err != nil {
		log.WithError(err).WithField("guild_id", i.GuildID).Error("Failed to store poll")
		if err := s.ChannelMessageDelete(msg.ChannelID, msg.ID); err != nil {
			log.WithError(err).Warn("Failed to delete unstored poll message")
		}
		common.FollowUpWithError(s, i, common.GenericErrorMessage)
		return nil
	}

	f.track(messageID)
	log.WithFields(log.Fields{
		"guild_id": i.GuildID,
		"poll_id":  poll.ID,
		"options":  len(poll.Options),
		"end_time": poll.EndTime,
	}).Info("Poll opened")

	for _, emoji := range poll.Emojis {
		if err := s.MessageReactionAdd(msg.ChannelID, msg.ID, emoji); err != nil {
			log.WithError(err).WithField("poll_id", poll.ID).Warn("Failed to add poll reaction")
			break
		}
	}
	return nil
}

func (f *Feature) handleEnd(s *discordgo.Session, i *discordgo.InteractionCreate, pollID int64) error {
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		return common.NewSystemError(err, "Invalid guild ID")
	}

	var poll *entities.Poll
	err = application.WithUnitOfWork(context.Background(), f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		var err error
		poll, err = services.NewPollService(uow.PollRepository(), uow.EventBus()).GetByID(context.Background(), pollID)
		return err
	})
	switch {
	case errors.Is(err, entities.ErrPollNotFound):
		return common.NewUserError(msgPollNotFound, "Poll not found")
	case err != nil:
		return common.NewSystemError(err, "Failed to load poll")
	case poll.Closed:
		return common.NewUserError(msgPollEnded, "Poll already closed")
	}

	user := common.InteractionUser(i)
	if user == nil || (common.FormatID(poll.AuthorID) != user.ID && !common.MemberHasPermission(i, discordgo.PermissionManageMessages)) {
		return common.NewUserError(msgNotAuthor, "Poll end denied")
	}

	if err := common.DeferResponse(s, i, true); err != nil {
		return err
	}
	if err := f.closePoll(context.Background(), poll); err != nil {
		if errors.Is(err, entities.ErrPollClosed) {
			common.FollowUpWithError(s, i, msgPollEnded)
			return nil
		}
		log.WithError(err).WithField("poll_id", poll.ID).Error("Failed to end poll")
		common.FollowUpWithError(s, i, common.GenericErrorMessage)
		return nil
	}
	_, err = common.FollowUp(s, i, "Poll ended.", true)
	return err
}

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		return common.NewSystemError(err, "Invalid guild ID")
	}

	var polls []*entities.Poll
	err = application.WithUnitOfWork(context.Background(), f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		var err error
		polls, err = services.NewPollService(uow.PollRepository(), uow.EventBus()).GetOpenPolls(context.Background())
		return err
	})
	if err != nil {
		return common.NewSystemError(err, "Failed to list polls")
	}

	if len(polls) == 0 {
		return common.Respond(s, i, msgNoOpenPolls, true)
	}
	pages := common.Pagify(FormatPollList(i.GuildID, polls), common.MaxMessageLength)
	if err := common.Respond(s, i, pages[0], true); err != nil {
		return err
	}
	for _, page := range pages[1:] {
		if _, err := common.FollowUp(s, i, page, true); err != nil {
			return err
		}
	}
	return nil
}

// FormatPollList renders one line per open poll with a jump link
func FormatPollList(guildID string, polls []*entities.Poll) string {
	var b strings.Builder
	b.WriteString("**Open polls**\n")
	for _, p := range polls {
		fmt.Fprintf(&b, "`#%d` %s (ends %s)", p.ID, p.Question, common.FormatDiscordTimestamp(p.EndTime, "R"))
		if p.MessageID != nil {
			fmt.Fprintf(&b, " https://discord.com/channels/%s/%d/%d", guildID, p.ChannelID, *p.MessageID)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
