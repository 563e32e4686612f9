package msgvote

import (
	"context"
	"errors"
	"fmt"

	"cogbot/application"
	"cogbot/bot/common"
	"cogbot/domain/entities"
	"cogbot/domain/interfaces"
	"cogbot/domain/services"

	"github.com/bwmarrin/discordgo"
)

const (
	msgInvalidEmoji     = "That's not a valid emoji."
	msgInvalidDuration  = "Invalid duration. Must be a positive integer."
	msgInvalidThreshold = "Invalid threshold. Must be a positive integer, or 0 to disable."
)

func (f *Feature) handleChannel(s *discordgo.Session, i *discordgo.InteractionCreate, enabled bool) error {
	channelID, err := common.ParseID(i.ChannelID)
	if err != nil {
		return common.NewSystemError(err, "Invalid channel ID")
	}

	var changed bool
	err = f.withService(i.GuildID, func(ctx context.Context, svc interfaces.MsgVoteService) error {
		changed, err = svc.SetChannelEnabled(ctx, channelID, enabled)
		return err
	})
	if err != nil {
		return common.NewSystemError(err, "Failed to update msgvote channel")
	}

	state := "off"
	if enabled {
		state = "on"
	}
	if !changed {
		return common.Respond(s, i, fmt.Sprintf("Msgvote mode is already %s in this channel.", state), false)
	}
	return common.Respond(s, i, fmt.Sprintf("Msgvote mode is now %s in this channel.", state), false)
}

func (f *Feature) handleBot(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	var enabled bool
	err := f.withService(i.GuildID, func(ctx context.Context, svc interfaces.MsgVoteService) error {
		var err error
		enabled, err = svc.ToggleBotVoting(ctx)
		return err
	})
	if err != nil {
		return common.NewSystemError(err, "Failed to toggle msgvote bot setting")
	}

	if enabled {
		return common.Respond(s, i, "Reactions to bot messages turned ON.", false)
	}
	return common.Respond(s, i, "Reactions to bot messages turned OFF.", false)
}

func (f *Feature) handleEmoji(s *discordgo.Session, i *discordgo.InteractionCreate, raw string, up bool) error {
	emoji, ok := common.ResolveGuildEmoji(s, i.GuildID, raw)
	if !ok {
		return common.NewUserError(msgInvalidEmoji, "Invalid msgvote emoji")
	}

	err := f.withService(i.GuildID, func(ctx context.Context, svc interfaces.MsgVoteService) error {
		if up {
			return svc.SetUpEmoji(ctx, emoji.String())
		}
		return svc.SetDownEmoji(ctx, emoji.String())
	})
	if err != nil {
		return common.NewSystemError(err, "Failed to set msgvote emoji")
	}

	if up {
		return common.Respond(s, i, "Upvote emoji set to: "+emoji.String(), false)
	}
	return common.Respond(s, i, "Downvote emoji set to: "+emoji.String(), false)
}

func (f *Feature) handleDuration(s *discordgo.Session, i *discordgo.InteractionCreate, seconds int) error {
	err := f.withService(i.GuildID, func(ctx context.Context, svc interfaces.MsgVoteService) error {
		return svc.SetDuration(ctx, seconds)
	})
	switch {
	case errors.Is(err, entities.ErrInvalidDuration):
		return common.NewUserError(msgInvalidDuration, "Invalid msgvote duration")
	case err != nil:
		return common.NewSystemError(err, "Failed to set msgvote duration")
	}

	return common.Respond(s, i, fmt.Sprintf("I will monitor each message's votes until it is %d seconds old.", seconds), false)
}

func (f *Feature) handleThreshold(s *discordgo.Session, i *discordgo.InteractionCreate, threshold int) error {
	err := f.withService(i.GuildID, func(ctx context.Context, svc interfaces.MsgVoteService) error {
		return svc.SetThreshold(ctx, threshold)
	})
	switch {
	case errors.Is(err, entities.ErrInvalidThreshold):
		return common.NewUserError(msgInvalidThreshold, "Invalid msgvote threshold")
	case err != nil:
		return common.NewSystemError(err, "Failed to set msgvote threshold")
	}

	if threshold == 0 {
		return common.Respond(s, i, "Message deletion disabled.", false)
	}
	return common.Respond(s, i, fmt.Sprintf("Messages will be deleted if [downvotes - upvotes] reaches %d.", threshold), false)
}

func (f *Feature) handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	var settings *entities.MsgVoteSettings
	err := f.withService(i.GuildID, func(ctx context.Context, svc interfaces.MsgVoteService) error {
		var err error
		settings, err = svc.GetSettings(ctx)
		return err
	})
	if err != nil {
		return common.NewSystemError(err, "Failed to load msgvote settings")
	}

	return common.RespondWithEmbed(s, i, BuildStatusEmbed(settings), nil, false)
}

func (f *Feature) withService(guildIDStr string, fn func(context.Context, interfaces.MsgVoteService) error) error {
	guildID, err := common.ParseID(guildIDStr)
	if err != nil {
		return fmt.Errorf("invalid guild ID %q: %w", guildIDStr, err)
	}
	ctx := context.Background()
	return application.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		return fn(ctx, services.NewMsgVoteService(uow.MsgVoteRepository(), uow.EventBus()))
	})
}
