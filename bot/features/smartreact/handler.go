package smartreact

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
	msgAdded         = "Successfully added this reaction."
	msgExists        = "This smart reaction already exists."
	msgRemoved       = "Removed this smart reaction."
	msgNotSetUp      = "That emoji/word combination is not set up."
	msgUnknownEmoji  = "That's not an emoji I recognize. (might be custom!)"
	msgInvalidWord   = "Trigger words must be a single word."
	clearTimeout     = 15 * time.Second
	listMessageLimit = common.MaxMessageLength
)

func (f *Feature) handleAdd(s *discordgo.Session, i *discordgo.InteractionCreate, word, rawEmoji string) error {
	emoji, ok := common.ResolveGuildEmoji(s, i.GuildID, rawEmoji)
	if !ok {
		return common.NewUserError(msgUnknownEmoji, "Unrecognized emoji")
	}

	err := f.withService(i.GuildID, func(ctx context.Context, svc interfaces.SmartReactService) error {
		return svc.AddReaction(ctx, emoji.String(), word)
	})
	switch {
	case errors.Is(err, entities.ErrReactionExists):
		return common.NewUserError(msgExists, "Duplicate smart reaction")
	case errors.Is(err, entities.ErrInvalidWord):
		return common.NewUserError(msgInvalidWord, "Invalid smart reaction word")
	case err != nil:
		return common.NewSystemError(err, "Failed to add smart reaction")
	}

	return common.Respond(s, i, msgAdded, false)
}

func (f *Feature) handleRemove(s *discordgo.Session, i *discordgo.InteractionCreate, word, rawEmoji string) error {
	emoji, ok := common.ParseEmoji(rawEmoji)
	if !ok {
		return common.NewUserError(msgUnknownEmoji, "Unrecognized emoji")
	}

	err := f.withService(i.GuildID, func(ctx context.Context, svc interfaces.SmartReactService) error {
		return svc.RemoveReaction(ctx, emoji.String(), word)
	})
	switch {
	case errors.Is(err, entities.ErrReactionNotFound):
		return common.NewUserError(msgNotSetUp, "Smart reaction not found")
	case err != nil:
		return common.NewSystemError(err, "Failed to remove smart reaction")
	}

	return common.Respond(s, i, msgRemoved, false)
}

func (f *Feature) handleClear(s *discordgo.Session, i *discordgo.InteractionCreate, rawEmoji string) error {
	emoji, ok := common.ParseEmoji(rawEmoji)
	if !ok {
		return common.NewUserError(msgUnknownEmoji, "Unrecognized emoji")
	}
	stored := emoji.String()
	guildID := i.GuildID

	question := fmt.Sprintf("Are you sure you want to clear **all** smart reactions for %s?", stored)
	return f.interactive.Confirm(s, i, question, clearTimeout, func(s *discordgo.Session, ci *discordgo.InteractionCreate, yes bool) {
		if !yes {
			common.UpdateComponentMessage(s, ci, "Alright, I'm not clearing these reactions.")
			return
		}

		var removed int64
		err := f.withService(guildID, func(ctx context.Context, svc interfaces.SmartReactService) error {
			var err error
			removed, err = svc.ClearEmoji(ctx, stored)
			return err
		})
		if err != nil {
			log.WithError(err).WithField("guild_id", guildID).Error("Failed to clear smart reactions")
			common.UpdateComponentMessage(s, ci, common.GenericErrorMessage)
			return
		}
		common.UpdateComponentMessage(s, ci, fmt.Sprintf("Done. Removed %d smart reactions for %s.", removed, stored))
	})
}

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	var set entities.SmartReactionSet
	err := f.withService(i.GuildID, func(ctx context.Context, svc interfaces.SmartReactService) error {
		var err error
		set, err = svc.ListReactions(ctx)
		if err != nil {
			return err
		}

		// Drop custom emojis deleted from the guild
		kept := set[:0]
		for _, r := range set {
			if len(r.Words) == 0 || !common.GuildEmojiResolves(s, i.GuildID, r.Emoji) {
				if _, err := svc.ClearEmoji(ctx, r.Emoji); err != nil {
					return err
				}
				continue
			}
			kept = append(kept, r)
		}
		set = kept
		return nil
	})
	if err != nil {
		return common.NewSystemError(err, "Failed to list smart reactions")
	}

	guildName := "this server"
	if g, err := s.State.Guild(i.GuildID); err == nil {
		guildName = g.Name
	}

	pages := common.Pagify(FormatReactionList(guildName, set), listMessageLimit)
	if err := common.Respond(s, i, pages[0], false); err != nil {
		return err
	}
	for _, page := range pages[1:] {
		if _, err := common.FollowUp(s, i, page, false); err != nil {
			return err
		}
	}
	return nil
}

// FormatReactionList renders the guild's reactions one emoji per line
func FormatReactionList(guildName string, set entities.SmartReactionSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Smart Reactions for %s:\n", guildName)
	if len(set) == 0 {
		b.WriteString("None.")
		return b.String()
	}
	for _, r := range set {
		fmt.Fprintf(&b, "%s: %s\n", r.Emoji, strings.Join(r.Words, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (f *Feature) withService(guildIDStr string, fn func(context.Context, interfaces.SmartReactService) error) error {
	guildID, err := common.ParseID(guildIDStr)
	if err != nil {
		return fmt.Errorf("invalid guild ID %q: %w", guildIDStr, err)
	}
	ctx := context.Background()
	return application.WithUnitOfWork(ctx, f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		return fn(ctx, services.NewSmartReactService(uow.SmartReactionRepository(), uow.EventBus()))
	})
}
