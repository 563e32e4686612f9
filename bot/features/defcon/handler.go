package defcon

import (
	"context"
	"errors"

	"cogbot/application"
	"cogbot/bot/common"
	"cogbot/domain/entities"
	"cogbot/domain/interfaces"
	"cogbot/domain/services"

	"github.com/bwmarrin/discordgo"
)

const (
	msgAtMaximum    = "We are already at DEFCON 1! Oh no!"
	msgAtMinimum    = "We are already at DEFCON 5! Relax!"
	msgInvalidLevel = "Not a valid DEFCON level. Haven't you seen War Games?"
)

func (f *Feature) handleShow(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	var defcon *entities.Defcon
	err := f.withService(i, func(ctx context.Context, svc interfaces.DefconService) error {
		var err error
		defcon, err = svc.GetDefcon(ctx)
		return err
	})
	if err != nil {
		return common.NewSystemError(err, "Failed to load defcon level")
	}
	return f.post(s, i, "", defcon)
}

func (f *Feature) handleRaise(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	authority := common.MemberDisplayName(i.Member)
	return f.change(s, i, func(ctx context.Context, svc interfaces.DefconService) (*entities.Defcon, error) {
		return svc.Raise(ctx, authority)
	})
}

func (f *Feature) handleLower(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	authority := common.MemberDisplayName(i.Member)
	return f.change(s, i, func(ctx context.Context, svc interfaces.DefconService) (*entities.Defcon, error) {
		return svc.Lower(ctx, authority)
	})
}

func (f *Feature) handleSet(s *discordgo.Session, i *discordgo.InteractionCreate, level int) error {
	if !entities.ValidDefconLevel(level) {
		return common.NewPublicUserError(msgInvalidLevel, "Invalid defcon level requested")
	}
	authority := common.MemberDisplayName(i.Member)
	return f.change(s, i, func(ctx context.Context, svc interfaces.DefconService) (*entities.Defcon, error) {
		return svc.SetLevel(ctx, level, authority)
	})
}

// change applies fn and posts the resulting meter. Hitting either end of the
// scale still posts the unchanged meter, prefixed with a notice.
func (f *Feature) change(s *discordgo.Session, i *discordgo.InteractionCreate, fn func(context.Context, interfaces.DefconService) (*entities.Defcon, error)) error {
	var defcon *entities.Defcon
	var notice string

	err := f.withService(i, func(ctx context.Context, svc interfaces.DefconService) error {
		var err error
		defcon, err = fn(ctx, svc)
		switch {
		case errors.Is(err, entities.ErrDefconAtMaximum):
			notice = msgAtMaximum
			return nil
		case errors.Is(err, entities.ErrDefconAtMinimum):
			notice = msgAtMinimum
			return nil
		}
		return err
	})
	if errors.Is(err, entities.ErrInvalidDefconLevel) {
		return common.NewPublicUserError(msgInvalidLevel, "Invalid defcon level requested")
	}
	if err != nil {
		return common.NewSystemError(err, "Failed to change defcon level")
	}

	return f.post(s, i, notice, defcon)
}

func (f *Feature) withService(i *discordgo.InteractionCreate, fn func(context.Context, interfaces.DefconService) error) error {
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		return err
	}

	return application.WithUnitOfWork(context.Background(), f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		svc := services.NewDefconService(uow.DefconRepository(), uow.EventBus())
		return fn(context.Background(), svc)
	})
}

func (f *Feature) post(s *discordgo.Session, i *discordgo.InteractionCreate, notice string, defcon *entities.Defcon) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: notice,
			Embeds:  []*discordgo.MessageEmbed{BuildDefconEmbed(defcon)},
		},
	})
}
