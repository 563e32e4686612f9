package colorme

import (
	"cogbot/application"
	"cogbot/bot/common"
	"cogbot/config"

	"github.com/bwmarrin/discordgo"
)

// Feature lets members pick a name color through personal roles
type Feature struct {
	session     *discordgo.Session
	uowFactory  application.UnitOfWorkFactory
	interactive *common.Interactive
	cooldown    *common.Cooldown
}

// NewFeature creates a new colorme feature instance
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory, interactive *common.Interactive, cfg config.ColormeConfig) *Feature {
	return &Feature{
		session:     session,
		uowFactory:  uowFactory,
		interactive: interactive,
		cooldown:    common.NewCooldown(cfg.CooldownUses, cfg.CooldownPer.Duration),
	}
}

// HandleCommand routes /colorme subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, opts := common.Subcommand(i)

	var err error
	switch sub {
	case "change":
		err = f.handleChange(s, i, opts.String("hex"))
	case "clean":
		err = f.handleClean(s, i)
	case "purge":
		err = f.handlePurge(s, i)
	case "protect":
		err = f.handleProtect(s, i, opts.ID("role"), true)
	case "unprotect":
		err = f.handleProtect(s, i, opts.ID("role"), false)
	case "listprotect":
		err = f.handleListProtect(s, i)
	case "defaultrole":
		err = f.handleDefaultRole(s, i, opts.ID("role"))
	}
	if err != nil {
		common.HandleError(s, i, err, false)
	}
}
