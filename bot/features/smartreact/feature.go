package smartreact

import (
	"cogbot/application"
	"cogbot/bot/common"

	"github.com/bwmarrin/discordgo"
)

// Feature adds emoji reactions to messages containing trigger words
type Feature struct {
	session     *discordgo.Session
	uowFactory  application.UnitOfWorkFactory
	interactive *common.Interactive
}

// NewFeature creates a new smartreact feature instance
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory, interactive *common.Interactive) *Feature {
	return &Feature{
		session:     session,
		uowFactory:  uowFactory,
		interactive: interactive,
	}
}

// HandleCommand routes /smartreact subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, opts := common.Subcommand(i)

	var err error
	switch sub {
	case "add":
		err = f.handleAdd(s, i, opts.String("word"), opts.String("emoji"))
	case "remove":
		err = f.handleRemove(s, i, opts.String("word"), opts.String("emoji"))
	case "clear":
		err = f.handleClear(s, i, opts.String("emoji"))
	case "list":
		err = f.handleList(s, i)
	}
	if err != nil {
		common.HandleError(s, i, err, false)
	}
}
