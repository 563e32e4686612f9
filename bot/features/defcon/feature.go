package defcon

import (
	"cogbot/application"
	"cogbot/bot/common"

	"github.com/bwmarrin/discordgo"
)

// Feature reports and changes the server DEFCON meter
type Feature struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
}

// NewFeature creates a new defcon feature instance
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
	}
}

// HandleCommand routes /defcon subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, opts := common.Subcommand(i)

	var err error
	switch sub {
	case "show":
		err = f.handleShow(s, i)
	case "raise":
		err = f.handleRaise(s, i)
	case "lower":
		err = f.handleLower(s, i)
	case "set":
		level, _ := opts.Int("level")
		err = f.handleSet(s, i, int(level))
	}
	if err != nil {
		common.HandleError(s, i, err, false)
	}
}
