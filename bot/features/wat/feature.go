package wat

import (
	"cogbot/application"
	"cogbot/bot/common"

	"github.com/bwmarrin/discordgo"
)

// Feature repeats the previous message louder when someone says "wat"
type Feature struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
}

// NewFeature creates a new wat feature instance
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
	}
}

// HandleCommand routes /wat subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, _ := common.Subcommand(i)

	var err error
	switch sub {
	case "ignoreserver":
		err = f.handleIgnoreServer(s, i)
	case "ignorechannel":
		err = f.handleIgnoreChannel(s, i)
	}
	if err != nil {
		common.HandleError(s, i, err, false)
	}
}
