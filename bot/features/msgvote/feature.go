package msgvote

import (
	"cogbot/application"
	"cogbot/bot/common"

	"github.com/bwmarrin/discordgo"
)

// Feature deletes messages that collect enough down votes
type Feature struct {
	session    *discordgo.Session
	uowFactory application.UnitOfWorkFactory
}

// NewFeature creates a new msgvote feature instance
func NewFeature(session *discordgo.Session, uowFactory application.UnitOfWorkFactory) *Feature {
	return &Feature{
		session:    session,
		uowFactory: uowFactory,
	}
}

// HandleCommand routes /msgvote subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, opts := common.Subcommand(i)

	var err error
	switch sub {
	case "on":
		err = f.handleChannel(s, i, true)
	case "off":
		err = f.handleChannel(s, i, false)
	case "bot":
		err = f.handleBot(s, i)
	case "upemoji":
		err = f.handleEmoji(s, i, opts.String("emoji"), true)
	case "downemoji":
		err = f.handleEmoji(s, i, opts.String("emoji"), false)
	case "duration":
		seconds, _ := opts.Int("seconds")
		err = f.handleDuration(s, i, int(seconds))
	case "threshold":
		threshold, _ := opts.Int("threshold")
		err = f.handleThreshold(s, i, int(threshold))
	case "status":
		err = f.handleStatus(s, i)
	}
	if err != nil {
		common.HandleError(s, i, err, false)
	}
}
