package bees

import (
	"strings"

	"cogbot/bot/common"
	"cogbot/infrastructure/observability"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const beeEmoji = "🐝"

var notBees = []string{"beef", "been", "beep", "beer", "beet", "beech", "beedi", "beest", "frisbee"}

// Feature reacts to bees
type Feature struct{}

func NewFeature() *Feature {
	return &Feature{}
}

// HandleCommand answers /bees
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	common.RespondOrLog(s, i, "bees.", false)
}

// HandleMessageCreate adds a bee to messages about bees
func (f *Feature) HandleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID || !IsAboutBees(m.Content) {
		return
	}
	if err := s.MessageReactionAdd(m.ChannelID, m.ID, beeEmoji); err != nil {
		log.WithError(err).WithField("channel_id", m.ChannelID).Debug("Failed to add bee")
		return
	}
	observability.GetMetrics().RecordReactionAdded("bees")
}

// IsAboutBees reports whether content mentions bees and none of the words
// that merely contain "bee"
func IsAboutBees(content string) bool {
	content = strings.ToLower(content)
	if !strings.Contains(content, "bee") {
		return false
	}
	for _, word := range notBees {
		if strings.Contains(content, word) {
			return false
		}
	}
	return true
}
