package spoiler

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"cogbot/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	prefix         = "!spoiler "
	filename       = "spoiler.gif"
	msgNeedsManage = "I require the 'manage messages' permission to hide spoilers!"
	msgEmpty       = "There's nothing to hide."
)

// Feature hides spoiler text behind an animated GIF
type Feature struct{}

func NewFeature() *Feature {
	return &Feature{}
}

// Caption introduces the spoiler image
func Caption(author string) string {
	return "**" + author + "** posted this spoiler:"
}

// HandleCommand answers /spoiler text
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	_, opts := common.Subcommand(i)
	text := strings.TrimSpace(opts.String("text"))
	if text == "" {
		common.RespondWithError(s, i, msgEmpty)
		return
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		return
	}
	data, err := Render(text)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "Failed to render spoiler"), true)
		return
	}

	author := "Someone"
	if user := common.InteractionUser(i); user != nil {
		author = common.GetDisplayName(s, i.GuildID, user.ID)
	}
	if _, err := common.FollowUpWithFile(s, i, Caption(author), filename, "image/gif", data); err != nil {
		common.HandleError(s, i, err, true)
	}
}

// HandleMessageCreate replaces "!spoiler text" messages with the GIF
func (f *Feature) HandleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || !strings.HasPrefix(m.Content, prefix) {
		return
	}
	text := strings.TrimSpace(strings.TrimPrefix(m.Content, prefix))
	if text == "" {
		return
	}

	// The GIF only goes out once the plain text is gone
	logger := log.WithFields(log.Fields{"channel_id": m.ChannelID, "message_id": m.ID})
	if err := s.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
		var restErr *discordgo.RESTError
		if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden {
			if _, err := common.SendChannelMessage(s, m.ChannelID, msgNeedsManage); err != nil {
				logger.WithError(err).Warn("Failed to send missing permission notice")
			}
			return
		}
		logger.WithError(err).Warn("Failed to delete spoiler message")
		return
	}

	data, err := Render(text)
	if err != nil {
		logger.WithError(err).Error("Failed to render spoiler")
		return
	}

	author := m.Author.Username
	if m.GuildID != "" {
		author = common.GetDisplayName(s, m.GuildID, m.Author.ID)
	}
	_, err = s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Content:         Caption(author),
		Files:           []*discordgo.File{{Name: filename, ContentType: "image/gif", Reader: bytes.NewReader(data)}},
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	})
	if err != nil {
		logger.WithError(err).Warn("Failed to post spoiler")
	}
}
