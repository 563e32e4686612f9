package wat

import (
	"context"
	"regexp"
	"strings"

	"cogbot/application"
	"cogbot/bot/common"
	"cogbot/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const lookback = 5

var watRE = regexp.MustCompile(`(?i)^w+h*[aou]+t+[?!]*$`)

func (f *Feature) handleIgnoreServer(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		return common.NewSystemError(err, "Invalid guild ID")
	}

	var ignored bool
	err = application.WithUnitOfWork(context.Background(), f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		var err error
		ignored, err = services.NewGuildSettingsService(uow.GuildSettingsRepository()).ToggleWatIgnored(context.Background(), guildID)
		return err
	})
	if err != nil {
		return common.NewSystemError(err, "Failed to toggle wat server ignore")
	}

	if ignored {
		return common.Respond(s, i, "wat will now ignore this server.", false)
	}
	return common.Respond(s, i, "wat will no longer ignore this server.", false)
}

func (f *Feature) handleIgnoreChannel(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		return common.NewSystemError(err, "Invalid guild ID")
	}
	channelID, err := common.ParseID(i.ChannelID)
	if err != nil {
		return common.NewSystemError(err, "Invalid channel ID")
	}

	var ignored bool
	err = application.WithUnitOfWork(context.Background(), f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		var err error
		ignored, err = services.NewModerationService(uow.ModerationRepository()).ToggleWatChannel(context.Background(), channelID)
		return err
	})
	if err != nil {
		return common.NewSystemError(err, "Failed to toggle wat channel ignore")
	}

	if ignored {
		return common.Respond(s, i, "wat will now ignore this channel.", false)
	}
	return common.Respond(s, i, "wat will no longer ignore this channel.", false)
}

// HandleMessageCreate answers "wat" with the previous message, uppercased
func (f *Feature) HandleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.GuildID == "" || m.Author == nil || m.Author.Bot || !IsWat(m.Content) {
		return
	}
	if f.ignored(m.GuildID, m.ChannelID) {
		return
	}

	history, err := s.ChannelMessages(m.ChannelID, lookback, m.ID, "", "")
	if err != nil {
		log.WithError(err).WithField("channel_id", m.ChannelID).Debug("Failed to read wat history")
		return
	}
	target := FindTarget(history, m.Author.ID)
	if target == nil {
		return
	}

	name := common.GetDisplayName(s, m.GuildID, target.Author.ID)
	if _, err := common.SendChannelMessage(s, m.ChannelID, FormatReply(name, target.Content)); err != nil {
		log.WithError(err).WithField("channel_id", m.ChannelID).Warn("Failed to send wat reply")
	}
}

func (f *Feature) ignored(guildIDStr, channelIDStr string) bool {
	guildID, err := common.ParseID(guildIDStr)
	if err != nil {
		return true
	}
	channelID, err := common.ParseID(channelIDStr)
	if err != nil {
		return true
	}

	var ignored bool
	err = application.WithUnitOfWork(context.Background(), f.uowFactory, guildID, func(uow application.UnitOfWork) error {
		settings, err := services.NewGuildSettingsService(uow.GuildSettingsRepository()).GetOrCreateSettings(context.Background(), guildID)
		if err != nil {
			return err
		}
		if settings.WatIgnored {
			ignored = true
			return nil
		}
		ignored, err = services.NewModerationService(uow.ModerationRepository()).IsWatChannelIgnored(context.Background(), channelID)
		return err
	})
	if err != nil {
		log.WithError(err).WithField("guild_id", guildIDStr).Error("Failed to load wat ignores")
		return true
	}
	return ignored
}

// IsWat reports whether the whole message is a "wat"
func IsWat(content string) bool {
	return watRE.MatchString(strings.TrimSpace(content))
}

// FindTarget picks the most recent message, newest first, written by a
// human other than authorID that is not itself a wat
func FindTarget(history []*discordgo.Message, authorID string) *discordgo.Message {
	for _, msg := range history {
		if msg.Author == nil || msg.Author.Bot || msg.Author.ID == authorID {
			continue
		}
		if IsWat(msg.Content) || strings.TrimSpace(msg.Content) == "" {
			continue
		}
		return msg
	}
	return nil
}

// FormatReply builds the shouted repeat
func FormatReply(name, content string) string {
	return common.Truncate(name+" said, **📣   "+strings.ToUpper(content)+"**", common.MaxMessageLength)
}
