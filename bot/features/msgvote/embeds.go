package msgvote

import (
	"fmt"
	"strconv"
	"strings"

	"cogbot/bot/common"
	"cogbot/domain/entities"

	"github.com/bwmarrin/discordgo"
)

// BuildStatusEmbed shows the guild's msgvote settings
func BuildStatusEmbed(settings *entities.MsgVoteSettings) *discordgo.MessageEmbed {
	channels := "None"
	if len(settings.Channels) > 0 {
		mentions := make([]string, len(settings.Channels))
		for idx, id := range settings.Channels {
			mentions[idx] = "<#" + common.FormatID(id) + ">"
		}
		channels = strings.Join(mentions, " ")
	}

	threshold := strconv.Itoa(settings.Threshold)
	if settings.Threshold == 0 {
		threshold = "0 (deletion disabled)"
	}

	bot := "OFF"
	if settings.BotEnabled {
		bot = "ON"
	}

	return &discordgo.MessageEmbed{
		Title: "Msgvote settings",
		Color: common.ColorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Channels", Value: channels},
			{Name: "Emojis", Value: settings.UpEmoji + " / " + settings.DownEmoji, Inline: true},
			{Name: "Duration", Value: fmt.Sprintf("%ds", int(settings.Duration.Seconds())), Inline: true},
			{Name: "Threshold", Value: threshold, Inline: true},
			{Name: "Bot messages", Value: bot, Inline: true},
		},
	}
}
