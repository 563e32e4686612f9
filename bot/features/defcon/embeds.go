package defcon

import (
	"fmt"

	"cogbot/domain/entities"

	"github.com/bwmarrin/discordgo"
)

const authorIconURL = "http://i.imgur.com/MfDcOEU.gif"

type levelStyle struct {
	color        int
	thumbnail    string
	subtitle     string
	instructions string
}

var levelStyles = map[int]levelStyle{
	5: {
		color:     0x0080ff,
		thumbnail: "http://i.imgur.com/uTPeW7N.gif",
		subtitle:  "No known threats to your self esteem exist at this time.",
		instructions: "- Partipaction in online games is encouraged\n" +
			"- Remain vigilant of insider threats\n" +
			"- Report all suspicious activity",
	},
	4: {
		color:     0x00ff00,
		thumbnail: "http://i.imgur.com/siIWL5V.gif",
		subtitle:  "Trace amounts of sodium have been detected.",
		instructions: "- Inhale deeply through your nose and count to 5\n" +
			"- Take short breaks between games\n" +
			"- Do not encourage trolls",
	},
	3: {
		color:     0xffff00,
		thumbnail: "http://i.imgur.com/E71VSBE.gif",
		subtitle:  "Sodium levels may exceed OSHA exposure limits.",
		instructions: "- Use extreme caution when playing ranked games\n" +
			"- Log off non-essential communication channels\n" +
			"- Put on your big boy pants",
	},
	2: {
		color:     0xff0000,
		thumbnail: "http://i.imgur.com/PxKhT7h.gif",
		subtitle:  "Sodium levels are approaching critical mass",
		instructions: "- Avoid ranked game modes at all costs\n" +
			"- Mute all hostile voice channels\n" +
			"- Queue up some relaxing jazz music",
	},
	1: {
		color:     0xffffff,
		thumbnail: "http://i.imgur.com/wzXSNWi.gif",
		subtitle:  "Total destruction is IMMINENT.",
		instructions: "- Do not participate in any online games\n" +
			"- Log off all social media immediately\n" +
			"- Take shelter outdoors until the all-clear is given",
	},
}

// BuildDefconEmbed renders the meter for its level
func BuildDefconEmbed(defcon *entities.Defcon) *discordgo.MessageEmbed {
	style, ok := levelStyles[defcon.Level]
	if !ok {
		style = levelStyles[entities.DefconLowest]
	}

	return &discordgo.MessageEmbed{
		Title: "\u2063",
		Color: style.color,
		Author: &discordgo.MessageEmbedAuthor{
			Name:    fmt.Sprintf("This server is at DEFCON LEVEL %d.", defcon.Level),
			IconURL: authorIconURL,
		},
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: style.thumbnail},
		Fields: []*discordgo.MessageEmbedField{
			{Name: style.subtitle, Value: style.instructions, Inline: false},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Authority: " + defcon.Authority,
		},
	}
}
