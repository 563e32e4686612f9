package reactpoll

import (
	"fmt"
	"strings"
	"time"

	"cogbot/bot/common"
	"cogbot/domain/entities"

	"github.com/bwmarrin/discordgo"
)

const (
	embedFieldLimit = 1024
	noOneVoted      = "***NO ONE VOTED.***"
)

// BuildPollEmbed renders an open poll
func BuildPollEmbed(poll *entities.Poll, authorName string) *discordgo.MessageEmbed {
	var options strings.Builder
	for idx, option := range poll.Options {
		fmt.Fprintf(&options, "**%d**. %s\n", idx+1, option)
	}

	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{Name: "POLL STARTED!"},
		Title:  common.Truncate(poll.Question, 256),
		Color:  common.ColorPrimary,
		Footer: &discordgo.MessageEmbedFooter{
			Text: authorName + " created a poll | ends at",
		},
		Timestamp: poll.EndTime.UTC().Format(time.RFC3339),
	}
	fillPages(embed, options.String(), "Options continued")
	return embed
}

// BuildResultsEmbed renders the final tally of a closed poll
func BuildResultsEmbed(poll *entities.Poll, results []entities.PollResult) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "POLL ENDED",
		Color: common.ColorPrimary,
	}

	if entities.TotalVotes(results) == 0 {
		embed.Description = poll.Question + "\n\n" + noOneVoted
		return embed
	}

	var lines strings.Builder
	lines.WriteString(poll.Question + "\n\n")
	for _, r := range results {
		fmt.Fprintf(&lines, "**%d** - %s\n", r.Votes, r.Option)
	}
	fillPages(embed, lines.String(), "Results continued")
	return embed
}

// fillPages puts the first page in the description and the rest in fields
func fillPages(embed *discordgo.MessageEmbed, text, continued string) {
	for idx, page := range common.Pagify(strings.TrimRight(text, "\n"), embedFieldLimit) {
		if idx == 0 {
			embed.Description = page
			continue
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: continued, Value: page})
	}
}
