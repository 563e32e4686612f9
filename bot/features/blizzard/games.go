package blizzard

import (
	"sort"

	"github.com/bwmarrin/discordgo"
)

const (
	notesBaseURL   = "https://us.battle.net/connect/en/app/"
	notesUserAgent = "Battle.net/1.0.8.4217"

	colorPatchNotes = 0x00B4FF
)

// game describes where a title publishes patch notes
type game struct {
	label    string
	abbr     string
	notesURL string
	thumb    string
	// header is prepended as a title when the notes carry none
	header string
	// promoteFirstParagraph renders the first paragraph as the title
	promoteFirstParagraph bool
}

var games = map[string]game{
	"hearthstone": {
		label:                 "Hearthstone",
		abbr:                  "wtcg",
		notesURL:              "https://us.battle.net/hearthstone/en/blog/",
		promoteFirstParagraph: true,
	},
	"overwatch": {
		label:    "Overwatch",
		abbr:     "Pro",
		notesURL: "https://playoverwatch.com/en-us/game/patch-notes/pc/",
		thumb:    overwatchThumb,
	},
	"starcraft2": {
		label:    "StarCraft II",
		abbr:     "sc2",
		notesURL: "https://us.battle.net/sc2/en/game/patch-notes/",
		header:   "STARCRAFT 2 PATCH NOTES",
	},
	"warcraft": {
		label:    "World of Warcraft",
		abbr:     "WoW",
		notesURL: "https://us.battle.net/wow/en/game/patch-notes/",
		header:   "WORLD OF WARCRAFT PATCH NOTES",
	},
	"diablo3": {
		label:    "Diablo III",
		abbr:     "d3",
		notesURL: "https://us.battle.net/d3/en/game/patch-notes/",
		thumb:    diabloThumb,
		header:   "DIABLO 3 PATCH NOTES",
	},
	"hots": {
		label:    "Heroes of the Storm",
		abbr:     "heroes",
		notesURL: "https://us.battle.net/heroes/en/blog/",
		header:   "HEROES OF THE STORM PATCH NOTES",
	},
}

// feedURL is the launcher endpoint serving the latest notes for g
func (g game) feedURL() string {
	return notesBaseURL + g.abbr + "/patch-notes?productType=" + g.abbr
}

// GameChoices lists the games accepted by /patchnotes
func GameChoices() []*discordgo.ApplicationCommandOptionChoice {
	keys := make([]string, 0, len(games))
	for key := range games {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(keys))
	for _, key := range keys {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: games[key].label, Value: key})
	}
	return choices
}
