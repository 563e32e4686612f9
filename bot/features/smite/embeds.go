package smite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const (
	colorSmite    = 0x4E66A3
	smiteIcon     = "http://orig09.deviantart.net/6fc3/f/2013/095/9/a/smite___icon_by_j1mb091-d572cyp.png"
	defaultAvatar = "https://i.gyazo.com/af5f81163d9ee64586c0a3c19a9da769.png"
)

// Player status codes
const (
	StatusOffline = iota
	StatusInLobby
	StatusGodSelection
	StatusInGame
	StatusOnlineNoData
)

var statusNames = map[int]string{
	StatusOffline:      "Offline",
	StatusInLobby:      "In Lobby",
	StatusGodSelection: "God Selection",
	StatusInGame:       "In Game",
	StatusOnlineNoData: "Online - No Data",
}

var leagueTiers = []string{
	"Bronze V", "Bronze IV", "Bronze III", "Bronze II", "Bronze I",
	"Silver V", "Silver IV", "Silver III", "Silver II", "Silver I",
	"Gold V", "Gold IV", "Gold III", "Gold II", "Gold I",
	"Platinum V", "Platinum IV", "Platinum III", "Platinum II", "Platinum I",
	"Diamond V", "Diamond IV", "Diamond III", "Diamond II", "Diamond I",
	"Masters I",
}

var queueTypes = map[string]string{
	"423": "Conquest 5v5",
	"424": "Novice Queue",
	"426": "Conquest",
	"427": "Practice",
	"429": "Conquest Challenge",
	"430": "Conquest Ranked",
	"433": "Domination",
	"434": "MOTD",
	"435": "Arena",
	"438": "Arena Challenge",
	"439": "Domination Challenge",
	"440": "Joust League",
	"441": "Joust Challenge",
	"445": "Assault",
	"446": "Assault Challenge",
	"448": "Joust 3v3",
	"451": "Conquest League",
	"452": "Arena League",
	"465": "MOTD",
}

// ID decodes identifiers the API sends either as numbers or strings
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	*id = ID(data)
	return nil
}

type League struct {
	Tier int `json:"Tier"`
}

type Player struct {
	Name           string `json:"Name"`
	TeamName       string `json:"Team_Name"`
	AvatarURL      string `json:"Avatar_URL"`
	Wins           int    `json:"Wins"`
	Losses         int    `json:"Losses"`
	Leaves         int    `json:"Leaves"`
	MasteryLevel   int    `json:"MasteryLevel"`
	RankedConquest League `json:"RankedConquest"`
	RankedJoust    League `json:"RankedJoust"`
	RankedDuel     League `json:"RankedDuel"`
}

type PlayerStatus struct {
	Status int `json:"status"`
	Match  ID  `json:"Match"`
}

type MatchPlayer struct {
	TaskForce  int    `json:"taskForce"`
	PlayerName string `json:"playerName"`
	GodName    string `json:"GodName"`
	Tier       int    `json:"Tier"`
	Queue      ID     `json:"Queue"`
}

// LeagueTier names a ranked tier, 1 being Bronze V
func LeagueTier(tier int) string {
	if tier < 1 || tier > len(leagueTiers) {
		return "None"
	}
	return leagueTiers[tier-1]
}

func QueueType(queue string) string {
	if name, ok := queueTypes[queue]; ok {
		return name
	}
	return "Unknown"
}

// StatusName returns the label for a status code and whether it is known
func StatusName(status int) (string, bool) {
	name, ok := statusNames[status]
	return name, ok
}

func BuildStatsEmbed(p *Player) *discordgo.MessageEmbed {
	team := p.TeamName
	if team == "" {
		team = "*none*"
	}
	avatar := p.AvatarURL
	if avatar == "" {
		avatar = defaultAvatar
	}

	return &discordgo.MessageEmbed{
		Color: colorSmite,
		Author: &discordgo.MessageEmbedAuthor{
			Name:    p.Name,
			URL:     "https://www.smitegame.com/player-stats/?set_platform_preference=pc&player-name=" + url.QueryEscape(p.Name),
			IconURL: smiteIcon,
		},
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: avatar},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Team", Value: team},
			{Name: "Wins", Value: fmt.Sprint(p.Wins)},
			{Name: "Losses", Value: fmt.Sprint(p.Losses), Inline: true},
			{Name: "Ranked Conquest", Value: LeagueTier(p.RankedConquest.Tier), Inline: true},
			{Name: "Leaves", Value: fmt.Sprint(p.Leaves), Inline: true},
			{Name: "Ranked Joust", Value: LeagueTier(p.RankedJoust.Tier), Inline: true},
			{Name: "Mastery", Value: fmt.Sprint(p.MasteryLevel), Inline: true},
			{Name: "Ranked Duel", Value: LeagueTier(p.RankedDuel.Tier), Inline: true},
		},
	}
}

// BuildStatusEmbed shows the status label. Players in a match also get both
// team rosters.
func BuildStatusEmbed(status string, players []MatchPlayer) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Color:  colorSmite,
		Author: &discordgo.MessageEmbedAuthor{Name: status, IconURL: smiteIcon},
	}
	if len(players) == 0 {
		return embed
	}

	var teams [2]strings.Builder
	for _, p := range players {
		team := p.TaskForce - 1
		if team < 0 || team > 1 {
			continue
		}
		fmt.Fprintf(&teams[team], "**%s**\nGod: %s\nTier: %s\n\n", p.PlayerName, p.GodName, LeagueTier(p.Tier))
	}

	embed.Author.Name = status + " - " + QueueType(string(players[0].Queue))
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "__Team 1__", Value: orNone(teams[0].String()), Inline: true},
		{Name: "__Team 2__", Value: orNone(teams[1].String()), Inline: true},
	}
	return embed
}

func orNone(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "*none*"
	}
	return s
}
