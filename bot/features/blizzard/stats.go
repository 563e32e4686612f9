package blizzard

import (
	"fmt"
	"math"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const (
	overwatchThumb = "https://i.imgur.com/YZ4w2ey.png"
	diabloThumb    = "https://i.imgur.com/5WYDHHZ.png"

	colorOverwatch = 0xFAA02E
	colorDiablo    = 0xCC2200

	noMatches = "*No matches played*"
	notRanked = "*Not ranked*"
)

var tierIcons = map[string]string{
	"bronze":      "https://i.imgur.com/B4IR72H.png",
	"silver":      "https://i.imgur.com/1mOpjRc.png",
	"gold":        "https://i.imgur.com/lCTsNwo.png",
	"platinum":    "https://i.imgur.com/nDVHAbp.png",
	"diamond":     "https://i.imgur.com/fLmIC70.png",
	"master":      "https://i.imgur.com/wjf0lEc.png",
	"grandmaster": "https://i.imgur.com/5ApGiZs.png",
}

// regions in auto-detection order
var regions = []struct{ code, name string }{
	{"kr", "Asia"},
	{"eu", "Europe"},
	{"us", "US"},
}

// OverwatchProfile is the owapi.net v3 stats payload
type OverwatchProfile struct {
	Error any              `json:"error"`
	KR    *OverwatchRegion `json:"kr"`
	EU    *OverwatchRegion `json:"eu"`
	US    *OverwatchRegion `json:"us"`
}

type OverwatchRegion struct {
	Stats struct {
		Quickplay   *OverwatchModeStats `json:"quickplay"`
		Competitive *OverwatchModeStats `json:"competitive"`
	} `json:"stats"`
}

type OverwatchModeStats struct {
	OverallStats struct {
		Avatar   string   `json:"avatar"`
		CompRank *float64 `json:"comprank"`
		Tier     string   `json:"tier"`
	} `json:"overall_stats"`
	GameStats struct {
		GamesWon float64 `json:"games_won"`
	} `json:"game_stats"`
	AverageStats struct {
		EliminationsAvg float64 `json:"eliminations_avg"`
		DeathsAvg       float64 `json:"deaths_avg"`
		DamageDoneAvg   float64 `json:"damage_done_avg"`
		HealingDoneAvg  float64 `json:"healing_done_avg"`
	} `json:"average_stats"`
}

// Region returns the stats for a region code
func (p *OverwatchProfile) Region(code string) *OverwatchRegion {
	switch code {
	case "kr":
		return p.KR
	case "eu":
		return p.EU
	case "us":
		return p.US
	}
	return nil
}

// DetectRegion picks the first region with stats, preferring kr then eu then us
func (p *OverwatchProfile) DetectRegion() (string, bool) {
	for _, r := range regions {
		if p.Region(r.code) != nil {
			return r.code, true
		}
	}
	return "", false
}

func regionName(code string) string {
	for _, r := range regions {
		if r.code == code {
			return r.name
		}
	}
	return strings.ToUpper(code)
}

// IsRegion reports whether s names an Overwatch region
func IsRegion(s string) bool {
	for _, r := range regions {
		if r.code == s {
			return true
		}
	}
	return false
}

func formatModeStats(m *OverwatchModeStats) string {
	round := func(f float64) int64 { return int64(math.Round(f)) }
	return fmt.Sprintf("**Wins:** %d\n**Avg Elim:** %d\n**Avg Death:** %d\n**Avg Dmg:** %d\n**Avg Heal:** %d",
		round(m.GameStats.GamesWon),
		round(m.AverageStats.EliminationsAvg),
		round(m.AverageStats.DeathsAvg),
		round(m.AverageStats.DamageDoneAvg),
		round(m.AverageStats.HealingDoneAvg),
	)
}

// BuildOverwatchEmbed renders the region's quick play and competitive stats.
// tag is the battletag in Name#1234 form.
func BuildOverwatchEmbed(tag, region string, stats *OverwatchRegion) *discordgo.MessageEmbed {
	qplay := noMatches
	thumb := overwatchThumb
	if q := stats.Stats.Quickplay; q != nil {
		qplay = formatModeStats(q)
		if q.OverallStats.Avatar != "" {
			thumb = q.OverallStats.Avatar
		}
	}

	comp := noMatches
	icon := overwatchThumb
	if c := stats.Stats.Competitive; c != nil {
		if c.OverallStats.CompRank == nil {
			comp = notRanked
		} else {
			comp = formatModeStats(c)
			if url, ok := tierIcons[c.OverallStats.Tier]; ok {
				icon = url
			}
		}
	}

	career := "https://playoverwatch.com/en-us/career/pc/" + region + "/" + strings.ReplaceAll(tag, "#", "-")
	return &discordgo.MessageEmbed{
		Title: "Overwatch Stats (PC-" + regionName(region) + ")",
		Color: colorOverwatch,
		Author: &discordgo.MessageEmbedAuthor{
			Name:    tag,
			URL:     career,
			IconURL: icon,
		},
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: thumb},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "__Competitive__", Value: comp, Inline: true},
			{Name: "__Quick Play__", Value: qplay, Inline: true},
		},
	}
}

// DiabloProfile is the battle.net D3 career profile
type DiabloProfile struct {
	Code                       string       `json:"code"`
	ParagonLevel               int          `json:"paragonLevel"`
	ParagonLevelHardcore       int          `json:"paragonLevelHardcore"`
	ParagonLevelSeason         int          `json:"paragonLevelSeason"`
	ParagonLevelSeasonHardcore int          `json:"paragonLevelSeasonHardcore"`
	Heroes                     []DiabloHero `json:"heroes"`
	Kills                      struct {
		Monsters int64 `json:"monsters"`
	} `json:"kills"`
}

type DiabloHero struct {
	Name     string `json:"name"`
	Class    string `json:"class"`
	Level    int    `json:"level"`
	Hardcore bool   `json:"hardcore"`
	Seasonal bool   `json:"seasonal"`
	Dead     bool   `json:"dead"`
}

// FormatHeroes lists heroes one per line, seasonal ones marked with a leaf
func FormatHeroes(heroes []DiabloHero) string {
	var b strings.Builder
	for _, h := range heroes {
		if h.Seasonal {
			b.WriteString(":leaves:")
		}
		fmt.Fprintf(&b, "%s - lvl %d %s", h.Name, h.Level, h.Class)
		if h.Hardcore {
			b.WriteString(" - hardcore")
		}
		if h.Dead {
			b.WriteString(" (RIP)")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// BuildDiabloEmbed renders paragon levels, heroes and kills
func BuildDiabloEmbed(tag string, p *DiabloProfile) *discordgo.MessageEmbed {
	paragon := fmt.Sprintf(":leaves:Seasonal: %d\n:leaves:Seasonal Hardcore: %d\nNon-Seasonal: %d\nNon-Seasonal Hardcore: %d",
		p.ParagonLevelSeason, p.ParagonLevelSeasonHardcore, p.ParagonLevel, p.ParagonLevelHardcore)

	return &discordgo.MessageEmbed{
		Title:     "Diablo 3 Stats",
		Color:     colorDiablo,
		Author:    &discordgo.MessageEmbedAuthor{Name: tag},
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: diabloThumb},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "__Paragon__", Value: paragon},
			{Name: "__Heroes__", Value: FormatHeroes(p.Heroes)},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Lifetime monster kills: %d", p.Kills.Monsters)},
	}
}
