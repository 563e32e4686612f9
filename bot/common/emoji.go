package common

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/bwmarrin/discordgo"
)

var customEmojiRE = regexp.MustCompile(`^<(a?):(\w{2,32}):(\d{15,21})>$`)

// Emoji is a unicode or guild custom emoji given as command input
type Emoji struct {
	Unicode  string
	Name     string
	ID       string
	Animated bool
}

// IsCustom reports whether the emoji belongs to a guild
func (e *Emoji) IsCustom() bool {
	return e.ID != ""
}

// String returns the stored form: the unicode text or <a?:name:id>
func (e *Emoji) String() string {
	if !e.IsCustom() {
		return e.Unicode
	}
	prefix := "<:"
	if e.Animated {
		prefix = "<a:"
	}
	return prefix + e.Name + ":" + e.ID + ">"
}

// APIName returns the form the reaction endpoints expect
func (e *Emoji) APIName() string {
	if !e.IsCustom() {
		return e.Unicode
	}
	return e.Name + ":" + e.ID
}

// ParseEmoji accepts a unicode emoji or a custom emoji mention
func ParseEmoji(raw string) (*Emoji, bool) {
	raw = strings.TrimSpace(raw)
	if m := customEmojiRE.FindStringSubmatch(raw); m != nil {
		return &Emoji{Animated: m[1] == "a", Name: m[2], ID: m[3]}, true
	}
	if IsUnicodeEmoji(raw) {
		return &Emoji{Unicode: raw}, true
	}
	return nil, false
}

// APIName converts a stored emoji to the reaction endpoint form
func APIName(stored string) string {
	if e, ok := ParseEmoji(stored); ok {
		return e.APIName()
	}
	return stored
}

// ReactionKey returns the stored form of an emoji seen in a reaction event
func ReactionKey(e discordgo.Emoji) string {
	if e.ID == "" {
		return e.Name
	}
	return (&Emoji{Name: e.Name, ID: e.ID, Animated: e.Animated}).String()
}

// IsUnicodeEmoji reports whether s is made only of emoji code points,
// joiners and modifiers, with at least one pictograph
func IsUnicodeEmoji(s string) bool {
	if s == "" {
		return false
	}

	runes := []rune(s)
	pictographs := 0
	for idx, r := range runes {
		switch {
		case r == 0x200D, r == 0xFE0F, r == 0xFE0E, r == 0x20E3:
		case r >= 0x1F3FB && r <= 0x1F3FF: // skin tones
		case r >= 0xE0020 && r <= 0xE007F: // tag sequences
		case (r >= '0' && r <= '9') || r == '#' || r == '*':
			// keycap base must be followed by the keycap mark
			if !keycapFollows(runes[idx+1:]) {
				return false
			}
			pictographs++
		case unicode.Is(unicode.So, r), r == 0x203C, r == 0x2049:
			pictographs++
		default:
			return false
		}
	}
	return pictographs > 0
}

func keycapFollows(rest []rune) bool {
	for _, r := range rest {
		switch r {
		case 0xFE0F:
			continue
		case 0x20E3:
			return true
		default:
			return false
		}
	}
	return false
}

// GuildEmojiResolves reports whether a stored emoji can still be used in the
// guild. Unicode emojis always resolve.
func GuildEmojiResolves(s *discordgo.Session, guildID, stored string) bool {
	emoji, ok := ParseEmoji(stored)
	if !ok {
		return false
	}
	if !emoji.IsCustom() {
		return true
	}
	if _, err := s.State.Emoji(guildID, emoji.ID); err == nil {
		return true
	}
	_, err := s.GuildEmoji(guildID, emoji.ID)
	return err == nil
}

// ResolveGuildEmoji parses command input and rejects custom emojis from other guilds
func ResolveGuildEmoji(s *discordgo.Session, guildID, raw string) (*Emoji, bool) {
	emoji, ok := ParseEmoji(raw)
	if !ok {
		return nil, false
	}
	if emoji.IsCustom() && !GuildEmojiResolves(s, guildID, emoji.String()) {
		return nil, false
	}
	return emoji, true
}
