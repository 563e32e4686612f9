package common

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// InteractionUser returns the invoking user for guild and DM interactions
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// MemberDisplayName returns the nickname when set, otherwise the global or user name
func MemberDisplayName(member *discordgo.Member) string {
	if member == nil {
		return "Unknown"
	}
	if member.Nick != "" {
		return member.Nick
	}
	if member.User == nil {
		return "Unknown"
	}
	if member.User.GlobalName != "" {
		return member.User.GlobalName
	}
	return member.User.Username
}

// GetDisplayName returns the server-specific display name for a user
// Falls back to username if nickname is not set or if there's an error
func GetDisplayName(s *discordgo.Session, guildID, userID string) string {
	if member, err := s.State.Member(guildID, userID); err == nil {
		return MemberDisplayName(member)
	}

	member, err := s.GuildMember(guildID, userID)
	if err == nil && member != nil {
		return MemberDisplayName(member)
	}

	user, err := s.User(userID)
	if err == nil && user != nil {
		return user.Username
	}

	return "Unknown"
}

// ParseID converts a Discord snowflake string to int64
func ParseID(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}

// FormatID converts an int64 snowflake to string
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// HasChannelPermission reports whether userID holds perm in channelID
func HasChannelPermission(s *discordgo.Session, channelID, userID string, perm int64) bool {
	perms, err := s.State.UserChannelPermissions(userID, channelID)
	if err != nil {
		perms, err = s.UserChannelPermissions(userID, channelID)
		if err != nil {
			return false
		}
	}
	return perms&perm == perm || perms&discordgo.PermissionAdministrator != 0
}

// MemberHasPermission checks the permissions resolved on an interaction member
func MemberHasPermission(i *discordgo.InteractionCreate, perm int64) bool {
	if i.Member == nil {
		return false
	}
	perms := i.Member.Permissions
	return perms&perm == perm || perms&discordgo.PermissionAdministrator != 0
}

// BotCanInChannel reports whether the bot user holds perm in channelID
func BotCanInChannel(s *discordgo.Session, channelID string, perm int64) bool {
	if s.State == nil || s.State.User == nil {
		return false
	}
	return HasChannelPermission(s, channelID, s.State.User.ID, perm)
}
