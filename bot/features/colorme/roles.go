package colorme

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// RoleSuffix marks roles managed by colorme
const RoleSuffix = ":color"

var hexRE = regexp.MustCompile(`^#?([0-9a-fA-F]{6})$`)

// ParseHex parses a 6 digit hex color with an optional leading '#'
func ParseHex(s string) (int, bool) {
	m := hexRE.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseInt(m[1], 16, 32)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

// IsColormeRole reports whether a role was created by colorme
func IsColormeRole(role *discordgo.Role) bool {
	return role != nil && strings.HasSuffix(role.Name, RoleSuffix)
}

// RoleName names the color role created for a user
func RoleName(user *discordgo.User) string {
	if user.Discriminator == "" || user.Discriminator == "0" {
		return user.Username + RoleSuffix
	}
	return user.Username + "#" + user.Discriminator + RoleSuffix
}

func memberRoles(memberRoleIDs []string, roles []*discordgo.Role) []*discordgo.Role {
	held := make(map[string]bool, len(memberRoleIDs))
	for _, id := range memberRoleIDs {
		held[id] = true
	}
	var out []*discordgo.Role
	for _, r := range roles {
		if held[r.ID] {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Position != out[b].Position {
			return out[a].Position > out[b].Position
		}
		return out[a].ID < out[b].ID
	})
	return out
}

// TopRole returns the member's highest role, or nil when they only have @everyone
func TopRole(memberRoleIDs []string, roles []*discordgo.Role) *discordgo.Role {
	held := memberRoles(memberRoleIDs, roles)
	if len(held) == 0 {
		return nil
	}
	return held[0]
}

// ColorRole returns the member's highest colorme role
func ColorRole(memberRoleIDs []string, roles []*discordgo.Role) *discordgo.Role {
	for _, r := range memberRoles(memberRoleIDs, roles) {
		if IsColormeRole(r) {
			return r
		}
	}
	return nil
}

// IsShared reports whether anyone besides userID holds roleID
func IsShared(roleID, userID string, members []*discordgo.Member) bool {
	for _, m := range members {
		if m.User == nil || m.User.ID == userID {
			continue
		}
		for _, id := range m.Roles {
			if id == roleID {
				return true
			}
		}
	}
	return false
}

// DeadRoles returns the colorme roles no member holds, highest first
func DeadRoles(roles []*discordgo.Role, members []*discordgo.Member) []*discordgo.Role {
	used := make(map[string]bool)
	for _, m := range members {
		for _, id := range m.Roles {
			used[id] = true
		}
	}
	var dead []*discordgo.Role
	for _, r := range roles {
		if IsColormeRole(r) && !used[r.ID] {
			dead = append(dead, r)
		}
	}
	sort.SliceStable(dead, func(a, b int) bool { return dead[a].Position > dead[b].Position })
	return dead
}
