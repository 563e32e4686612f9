package entities

import "time"

// GuildSettings holds per-guild configuration that does not belong to one feature
type GuildSettings struct {
	GuildID       int64
	DefaultRoleID *int64 // Role granted to members on join, nil when unset
	WatIgnored    bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasDefaultRole reports whether new members should receive a role
func (g *GuildSettings) HasDefaultRole() bool {
	return g.DefaultRoleID != nil && *g.DefaultRoleID != 0
}
