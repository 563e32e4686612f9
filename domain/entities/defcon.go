package entities

const (
	DefconHighest = 1 // Most severe
	DefconLowest  = 5
)

// DefaultAuthority is shown before anyone has changed the level
const DefaultAuthority = "none"

// Defcon is a guild's DEFCON meter
type Defcon struct {
	GuildID   int64
	Level     int
	Authority string
}

// ValidDefconLevel reports whether level is between 1 and 5
func ValidDefconLevel(level int) bool {
	return level >= DefconHighest && level <= DefconLowest
}
