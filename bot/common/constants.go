package common

// Discord color constants
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287 // Green
	ColorDanger  = 0xED4245 // Red
	ColorWarning = 0xFEE75C // Yellow
	ColorInfo    = 0x3498DB // Blue
)

// UI constants
const (
	MaxMessageLength = 2000
	MaxButtonsPerRow = 5
	MaxActionRows    = 5
)

// Custom ID prefixes for component interactions
const (
	MenuPrefix    = "menu_"
	ConfirmPrefix = "confirm_"
)
