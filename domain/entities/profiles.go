package entities

// Credential keys stored in bot_credentials
const (
	CredentialBlizzardAPIKey = "blizzard.apikey"
	CredentialSmiteDevID     = "smite.devid"
	CredentialSmiteAuthKey   = "smite.authkey"
	CredentialSmiteSession   = "smite.session"
)

// SmiteCredentials are the developer credentials for the Hi-Rez API
type SmiteCredentials struct {
	DevID     string
	AuthKey   string
	SessionID string
}

// Complete reports whether both developer values are set
func (c *SmiteCredentials) Complete() bool {
	return c.DevID != "" && c.AuthKey != ""
}

// Patch note output formats
const (
	NotesFormatPaged = "paged"
	NotesFormatFull  = "full"
	NotesFormatEmbed = "embed"
)

const (
	MinNotesTimeoutSeconds = 5
	MaxNotesTimeoutSeconds = 3600
)

// BlizzardSettings is the global patch note configuration
type BlizzardSettings struct {
	NotesFormat         string
	NotesTimeoutSeconds int
}
