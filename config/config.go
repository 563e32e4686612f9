package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"cogbot/database"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken    string
	GuildID         string  // Register commands to a single guild when set
	OwnerDiscordIDs []int64 // Discord IDs allowed to run owner commands

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// NATS configuration
	NATSServers string // Empty disables event mirroring

	// Storage locations
	SoundDir string
	MaskDir  string

	// Outbound HTTP
	HTTPUserAgent string

	// OpenTelemetry configuration
	OTelEnabled              bool
	OTelExporterType         string // "console", "otlp" or "none"
	OTelOTLPEndpoint         string
	OTelServiceName          string
	OTelExportIntervalMillis int

	LogLevel string

	// Feature tunables, overridable from the TOML file
	Features Features

	// Environment
	Environment string // "development", "production" or "test"
}

// Features holds per-feature defaults
type Features struct {
	Sfx       SfxConfig       `toml:"sfx"`
	MsgVote   MsgVoteConfig   `toml:"msgvote"`
	Poll      PollConfig      `toml:"poll"`
	Wordcloud WordcloudConfig `toml:"wordcloud"`
	Colorme   ColormeConfig   `toml:"colorme"`
	Blizzard  BlizzardConfig  `toml:"blizzard"`
}

type SfxConfig struct {
	DefaultVolume int      `toml:"default_volume"`
	TTSVolume     int      `toml:"tts_volume"`
	TTSLanguage   string   `toml:"tts_language"`
	QueueSize     int      `toml:"queue_size"`
	IdleTimeout   Duration `toml:"idle_timeout"`
	FFmpegPath    string   `toml:"ffmpeg_path"`
}

type MsgVoteConfig struct {
	Duration  Duration `toml:"duration"`
	Threshold int      `toml:"threshold"`
	UpEmoji   string   `toml:"up_emoji"`
	DownEmoji string   `toml:"down_emoji"`
}

type PollConfig struct {
	DefaultDuration Duration `toml:"default_duration"`
	CloseInterval   Duration `toml:"close_interval"`
}

type WordcloudConfig struct {
	DefaultLimit  int      `toml:"default_limit"`
	MaxLimit      int      `toml:"max_limit"`
	Cooldown      Duration `toml:"cooldown"`
	RenderTimeout Duration `toml:"render_timeout"`
}

type ColormeConfig struct {
	CooldownUses int      `toml:"cooldown_uses"`
	CooldownPer  Duration `toml:"cooldown_per"`
}

type BlizzardConfig struct {
	DefaultNotesTimeout Duration `toml:"default_notes_timeout"`
}

// Duration decodes TOML strings such as "45s" or "5m"
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for the TOML decoder
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
				instance.DiscordToken = "test-token"
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// IsOwner reports whether the Discord user may run owner-only commands
func (c *Config) IsOwner(discordID int64) bool {
	for _, id := range c.OwnerDiscordIDs {
		if id == discordID {
			return true
		}
	}
	return false
}

// DefaultFeatures returns the feature tunables used when nothing overrides them
func DefaultFeatures() Features {
	return Features{
		Sfx: SfxConfig{
			DefaultVolume: 75,
			TTSVolume:     100,
			TTSLanguage:   "en",
			QueueSize:     20,
			IdleTimeout:   Duration{300 * time.Second},
			FFmpegPath:    "ffmpeg",
		},
		MsgVote: MsgVoteConfig{
			Duration:  Duration{300 * time.Second},
			Threshold: 3,
			UpEmoji:   "👍",
			DownEmoji: "👎",
		},
		Poll: PollConfig{
			DefaultDuration: Duration{60 * time.Second},
			CloseInterval:   Duration{1 * time.Second},
		},
		Wordcloud: WordcloudConfig{
			DefaultLimit:  4000,
			MaxLimit:      10000,
			Cooldown:      Duration{15 * time.Second},
			RenderTimeout: Duration{45 * time.Second},
		},
		Colorme: ColormeConfig{
			CooldownUses: 2,
			CooldownPer:  Duration{60 * time.Second},
		},
		Blizzard: BlizzardConfig{
			DefaultNotesTimeout: Duration{60 * time.Second},
		},
	}
}

// load loads configuration from .env, environment variables and the optional TOML file
func load() (*Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	config := &Config{
		DiscordToken: os.Getenv("DISCORD_TOKEN"),
		GuildID:      os.Getenv("GUILD_ID"),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		NATSServers: os.Getenv("NATS_SERVERS"),

		SoundDir: getEnvWithDefault("SOUND_DIR", "data/sfx"),
		MaskDir:  getEnvWithDefault("MASK_DIR", "data/wordcloud/masks"),

		HTTPUserAgent: getEnvWithDefault("HTTP_USER_AGENT", "cogbot/1.0"),

		OTelEnabled:              os.Getenv("OTEL_ENABLED") == "true",
		OTelExporterType:         getEnvWithDefault("OTEL_EXPORTER_TYPE", "none"),
		OTelOTLPEndpoint:         getEnvWithDefault("OTEL_OTLP_ENDPOINT", "otel-collector:4317"),
		OTelServiceName:          getEnvWithDefault("OTEL_SERVICE_NAME", "cogbot"),
		OTelExportIntervalMillis: 30000,

		LogLevel: getEnvWithDefault("LOG_LEVEL", "info"),

		Features: DefaultFeatures(),

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if interval := os.Getenv("OTEL_EXPORT_INTERVAL_MS"); interval != "" {
		if parsed, err := strconv.Atoi(interval); err == nil && parsed > 0 {
			config.OTelExportIntervalMillis = parsed
		}
	}

	config.OwnerDiscordIDs = parseIDList(os.Getenv("OWNER_DISCORD_IDS"))

	if path := os.Getenv("COGBOT_CONFIG"); path != "" {
		if err := loadFeatureFile(path, &config.Features); err != nil {
			return nil, err
		}
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	return config, nil
}

// loadFeatureFile overlays feature tunables from a TOML file onto features.
// Keys absent from the file keep their current value.
func loadFeatureFile(path string, features *Features) error {
	md, err := toml.DecodeFile(path, features)
	if err != nil {
		return fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys in config file %s: %v", path, undecoded)
	}
	return nil
}

// parseIDList parses a comma-separated list of Discord IDs, skipping invalid entries
func parseIDList(raw string) []int64 {
	var ids []int64
	for _, idStr := range strings.Split(raw, ",") {
		idStr = strings.TrimSpace(idStr)
		if idStr == "" {
			continue
		}
		if id, err := strconv.ParseInt(idStr, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:     "test",
		OwnerDiscordIDs: []int64{999999},
		SoundDir:        os.TempDir(),
		MaskDir:         os.TempDir(),
		HTTPUserAgent:   "cogbot-test/1.0",
		LogLevel:        "debug",
		Features:        DefaultFeatures(),
	}
}
