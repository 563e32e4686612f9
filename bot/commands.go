package bot

import (
	"fmt"

	"cogbot/bot/features/blizzard"
	"cogbot/bot/features/comics"
	"cogbot/domain/entities"

	"github.com/bwmarrin/discordgo"
)

var (
	manageGuild = int64(discordgo.PermissionManageGuild)
	guildOnly   = false
)

func subcommand(name, description string, options ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionSubCommand,
		Name:        name,
		Description: description,
		Options:     options,
	}
}

func stringOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

func intOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

func choices(values ...string) []*discordgo.ApplicationCommandOptionChoice {
	out := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(values))
	for _, v := range values {
		out = append(out, &discordgo.ApplicationCommandOptionChoice{Name: v, Value: v})
	}
	return out
}

// commandDefinitions returns every slash command the bot serves
func commandDefinitions() []*discordgo.ApplicationCommand {
	minVolume := float64(entities.MinVolume)
	minNotesTimeout := float64(entities.MinNotesTimeoutSeconds)
	minOne := float64(1)
	minZero := float64(0)

	return []*discordgo.ApplicationCommand{
		{
			Name:                     "smartreact",
			Description:              "React to messages containing keywords",
			DefaultMemberPermissions: &manageGuild,
			DMPermission:             &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				subcommand("add", "React with an emoji when a word is said",
					stringOption("word", "Trigger word", true),
					stringOption("emoji", "Emoji to react with", true)),
				subcommand("remove", "Stop reacting to a word with an emoji",
					stringOption("word", "Trigger word", true),
					stringOption("emoji", "Emoji to stop reacting with", true)),
				subcommand("clear", "Remove every trigger word of an emoji",
					stringOption("emoji", "Emoji to clear", true)),
				subcommand("list", "List the smart reactions of this server"),
			},
		},
		{
			Name:                     "msgvote",
			Description:              "Delete messages that get voted down",
			DefaultMemberPermissions: &manageGuild,
			DMPermission:             &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				subcommand("on", "Enable voting in this channel"),
				subcommand("off", "Disable voting in this channel"),
				subcommand("bot", "Toggle voting on bot messages"),
				subcommand("upemoji", "Set the up vote emoji", stringOption("emoji", "Up vote emoji", true)),
				subcommand("downemoji", "Set the down vote emoji", stringOption("emoji", "Down vote emoji", true)),
				subcommand("duration", "Set how long messages can be voted on", &discordgo.ApplicationCommandOption{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "seconds",
					Description: "Voting window in seconds",
					Required:    true,
					MinValue:    &minOne,
				}),
				subcommand("threshold", "Set the vote margin that deletes a message", &discordgo.ApplicationCommandOption{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "threshold",
					Description: "Down votes minus up votes needed, 0 disables deletion",
					Required:    true,
					MinValue:    &minZero,
				}),
				subcommand("status", "Show the voting settings"),
			},
		},
		{
			Name:         "rpoll",
			Description:  "Reaction polls",
			DMPermission: &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				subcommand("new", "Start a poll",
					stringOption("poll", "question;option;option[;time=seconds]", true)),
				subcommand("end", "End one of your polls early",
					intOption("id", "Poll ID", true)),
				subcommand("list", "List the open polls of this server"),
			},
		},
		{
			Name:         "sfx",
			Description:  "Sound effects",
			DMPermission: &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				subcommand("play", "Play a sound in your voice channel", stringOption("name", "Sound name or prefix", true)),
				subcommand("list", "DM yourself the list of sounds"),
				subcommand("add", "Add a sound",
					&discordgo.ApplicationCommandOption{
						Type:        discordgo.ApplicationCommandOptionAttachment,
						Name:        "file",
						Description: "mp3, wav, ogg, m4a or opus file",
						Required:    true,
					},
					stringOption("name", "Sound name, defaults to the file name", false)),
				subcommand("delete", "Delete a sound", stringOption("name", "Sound name", true)),
				subcommand("get", "Upload a sound file", stringOption("name", "Sound name", true)),
				subcommand("volume", "Show or set the volume of a sound",
					stringOption("name", "Sound name", true),
					&discordgo.ApplicationCommandOption{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "percent",
						Description: "Volume from 0 to 200",
						MinValue:    &minVolume,
						MaxValue:    entities.MaxVolume,
					}),
			},
		},
		{
			Name:         "tts",
			Description:  "Speak text in your voice channel",
			DMPermission: &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "text",
					Description: "What to say",
					Required:    true,
					MaxLength:   500,
				},
			},
		},
		{
			Name:         "defcon",
			Description:  "Server DEFCON level",
			DMPermission: &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				subcommand("show", "Show the DEFCON level"),
				subcommand("raise", "Raise the alert (DEFCON+)"),
				subcommand("lower", "Lower the alert (DEFCON-)"),
				subcommand("set", "Set the DEFCON level", intOption("level", "Level from 1 to 5", true)),
			},
		},
		{
			Name:        "cprice",
			Description: "Cryptocurrency prices",
			Options: []*discordgo.ApplicationCommandOption{
				stringOption("currency", "Currency name or symbol, defaults to the top ten", false),
			},
		},
		{
			Name:        "patchnotes",
			Description: "Latest Blizzard patch notes",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "game",
					Description: "Game",
					Required:    true,
					Choices:     blizzard.GameChoices(),
				},
			},
		},
		{
			Name:        "battletag",
			Description: "Your saved BattleTag",
			Options: []*discordgo.ApplicationCommandOption{
				subcommand("set", "Save your BattleTag", stringOption("tag", "BattleTag, e.g. Name#1234", true)),
				subcommand("clear", "Forget your BattleTag"),
			},
		},
		{
			Name:        "overwatch",
			Description: "Overwatch stats",
			Options: []*discordgo.ApplicationCommandOption{
				subcommand("stats", "Competitive stats",
					stringOption("tag", "BattleTag, defaults to yours", false),
					&discordgo.ApplicationCommandOption{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "region",
						Description: "Region, detected when omitted",
						Choices:     choices("us", "eu", "kr"),
					}),
			},
		},
		{
			Name:        "diablo3",
			Description: "Diablo III stats",
			Options: []*discordgo.ApplicationCommandOption{
				subcommand("stats", "Career stats", stringOption("tag", "BattleTag, defaults to yours", false)),
			},
		},
		{
			Name:        "wowtoken",
			Description: "WoW token prices",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "realm",
					Description: "Token market, defaults to na",
					Choices:     choices("na", "eu", "cn", "tw", "kr"),
				},
			},
		},
		{
			Name:        "blizzard",
			Description: "Blizzard settings (bot owner)",
			Options: []*discordgo.ApplicationCommandOption{
				subcommand("apikey", "Set the Battle.net API key", stringOption("key", "API key", true)),
				subcommand("noteformat", "Set how patch notes are shown", &discordgo.ApplicationCommandOption{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "format",
					Description: "Format",
					Required:    true,
					Choices:     choices(entities.NotesFormatPaged, entities.NotesFormatFull, entities.NotesFormatEmbed),
				}),
				subcommand("notetimeout", "Set the patch note menu timeout", &discordgo.ApplicationCommandOption{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "seconds",
					Description: "Timeout in seconds",
					Required:    true,
					MinValue:    &minNotesTimeout,
					MaxValue:    entities.MaxNotesTimeoutSeconds,
				}),
			},
		},
		{
			Name:        "smite",
			Description: "Smite player stats",
			Options: []*discordgo.ApplicationCommandOption{
				subcommand("auth", "Set the Smite API credentials (bot owner)",
					stringOption("devid", "Developer ID", true),
					stringOption("authkey", "Authentication key", true)),
				subcommand("ping", "Check the Smite API (bot owner)"),
				subcommand("nameset", "Save your Smite name", stringOption("name", "Smite player name", true)),
				subcommand("nameclear", "Forget your Smite name"),
				subcommand("stats", "Player stats", stringOption("name", "Player name, defaults to yours", false)),
				subcommand("status", "Player status and current match", stringOption("name", "Player name, defaults to yours", false)),
			},
		},
		{
			Name:         "wordcloud",
			Description:  "Make a word cloud from channel history",
			DMPermission: &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "channel",
					Description:  "Channel to read, defaults to this one",
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
				},
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Only use messages from this user",
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "limit",
					Description: "Number of messages to read",
					MinValue:    &minOne,
				},
			},
		},
		{
			Name:                     "wcset",
			Description:              "Word cloud settings",
			DefaultMemberPermissions: &manageGuild,
			DMPermission:             &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				subcommand("bgcolor", "Set the background color", stringOption("color", "Color name, hex code or clear", true)),
				subcommand("maxwords", "Set the maximum number of words", &discordgo.ApplicationCommandOption{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "count",
					Description: "Maximum words, 0 for the default",
					Required:    true,
					MinValue:    &minZero,
				}),
				subcommand("exclude", "Exclude a word", stringOption("word", "Word to exclude", true)),
				subcommand("clearwords", "Clear the excluded words"),
				subcommand("colormask", "Toggle coloring words from the mask"),
				{
					Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
					Name:        "mask",
					Description: "Image masks",
					Options: []*discordgo.ApplicationCommandOption{
						subcommand("list", "List the installed masks"),
						subcommand("set", "Use a mask for this server", stringOption("file", "Mask file name", true)),
						subcommand("clear", "Stop using a mask"),
						subcommand("upload", "Install a mask (bot owner)", &discordgo.ApplicationCommandOption{
							Type:        discordgo.ApplicationCommandOptionAttachment,
							Name:        "image",
							Description: "PNG or JPG image",
							Required:    true,
						}),
					},
				},
			},
		},
		{
			Name:        "bigmoji",
			Description: "Post an emoji as a big image",
			Options: []*discordgo.ApplicationCommandOption{
				stringOption("emoji", "Emoji", true),
			},
		},
		{
			Name:        "donger",
			Description: "Post a random donger",
		},
		{
			Name:        "comic",
			Description: "Post a web comic",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "name",
					Description: "Comic",
					Required:    true,
					Choices:     comics.Choices(),
				},
				stringOption("date", "Date for daily strips, e.g. 2016-05-20", false),
			},
		},
		{
			Name:         "colorme",
			Description:  "Pick your name color",
			DMPermission: &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				subcommand("change", "Change your color", stringOption("hex", "Hex color, e.g. #ff8800", true)),
				subcommand("clean", "Remove your color"),
				subcommand("purge", "Delete unused color roles"),
				subcommand("protect", "Protect a role from colorme", roleOption(true)),
				subcommand("unprotect", "Stop protecting a role", roleOption(true)),
				subcommand("listprotect", "List protected roles"),
				subcommand("defaultrole", "Set or clear the role given to new members", roleOption(false)),
			},
		},
		{
			Name:        "spoiler",
			Description: "Post text hidden behind a GIF",
			Options: []*discordgo.ApplicationCommandOption{
				stringOption("text", "Spoiler text", true),
			},
		},
		{
			Name:                     "wat",
			Description:              "wat settings",
			DefaultMemberPermissions: &manageGuild,
			DMPermission:             &guildOnly,
			Options: []*discordgo.ApplicationCommandOption{
				subcommand("ignoreserver", "Toggle wat in this server"),
				subcommand("ignorechannel", "Toggle wat in this channel"),
			},
		},
		{
			Name:        "bees",
			Description: "bees",
		},
	}
}

func roleOption(required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionRole,
		Name:        "role",
		Description: "Role",
		Required:    required,
	}
}

// registerCommands replaces the registered slash commands with the current set
func (b *Bot) registerCommands() error {
	commands := commandDefinitions()
	_, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, b.config.GuildID, commands)
	if err != nil {
		return fmt.Errorf("cannot register %d commands: %w", len(commands), err)
	}
	return nil
}
