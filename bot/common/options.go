package common

import (
	"github.com/bwmarrin/discordgo"
)

// Options indexes command options by name
type Options map[string]*discordgo.ApplicationCommandInteractionDataOption

// NewOptions builds an index over opts
func NewOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) Options {
	m := make(Options, len(opts))
	for _, o := range opts {
		m[o.Name] = o
	}
	return m
}

// Subcommand returns the invoked subcommand name and its options. Commands
// without subcommands return an empty name and the top-level options.
func Subcommand(i *discordgo.InteractionCreate) (string, Options) {
	opts := i.ApplicationCommandData().Options
	if len(opts) > 0 && (opts[0].Type == discordgo.ApplicationCommandOptionSubCommand ||
		opts[0].Type == discordgo.ApplicationCommandOptionSubCommandGroup) {
		sub := opts[0]
		if sub.Type == discordgo.ApplicationCommandOptionSubCommandGroup && len(sub.Options) > 0 {
			return sub.Name + " " + sub.Options[0].Name, NewOptions(sub.Options[0].Options)
		}
		return sub.Name, NewOptions(sub.Options)
	}
	return "", NewOptions(opts)
}

// String returns the string option or ""
func (o Options) String(name string) string {
	if opt, ok := o[name]; ok {
		return opt.StringValue()
	}
	return ""
}

// Int returns the integer option and whether it was given
func (o Options) Int(name string) (int64, bool) {
	if opt, ok := o[name]; ok {
		return opt.IntValue(), true
	}
	return 0, false
}

// Bool returns the boolean option or false
func (o Options) Bool(name string) bool {
	if opt, ok := o[name]; ok {
		return opt.BoolValue()
	}
	return false
}

// ID returns the snowflake of a user, role, channel or attachment option
func (o Options) ID(name string) string {
	opt, ok := o[name]
	if !ok {
		return ""
	}
	if id, ok := opt.Value.(string); ok {
		return id
	}
	return ""
}
