package sfx

import (
	"net/http"
	"strings"
	"testing"

	"cogbot/bot/common/discordtest"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sfxCommand(sub string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:      "1",
		AppID:   "2",
		Token:   "interaction-token",
		Type:    discordgo.InteractionApplicationCommand,
		GuildID: "42",
		Member:  &discordgo.Member{User: &discordgo.User{ID: "7"}},
		Data: discordgo.ApplicationCommandInteractionData{
			Name: "sfx",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{{
				Name:    sub,
				Type:    discordgo.ApplicationCommandOptionSubCommand,
				Options: opts,
			}},
		},
	}}
}

func TestHandleCommand_DeferredErrorsArePrivate(t *testing.T) {
	t.Parallel()

	name := &discordgo.ApplicationCommandInteractionDataOption{
		Name:  "name",
		Type:  discordgo.ApplicationCommandOptionString,
		Value: "missing",
	}

	tests := []struct {
		name    string
		command *discordgo.InteractionCreate
		message string
	}{
		{name: "get unknown sound", command: sfxCommand("get", name), message: "Sound file not found"},
		{name: "add by non-owner", command: sfxCommand("add", name), message: msgOwnerOnly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, rec := discordtest.NewSession(t)
			feature := &Feature{
				library: newTestLibrary(t),
				isOwner: func(int64) bool { return false },
			}

			feature.HandleCommand(s, tt.command)

			var posts []discordtest.Request
			for _, req := range rec.Requests() {
				if req.Method == http.MethodPost {
					posts = append(posts, req)
				}
			}
			require.Len(t, posts, 2, "deferral then error follow-up")
			assert.True(t, strings.HasSuffix(posts[0].Path, "/callback"))
			assert.Contains(t, posts[1].Body, tt.message)
			for _, post := range posts {
				assert.Contains(t, post.Body, `"flags":64`, "ephemeral %s", post.Path)
			}
		})
	}
}
