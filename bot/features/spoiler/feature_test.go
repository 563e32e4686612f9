package spoiler

import (
	"net/http"
	"strings"
	"testing"

	"cogbot/bot/common/discordtest"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestHandleMessageCreate_DeleteBeforePost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		deleteStatus int
		wantGIF      bool
		wantNotice   bool
	}{
		{name: "original deleted", deleteStatus: http.StatusNoContent, wantGIF: true},
		{name: "missing manage messages", deleteStatus: http.StatusForbidden, wantNotice: true},
		{name: "delete failed", deleteStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, rec := discordtest.NewSession(t)
			rec.Reply(http.MethodDelete, "/messages/20", tt.deleteStatus, `{"message":"nope","code":50013}`)

			NewFeature().HandleMessageCreate(s, &discordgo.MessageCreate{Message: &discordgo.Message{
				ID:        "20",
				ChannelID: "10",
				Content:   "!spoiler snape kills dumbledore",
				Author:    &discordgo.User{ID: "30", Username: "reader"},
			}})

			var gif, notice bool
			for _, req := range rec.Requests() {
				if req.Method != http.MethodPost {
					continue
				}
				gif = gif || strings.Contains(req.Body, filename)
				notice = notice || strings.Contains(req.Body, "manage messages")
			}
			assert.Equal(t, tt.wantGIF, gif, "spoiler gif posted")
			assert.Equal(t, tt.wantNotice, notice, "permission notice sent")
		})
	}
}
