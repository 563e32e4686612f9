package bigmoji

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"strings"
	"time"

	"cogbot/bot/common"
	"cogbot/infrastructure/web"

	"github.com/bwmarrin/discordgo"
	"github.com/fogleman/gg"
	log "github.com/sirupsen/logrus"
)

const (
	minSize           = 128
	fetchTimeout      = 15 * time.Second
	msgNotFound       = "Emoji not found."
	variationSelector = 0xfe0f
)

type byteFetcher interface {
	GetBytes(ctx context.Context, req web.Request) ([]byte, error)
}

// Feature posts emojis as full-size images
type Feature struct {
	web byteFetcher
}

func NewFeature(client byteFetcher) *Feature {
	return &Feature{web: client}
}

// Target is where an emoji image is downloaded from
type Target struct {
	URL      string
	Filename string
	Custom   bool
	Animated bool
}

// HandleCommand answers /bigmoji
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	_, opts := common.Subcommand(i)
	target, ok := ResolveTarget(opts.String("emoji"))
	if !ok {
		common.RespondWithError(s, i, msgNotFound)
		return
	}
	if err := common.DeferResponse(s, i, false); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	data, err := f.web.GetBytes(ctx, web.Request{URL: target.URL, Source: "emoji_cdn"})
	if err != nil {
		var statusErr *web.StatusError
		if errors.As(err, &statusErr) {
			common.FollowUpWithError(s, i, msgNotFound)
			return
		}
		common.HandleError(s, i, common.NewSystemError(err, "Failed to download emoji"), true)
		return
	}

	contentType := "image/png"
	if target.Animated {
		contentType = "image/gif"
	} else if target.Custom {
		if scaled, err := Upscale(data, minSize); err != nil {
			log.WithError(err).WithField("url", target.URL).Debug("Failed to upscale emoji, sending original")
		} else {
			data = scaled
		}
	}

	if _, err := common.FollowUpWithFile(s, i, "", target.Filename, contentType, data); err != nil {
		common.HandleError(s, i, err, true)
	}
}

// ResolveTarget maps command input to a Discord CDN or Twemoji URL
func ResolveTarget(raw string) (*Target, bool) {
	emoji, ok := common.ParseEmoji(raw)
	if !ok {
		return nil, false
	}
	if emoji.IsCustom() {
		ext := "png"
		if emoji.Animated {
			ext = "gif"
		}
		return &Target{
			URL:      fmt.Sprintf("https://cdn.discordapp.com/emojis/%s.%s", emoji.ID, ext),
			Filename: emoji.Name + "." + ext,
			Custom:   true,
			Animated: emoji.Animated,
		}, true
	}
	code := TwemojiCode(emoji.Unicode)
	return &Target{
		URL:      "https://twemoji.maxcdn.com/2/72x72/" + code + ".png",
		Filename: code + ".png",
	}, true
}

// TwemojiCode returns the lowercase hex code points joined by "-", without
// variation selectors
func TwemojiCode(emoji string) string {
	parts := make([]string, 0, len(emoji))
	for _, r := range emoji {
		if r == variationSelector {
			continue
		}
		parts = append(parts, fmt.Sprintf("%x", r))
	}
	return strings.Join(parts, "-")
}

// Upscale enlarges a PNG whose longest side is below size. Images that are
// already large enough are returned unchanged.
func Upscale(data []byte, size int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode emoji: %w", err)
	}
	bounds := img.Bounds()
	longest := max(bounds.Dx(), bounds.Dy())
	if longest == 0 || longest >= size {
		return data, nil
	}

	scale := float64(size) / float64(longest)
	dc := gg.NewContext(int(float64(bounds.Dx())*scale+0.5), int(float64(bounds.Dy())*scale+0.5))
	dc.Scale(scale, scale)
	dc.DrawImage(img, -bounds.Min.X, -bounds.Min.Y)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode emoji: %w", err)
	}
	return buf.Bytes(), nil
}
