package wordcloud

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cogbot/bot/common"
	"cogbot/domain/entities"
	"cogbot/domain/interfaces"
	"cogbot/infrastructure/web"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	maxMaskBytes   = 8 << 20
	uploadTimeout  = 30 * time.Second
	confirmTimeout = 60 * time.Second
	msgOwnerOnly   = "Only the bot owner can do that."
)

var maskExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

func (f *Feature) handleBgColor(s *discordgo.Session, i *discordgo.InteractionCreate, raw string) error {
	if _, err := ParseColor(raw); err != nil {
		return common.NewUserError("That's not a color I recognize. Use a color name, a hex code or `clear`.", "Invalid wordcloud color")
	}
	err := f.withSettings(context.Background(), i.GuildID, func(svc interfaces.WordcloudSettingsService) error {
		return svc.SetBgColor(context.Background(), raw)
	})
	if err != nil {
		return common.NewSystemError(err, "Failed to set wordcloud background")
	}
	return common.Respond(s, i, fmt.Sprintf("Background color set to %s.", strings.ToLower(strings.TrimSpace(raw))), false)
}

func (f *Feature) handleMaxWords(s *discordgo.Session, i *discordgo.InteractionCreate, n int) error {
	err := f.withSettings(context.Background(), i.GuildID, func(svc interfaces.WordcloudSettingsService) error {
		return svc.SetMaxWords(context.Background(), n)
	})
	if errors.Is(err, entities.ErrInvalidMaxWords) {
		return common.NewUserError("Max words cannot be negative. Use 0 for the default.", "Invalid max words")
	}
	if err != nil {
		return common.NewSystemError(err, "Failed to set max words")
	}
	return common.Respond(s, i, fmt.Sprintf("Max words set to %d.", n), false)
}

func (f *Feature) handleExclude(s *discordgo.Session, i *discordgo.InteractionCreate, word string) error {
	err := f.withSettings(context.Background(), i.GuildID, func(svc interfaces.WordcloudSettingsService) error {
		return svc.ExcludeWord(context.Background(), word)
	})
	switch {
	case errors.Is(err, entities.ErrInvalidWord):
		return common.NewUserError("Please provide a word to exclude.", "Empty excluded word")
	case errors.Is(err, entities.ErrWordAlreadyExcluded):
		return common.NewUserError(fmt.Sprintf("'%s' is already excluded.", word), "Word already excluded")
	case err != nil:
		return common.NewSystemError(err, "Failed to exclude word")
	}
	return common.Respond(s, i, fmt.Sprintf("'%s' added to excluded words.", word), false)
}

func (f *Feature) handleClearWords(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	err := f.withSettings(context.Background(), i.GuildID, func(svc interfaces.WordcloudSettingsService) error {
		return svc.ClearExcludedWords(context.Background())
	})
	if err != nil {
		return common.NewSystemError(err, "Failed to clear excluded words")
	}
	return common.Respond(s, i, "Cleared the excluded word list.", false)
}

func (f *Feature) handleColorMask(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	var enabled bool
	err := f.withSettings(context.Background(), i.GuildID, func(svc interfaces.WordcloudSettingsService) error {
		var err error
		enabled, err = svc.ToggleColorMask(context.Background())
		return err
	})
	if err != nil {
		return common.NewSystemError(err, "Failed to toggle color mask")
	}
	if enabled {
		return common.Respond(s, i, "Color masking turned on.", false)
	}
	return common.Respond(s, i, "Color masking turned off.", false)
}

// ListMasks returns the mask images in dir, sorted by name
func ListMasks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var masks []string
	for _, e := range entries {
		if !e.IsDir() && maskExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			masks = append(masks, e.Name())
		}
	}
	return masks, nil
}

func (f *Feature) handleMaskList(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	masks, err := ListMasks(f.maskDir)
	if err != nil {
		return common.NewSystemError(err, "Failed to list masks")
	}
	if len(masks) == 0 {
		return common.Respond(s, i, "No masks found. Add one with `/wcset mask upload`.", true)
	}

	lines := append([]string{"Here are the image masks you have installed:"}, masks...)
	pages := common.CodeBlockPages("ini", lines, common.MaxMessageLength)
	if err := common.Respond(s, i, pages[0], true); err != nil {
		return err
	}
	for _, page := range pages[1:] {
		if _, err := common.FollowUp(s, i, page, true); err != nil {
			return err
		}
	}
	return nil
}

func (f *Feature) handleMaskSet(s *discordgo.Session, i *discordgo.InteractionCreate, file string) error {
	name := filepath.Base(strings.TrimSpace(file))
	info, err := os.Stat(filepath.Join(f.maskDir, name))
	if name != strings.TrimSpace(file) || err != nil || info.IsDir() {
		return common.NewUserError("That's not a valid filename. See `/wcset mask list`.", "Unknown mask file")
	}

	err = f.withSettings(context.Background(), i.GuildID, func(svc interfaces.WordcloudSettingsService) error {
		return svc.SetMask(context.Background(), &name)
	})
	if err != nil {
		return common.NewSystemError(err, "Failed to set mask")
	}
	return common.Respond(s, i, fmt.Sprintf("Mask set to %s.", name), false)
}

func (f *Feature) handleMaskClear(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	err := f.withSettings(context.Background(), i.GuildID, func(svc interfaces.WordcloudSettingsService) error {
		return svc.SetMask(context.Background(), nil)
	})
	if err != nil {
		return common.NewSystemError(err, "Failed to clear mask")
	}
	return common.Respond(s, i, "Mask set to None.", false)
}

// ValidateMask checks that data decodes as a PNG or JPEG image
func ValidateMask(filename string, data []byte) error {
	if !maskExtensions[strings.ToLower(filepath.Ext(filename))] {
		return fmt.Errorf("unsupported mask type %q", filepath.Ext(filename))
	}
	if len(data) > maxMaskBytes {
		return fmt.Errorf("mask is %d bytes, limit is %d", len(data), maxMaskBytes)
	}
	if _, format, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("mask does not decode: %w", err)
	} else if format != "png" && format != "jpeg" {
		return fmt.Errorf("unsupported image format %q", format)
	}
	return nil
}

func (f *Feature) handleMaskUpload(s *discordgo.Session, i *discordgo.InteractionCreate, attachmentID string) error {
	userID, err := common.ParseID(common.InteractionUser(i).ID)
	if err != nil || !f.isOwner(userID) {
		return common.NewUserError(msgOwnerOnly, "Mask upload by non-owner")
	}

	resolved := i.ApplicationCommandData().Resolved
	if resolved == nil || resolved.Attachments[attachmentID] == nil {
		return common.NewUserError("Please attach a PNG or JPG image.", "Mask upload without attachment")
	}
	attachment := resolved.Attachments[attachmentID]
	name := filepath.Base(attachment.Filename)

	ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
	defer cancel()

	data, err := f.web.GetBytes(ctx, web.Request{URL: attachment.URL, Source: "discord_cdn"})
	if err != nil {
		return common.NewFetchError(err, "Saving attachment failed.", "Failed to download mask")
	}
	if err := ValidateMask(name, data); err != nil {
		return common.NewUserError("Masks must be PNG or JPG images.", err.Error())
	}

	if err := os.MkdirAll(f.maskDir, 0o755); err != nil {
		return common.NewSystemError(err, "Failed to create mask directory")
	}
	if err := os.WriteFile(filepath.Join(f.maskDir, name), data, 0o644); err != nil {
		return common.NewSystemError(err, "Failed to save mask")
	}
	log.WithFields(log.Fields{"guild_id": i.GuildID, "mask": name}).Info("Wordcloud mask uploaded")

	question := fmt.Sprintf("Mask %s added. Set as current mask for this server?", name)
	return f.interactive.Confirm(s, i, question, confirmTimeout, func(s *discordgo.Session, ci *discordgo.InteractionCreate, yes bool) {
		if !yes {
			common.UpdateComponentMessage(s, ci, fmt.Sprintf("Mask %s added.", name))
			return
		}
		err := f.withSettings(context.Background(), i.GuildID, func(svc interfaces.WordcloudSettingsService) error {
			return svc.SetMask(context.Background(), &name)
		})
		if err != nil {
			log.WithError(err).Error("Failed to set uploaded mask")
			common.UpdateComponentMessage(s, ci, common.GenericErrorMessage)
			return
		}
		common.UpdateComponentMessage(s, ci, "Mask for this server set to uploaded file.")
	})
}
