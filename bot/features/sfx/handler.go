package sfx

import (
	"context"
	"errors"
	"fmt"
	"mime"
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
	downloadTimeout = 30 * time.Second
	speechTimeout   = 20 * time.Second

	msgNotInVoice   = "You are not connected to a voice channel."
	msgNotFound     = "Sound file not found. Try `/sfx list` for a list."
	msgAmbiguous    = "There are multiple sounds with that name. Delete one."
	msgQueueFull    = "The sound queue is full."
	msgOwnerOnly    = "Only the bot owner can do that."
	msgSoundExists  = "A sound with that filename already exists."
	msgBadFormat    = "Sounds must be mp3, wav, ogg, m4a or opus files."
	msgBadName      = "That's not a valid sound name."
	msgInvalidRange = "Volume must be between 0 and 200."
)

// voiceChannel returns the voice channel the invoking member is connected to
func voiceChannel(s *discordgo.Session, i *discordgo.InteractionCreate) (string, bool) {
	user := common.InteractionUser(i)
	if i.GuildID == "" || user == nil {
		return "", false
	}
	vs, err := s.State.VoiceState(i.GuildID, user.ID)
	if err != nil || vs == nil || vs.ChannelID == "" {
		return "", false
	}
	return vs.ChannelID, true
}

func lookupError(err error) error {
	switch {
	case errors.Is(err, entities.ErrSoundNotFound):
		return common.NewUserError(msgNotFound, "Sound not found")
	case errors.Is(err, ErrAmbiguousSound):
		return common.NewUserError(msgAmbiguous, "Ambiguous sound name")
	default:
		return common.NewSystemError(err, "Failed to look up sound")
	}
}

func (f *Feature) requireOwner(i *discordgo.InteractionCreate, action string) error {
	userID, err := common.ParseID(common.InteractionUser(i).ID)
	if err != nil || !f.isOwner(userID) {
		return common.NewUserError(msgOwnerOnly, action+" by non-owner")
	}
	return nil
}

func (f *Feature) handlePlay(s *discordgo.Session, i *discordgo.InteractionCreate, name string) error {
	channelID, ok := voiceChannel(s, i)
	if !ok {
		return common.NewUserError(msgNotInVoice, "Sound requested outside voice")
	}
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		return common.NewSystemError(err, "Invalid guild ID")
	}

	sound, err := f.library.Resolve(guildID, name)
	if err != nil {
		return lookupError(err)
	}

	volume, err := f.volumeFor(i.GuildID, sound.Name)
	if err != nil {
		return common.NewSystemError(err, "Failed to load sound volume")
	}

	err = f.player.Enqueue(Item{
		GuildID:       guildID,
		ChannelID:     channelID,
		TextChannelID: i.ChannelID,
		Name:          sound.Name,
		Kind:          KindSfx,
		Path:          sound.Path,
		Volume:        volume,
		Priority:      PrioritySfx,
	})
	if errors.Is(err, ErrQueueFull) {
		return common.NewUserError(msgQueueFull, "Sound queue full")
	}
	if err != nil {
		return common.NewSystemError(err, "Failed to queue sound")
	}
	return common.Respond(s, i, fmt.Sprintf("Playing **%s**.", sound.Name), true)
}

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		return common.NewSystemError(err, "Invalid guild ID")
	}
	names, err := f.library.List(guildID)
	if err != nil {
		return common.NewSystemError(err, "Failed to list sounds")
	}
	if len(names) == 0 {
		return common.NewUserError("No sounds found. Use `/sfx add` to add one.", "Empty sound library")
	}

	dm, err := s.UserChannelCreate(common.InteractionUser(i).ID)
	if err != nil {
		return common.NewUserError("I couldn't send you a DM.", "Failed to open DM channel")
	}
	for _, page := range common.CodeBlockPages("", names, common.MaxMessageLength) {
		if _, err := s.ChannelMessageSend(dm.ID, page); err != nil {
			return common.NewUserError("I couldn't send you a DM.", "Failed to send sound list")
		}
	}
	return common.Respond(s, i, "Check your DMs!", true)
}

// handleAdd and handleGet defer ephemerally: the first follow-up inherits the
// deferred response's visibility, so errors would otherwise be public.
func (f *Feature) handleAdd(s *discordgo.Session, i *discordgo.InteractionCreate, name, attachmentID string) error {
	if err := common.DeferResponse(s, i, true); err != nil {
		return err
	}
	if err := f.requireOwner(i, "Sound upload"); err != nil {
		return err
	}

	resolved := i.ApplicationCommandData().Resolved
	if resolved == nil || resolved.Attachments[attachmentID] == nil {
		return common.NewUserError("Please attach a sound file.", "Sound upload without attachment")
	}
	attachment := resolved.Attachments[attachmentID]
	if name = strings.TrimSpace(name); name == "" {
		name = strings.TrimSuffix(attachment.Filename, filepath.Ext(attachment.Filename))
	}
	if !SupportedFormat(attachment.Filename) {
		return common.NewUserError(msgBadFormat, "Unsupported sound upload")
	}

	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		return common.NewSystemError(err, "Invalid guild ID")
	}
	if _, err := f.library.Find(guildID, name); err == nil || errors.Is(err, ErrAmbiguousSound) {
		return common.NewUserError(msgSoundExists, "Duplicate sound upload")
	}

	ctx, cancel := context.WithTimeout(context.Background(), downloadTimeout)
	defer cancel()
	data, err := f.web.GetBytes(ctx, web.Request{URL: attachment.URL, Source: "discord_cdn"})
	if err != nil {
		return common.NewFetchError(err, "Saving attachment failed.", "Failed to download sound")
	}

	sound, err := f.library.Add(guildID, name, attachment.Filename, data)
	switch {
	case errors.Is(err, ErrSoundExists):
		return common.NewUserError(msgSoundExists, "Duplicate sound upload")
	case errors.Is(err, ErrUnsupportedFormat):
		return common.NewUserError(msgBadFormat, "Unsupported sound upload")
	case errors.Is(err, ErrInvalidSoundName):
		return common.NewUserError(msgBadName, "Invalid sound name")
	case err != nil:
		return common.NewSystemError(err, "Failed to save sound")
	}

	log.WithFields(log.Fields{"guild_id": guildID, "sound": sound.Name}).Info("Sound added")
	_, err = common.FollowUp(s, i, fmt.Sprintf("Sound %s added.", sound.Name), true)
	return err
}

func (f *Feature) handleDelete(s *discordgo.Session, i *discordgo.InteractionCreate, name string) error {
	if err := f.requireOwner(i, "Sound delete"); err != nil {
		return err
	}
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		return common.NewSystemError(err, "Invalid guild ID")
	}
	if err := f.library.Delete(guildID, name); err != nil {
		return lookupError(err)
	}

	err = f.withSoundSettings(context.Background(), i.GuildID, func(svc interfaces.SoundSettingsService) error {
		return svc.ForgetSound(context.Background(), name)
	})
	if err != nil {
		log.WithError(err).WithField("sound", name).Warn("Failed to drop settings of deleted sound")
	}
	return common.Respond(s, i, fmt.Sprintf("Sound %s deleted.", name), false)
}

func (f *Feature) handleGet(s *discordgo.Session, i *discordgo.InteractionCreate, name string) error {
	if err := common.DeferResponse(s, i, true); err != nil {
		return err
	}
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		return common.NewSystemError(err, "Invalid guild ID")
	}
	sound, err := f.library.Find(guildID, name)
	if err != nil {
		return lookupError(err)
	}
	data, err := os.ReadFile(sound.Path)
	if err != nil {
		return common.NewSystemError(err, "Failed to read sound")
	}

	filename := filepath.Base(sound.Path)
	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err = common.FollowUpWithFile(s, i, "", filename, contentType, data)
	return err
}

func (f *Feature) handleVolume(s *discordgo.Session, i *discordgo.InteractionCreate, name string, percent int, set bool) error {
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		return common.NewSystemError(err, "Invalid guild ID")
	}
	sound, err := f.library.Find(guildID, name)
	if err != nil {
		return lookupError(err)
	}

	if !set {
		volume, err := f.volumeFor(i.GuildID, sound.Name)
		if err != nil {
			return common.NewSystemError(err, "Failed to load sound volume")
		}
		return common.Respond(s, i, fmt.Sprintf("Volume for %s is %d.", sound.Name, volume), false)
	}

	if err := f.requireOwner(i, "Sound volume change"); err != nil {
		return err
	}
	err = f.withSoundSettings(context.Background(), i.GuildID, func(svc interfaces.SoundSettingsService) error {
		return svc.SetVolume(context.Background(), sound.Name, percent)
	})
	if errors.Is(err, entities.ErrInvalidVolume) {
		return common.NewUserError(msgInvalidRange, "Sound volume out of range")
	}
	if err != nil {
		return common.NewSystemError(err, "Failed to set sound volume")
	}
	return common.Respond(s, i, fmt.Sprintf("Volume for %s set to %d.", sound.Name, percent), false)
}

func (f *Feature) handleTTS(s *discordgo.Session, i *discordgo.InteractionCreate, text string) error {
	if err := common.DeferResponse(s, i, true); err != nil {
		return err
	}
	channelID, ok := voiceChannel(s, i)
	if !ok {
		return common.NewUserError(msgNotInVoice, "TTS requested outside voice")
	}
	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		return common.NewSystemError(err, "Invalid guild ID")
	}

	ctx, cancel := context.WithTimeout(context.Background(), speechTimeout)
	defer cancel()
	path, err := f.speech.Synthesize(ctx, text)
	if errors.Is(err, ErrEmptyText) {
		return common.NewUserError("Give me something to say.", "Empty TTS text")
	}
	if err != nil {
		return common.NewFetchError(err, "Text-to-speech is unavailable right now.", "Failed to synthesize speech")
	}

	item := Item{
		GuildID:       guildID,
		ChannelID:     channelID,
		TextChannelID: i.ChannelID,
		Name:          "tts",
		Kind:          KindTTS,
		Path:          path,
		Volume:        f.ttsVolume,
		Priority:      PriorityTTS,
		DeleteAfter:   true,
	}
	if err := f.player.Enqueue(item); err != nil {
		item.cleanup()
		if errors.Is(err, ErrQueueFull) {
			return common.NewUserError(msgQueueFull, "Sound queue full")
		}
		return common.NewSystemError(err, "Failed to queue speech")
	}
	_, err = common.FollowUp(s, i, "Speaking.", true)
	return err
}
