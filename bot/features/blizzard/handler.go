package blizzard

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"cogbot/application"
	"cogbot/bot/common"
	"cogbot/domain/entities"
	"cogbot/domain/interfaces"
	"cogbot/domain/services"
	"cogbot/infrastructure/web"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	msgNoNotes          = `I couldn't find any patch notes. ¯\_(ツ)_/¯`
	msgNoBattletag      = "You did not provide a battletag and I do not have one stored for you."
	msgInvalidBattletag = "That is not a valid battletag."
	msgOverwatchFailed  = "Could not fetch your statistics. Battletags are case sensitive and require a 4 or 5-digit identifier (e.g. CoolDude#1234). Or, you may have an invalid tag on file."
	msgNoRegionStats    = "That battletag has no stats in any region."
	msgRegionMissing    = "That battletag exists, but I could not find stats for the region specified. Try a different region <us/eu/kr> or leave that field blank so I can autodetect the region."
	msgNoAPIKey         = "The bot owner has not provided a battle.net API key, which is required for Diablo 3 stats."
	msgNoDiabloStats    = "I couldn't find Diablo 3 stats for that battletag."
	msgNoHeroes         = "You don't have any Diablo 3 heroes."
	msgTokenFailed      = "Error finding WoW token prices."
	msgOwnerOnly        = "Only the bot owner can do that."
	fullNotesSpacing    = time.Second
)

func (f *Feature) handlePatchNotes(s *discordgo.Session, i *discordgo.InteractionCreate, key string) {
	g, ok := games[key]
	if !ok {
		common.RespondWithError(s, i, "I don't have patch notes for that game.")
		return
	}
	if err := common.DeferResponse(s, i, false); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	var settings *entities.BlizzardSettings
	err := application.WithUnitOfWork(ctx, f.uowFactory, application.GlobalScope, func(uow application.UnitOfWork) error {
		var err error
		settings, err = services.NewBlizzardSettingsService(uow.BlizzardSettingsRepository()).GetSettings(ctx)
		return err
	})
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "Failed to load patch note settings"), true)
		return
	}

	doc, err := f.web.GetDocument(ctx, web.Request{URL: g.feedURL(), Source: "battlenet", UserAgent: notesUserAgent})
	if err != nil {
		common.HandleError(s, i, common.NewFetchError(err, msgNoNotes, "Failed to fetch patch notes"), true)
		return
	}
	notes, err := RenderNotes(doc, g)
	if err != nil {
		common.FollowUpWithError(s, i, msgNoNotes)
		return
	}

	switch settings.NotesFormat {
	case entities.NotesFormatFull:
		for n, page := range notes.Pages() {
			if n > 0 {
				time.Sleep(fullNotesSpacing)
			}
			if _, err := common.FollowUp(s, i, page, false); err != nil {
				common.HandleError(s, i, err, true)
				return
			}
		}
	case entities.NotesFormatEmbed:
		embed := &discordgo.MessageEmbed{
			Title: notes.Title,
			URL:   g.notesURL,
			Color: colorPatchNotes,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Summary", Value: notes.Summary()},
			},
		}
		if g.thumb != "" {
			embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: g.thumb}
		}
		if _, err := common.FollowUpWithEmbed(s, i, embed, nil, false); err != nil {
			common.HandleError(s, i, err, true)
		}
	default:
		timeout := time.Duration(settings.NotesTimeoutSeconds) * time.Second
		if timeout <= 0 {
			timeout = f.defaultTimeout
		}
		if err := f.interactive.SendMenu(s, i, notes.Pages(), timeout, true); err != nil {
			common.HandleError(s, i, err, true)
		}
	}
}

func (f *Feature) handleSetBattletag(s *discordgo.Session, i *discordgo.InteractionCreate, tag string) error {
	userID, err := common.ParseID(common.InteractionUser(i).ID)
	if err != nil {
		return common.NewSystemError(err, "Failed to parse user ID")
	}

	err = f.withProfiles(func(svc interfaces.ProfileService) error {
		return svc.SetBattletag(context.Background(), userID, tag)
	})
	if errors.Is(err, entities.ErrInvalidBattletag) {
		return common.NewUserError(msgInvalidBattletag, "Invalid battletag")
	}
	if err != nil {
		return common.NewSystemError(err, "Failed to set battletag")
	}
	return common.Respond(s, i, "Your battletag has been set.", true)
}

func (f *Feature) handleClearBattletag(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	userID, err := common.ParseID(common.InteractionUser(i).ID)
	if err != nil {
		return common.NewSystemError(err, "Failed to parse user ID")
	}

	err = f.withProfiles(func(svc interfaces.ProfileService) error {
		return svc.ClearBattletag(context.Background(), userID)
	})
	if err != nil {
		return common.NewSystemError(err, "Failed to clear battletag")
	}
	return common.Respond(s, i, "Your battletag has been removed.", true)
}

// resolveTag returns tag or the caller's stored battletag
func (f *Feature) resolveTag(i *discordgo.InteractionCreate, tag string) (string, error) {
	if tag != "" {
		return tag, nil
	}
	userID, err := common.ParseID(common.InteractionUser(i).ID)
	if err != nil {
		return "", common.NewSystemError(err, "Failed to parse user ID")
	}

	err = f.withProfiles(func(svc interfaces.ProfileService) error {
		var err error
		tag, err = svc.GetBattletag(context.Background(), userID)
		return err
	})
	if err != nil {
		return "", common.NewSystemError(err, "Failed to load battletag")
	}
	if tag == "" {
		return "", common.NewUserError(msgNoBattletag, "No battletag stored")
	}
	return tag, nil
}

func (f *Feature) handleOverwatchStats(s *discordgo.Session, i *discordgo.InteractionCreate, tag, region string) {
	tag, region = strings.TrimSpace(tag), strings.ToLower(strings.TrimSpace(region))
	if IsRegion(strings.ToLower(tag)) && region == "" {
		region, tag = strings.ToLower(tag), ""
	}
	if region != "" && !IsRegion(region) {
		common.RespondWithError(s, i, "Region must be one of us, eu or kr.")
		return
	}

	tag, err := f.resolveTag(i, tag)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	if err := common.DeferResponse(s, i, false); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	var profile OverwatchProfile
	err = f.web.GetJSON(ctx, web.Request{
		URL:    "https://owapi.net/api/v3/u/" + url.PathEscape(strings.ReplaceAll(tag, "#", "-")) + "/stats",
		Source: "owapi",
	}, &profile)
	if err == nil && profile.Error != nil {
		err = fmt.Errorf("owapi error: %v", profile.Error)
	}
	if err != nil {
		common.HandleError(s, i, common.NewFetchError(err, msgOverwatchFailed, "Failed to fetch overwatch stats"), true)
		return
	}

	if region == "" {
		var ok bool
		if region, ok = profile.DetectRegion(); !ok {
			common.FollowUpWithError(s, i, msgNoRegionStats)
			return
		}
	}
	stats := profile.Region(region)
	if stats == nil {
		common.FollowUpWithError(s, i, msgRegionMissing)
		return
	}

	if _, err := common.FollowUpWithEmbed(s, i, BuildOverwatchEmbed(tag, region, stats), nil, false); err != nil {
		common.HandleError(s, i, err, true)
	}
}

func (f *Feature) handleDiabloStats(s *discordgo.Session, i *discordgo.InteractionCreate, tag string) {
	tag, err := f.resolveTag(i, strings.TrimSpace(tag))
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	var key string
	err = application.WithUnitOfWork(context.Background(), f.uowFactory, application.GlobalScope, func(uow application.UnitOfWork) error {
		var err error
		key, err = services.NewCredentialService(uow.CredentialRepository()).GetBlizzardAPIKey(context.Background())
		return err
	})
	if errors.Is(err, entities.ErrCredentialsMissing) {
		common.RespondWithError(s, i, msgNoAPIKey)
		return
	}
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "Failed to load battle.net API key"), false)
		return
	}
	if err := common.DeferResponse(s, i, false); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	var profile DiabloProfile
	err = f.web.GetJSON(ctx, web.Request{
		URL:    "https://us.api.battle.net/d3/profile/" + url.PathEscape(strings.ReplaceAll(tag, "#", "-")) + "/",
		Source: "battlenet_api",
		Query:  url.Values{"locale": {"en_US"}, "apikey": {key}},
	}, &profile)
	if err == nil && profile.Code != "" {
		err = fmt.Errorf("battle.net error code %s", profile.Code)
	}
	if err != nil {
		common.HandleError(s, i, common.NewFetchError(err, msgNoDiabloStats, "Failed to fetch diablo 3 profile"), true)
		return
	}
	if len(profile.Heroes) == 0 {
		common.FollowUpWithError(s, i, msgNoHeroes)
		return
	}

	if _, err := common.FollowUpWithEmbed(s, i, BuildDiabloEmbed(tag, &profile), nil, false); err != nil {
		common.HandleError(s, i, err, true)
	}
}

func (f *Feature) handleWowToken(s *discordgo.Session, i *discordgo.InteractionCreate, realm string) {
	if realm == "" {
		realm = "na"
	}
	if !ValidRealm(strings.ToLower(realm)) {
		common.RespondWithError(s, i, fmt.Sprintf("'%s' is not a valid realm.", realm))
		return
	}
	if err := common.DeferResponse(s, i, false); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	doc, err := f.web.GetDocument(ctx, web.Request{URL: wowTokenURL, Source: "wowtoken"})
	if err != nil {
		common.HandleError(s, i, common.NewFetchError(err, msgTokenFailed, "Failed to fetch wow token page"), true)
		return
	}
	price, err := ExtractTokenPrice(doc, realm)
	if err != nil {
		common.HandleError(s, i, common.NewFetchError(err, msgTokenFailed, "Failed to parse wow token page"), true)
		return
	}

	if _, err := common.FollowUpWithEmbed(s, i, BuildTokenEmbed(price), nil, false); err != nil {
		common.HandleError(s, i, err, true)
	}
}

func (f *Feature) requireOwner(i *discordgo.InteractionCreate) error {
	userID, err := common.ParseID(common.InteractionUser(i).ID)
	if err != nil || !f.isOwner(userID) {
		return common.NewUserError(msgOwnerOnly, "Owner command by non-owner")
	}
	return nil
}

func (f *Feature) withSettings(fn func(svc interfaces.BlizzardSettingsService) error) error {
	return application.WithUnitOfWork(context.Background(), f.uowFactory, application.GlobalScope, func(uow application.UnitOfWork) error {
		return fn(services.NewBlizzardSettingsService(uow.BlizzardSettingsRepository()))
	})
}

func (f *Feature) handleAPIKey(s *discordgo.Session, i *discordgo.InteractionCreate, key string) error {
	if err := f.requireOwner(i); err != nil {
		return err
	}
	err := application.WithUnitOfWork(context.Background(), f.uowFactory, application.GlobalScope, func(uow application.UnitOfWork) error {
		return services.NewCredentialService(uow.CredentialRepository()).SetBlizzardAPIKey(context.Background(), strings.TrimSpace(key))
	})
	if err != nil {
		return common.NewSystemError(err, "Failed to store battle.net API key")
	}
	log.WithField("user_id", common.InteractionUser(i).ID).Info("Battle.net API key updated")
	return common.Respond(s, i, "API key set.", true)
}

func (f *Feature) handleNoteFormat(s *discordgo.Session, i *discordgo.InteractionCreate, format string) error {
	if err := f.requireOwner(i); err != nil {
		return err
	}
	err := f.withSettings(func(svc interfaces.BlizzardSettingsService) error {
		return svc.SetNotesFormat(context.Background(), format)
	})
	if errors.Is(err, entities.ErrInvalidNotesFormat) {
		return common.NewUserError(
			fmt.Sprintf("`%s` is not a valid format. Please choose `paged`, `full`, or `embed`.", format),
			"Invalid notes format",
		)
	}
	if err != nil {
		return common.NewSystemError(err, "Failed to set notes format")
	}
	return common.Respond(s, i, fmt.Sprintf("Patch notes format set to `%s`", format), true)
}

func (f *Feature) handleNoteTimeout(s *discordgo.Session, i *discordgo.InteractionCreate, seconds int) error {
	if err := f.requireOwner(i); err != nil {
		return err
	}
	err := f.withSettings(func(svc interfaces.BlizzardSettingsService) error {
		return svc.SetNotesTimeout(context.Background(), seconds)
	})
	if errors.Is(err, entities.ErrInvalidNotesTimeout) {
		return common.NewUserError(
			fmt.Sprintf("Please choose a duration between %d and %d seconds", entities.MinNotesTimeoutSeconds, entities.MaxNotesTimeoutSeconds),
			"Invalid notes timeout",
		)
	}
	if err != nil {
		return common.NewSystemError(err, "Failed to set notes timeout")
	}
	return common.Respond(s, i, fmt.Sprintf("Timeout period set to `%d sec`", seconds), true)
}
