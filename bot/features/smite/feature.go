package smite

import (
	"context"
	"errors"
	"strings"
	"time"

	"cogbot/application"
	"cogbot/bot/common"
	"cogbot/config"
	"cogbot/domain/entities"
	"cogbot/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	requestTimeout   = 20 * time.Second
	msgMissingCreds  = "I am missing Smite API credentials."
	msgNoName        = "You did not provide a name and I do not have one stored for you."
	msgHidden        = "That profile is hidden or was not found."
	msgNoConnection  = "I could not establish a connection to the Smite API. Has my owner input valid credentials?"
	msgUnknownPlayer = "I could not find information on this player."
	msgOwnerOnly     = "Only the bot owner can do that."
)

// Feature looks up Smite players through the Hi-Rez API
type Feature struct {
	uowFactory application.UnitOfWorkFactory
	api        *Client
	isOwner    func(discordID int64) bool
}

// NewFeature creates a new smite feature instance
func NewFeature(uowFactory application.UnitOfWorkFactory, api *Client, cfg *config.Config) *Feature {
	return &Feature{uowFactory: uowFactory, api: api, isOwner: cfg.IsOwner}
}

// HandleCommand routes /smite subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	sub, opts := common.Subcommand(i)

	var err error
	switch sub {
	case "auth":
		err = f.handleAuth(s, i, opts.String("devid"), opts.String("authkey"))
	case "ping":
		err = f.handlePing(s, i)
	case "nameset":
		err = f.handleNameSet(s, i, opts.String("name"))
	case "nameclear":
		err = f.handleNameClear(s, i)
	case "stats":
		err = f.handleStats(s, i, opts.String("name"))
	case "status":
		err = f.handleStatus(s, i, opts.String("name"))
	}
	if err != nil {
		common.HandleError(s, i, err, false)
	}
}

func (f *Feature) withUoW(ctx context.Context, fn func(uow application.UnitOfWork) error) error {
	return application.WithUnitOfWork(ctx, f.uowFactory, application.GlobalScope, fn)
}

func (f *Feature) requireOwner(i *discordgo.InteractionCreate) error {
	userID, err := common.ParseID(common.InteractionUser(i).ID)
	if err != nil || !f.isOwner(userID) {
		return common.NewUserError(msgOwnerOnly, "Owner command by non-owner")
	}
	return nil
}

func (f *Feature) handleAuth(s *discordgo.Session, i *discordgo.InteractionCreate, devID, authKey string) error {
	if err := f.requireOwner(i); err != nil {
		return err
	}
	err := f.withUoW(context.Background(), func(uow application.UnitOfWork) error {
		return services.NewCredentialService(uow.CredentialRepository()).SetSmiteCredentials(context.Background(), strings.TrimSpace(devID), strings.TrimSpace(authKey))
	})
	if err != nil {
		return common.NewSystemError(err, "Failed to store smite credentials")
	}
	log.WithField("user_id", common.InteractionUser(i).ID).Info("Smite API credentials updated")
	return common.Respond(s, i, "API access credentials set.", true)
}

func (f *Feature) handlePing(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if err := f.requireOwner(i); err != nil {
		return err
	}
	if err := common.DeferResponse(s, i, true); err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	reply, err := f.api.Ping(ctx)
	if err != nil {
		common.HandleError(s, i, common.NewFetchError(err, msgNoConnection, "Smite ping failed"), true)
		return nil
	}
	if _, err := common.FollowUp(s, i, common.Truncate(reply, common.MaxMessageLength), true); err != nil {
		log.WithError(err).Error("Failed to send smite ping reply")
	}
	return nil
}

func (f *Feature) handleNameSet(s *discordgo.Session, i *discordgo.InteractionCreate, name string) error {
	userID, err := common.ParseID(common.InteractionUser(i).ID)
	if err != nil {
		return common.NewSystemError(err, "Failed to parse user ID")
	}
	if strings.TrimSpace(name) == "" {
		return common.NewUserError("Please provide your Smite name.", "Empty smite name")
	}

	err = f.withUoW(context.Background(), func(uow application.UnitOfWork) error {
		return services.NewProfileService(uow.ProfileRepository()).SetSmiteName(context.Background(), userID, name)
	})
	if err != nil {
		return common.NewSystemError(err, "Failed to set smite name")
	}
	return common.Respond(s, i, "Your Smite name has been set.", true)
}

func (f *Feature) handleNameClear(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	userID, err := common.ParseID(common.InteractionUser(i).ID)
	if err != nil {
		return common.NewSystemError(err, "Failed to parse user ID")
	}

	var had bool
	err = f.withUoW(context.Background(), func(uow application.UnitOfWork) error {
		profiles := services.NewProfileService(uow.ProfileRepository())
		name, err := profiles.GetSmiteName(context.Background(), userID)
		if err != nil || name == "" {
			return err
		}
		had = true
		return profiles.ClearSmiteName(context.Background(), userID)
	})
	if err != nil {
		return common.NewSystemError(err, "Failed to clear smite name")
	}
	if !had {
		return common.Respond(s, i, "I had no Smite name stored for you.", true)
	}
	return common.Respond(s, i, "Your Smite name has been removed.", true)
}

// lookup resolves the player name and a working API session
func (f *Feature) lookup(ctx context.Context, i *discordgo.InteractionCreate, name string) (string, *entities.SmiteCredentials, error) {
	var creds *entities.SmiteCredentials
	err := f.withUoW(ctx, func(uow application.UnitOfWork) error {
		var err error
		creds, err = services.NewCredentialService(uow.CredentialRepository()).GetSmiteCredentials(ctx)
		if err != nil || strings.TrimSpace(name) != "" {
			return err
		}

		userID, err := common.ParseID(common.InteractionUser(i).ID)
		if err != nil {
			return err
		}
		name, err = services.NewProfileService(uow.ProfileRepository()).GetSmiteName(ctx, userID)
		return err
	})
	if errors.Is(err, entities.ErrCredentialsMissing) {
		return "", nil, common.NewUserError(msgMissingCreds, "Smite credentials missing")
	}
	if err != nil {
		return "", nil, common.NewSystemError(err, "Failed to load smite lookup data")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, common.NewUserError(msgNoName, "No smite name stored")
	}

	if err := f.ensureSession(ctx, creds); err != nil {
		return "", nil, common.NewFetchError(err, msgNoConnection, "Failed to open smite session")
	}
	return name, creds, nil
}

// ensureSession checks the stored session and opens a new one when the API
// no longer accepts it
func (f *Feature) ensureSession(ctx context.Context, creds *entities.SmiteCredentials) error {
	ok, err := f.api.TestSession(ctx, creds)
	if err == nil && ok {
		return nil
	}

	sessionID, err := f.api.CreateSession(ctx, creds)
	if err != nil {
		return err
	}
	creds.SessionID = sessionID

	return f.withUoW(ctx, func(uow application.UnitOfWork) error {
		return services.NewCredentialService(uow.CredentialRepository()).SetSmiteSession(ctx, sessionID)
	})
}

func (f *Feature) handleStats(s *discordgo.Session, i *discordgo.InteractionCreate, name string) error {
	if err := common.DeferResponse(s, i, false); err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	name, creds, err := f.lookup(ctx, i, name)
	if err != nil {
		common.HandleError(s, i, err, true)
		return nil
	}

	player, err := f.api.GetPlayer(ctx, creds, name)
	if err != nil || player == nil {
		common.HandleError(s, i, common.NewFetchError(err, msgHidden, "Smite player lookup failed"), true)
		return nil
	}

	if _, err := common.FollowUpWithEmbed(s, i, BuildStatsEmbed(player), nil, false); err != nil {
		common.HandleError(s, i, err, true)
	}
	return nil
}

func (f *Feature) handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate, name string) error {
	if err := common.DeferResponse(s, i, false); err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	name, creds, err := f.lookup(ctx, i, name)
	if err != nil {
		common.HandleError(s, i, err, true)
		return nil
	}

	status, err := f.api.GetPlayerStatus(ctx, creds, name)
	if err != nil || status == nil {
		common.HandleError(s, i, common.NewFetchError(err, msgUnknownPlayer, "Smite status lookup failed"), true)
		return nil
	}
	label, ok := StatusName(status.Status)
	if !ok {
		common.FollowUpWithError(s, i, msgUnknownPlayer)
		return nil
	}

	var players []MatchPlayer
	if status.Status == StatusInGame && status.Match != "" {
		players, err = f.api.GetMatchPlayers(ctx, creds, string(status.Match))
		if err != nil {
			log.WithError(err).WithField("match_id", status.Match).Warn("Failed to load smite match details")
		}
	}

	if _, err := common.FollowUpWithEmbed(s, i, BuildStatusEmbed(label, players), nil, false); err != nil {
		common.HandleError(s, i, err, true)
	}
	return nil
}
