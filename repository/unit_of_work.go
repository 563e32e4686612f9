package repository

import (
	"context"
	"errors"
	"fmt"

	"cogbot/application"
	"cogbot/database"
	"cogbot/domain/interfaces"
	"cogbot/events"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db                     *database.DB
	tx                     pgx.Tx
	ctx                    context.Context
	guildID                int64
	transactionalPublisher *events.TransactionalBus

	guildSettingsRepo     interfaces.GuildSettingsRepository
	smartReactionRepo     interfaces.SmartReactionRepository
	msgVoteRepo           interfaces.MsgVoteRepository
	pollRepo              interfaces.PollRepository
	defconRepo            interfaces.DefconRepository
	profileRepo           interfaces.ProfileRepository
	credentialRepo        interfaces.CredentialRepository
	blizzardSettingsRepo  interfaces.BlizzardSettingsRepository
	soundSettingsRepo     interfaces.SoundSettingsRepository
	wordcloudSettingsRepo interfaces.WordcloudSettingsRepository
	moderationRepo        interfaces.ModerationRepository
}

type unitOfWorkFactory struct {
	db  *database.DB
	bus *events.Bus
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory. Events published
// through a unit of work reach bus only after a successful commit.
func NewUnitOfWorkFactory(db *database.DB, bus *events.Bus) application.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:  db,
		bus: bus,
	}
}

// CreateForGuild creates a new UnitOfWork scoped to guildID
func (f *unitOfWorkFactory) CreateForGuild(guildID int64) application.UnitOfWork {
	return &unitOfWork{
		db:                     f.db,
		guildID:                guildID,
		transactionalPublisher: events.NewTransactionalBus(f.bus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create guild-scoped repositories with the transaction
	u.guildSettingsRepo = NewGuildSettingsRepositoryWithTx(tx)
	u.smartReactionRepo = NewSmartReactionRepositoryScoped(tx, u.guildID)
	u.msgVoteRepo = NewMsgVoteRepositoryScoped(tx, u.guildID)
	u.pollRepo = NewPollRepositoryScoped(tx, u.guildID)
	u.defconRepo = NewDefconRepositoryScoped(tx, u.guildID)
	u.soundSettingsRepo = NewSoundSettingsRepositoryScoped(tx, u.guildID)
	u.wordcloudSettingsRepo = NewWordcloudSettingsRepositoryScoped(tx, u.guildID)
	u.moderationRepo = NewModerationRepositoryScoped(tx, u.guildID)

	// Global data is shared by every guild
	u.profileRepo = NewProfileRepositoryWithTx(tx)
	u.credentialRepo = NewCredentialRepositoryWithTx(tx)
	u.blizzardSettingsRepo = NewBlizzardSettingsRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Events are best-effort once the transaction has committed
	if err := u.transactionalPublisher.Flush(u.ctx); err != nil {
		log.WithError(err).WithField("guild_id", u.guildID).Warn("Failed to flush events after commit")
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil
	u.transactionalPublisher.Discard()

	return nil
}

func (u *unitOfWork) GuildSettingsRepository() interfaces.GuildSettingsRepository {
	if u.guildSettingsRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.guildSettingsRepo
}

func (u *unitOfWork) SmartReactionRepository() interfaces.SmartReactionRepository {
	if u.smartReactionRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.smartReactionRepo
}

func (u *unitOfWork) MsgVoteRepository() interfaces.MsgVoteRepository {
	if u.msgVoteRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.msgVoteRepo
}

func (u *unitOfWork) PollRepository() interfaces.PollRepository {
	if u.pollRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.pollRepo
}

func (u *unitOfWork) DefconRepository() interfaces.DefconRepository {
	if u.defconRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.defconRepo
}

func (u *unitOfWork) ProfileRepository() interfaces.ProfileRepository {
	if u.profileRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.profileRepo
}

func (u *unitOfWork) CredentialRepository() interfaces.CredentialRepository {
	if u.credentialRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.credentialRepo
}

func (u *unitOfWork) BlizzardSettingsRepository() interfaces.BlizzardSettingsRepository {
	if u.blizzardSettingsRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.blizzardSettingsRepo
}

func (u *unitOfWork) SoundSettingsRepository() interfaces.SoundSettingsRepository {
	if u.soundSettingsRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.soundSettingsRepo
}

func (u *unitOfWork) WordcloudSettingsRepository() interfaces.WordcloudSettingsRepository {
	if u.wordcloudSettingsRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.wordcloudSettingsRepo
}

func (u *unitOfWork) ModerationRepository() interfaces.ModerationRepository {
	if u.moderationRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.moderationRepo
}

// EventBus returns the transactional event publisher for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	return u.transactionalPublisher
}
