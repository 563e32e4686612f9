package application

import (
	"context"
	"fmt"

	"cogbot/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes pending events
	Commit() error

	// Rollback rolls back the transaction and discards pending events
	Rollback() error

	// Repository getters
	GuildSettingsRepository() interfaces.GuildSettingsRepository
	SmartReactionRepository() interfaces.SmartReactionRepository
	MsgVoteRepository() interfaces.MsgVoteRepository
	PollRepository() interfaces.PollRepository
	DefconRepository() interfaces.DefconRepository
	ProfileRepository() interfaces.ProfileRepository
	CredentialRepository() interfaces.CredentialRepository
	BlizzardSettingsRepository() interfaces.BlizzardSettingsRepository
	SoundSettingsRepository() interfaces.SoundSettingsRepository
	WordcloudSettingsRepository() interfaces.WordcloudSettingsRepository
	ModerationRepository() interfaces.ModerationRepository
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// CreateForGuild creates a new UnitOfWork instance scoped to a specific guild.
	// Guild 0 holds global data such as credentials and battletags.
	CreateForGuild(guildID int64) UnitOfWork
}

// GlobalScope is the guild ID used for data shared by every guild
const GlobalScope int64 = 0

// WithUnitOfWork runs fn inside a guild-scoped unit of work. The transaction
// commits when fn returns nil and rolls back otherwise.
func WithUnitOfWork(ctx context.Context, factory UnitOfWorkFactory, guildID int64, fn func(uow UnitOfWork) error) error {
	uow := factory.CreateForGuild(guildID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := fn(uow); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
