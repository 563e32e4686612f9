package services

import (
	"context"
	"fmt"

	"cogbot/domain/entities"
	"cogbot/domain/interfaces"
	"cogbot/events"
)

type defconService struct {
	repo      interfaces.DefconRepository
	publisher interfaces.EventPublisher
}

// NewDefconService creates a new DEFCON service
func NewDefconService(repo interfaces.DefconRepository, publisher interfaces.EventPublisher) interfaces.DefconService {
	return &defconService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *defconService) GetDefcon(ctx context.Context) (*entities.Defcon, error) {
	defcon, err := s.repo.GetOrCreate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get defcon level: %w", err)
	}
	return defcon, nil
}

// Raise moves one level toward DEFCON 1. At DEFCON 1 it returns the
// unchanged meter together with ErrDefconAtMaximum.
func (s *defconService) Raise(ctx context.Context, authority string) (*entities.Defcon, error) {
	current, err := s.GetDefcon(ctx)
	if err != nil {
		return nil, err
	}
	if current.Level <= entities.DefconHighest {
		return current, entities.ErrDefconAtMaximum
	}
	return s.change(ctx, current, current.Level-1, authority)
}

// Lower moves one level toward DEFCON 5. At DEFCON 5 it returns the
// unchanged meter together with ErrDefconAtMinimum.
func (s *defconService) Lower(ctx context.Context, authority string) (*entities.Defcon, error) {
	current, err := s.GetDefcon(ctx)
	if err != nil {
		return nil, err
	}
	if current.Level >= entities.DefconLowest {
		return current, entities.ErrDefconAtMinimum
	}
	return s.change(ctx, current, current.Level+1, authority)
}

func (s *defconService) SetLevel(ctx context.Context, level int, authority string) (*entities.Defcon, error) {
	if !entities.ValidDefconLevel(level) {
		return nil, entities.ErrInvalidDefconLevel
	}
	current, err := s.GetDefcon(ctx)
	if err != nil {
		return nil, err
	}
	return s.change(ctx, current, level, authority)
}

func (s *defconService) change(ctx context.Context, current *entities.Defcon, level int, authority string) (*entities.Defcon, error) {
	oldLevel := current.Level
	current.Level = level
	current.Authority = authority

	if err := s.repo.Save(ctx, current); err != nil {
		return nil, fmt.Errorf("failed to save defcon level: %w", err)
	}

	if err := s.publisher.Publish(events.DefconChangedEvent{
		GuildID:   current.GuildID,
		OldLevel:  oldLevel,
		NewLevel:  level,
		Authority: authority,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish defcon change: %w", err)
	}

	return current, nil
}
