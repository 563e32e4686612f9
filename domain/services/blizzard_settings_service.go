package services

import (
	"context"
	"fmt"

	"cogbot/domain/entities"
	"cogbot/domain/interfaces"
)

type blizzardSettingsService struct {
	repo interfaces.BlizzardSettingsRepository
}

// NewBlizzardSettingsService creates a new patch note settings service
func NewBlizzardSettingsService(repo interfaces.BlizzardSettingsRepository) interfaces.BlizzardSettingsService {
	return &blizzardSettingsService{repo: repo}
}

func (s *blizzardSettingsService) GetSettings(ctx context.Context) (*entities.BlizzardSettings, error) {
	settings, err := s.repo.GetOrCreate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get blizzard settings: %w", err)
	}
	return settings, nil
}

func (s *blizzardSettingsService) SetNotesFormat(ctx context.Context, format string) error {
	switch format {
	case entities.NotesFormatPaged, entities.NotesFormatFull, entities.NotesFormatEmbed:
	default:
		return entities.ErrInvalidNotesFormat
	}

	settings, err := s.GetSettings(ctx)
	if err != nil {
		return err
	}
	settings.NotesFormat = format
	if err := s.repo.Update(ctx, settings); err != nil {
		return fmt.Errorf("failed to update blizzard settings: %w", err)
	}
	return nil
}

func (s *blizzardSettingsService) SetNotesTimeout(ctx context.Context, seconds int) error {
	if seconds < entities.MinNotesTimeoutSeconds || seconds > entities.MaxNotesTimeoutSeconds {
		return entities.ErrInvalidNotesTimeout
	}

	settings, err := s.GetSettings(ctx)
	if err != nil {
		return err
	}
	settings.NotesTimeoutSeconds = seconds
	if err := s.repo.Update(ctx, settings); err != nil {
		return fmt.Errorf("failed to update blizzard settings: %w", err)
	}
	return nil
}
