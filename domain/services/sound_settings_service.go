package services

import (
	"context"
	"fmt"

	"cogbot/domain/entities"
	"cogbot/domain/interfaces"
)

type soundSettingsService struct {
	repo interfaces.SoundSettingsRepository
}

// NewSoundSettingsService creates a new sound volume service
func NewSoundSettingsService(repo interfaces.SoundSettingsRepository) interfaces.SoundSettingsService {
	return &soundSettingsService{repo: repo}
}

func (s *soundSettingsService) GetVolume(ctx context.Context, soundName string, fallback int) (int, error) {
	volume, ok, err := s.repo.GetVolume(ctx, soundName)
	if err != nil {
		return 0, fmt.Errorf("failed to get volume for %s: %w", soundName, err)
	}
	if !ok {
		return fallback, nil
	}
	return volume, nil
}

func (s *soundSettingsService) SetVolume(ctx context.Context, soundName string, volume int) error {
	if volume < entities.MinVolume || volume > entities.MaxVolume {
		return entities.ErrInvalidVolume
	}
	if err := s.repo.SetVolume(ctx, soundName, volume); err != nil {
		return fmt.Errorf("failed to set volume for %s: %w", soundName, err)
	}
	return nil
}

// ForgetSound drops stored settings for a deleted sound
func (s *soundSettingsService) ForgetSound(ctx context.Context, soundName string) error {
	if err := s.repo.Delete(ctx, soundName); err != nil {
		return fmt.Errorf("failed to delete settings for %s: %w", soundName, err)
	}
	return nil
}
