package services

import (
	"context"
	"fmt"

	"cogbot/domain/entities"
	"cogbot/domain/interfaces"
)

// guildSettingsService implements the GuildSettingsService interface
type guildSettingsService struct {
	guildSettingsRepo interfaces.GuildSettingsRepository
}

// NewGuildSettingsService creates a new guild settings service
func NewGuildSettingsService(guildSettingsRepo interfaces.GuildSettingsRepository) interfaces.GuildSettingsService {
	return &guildSettingsService{
		guildSettingsRepo: guildSettingsRepo,
	}
}

// GetOrCreateSettings retrieves guild settings or creates default ones if not found
func (s *guildSettingsService) GetOrCreateSettings(ctx context.Context, guildID int64) (*entities.GuildSettings, error) {
	settings, err := s.guildSettingsRepo.GetOrCreateGuildSettings(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create guild settings: %w", err)
	}
	return settings, nil
}

// SetDefaultRole updates the role given to new members (nil disables it)
func (s *guildSettingsService) SetDefaultRole(ctx context.Context, guildID int64, roleID *int64) error {
	settings, err := s.guildSettingsRepo.GetOrCreateGuildSettings(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to get guild settings: %w", err)
	}

	settings.DefaultRoleID = roleID

	if err := s.guildSettingsRepo.UpdateGuildSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to update guild settings: %w", err)
	}
	return nil
}

// ToggleWatIgnored flips whether wat ignores the whole guild
func (s *guildSettingsService) ToggleWatIgnored(ctx context.Context, guildID int64) (bool, error) {
	settings, err := s.guildSettingsRepo.GetOrCreateGuildSettings(ctx, guildID)
	if err != nil {
		return false, fmt.Errorf("failed to get guild settings: %w", err)
	}

	settings.WatIgnored = !settings.WatIgnored

	if err := s.guildSettingsRepo.UpdateGuildSettings(ctx, settings); err != nil {
		return false, fmt.Errorf("failed to update guild settings: %w", err)
	}
	return settings.WatIgnored, nil
}
