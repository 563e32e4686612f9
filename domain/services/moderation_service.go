package services

import (
	"context"
	"fmt"

	"cogbot/domain/entities"
	"cogbot/domain/interfaces"
)

type moderationService struct {
	repo interfaces.ModerationRepository
}

// NewModerationService creates a service for colorme protections and wat ignores
func NewModerationService(repo interfaces.ModerationRepository) interfaces.ModerationService {
	return &moderationService{repo: repo}
}

func (s *moderationService) GetProtectedRoles(ctx context.Context) ([]int64, error) {
	roles, err := s.repo.GetProtectedRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get protected roles: %w", err)
	}
	return roles, nil
}

func (s *moderationService) ProtectRole(ctx context.Context, roleID int64) error {
	added, err := s.repo.AddProtectedRole(ctx, roleID)
	if err != nil {
		return fmt.Errorf("failed to protect role %d: %w", roleID, err)
	}
	if !added {
		return entities.ErrRoleAlreadyProtected
	}
	return nil
}

func (s *moderationService) UnprotectRole(ctx context.Context, roleID int64) error {
	removed, err := s.repo.RemoveProtectedRole(ctx, roleID)
	if err != nil {
		return fmt.Errorf("failed to unprotect role %d: %w", roleID, err)
	}
	if !removed {
		return entities.ErrRoleNotProtected
	}
	return nil
}

func (s *moderationService) IsProtected(ctx context.Context, roleID int64) (bool, error) {
	roles, err := s.GetProtectedRoles(ctx)
	if err != nil {
		return false, err
	}
	for _, id := range roles {
		if id == roleID {
			return true, nil
		}
	}
	return false, nil
}

// ToggleWatChannel flips whether wat ignores a channel and returns the new state
func (s *moderationService) ToggleWatChannel(ctx context.Context, channelID int64) (bool, error) {
	ignored, err := s.IsWatChannelIgnored(ctx, channelID)
	if err != nil {
		return false, err
	}
	if err := s.repo.SetWatChannelIgnored(ctx, channelID, !ignored); err != nil {
		return false, fmt.Errorf("failed to update wat channel %d: %w", channelID, err)
	}
	return !ignored, nil
}

func (s *moderationService) IsWatChannelIgnored(ctx context.Context, channelID int64) (bool, error) {
	ignored, err := s.repo.IsWatChannelIgnored(ctx, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to check wat channel %d: %w", channelID, err)
	}
	return ignored, nil
}
