package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"cogbot/domain/entities"
	"cogbot/domain/interfaces"
)

var battletagPattern = regexp.MustCompile(`.#\d{4,5}$`)

// ValidBattletag reports whether tag looks like Name#1234
func ValidBattletag(tag string) bool {
	return battletagPattern.MatchString(tag)
}

type profileService struct {
	repo interfaces.ProfileRepository
}

// NewProfileService creates a new profile service
func NewProfileService(repo interfaces.ProfileRepository) interfaces.ProfileService {
	return &profileService{repo: repo}
}

func (s *profileService) GetBattletag(ctx context.Context, discordID int64) (string, error) {
	tag, err := s.repo.GetBattletag(ctx, discordID)
	if err != nil {
		return "", fmt.Errorf("failed to get battletag: %w", err)
	}
	return tag, nil
}

func (s *profileService) SetBattletag(ctx context.Context, discordID int64, battletag string) error {
	battletag = strings.TrimSpace(battletag)
	if !ValidBattletag(battletag) {
		return entities.ErrInvalidBattletag
	}
	if err := s.repo.SetBattletag(ctx, discordID, battletag); err != nil {
		return fmt.Errorf("failed to set battletag: %w", err)
	}
	return nil
}

func (s *profileService) ClearBattletag(ctx context.Context, discordID int64) error {
	if _, err := s.repo.ClearBattletag(ctx, discordID); err != nil {
		return fmt.Errorf("failed to clear battletag: %w", err)
	}
	return nil
}

func (s *profileService) GetSmiteName(ctx context.Context, discordID int64) (string, error) {
	name, err := s.repo.GetSmiteName(ctx, discordID)
	if err != nil {
		return "", fmt.Errorf("failed to get smite name: %w", err)
	}
	return name, nil
}

func (s *profileService) SetSmiteName(ctx context.Context, discordID int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("smite name cannot be empty")
	}
	if err := s.repo.SetSmiteName(ctx, discordID, name); err != nil {
		return fmt.Errorf("failed to set smite name: %w", err)
	}
	return nil
}

func (s *profileService) ClearSmiteName(ctx context.Context, discordID int64) error {
	if _, err := s.repo.ClearSmiteName(ctx, discordID); err != nil {
		return fmt.Errorf("failed to clear smite name: %w", err)
	}
	return nil
}
