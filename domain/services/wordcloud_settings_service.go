package services

import (
	"context"
	"fmt"
	"strings"

	"cogbot/domain/entities"
	"cogbot/domain/interfaces"
)

type wordcloudSettingsService struct {
	repo interfaces.WordcloudSettingsRepository
}

// NewWordcloudSettingsService creates a new wordcloud settings service
func NewWordcloudSettingsService(repo interfaces.WordcloudSettingsRepository) interfaces.WordcloudSettingsService {
	return &wordcloudSettingsService{repo: repo}
}

func (s *wordcloudSettingsService) GetSettings(ctx context.Context) (*entities.WordcloudSettings, error) {
	settings, err := s.repo.GetOrCreate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get wordcloud settings: %w", err)
	}
	return settings, nil
}

// SetBgColor stores a color name, hex code or "clear". Validation of the
// color itself happens at render time.
func (s *wordcloudSettingsService) SetBgColor(ctx context.Context, color string) error {
	color = strings.ToLower(strings.TrimSpace(color))
	if color == "" {
		return entities.ErrInvalidColor
	}
	return s.update(ctx, func(settings *entities.WordcloudSettings) {
		settings.BgColor = color
	})
}

func (s *wordcloudSettingsService) SetMaxWords(ctx context.Context, maxWords int) error {
	if maxWords < 0 {
		return entities.ErrInvalidMaxWords
	}
	return s.update(ctx, func(settings *entities.WordcloudSettings) {
		settings.MaxWords = maxWords
	})
}

func (s *wordcloudSettingsService) ExcludeWord(ctx context.Context, word string) error {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return entities.ErrInvalidWord
	}
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return err
	}
	if settings.IsExcluded(word) {
		return entities.ErrWordAlreadyExcluded
	}
	settings.ExcludedWords = append(settings.ExcludedWords, word)
	if err := s.repo.Update(ctx, settings); err != nil {
		return fmt.Errorf("failed to update wordcloud settings: %w", err)
	}
	return nil
}

func (s *wordcloudSettingsService) ClearExcludedWords(ctx context.Context) error {
	return s.update(ctx, func(settings *entities.WordcloudSettings) {
		settings.ExcludedWords = []string{}
	})
}

func (s *wordcloudSettingsService) ToggleColorMask(ctx context.Context) (bool, error) {
	var enabled bool
	err := s.update(ctx, func(settings *entities.WordcloudSettings) {
		settings.ColorMask = !settings.ColorMask
		enabled = settings.ColorMask
	})
	return enabled, err
}

// SetMask sets the mask file name; nil clears it
func (s *wordcloudSettingsService) SetMask(ctx context.Context, file *string) error {
	return s.update(ctx, func(settings *entities.WordcloudSettings) {
		settings.MaskFile = file
	})
}

func (s *wordcloudSettingsService) update(ctx context.Context, mutate func(*entities.WordcloudSettings)) error {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return err
	}
	mutate(settings)
	if err := s.repo.Update(ctx, settings); err != nil {
		return fmt.Errorf("failed to update wordcloud settings: %w", err)
	}
	return nil
}
