package services

import (
	"context"
	"fmt"
	"strings"

	"cogbot/domain/entities"
	"cogbot/domain/interfaces"
	"cogbot/events"
)

type smartReactService struct {
	repo      interfaces.SmartReactionRepository
	publisher interfaces.EventPublisher
}

// NewSmartReactService creates a new smart reaction service
func NewSmartReactService(repo interfaces.SmartReactionRepository, publisher interfaces.EventPublisher) interfaces.SmartReactService {
	return &smartReactService{
		repo:      repo,
		publisher: publisher,
	}
}

// AddReaction stores word (lowercased) as a trigger for emoji
func (s *smartReactService) AddReaction(ctx context.Context, emoji, word string) error {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" || strings.ContainsAny(word, " \t\n") {
		return entities.ErrInvalidWord
	}
	if emoji == "" {
		return entities.ErrInvalidEmoji
	}

	added, err := s.repo.Add(ctx, emoji, word)
	if err != nil {
		return fmt.Errorf("failed to add smart reaction: %w", err)
	}
	if !added {
		return entities.ErrReactionExists
	}
	return nil
}

// RemoveReaction removes one emoji/word pair
func (s *smartReactService) RemoveReaction(ctx context.Context, emoji, word string) error {
	removed, err := s.repo.Remove(ctx, emoji, strings.ToLower(strings.TrimSpace(word)))
	if err != nil {
		return fmt.Errorf("failed to remove smart reaction: %w", err)
	}
	if !removed {
		return entities.ErrReactionNotFound
	}
	return nil
}

// ClearEmoji removes every trigger word for emoji
func (s *smartReactService) ClearEmoji(ctx context.Context, emoji string) (int64, error) {
	removed, err := s.repo.RemoveEmoji(ctx, emoji)
	if err != nil {
		return 0, fmt.Errorf("failed to clear smart reactions for %s: %w", emoji, err)
	}
	return removed, nil
}

// ListReactions returns the guild's reactions sorted by emoji and word
func (s *smartReactService) ListReactions(ctx context.Context) (entities.SmartReactionSet, error) {
	set, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list smart reactions: %w", err)
	}
	return set.Sorted(), nil
}

// MatchMessage returns the emojis triggered by content
func (s *smartReactService) MatchMessage(ctx context.Context, content string) ([]string, error) {
	set, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load smart reactions: %w", err)
	}
	return set.Match(content), nil
}

// RecordTriggered publishes a smartreact.triggered event
func (s *smartReactService) RecordTriggered(ctx context.Context, guildID, channelID, messageID int64, emoji string) error {
	return s.publisher.Publish(events.SmartReactionTriggeredEvent{
		GuildID:   guildID,
		ChannelID: channelID,
		MessageID: messageID,
		Emoji:     emoji,
	})
}
