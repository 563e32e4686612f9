package services

import (
	"context"
	"fmt"
	"time"

	"cogbot/domain/entities"
	"cogbot/domain/interfaces"
	"cogbot/events"
)

type msgVoteService struct {
	repo      interfaces.MsgVoteRepository
	publisher interfaces.EventPublisher
}

// NewMsgVoteService creates a new vote-to-delete service
func NewMsgVoteService(repo interfaces.MsgVoteRepository, publisher interfaces.EventPublisher) interfaces.MsgVoteService {
	return &msgVoteService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *msgVoteService) GetSettings(ctx context.Context) (*entities.MsgVoteSettings, error) {
	settings, err := s.repo.GetOrCreateSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get msgvote settings: %w", err)
	}
	return settings, nil
}

// SetChannelEnabled turns msgvote on or off for a channel and reports whether it changed
func (s *msgVoteService) SetChannelEnabled(ctx context.Context, channelID int64, enabled bool) (bool, error) {
	changed, err := s.repo.SetChannelEnabled(ctx, channelID, enabled)
	if err != nil {
		return false, fmt.Errorf("failed to update msgvote channel %d: %w", channelID, err)
	}
	return changed, nil
}

// ToggleBotVoting flips whether bot messages are voted on
func (s *msgVoteService) ToggleBotVoting(ctx context.Context) (bool, error) {
	var enabled bool
	err := s.update(ctx, func(settings *entities.MsgVoteSettings) error {
		settings.BotEnabled = !settings.BotEnabled
		enabled = settings.BotEnabled
		return nil
	})
	return enabled, err
}

func (s *msgVoteService) SetUpEmoji(ctx context.Context, emoji string) error {
	if emoji == "" {
		return entities.ErrInvalidEmoji
	}
	return s.update(ctx, func(settings *entities.MsgVoteSettings) error {
		settings.UpEmoji = emoji
		return nil
	})
}

func (s *msgVoteService) SetDownEmoji(ctx context.Context, emoji string) error {
	if emoji == "" {
		return entities.ErrInvalidEmoji
	}
	return s.update(ctx, func(settings *entities.MsgVoteSettings) error {
		settings.DownEmoji = emoji
		return nil
	})
}

// SetDuration sets how long after posting a message can be voted off
func (s *msgVoteService) SetDuration(ctx context.Context, seconds int) error {
	if seconds <= 0 {
		return entities.ErrInvalidDuration
	}
	return s.update(ctx, func(settings *entities.MsgVoteSettings) error {
		settings.Duration = time.Duration(seconds) * time.Second
		return nil
	})
}

// SetThreshold sets the down-minus-up margin; zero disables deletion
func (s *msgVoteService) SetThreshold(ctx context.Context, threshold int) error {
	if threshold < 0 {
		return entities.ErrInvalidThreshold
	}
	return s.update(ctx, func(settings *entities.MsgVoteSettings) error {
		settings.Threshold = threshold
		return nil
	})
}

func (s *msgVoteService) RecordDeletion(ctx context.Context, guildID, channelID, messageID, authorID int64, up, down int) error {
	return s.publisher.Publish(events.MessageVotedDownEvent{
		GuildID:   guildID,
		ChannelID: channelID,
		MessageID: messageID,
		AuthorID:  authorID,
		UpVotes:   up,
		DownVotes: down,
	})
}

func (s *msgVoteService) update(ctx context.Context, mutate func(*entities.MsgVoteSettings) error) error {
	settings, err := s.repo.GetOrCreateSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to get msgvote settings: %w", err)
	}
	if err := mutate(settings); err != nil {
		return err
	}
	if err := s.repo.UpdateSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to update msgvote settings: %w", err)
	}
	return nil
}
