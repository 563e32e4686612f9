package services

import (
	"context"
	"fmt"
	"time"

	"cogbot/domain/entities"
	"cogbot/domain/interfaces"
	"cogbot/events"
)

type pollService struct {
	repo      interfaces.PollRepository
	publisher interfaces.EventPublisher
}

// NewPollService creates a new reaction poll service
func NewPollService(repo interfaces.PollRepository, publisher interfaces.EventPublisher) interfaces.PollService {
	return &pollService{
		repo:      repo,
		publisher: publisher,
	}
}

// CreatePoll assigns emojis and the end time and stores the poll
func (s *pollService) CreatePoll(ctx context.Context, req interfaces.CreatePollRequest) (*entities.Poll, error) {
	if req.Parsed == nil {
		return nil, entities.ErrInvalidPoll
	}

	poll := &entities.Poll{
		GuildID:       req.GuildID,
		ChannelID:     req.ChannelID,
		AuthorID:      req.AuthorID,
		Question:      req.Parsed.Question,
		Options:       req.Parsed.Options,
		Emojis:        PollEmojis(len(req.Parsed.Options)),
		MultipleVotes: req.Parsed.MultipleVotes,
		Embed:         true,
		EndTime:       req.Now.Add(req.Parsed.Duration).UTC(),
	}

	if err := s.repo.Create(ctx, poll); err != nil {
		return nil, fmt.Errorf("failed to create poll: %w", err)
	}
	return poll, nil
}

// AttachMessage records the posted message and announces the poll
func (s *pollService) AttachMessage(ctx context.Context, poll *entities.Poll, messageID int64) error {
	if err := s.repo.SetMessageID(ctx, poll.ID, messageID); err != nil {
		return fmt.Errorf("failed to set poll message: %w", err)
	}
	poll.MessageID = &messageID

	return s.publisher.Publish(events.PollOpenedEvent{
		PollID:    poll.ID,
		GuildID:   poll.GuildID,
		ChannelID: poll.ChannelID,
		MessageID: messageID,
		AuthorID:  poll.AuthorID,
		Question:  poll.Question,
		Options:   poll.Options,
		EndTime:   poll.EndTime,
	})
}

func (s *pollService) GetByMessageID(ctx context.Context, messageID int64) (*entities.Poll, error) {
	poll, err := s.repo.GetByMessageID(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll for message %d: %w", messageID, err)
	}
	return poll, nil
}

func (s *pollService) GetByID(ctx context.Context, pollID int64) (*entities.Poll, error) {
	poll, err := s.repo.GetByID(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll %d: %w", pollID, err)
	}
	return poll, nil
}

func (s *pollService) GetOpenPolls(ctx context.Context) ([]*entities.Poll, error) {
	polls, err := s.repo.GetOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get open polls: %w", err)
	}
	return polls, nil
}

func (s *pollService) GetExpiredPolls(ctx context.Context, now time.Time) ([]*entities.Poll, error) {
	polls, err := s.repo.GetExpired(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get expired polls: %w", err)
	}
	return polls, nil
}

// CastVote records a vote. In single-vote mode earlier votes for other
// options are removed and returned in the outcome.
func (s *pollService) CastVote(ctx context.Context, poll *entities.Poll, userID int64, emoji string) (*interfaces.VoteOutcome, error) {
	if poll.Closed {
		return nil, entities.ErrPollClosed
	}
	if !poll.HasEmoji(emoji) {
		return nil, entities.ErrInvalidEmoji
	}

	outcome := &interfaces.VoteOutcome{}

	if !poll.MultipleVotes {
		previous, err := s.repo.GetUserVotes(ctx, poll.ID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to get previous votes: %w", err)
		}
		for _, prev := range previous {
			if prev == emoji {
				continue
			}
			if _, err := s.repo.RemoveVote(ctx, &entities.PollVote{PollID: poll.ID, UserID: userID, Emoji: prev}); err != nil {
				return nil, fmt.Errorf("failed to remove previous vote: %w", err)
			}
			outcome.Replaced = append(outcome.Replaced, prev)
		}
	}

	if err := s.repo.AddVote(ctx, &entities.PollVote{PollID: poll.ID, UserID: userID, Emoji: emoji}); err != nil {
		return nil, fmt.Errorf("failed to record vote: %w", err)
	}
	outcome.Recorded = true

	return outcome, nil
}

// RetractVote removes a vote after its reaction was removed
func (s *pollService) RetractVote(ctx context.Context, poll *entities.Poll, userID int64, emoji string) error {
	if _, err := s.repo.RemoveVote(ctx, &entities.PollVote{PollID: poll.ID, UserID: userID, Emoji: emoji}); err != nil {
		return fmt.Errorf("failed to remove vote: %w", err)
	}
	return nil
}

// ClosePoll marks the poll closed and publishes its results
func (s *pollService) ClosePoll(ctx context.Context, poll *entities.Poll, counts map[string]int) ([]entities.PollResult, error) {
	if counts == nil {
		stored, err := s.repo.GetVoteCounts(ctx, poll.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count votes: %w", err)
		}
		counts = stored
	}

	closed, err := s.repo.MarkClosed(ctx, poll.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to close poll: %w", err)
	}
	if !closed {
		return nil, entities.ErrPollClosed
	}
	poll.Closed = true

	results := poll.Tally(counts)

	eventResults := make([]events.PollOptionResult, 0, len(results))
	for _, r := range results {
		eventResults = append(eventResults, events.PollOptionResult{Option: r.Option, Emoji: r.Emoji, Votes: r.Votes})
	}
	if err := s.publisher.Publish(events.PollClosedEvent{
		PollID:   poll.ID,
		GuildID:  poll.GuildID,
		Question: poll.Question,
		Results:  eventResults,
	}); err != nil {
		return nil, fmt.Errorf("failed to publish poll closed event: %w", err)
	}

	return results, nil
}
