package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cogbot/domain/entities"
	"cogbot/infrastructure/observability"

	"github.com/jackc/pgx/v5"
)

// PollRepository stores reaction polls for one guild. GetExpired spans all
// guilds so a single closer can serve every guild.
type PollRepository struct {
	q       Queryable
	guildID int64
}

// NewPollRepositoryScoped creates a repository bound to a transaction and guild
func NewPollRepositoryScoped(tx Queryable, guildID int64) *PollRepository {
	return &PollRepository{q: tx, guildID: guildID}
}

const pollColumns = `id, guild_id, channel_id, message_id, author_id, question, options, emojis,
	multiple_votes, embed, end_time, closed, created_at`

// Create inserts the poll and fills in ID and CreatedAt
func (r *PollRepository) Create(ctx context.Context, poll *entities.Poll) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("poll", "Create")()

	options, err := json.Marshal(poll.Options)
	if err != nil {
		return fmt.Errorf("failed to encode poll options: %w", err)
	}
	emojis, err := json.Marshal(poll.Emojis)
	if err != nil {
		return fmt.Errorf("failed to encode poll emojis: %w", err)
	}

	query := `
		INSERT INTO polls (guild_id, channel_id, message_id, author_id, question, options, emojis,
			multiple_votes, embed, end_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	poll.GuildID = r.guildID
	err = r.q.QueryRow(ctx, query,
		r.guildID,
		poll.ChannelID,
		poll.MessageID,
		poll.AuthorID,
		poll.Question,
		options,
		emojis,
		poll.MultipleVotes,
		poll.Embed,
		poll.EndTime,
	).Scan(&poll.ID, &poll.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create poll: %w", err)
	}
	return nil
}

// GetByID returns the poll or entities.ErrPollNotFound
func (r *PollRepository) GetByID(ctx context.Context, id int64) (*entities.Poll, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("poll", "GetByID")()

	query := `SELECT ` + pollColumns + ` FROM polls WHERE id = $1 AND guild_id = $2`
	return r.getOne(ctx, query, id, r.guildID)
}

// GetByMessageID returns the poll posted as messageID or entities.ErrPollNotFound
func (r *PollRepository) GetByMessageID(ctx context.Context, messageID int64) (*entities.Poll, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("poll", "GetByMessageID")()

	query := `SELECT ` + pollColumns + ` FROM polls WHERE message_id = $1 AND guild_id = $2`
	return r.getOne(ctx, query, messageID, r.guildID)
}

// SetMessageID records the posted message for a poll
func (r *PollRepository) SetMessageID(ctx context.Context, pollID, messageID int64) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("poll", "SetMessageID")()

	result, err := r.q.Exec(ctx, `UPDATE polls SET message_id = $3 WHERE id = $1 AND guild_id = $2`, pollID, r.guildID, messageID)
	if err != nil {
		return fmt.Errorf("failed to set message for poll %d: %w", pollID, err)
	}
	if result.RowsAffected() == 0 {
		return entities.ErrPollNotFound
	}
	return nil
}

// GetOpen returns open polls in the guild ordered by end time
func (r *PollRepository) GetOpen(ctx context.Context) ([]*entities.Poll, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("poll", "GetOpen")()

	query := `SELECT ` + pollColumns + ` FROM polls WHERE guild_id = $1 AND NOT closed ORDER BY end_time`
	return r.getMany(ctx, query, r.guildID)
}

// GetExpired returns open polls in any guild whose end time has passed
func (r *PollRepository) GetExpired(ctx context.Context, now time.Time) ([]*entities.Poll, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("poll", "GetExpired")()

	query := `SELECT ` + pollColumns + ` FROM polls WHERE NOT closed AND end_time <= $1 ORDER BY end_time`
	return r.getMany(ctx, query, now)
}

// MarkClosed closes the poll and reports false if it was already closed
func (r *PollRepository) MarkClosed(ctx context.Context, pollID int64) (bool, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("poll", "MarkClosed")()

	result, err := r.q.Exec(ctx, `UPDATE polls SET closed = TRUE WHERE id = $1 AND guild_id = $2 AND NOT closed`, pollID, r.guildID)
	if err != nil {
		return false, fmt.Errorf("failed to close poll %d: %w", pollID, err)
	}
	return result.RowsAffected() > 0, nil
}

// AddVote records a vote; duplicates are ignored
func (r *PollRepository) AddVote(ctx context.Context, vote *entities.PollVote) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("poll", "AddVote")()

	query := `
		INSERT INTO poll_votes (poll_id, user_id, emoji)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`
	if _, err := r.q.Exec(ctx, query, vote.PollID, vote.UserID, vote.Emoji); err != nil {
		return fmt.Errorf("failed to add vote: %w", err)
	}
	return nil
}

// RemoveVote deletes a vote and reports whether it existed
func (r *PollRepository) RemoveVote(ctx context.Context, vote *entities.PollVote) (bool, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("poll", "RemoveVote")()

	result, err := r.q.Exec(ctx,
		`DELETE FROM poll_votes WHERE poll_id = $1 AND user_id = $2 AND emoji = $3`,
		vote.PollID, vote.UserID, vote.Emoji)
	if err != nil {
		return false, fmt.Errorf("failed to remove vote: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// GetUserVotes returns the emojis a user has voted with
func (r *PollRepository) GetUserVotes(ctx context.Context, pollID, userID int64) ([]string, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("poll", "GetUserVotes")()

	rows, err := r.q.Query(ctx,
		`SELECT emoji FROM poll_votes WHERE poll_id = $1 AND user_id = $2 ORDER BY created_at`,
		pollID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user votes: %w", err)
	}
	defer rows.Close()

	votes := []string{}
	for rows.Next() {
		var emoji string
		if err := rows.Scan(&emoji); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, emoji)
	}
	return votes, rows.Err()
}

// GetVoteCounts returns votes per emoji
func (r *PollRepository) GetVoteCounts(ctx context.Context, pollID int64) (map[string]int, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("poll", "GetVoteCounts")()

	rows, err := r.q.Query(ctx,
		`SELECT emoji, COUNT(*) FROM poll_votes WHERE poll_id = $1 GROUP BY emoji`,
		pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to count votes: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var emoji string
		var count int
		if err := rows.Scan(&emoji, &count); err != nil {
			return nil, fmt.Errorf("failed to scan vote count: %w", err)
		}
		counts[emoji] = count
	}
	return counts, rows.Err()
}

func (r *PollRepository) getOne(ctx context.Context, query string, args ...any) (*entities.Poll, error) {
	poll, err := scanPoll(r.q.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entities.ErrPollNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}
	return poll, nil
}

func (r *PollRepository) getMany(ctx context.Context, query string, args ...any) ([]*entities.Poll, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query polls: %w", err)
	}
	defer rows.Close()

	var polls []*entities.Poll
	for rows.Next() {
		poll, err := scanPoll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polls: %w", err)
	}
	return polls, nil
}

func scanPoll(row pgx.Row) (*entities.Poll, error) {
	var poll entities.Poll
	var options, emojis []byte
	err := row.Scan(
		&poll.ID,
		&poll.GuildID,
		&poll.ChannelID,
		&poll.MessageID,
		&poll.AuthorID,
		&poll.Question,
		&options,
		&emojis,
		&poll.MultipleVotes,
		&poll.Embed,
		&poll.EndTime,
		&poll.Closed,
		&poll.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(options, &poll.Options); err != nil {
		return nil, fmt.Errorf("failed to decode poll options: %w", err)
	}
	if err := json.Unmarshal(emojis, &poll.Emojis); err != nil {
		return nil, fmt.Errorf("failed to decode poll emojis: %w", err)
	}
	return &poll, nil
}
