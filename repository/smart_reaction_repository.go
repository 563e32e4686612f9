package repository

import (
	"context"
	"fmt"

	"cogbot/domain/entities"
	"cogbot/infrastructure/observability"
)

// SmartReactionRepository stores keyword reactions for one guild
type SmartReactionRepository struct {
	q       Queryable
	guildID int64
}

// NewSmartReactionRepositoryScoped creates a repository bound to a transaction and guild
func NewSmartReactionRepositoryScoped(tx Queryable, guildID int64) *SmartReactionRepository {
	return &SmartReactionRepository{q: tx, guildID: guildID}
}

// GetAll returns every emoji with its words, emojis in first-added order
func (r *SmartReactionRepository) GetAll(ctx context.Context) (entities.SmartReactionSet, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("smart_reaction", "GetAll")()

	query := `
		SELECT emoji, word
		FROM smart_reactions
		WHERE guild_id = $1
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, r.guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query smart reactions: %w", err)
	}
	defer rows.Close()

	var set entities.SmartReactionSet
	byEmoji := make(map[string]*entities.SmartReaction)
	for rows.Next() {
		var emoji, word string
		if err := rows.Scan(&emoji, &word); err != nil {
			return nil, fmt.Errorf("failed to scan smart reaction: %w", err)
		}
		reaction, ok := byEmoji[emoji]
		if !ok {
			reaction = &entities.SmartReaction{Emoji: emoji}
			byEmoji[emoji] = reaction
			set = append(set, reaction)
		}
		reaction.Words = append(reaction.Words, word)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating smart reactions: %w", err)
	}
	return set, nil
}

// Add stores the pair and reports false when it already existed
func (r *SmartReactionRepository) Add(ctx context.Context, emoji, word string) (bool, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("smart_reaction", "Add")()

	query := `
		INSERT INTO smart_reactions (guild_id, emoji, word)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, emoji, word) DO NOTHING
	`

	result, err := r.q.Exec(ctx, query, r.guildID, emoji, word)
	if err != nil {
		return false, fmt.Errorf("failed to insert smart reaction: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// Remove deletes the pair and reports false when it did not exist
func (r *SmartReactionRepository) Remove(ctx context.Context, emoji, word string) (bool, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("smart_reaction", "Remove")()

	query := `DELETE FROM smart_reactions WHERE guild_id = $1 AND emoji = $2 AND word = $3`

	result, err := r.q.Exec(ctx, query, r.guildID, emoji, word)
	if err != nil {
		return false, fmt.Errorf("failed to delete smart reaction: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// RemoveEmoji deletes every word for emoji
func (r *SmartReactionRepository) RemoveEmoji(ctx context.Context, emoji string) (int64, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("smart_reaction", "RemoveEmoji")()

	query := `DELETE FROM smart_reactions WHERE guild_id = $1 AND emoji = $2`

	result, err := r.q.Exec(ctx, query, r.guildID, emoji)
	if err != nil {
		return 0, fmt.Errorf("failed to delete smart reactions for emoji: %w", err)
	}
	return result.RowsAffected(), nil
}
