package repository

import (
	"context"
	"fmt"
	"time"

	"cogbot/domain/entities"
	"cogbot/infrastructure/observability"
)

// MsgVoteRepository stores vote-to-delete settings for one guild
type MsgVoteRepository struct {
	q       Queryable
	guildID int64
}

// NewMsgVoteRepositoryScoped creates a repository bound to a transaction and guild
func NewMsgVoteRepositoryScoped(tx Queryable, guildID int64) *MsgVoteRepository {
	return &MsgVoteRepository{q: tx, guildID: guildID}
}

// GetOrCreateSettings returns the guild's settings with its enabled channels
func (r *MsgVoteRepository) GetOrCreateSettings(ctx context.Context) (*entities.MsgVoteSettings, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("msgvote", "GetOrCreateSettings")()

	// The no-op update makes RETURNING yield the existing row
	query := `
		INSERT INTO msgvote_settings (guild_id)
		VALUES ($1)
		ON CONFLICT (guild_id) DO UPDATE SET guild_id = EXCLUDED.guild_id
		RETURNING bot_enabled, duration_seconds, threshold, up_emoji, down_emoji
	`

	settings := &entities.MsgVoteSettings{GuildID: r.guildID}
	var durationSeconds int
	err := r.q.QueryRow(ctx, query, r.guildID).Scan(
		&settings.BotEnabled,
		&durationSeconds,
		&settings.Threshold,
		&settings.UpEmoji,
		&settings.DownEmoji,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get msgvote settings for guild %d: %w", r.guildID, err)
	}
	settings.Duration = time.Duration(durationSeconds) * time.Second

	rows, err := r.q.Query(ctx, `SELECT channel_id FROM msgvote_channels WHERE guild_id = $1 ORDER BY channel_id`, r.guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query msgvote channels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var channelID int64
		if err := rows.Scan(&channelID); err != nil {
			return nil, fmt.Errorf("failed to scan msgvote channel: %w", err)
		}
		settings.Channels = append(settings.Channels, channelID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating msgvote channels: %w", err)
	}

	return settings, nil
}

// UpdateSettings persists everything except the channel list
func (r *MsgVoteRepository) UpdateSettings(ctx context.Context, settings *entities.MsgVoteSettings) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("msgvote", "UpdateSettings")()

	query := `
		UPDATE msgvote_settings
		SET bot_enabled = $2,
		    duration_seconds = $3,
		    threshold = $4,
		    up_emoji = $5,
		    down_emoji = $6
		WHERE guild_id = $1
	`

	result, err := r.q.Exec(ctx, query,
		r.guildID,
		settings.BotEnabled,
		int(settings.Duration/time.Second),
		settings.Threshold,
		settings.UpEmoji,
		settings.DownEmoji,
	)
	if err != nil {
		return fmt.Errorf("failed to update msgvote settings for guild %d: %w", r.guildID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("msgvote settings for guild %d not found", r.guildID)
	}
	return nil
}

// SetChannelEnabled adds or removes a channel and reports whether anything changed
func (r *MsgVoteRepository) SetChannelEnabled(ctx context.Context, channelID int64, enabled bool) (bool, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("msgvote", "SetChannelEnabled")()

	query := `DELETE FROM msgvote_channels WHERE guild_id = $1 AND channel_id = $2`
	if enabled {
		query = `
			INSERT INTO msgvote_channels (guild_id, channel_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`
	}

	result, err := r.q.Exec(ctx, query, r.guildID, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to update msgvote channel %d: %w", channelID, err)
	}
	return result.RowsAffected() > 0, nil
}
