package repository

import (
	"context"
	"fmt"

	"cogbot/domain/entities"
	"cogbot/infrastructure/observability"
)

// WordcloudSettingsRepository stores wordcloud settings for one guild
type WordcloudSettingsRepository struct {
	q       Queryable
	guildID int64
}

// NewWordcloudSettingsRepositoryScoped creates a repository bound to a transaction and guild
func NewWordcloudSettingsRepositoryScoped(tx Queryable, guildID int64) *WordcloudSettingsRepository {
	return &WordcloudSettingsRepository{q: tx, guildID: guildID}
}

func (r *WordcloudSettingsRepository) GetOrCreate(ctx context.Context) (*entities.WordcloudSettings, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("wordcloud_settings", "GetOrCreate")()

	query := `
		INSERT INTO wordcloud_settings (guild_id)
		VALUES ($1)
		ON CONFLICT (guild_id) DO UPDATE SET guild_id = EXCLUDED.guild_id
		RETURNING bg_color, max_words, excluded_words, mask_file, color_mask
	`

	settings := &entities.WordcloudSettings{GuildID: r.guildID}
	err := r.q.QueryRow(ctx, query, r.guildID).Scan(
		&settings.BgColor,
		&settings.MaxWords,
		&settings.ExcludedWords,
		&settings.MaskFile,
		&settings.ColorMask,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get wordcloud settings for guild %d: %w", r.guildID, err)
	}
	return settings, nil
}

func (r *WordcloudSettingsRepository) Update(ctx context.Context, settings *entities.WordcloudSettings) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("wordcloud_settings", "Update")()

	excluded := settings.ExcludedWords
	if excluded == nil {
		excluded = []string{}
	}

	query := `
		UPDATE wordcloud_settings
		SET bg_color = $2,
		    max_words = $3,
		    excluded_words = $4,
		    mask_file = $5,
		    color_mask = $6
		WHERE guild_id = $1
	`
	result, err := r.q.Exec(ctx, query,
		r.guildID,
		settings.BgColor,
		settings.MaxWords,
		excluded,
		settings.MaskFile,
		settings.ColorMask,
	)
	if err != nil {
		return fmt.Errorf("failed to update wordcloud settings for guild %d: %w", r.guildID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("wordcloud settings for guild %d not found", r.guildID)
	}
	return nil
}
