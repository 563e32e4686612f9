package repository

import (
	"context"
	"errors"
	"fmt"

	"cogbot/infrastructure/observability"

	"github.com/jackc/pgx/v5"
)

// SoundSettingsRepository stores per-sound volumes for one guild
type SoundSettingsRepository struct {
	q       Queryable
	guildID int64
}

// NewSoundSettingsRepositoryScoped creates a repository bound to a transaction and guild
func NewSoundSettingsRepositoryScoped(tx Queryable, guildID int64) *SoundSettingsRepository {
	return &SoundSettingsRepository{q: tx, guildID: guildID}
}

func (r *SoundSettingsRepository) GetVolume(ctx context.Context, soundName string) (int, bool, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("sound_settings", "GetVolume")()

	var volume int
	err := r.q.QueryRow(ctx,
		`SELECT volume FROM sound_settings WHERE guild_id = $1 AND sound_name = $2`,
		r.guildID, soundName).Scan(&volume)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get volume for %s: %w", soundName, err)
	}
	return volume, true, nil
}

func (r *SoundSettingsRepository) SetVolume(ctx context.Context, soundName string, volume int) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("sound_settings", "SetVolume")()

	query := `
		INSERT INTO sound_settings (guild_id, sound_name, volume)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, sound_name) DO UPDATE SET volume = EXCLUDED.volume
	`
	if _, err := r.q.Exec(ctx, query, r.guildID, soundName, volume); err != nil {
		return fmt.Errorf("failed to set volume for %s: %w", soundName, err)
	}
	return nil
}

func (r *SoundSettingsRepository) Delete(ctx context.Context, soundName string) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("sound_settings", "Delete")()

	if _, err := r.q.Exec(ctx,
		`DELETE FROM sound_settings WHERE guild_id = $1 AND sound_name = $2`,
		r.guildID, soundName); err != nil {
		return fmt.Errorf("failed to delete settings for %s: %w", soundName, err)
	}
	return nil
}
