package repository

import (
	"context"
	"fmt"

	"cogbot/domain/entities"
	"cogbot/infrastructure/observability"
)

// BlizzardSettingsRepository stores the single global patch notes row
type BlizzardSettingsRepository struct {
	q Queryable
}

// NewBlizzardSettingsRepositoryWithTx creates a new repository with a transaction
func NewBlizzardSettingsRepositoryWithTx(tx Queryable) *BlizzardSettingsRepository {
	return &BlizzardSettingsRepository{q: tx}
}

func (r *BlizzardSettingsRepository) GetOrCreate(ctx context.Context) (*entities.BlizzardSettings, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("blizzard_settings", "GetOrCreate")()

	query := `
		INSERT INTO blizzard_settings (id)
		VALUES (1)
		ON CONFLICT (id) DO UPDATE SET id = EXCLUDED.id
		RETURNING notes_format, notes_timeout
	`

	var settings entities.BlizzardSettings
	if err := r.q.QueryRow(ctx, query).Scan(&settings.NotesFormat, &settings.NotesTimeoutSeconds); err != nil {
		return nil, fmt.Errorf("failed to get blizzard settings: %w", err)
	}
	return &settings, nil
}

func (r *BlizzardSettingsRepository) Update(ctx context.Context, settings *entities.BlizzardSettings) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("blizzard_settings", "Update")()

	query := `
		INSERT INTO blizzard_settings (id, notes_format, notes_timeout)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE
		SET notes_format = EXCLUDED.notes_format,
		    notes_timeout = EXCLUDED.notes_timeout
	`
	if _, err := r.q.Exec(ctx, query, settings.NotesFormat, settings.NotesTimeoutSeconds); err != nil {
		return fmt.Errorf("failed to update blizzard settings: %w", err)
	}
	return nil
}
