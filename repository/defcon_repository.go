package repository

import (
	"context"
	"fmt"

	"cogbot/domain/entities"
	"cogbot/infrastructure/observability"
)

// DefconRepository stores the DEFCON meter for one guild
type DefconRepository struct {
	q       Queryable
	guildID int64
}

// NewDefconRepositoryScoped creates a repository bound to a transaction and guild
func NewDefconRepositoryScoped(tx Queryable, guildID int64) *DefconRepository {
	return &DefconRepository{q: tx, guildID: guildID}
}

// GetOrCreate returns the current level, creating DEFCON 5 when absent
func (r *DefconRepository) GetOrCreate(ctx context.Context) (*entities.Defcon, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("defcon", "GetOrCreate")()

	query := `
		INSERT INTO defcon_levels (guild_id)
		VALUES ($1)
		ON CONFLICT (guild_id) DO UPDATE SET guild_id = EXCLUDED.guild_id
		RETURNING level, authority
	`

	defcon := &entities.Defcon{GuildID: r.guildID}
	if err := r.q.QueryRow(ctx, query, r.guildID).Scan(&defcon.Level, &defcon.Authority); err != nil {
		return nil, fmt.Errorf("failed to get defcon for guild %d: %w", r.guildID, err)
	}
	return defcon, nil
}

// Save persists level and authority
func (r *DefconRepository) Save(ctx context.Context, defcon *entities.Defcon) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("defcon", "Save")()

	query := `
		INSERT INTO defcon_levels (guild_id, level, authority, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (guild_id) DO UPDATE
		SET level = EXCLUDED.level,
		    authority = EXCLUDED.authority,
		    updated_at = NOW()
	`

	if _, err := r.q.Exec(ctx, query, r.guildID, defcon.Level, defcon.Authority); err != nil {
		return fmt.Errorf("failed to save defcon for guild %d: %w", r.guildID, err)
	}
	return nil
}
