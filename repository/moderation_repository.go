package repository

import (
	"context"
	"fmt"

	"cogbot/infrastructure/observability"
)

// ModerationRepository stores colorme protected roles and wat ignored channels for one guild
type ModerationRepository struct {
	q       Queryable
	guildID int64
}

// NewModerationRepositoryScoped creates a repository bound to a transaction and guild
func NewModerationRepositoryScoped(tx Queryable, guildID int64) *ModerationRepository {
	return &ModerationRepository{q: tx, guildID: guildID}
}

func (r *ModerationRepository) GetProtectedRoles(ctx context.Context) ([]int64, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("moderation", "GetProtectedRoles")()

	rows, err := r.q.Query(ctx,
		`SELECT role_id FROM colorme_protected_roles WHERE guild_id = $1 ORDER BY role_id`,
		r.guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to query protected roles: %w", err)
	}
	defer rows.Close()

	roles := []int64{}
	for rows.Next() {
		var roleID int64
		if err := rows.Scan(&roleID); err != nil {
			return nil, fmt.Errorf("failed to scan protected role: %w", err)
		}
		roles = append(roles, roleID)
	}
	return roles, rows.Err()
}

func (r *ModerationRepository) AddProtectedRole(ctx context.Context, roleID int64) (bool, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("moderation", "AddProtectedRole")()

	result, err := r.q.Exec(ctx, `
		INSERT INTO colorme_protected_roles (guild_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, r.guildID, roleID)
	if err != nil {
		return false, fmt.Errorf("failed to protect role %d: %w", roleID, err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *ModerationRepository) RemoveProtectedRole(ctx context.Context, roleID int64) (bool, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("moderation", "RemoveProtectedRole")()

	result, err := r.q.Exec(ctx,
		`DELETE FROM colorme_protected_roles WHERE guild_id = $1 AND role_id = $2`,
		r.guildID, roleID)
	if err != nil {
		return false, fmt.Errorf("failed to unprotect role %d: %w", roleID, err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *ModerationRepository) IsWatChannelIgnored(ctx context.Context, channelID int64) (bool, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("moderation", "IsWatChannelIgnored")()

	var ignored bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM wat_ignored_channels WHERE guild_id = $1 AND channel_id = $2)`,
		r.guildID, channelID).Scan(&ignored)
	if err != nil {
		return false, fmt.Errorf("failed to check wat channel %d: %w", channelID, err)
	}
	return ignored, nil
}

func (r *ModerationRepository) SetWatChannelIgnored(ctx context.Context, channelID int64, ignored bool) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("moderation", "SetWatChannelIgnored")()

	query := `DELETE FROM wat_ignored_channels WHERE guild_id = $1 AND channel_id = $2`
	if ignored {
		query = `
			INSERT INTO wat_ignored_channels (guild_id, channel_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`
	}
	if _, err := r.q.Exec(ctx, query, r.guildID, channelID); err != nil {
		return fmt.Errorf("failed to update wat channel %d: %w", channelID, err)
	}
	return nil
}
