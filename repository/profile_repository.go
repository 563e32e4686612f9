package repository

import (
	"context"
	"errors"
	"fmt"

	"cogbot/infrastructure/observability"

	"github.com/jackc/pgx/v5"
)

// ProfileRepository stores battletags and Smite names. Profiles are global,
// so the repository has no guild scope.
type ProfileRepository struct {
	q Queryable
}

// NewProfileRepositoryWithTx creates a new profile repository with a transaction
func NewProfileRepositoryWithTx(tx Queryable) *ProfileRepository {
	return &ProfileRepository{q: tx}
}

func (r *ProfileRepository) GetBattletag(ctx context.Context, discordID int64) (string, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("profile", "GetBattletag")()
	return r.getValue(ctx, `SELECT battletag FROM battletags WHERE discord_id = $1`, discordID)
}

func (r *ProfileRepository) SetBattletag(ctx context.Context, discordID int64, battletag string) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("profile", "SetBattletag")()

	query := `
		INSERT INTO battletags (discord_id, battletag)
		VALUES ($1, $2)
		ON CONFLICT (discord_id) DO UPDATE SET battletag = EXCLUDED.battletag, updated_at = NOW()
	`
	if _, err := r.q.Exec(ctx, query, discordID, battletag); err != nil {
		return fmt.Errorf("failed to set battletag for %d: %w", discordID, err)
	}
	return nil
}

func (r *ProfileRepository) ClearBattletag(ctx context.Context, discordID int64) (bool, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("profile", "ClearBattletag")()
	return r.deleteValue(ctx, `DELETE FROM battletags WHERE discord_id = $1`, discordID)
}

func (r *ProfileRepository) GetSmiteName(ctx context.Context, discordID int64) (string, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("profile", "GetSmiteName")()
	return r.getValue(ctx, `SELECT name FROM smite_names WHERE discord_id = $1`, discordID)
}

func (r *ProfileRepository) SetSmiteName(ctx context.Context, discordID int64, name string) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("profile", "SetSmiteName")()

	query := `
		INSERT INTO smite_names (discord_id, name)
		VALUES ($1, $2)
		ON CONFLICT (discord_id) DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()
	`
	if _, err := r.q.Exec(ctx, query, discordID, name); err != nil {
		return fmt.Errorf("failed to set smite name for %d: %w", discordID, err)
	}
	return nil
}

func (r *ProfileRepository) ClearSmiteName(ctx context.Context, discordID int64) (bool, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("profile", "ClearSmiteName")()
	return r.deleteValue(ctx, `DELETE FROM smite_names WHERE discord_id = $1`, discordID)
}

func (r *ProfileRepository) getValue(ctx context.Context, query string, discordID int64) (string, error) {
	var value string
	err := r.q.QueryRow(ctx, query, discordID).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get profile value for %d: %w", discordID, err)
	}
	return value, nil
}

func (r *ProfileRepository) deleteValue(ctx context.Context, query string, discordID int64) (bool, error) {
	result, err := r.q.Exec(ctx, query, discordID)
	if err != nil {
		return false, fmt.Errorf("failed to clear profile value for %d: %w", discordID, err)
	}
	return result.RowsAffected() > 0, nil
}
