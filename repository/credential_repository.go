package repository

import (
	"context"
	"errors"
	"fmt"

	"cogbot/infrastructure/observability"

	"github.com/jackc/pgx/v5"
)

// CredentialRepository stores global API credentials
type CredentialRepository struct {
	q Queryable
}

// NewCredentialRepositoryWithTx creates a new credential repository with a transaction
func NewCredentialRepositoryWithTx(tx Queryable) *CredentialRepository {
	return &CredentialRepository{q: tx}
}

// Get returns the value and whether it was present
func (r *CredentialRepository) Get(ctx context.Context, key string) (string, bool, error) {
	defer observability.GetMetrics().MeasureDatabaseQuery("credential", "Get")()

	var value string
	err := r.q.QueryRow(ctx, `SELECT value FROM bot_credentials WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get credential %s: %w", key, err)
	}
	return value, true, nil
}

// Set upserts a credential
func (r *CredentialRepository) Set(ctx context.Context, key, value string) error {
	defer observability.GetMetrics().MeasureDatabaseQuery("credential", "Set")()

	query := `
		INSERT INTO bot_credentials (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	if _, err := r.q.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set credential %s: %w", key, err)
	}
	return nil
}
