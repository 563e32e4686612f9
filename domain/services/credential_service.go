package services

import (
	"context"
	"fmt"

	"cogbot/domain/entities"
	"cogbot/domain/interfaces"
)

type credentialService struct {
	repo interfaces.CredentialRepository
}

// NewCredentialService creates a new credential service
func NewCredentialService(repo interfaces.CredentialRepository) interfaces.CredentialService {
	return &credentialService{repo: repo}
}

// GetBlizzardAPIKey returns the key or ErrCredentialsMissing
func (s *credentialService) GetBlizzardAPIKey(ctx context.Context) (string, error) {
	key, ok, err := s.repo.Get(ctx, entities.CredentialBlizzardAPIKey)
	if err != nil {
		return "", fmt.Errorf("failed to get blizzard api key: %w", err)
	}
	if !ok || key == "" {
		return "", entities.ErrCredentialsMissing
	}
	return key, nil
}

func (s *credentialService) SetBlizzardAPIKey(ctx context.Context, key string) error {
	if err := s.repo.Set(ctx, entities.CredentialBlizzardAPIKey, key); err != nil {
		return fmt.Errorf("failed to set blizzard api key: %w", err)
	}
	return nil
}

// GetSmiteCredentials returns the stored credentials or ErrCredentialsMissing
// when the developer ID or auth key is absent
func (s *credentialService) GetSmiteCredentials(ctx context.Context) (*entities.SmiteCredentials, error) {
	creds := &entities.SmiteCredentials{}
	for key, dst := range map[string]*string{
		entities.CredentialSmiteDevID:   &creds.DevID,
		entities.CredentialSmiteAuthKey: &creds.AuthKey,
		entities.CredentialSmiteSession: &creds.SessionID,
	} {
		value, _, err := s.repo.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s: %w", key, err)
		}
		*dst = value
	}
	if !creds.Complete() {
		return nil, entities.ErrCredentialsMissing
	}
	return creds, nil
}

// SetSmiteCredentials stores developer credentials and drops the old session
func (s *credentialService) SetSmiteCredentials(ctx context.Context, devID, authKey string) error {
	if err := s.repo.Set(ctx, entities.CredentialSmiteDevID, devID); err != nil {
		return fmt.Errorf("failed to set smite dev id: %w", err)
	}
	if err := s.repo.Set(ctx, entities.CredentialSmiteAuthKey, authKey); err != nil {
		return fmt.Errorf("failed to set smite auth key: %w", err)
	}
	return s.SetSmiteSession(ctx, "")
}

func (s *credentialService) SetSmiteSession(ctx context.Context, sessionID string) error {
	if err := s.repo.Set(ctx, entities.CredentialSmiteSession, sessionID); err != nil {
		return fmt.Errorf("failed to set smite session: %w", err)
	}
	return nil
}
