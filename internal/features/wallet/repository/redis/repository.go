package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mint-portal-backend/internal/features/wallet/models"
	"mint-portal-backend/internal/features/wallet/repository"

	"github.com/redis/go-redis/v9"
)

const (
	keySavedSession   = "wallet:saved_session"
	sessionExpiration = 30 * 24 * time.Hour
)

type Repository struct {
	client *redis.Client
}

func NewRepository(client *redis.Client) repository.SessionStore {
	return &Repository{client: client}
}

func (r *Repository) Save(ctx context.Context, session *models.SavedSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal saved session: %w", err)
	}
	return r.client.Set(ctx, keySavedSession, data, sessionExpiration).Err()
}

func (r *Repository) Load(ctx context.Context) (*models.SavedSession, error) {
	data, err := r.client.Get(ctx, keySavedSession).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load saved session: %w", err)
	}

	var session models.SavedSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal saved session: %w", err)
	}
	return &session, nil
}

func (r *Repository) Clear(ctx context.Context) error {
	return r.client.Del(ctx, keySavedSession).Err()
}
