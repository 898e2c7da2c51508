package repository

import (
	"context"

	"mint-portal-backend/internal/features/wallet/models"
)

// SessionStore persists the last known wallet session identity across
// restarts. Load returns (nil, nil) when nothing is saved.
type SessionStore interface {
	Save(ctx context.Context, session *models.SavedSession) error
	Load(ctx context.Context) (*models.SavedSession, error)
	Clear(ctx context.Context) error
}
