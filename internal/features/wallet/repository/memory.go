package repository

import (
	"context"
	"sync"

	"mint-portal-backend/internal/features/wallet/models"
)

// MemoryStore is an in-process SessionStore used in tests.
type MemoryStore struct {
	mu      sync.Mutex
	session *models.SavedSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(_ context.Context, session *models.SavedSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *session
	m.session = &copied
	return nil
}

func (m *MemoryStore) Load(_ context.Context) (*models.SavedSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, nil
	}
	copied := *m.session
	return &copied, nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}
