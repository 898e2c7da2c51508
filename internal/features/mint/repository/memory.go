package repository

import (
	"context"
	"sync"

	"mint-portal-backend/internal/features/mint/models"
)

// MemoryStore is an in-process PendingPaymentStore and RetryQueue for tests.
type MemoryStore struct {
	mu       sync.Mutex
	payments map[string]models.PendingPayment
	queued   []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{payments: make(map[string]models.PendingPayment)}
}

func (m *MemoryStore) Save(_ context.Context, payment *models.PendingPayment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.TransactionID] = *payment
	return nil
}

func (m *MemoryStore) Get(_ context.Context, transactionID string) (*models.PendingPayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[transactionID]
	if !ok {
		return nil, nil
	}
	return &payment, nil
}

func (m *MemoryStore) Delete(_ context.Context, transactionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.payments, transactionID)
	return nil
}

func (m *MemoryStore) List(_ context.Context) ([]models.PendingPayment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payments := make([]models.PendingPayment, 0, len(m.payments))
	for _, p := range m.payments {
		payments = append(payments, p)
	}
	return payments, nil
}

func (m *MemoryStore) Enqueue(_ context.Context, transactionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queued = append(m.queued, transactionID)
	return nil
}

// Queued returns the transaction ids enqueued for retry.
func (m *MemoryStore) Queued() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queued...)
}
