package repository

import (
	"context"

	"mint-portal-backend/internal/features/mint/models"
)

// PendingPaymentStore durably tracks payments that were sent but whose mint
// is not yet confirmed. Get returns (nil, nil) for an unknown transaction.
type PendingPaymentStore interface {
	Save(ctx context.Context, payment *models.PendingPayment) error
	Get(ctx context.Context, transactionID string) (*models.PendingPayment, error)
	Delete(ctx context.Context, transactionID string) error
	List(ctx context.Context) ([]models.PendingPayment, error)
}

// RetryQueue feeds unresolved payments to the reconciliation worker.
type RetryQueue interface {
	Enqueue(ctx context.Context, transactionID string) error
}
