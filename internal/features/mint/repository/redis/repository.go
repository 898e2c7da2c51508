package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mint-portal-backend/internal/features/mint/models"
	"mint-portal-backend/internal/features/mint/repository"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefixPending = "mint:pending:"
	keyPendingIndex  = "mint:pending_index"
	// Pending records outlive any realistic support window. They are only
	// removed on confirmed mints or operator action.
	pendingExpiration = 90 * 24 * time.Hour

	// StreamRetries is the reconciliation stream consumed by the worker.
	StreamRetries = "mint:verification_retries"
)

type Repository struct {
	client *redis.Client
}

func NewRepository(client *redis.Client) *Repository {
	return &Repository{client: client}
}

var _ repository.PendingPaymentStore = (*Repository)(nil)
var _ repository.RetryQueue = (*Repository)(nil)

func (r *Repository) Save(ctx context.Context, payment *models.PendingPayment) error {
	data, err := json.Marshal(payment)
	if err != nil {
		return fmt.Errorf("failed to marshal pending payment: %w", err)
	}

	key := keyPrefixPending + payment.TransactionID
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, pendingExpiration)
	pipe.SAdd(ctx, keyPendingIndex, payment.TransactionID)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *Repository) Get(ctx context.Context, transactionID string) (*models.PendingPayment, error) {
	data, err := r.client.Get(ctx, keyPrefixPending+transactionID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending payment: %w", err)
	}

	var payment models.PendingPayment
	if err := json.Unmarshal(data, &payment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending payment: %w", err)
	}
	return &payment, nil
}

func (r *Repository) Delete(ctx context.Context, transactionID string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, keyPrefixPending+transactionID)
	pipe.SRem(ctx, keyPendingIndex, transactionID)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *Repository) List(ctx context.Context) ([]models.PendingPayment, error) {
	ids, err := r.client.SMembers(ctx, keyPendingIndex).Result()
	if err != nil {
		return nil, err
	}

	payments := make([]models.PendingPayment, 0, len(ids))
	for _, id := range ids {
		payment, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if payment != nil {
			payments = append(payments, *payment)
		}
	}
	return payments, nil
}

// Enqueue schedules a verification retry for the worker.
func (r *Repository) Enqueue(ctx context.Context, transactionID string) error {
	return r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamRetries,
		Values: map[string]interface{}{"transaction_id": transactionID},
	}).Err()
}
