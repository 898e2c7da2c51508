package workers

import (
	"context"
	"time"

	"mint-portal-backend/internal/common/logger"
	"mint-portal-backend/internal/common/metrics"
	mintredis "mint-portal-backend/internal/features/mint/repository/redis"
	"mint-portal-backend/internal/features/mint/service"
	"mint-portal-backend/internal/platform/redis"

	go_redis "github.com/redis/go-redis/v9"
)

const (
	consumerGroup = "mint_portal_reconcilers"
	consumerName  = "reconciler_1"

	// A payment is retried at most this many times before it is left for
	// manual support, mirroring the bounded polling of the legacy
	// check-and-mint flow.
	maxAttempts = 40

	retryDelay = 30 * time.Second
)

// Reconciler drains the verification-retry stream: payments that were sent
// on-ledger without a confirmed mint are re-verified until they resolve or
// exhaust their attempts. Payment itself is never resubmitted.
type Reconciler struct {
	rdb          *redis.Client
	orchestrator *service.Orchestrator
	metrics      *metrics.Registry
}

func NewReconciler(rdb *redis.Client, orchestrator *service.Orchestrator, reg *metrics.Registry) *Reconciler {
	return &Reconciler{rdb: rdb, orchestrator: orchestrator, metrics: reg}
}

// Start begins consuming the retry stream until the context is cancelled.
func (w *Reconciler) Start(ctx context.Context) {
	err := w.rdb.XGroupCreateMkStream(ctx, mintredis.StreamRetries, consumerGroup, "$").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		logger.Error().Err(err).Msg("Could not create reconciler consumer group")
	}

	logger.Info().Msg("Starting verification reconciler")

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Stopping verification reconciler")
			return
		default:
			entries, err := w.rdb.XReadGroup(ctx, &go_redis.XReadGroupArgs{
				Group:    consumerGroup,
				Consumer: consumerName,
				Streams:  []string{mintredis.StreamRetries, ">"},
				Count:    1,
				Block:    5 * time.Second,
			}).Result()

			if err != nil {
				if err != go_redis.Nil && ctx.Err() == nil {
					logger.Error().Err(err).Msg("Error reading retry stream")
					time.Sleep(time.Second)
				}
				continue
			}

			for _, stream := range entries {
				for _, msg := range stream.Messages {
					w.processMessage(ctx, msg.Values)
					w.rdb.XAck(ctx, mintredis.StreamRetries, consumerGroup, msg.ID)
				}
			}
		}
	}
}

func (w *Reconciler) processMessage(ctx context.Context, values map[string]interface{}) {
	transactionID, ok := values["transaction_id"].(string)
	if !ok || transactionID == "" {
		return
	}

	// The immediate retry after a failed mint almost always hits the same
	// transient condition; wait before re-verifying.
	select {
	case <-ctx.Done():
		return
	case <-time.After(retryDelay):
	}

	assets, err := w.orchestrator.RetryVerification(ctx, transactionID)
	if err != nil {
		w.metrics.IncVerificationRetry("failed")

		pending, getErr := w.orchestrator.PendingPayments(ctx)
		if getErr != nil {
			logger.Error().Err(getErr).Msg("Could not inspect pending payments")
			return
		}
		for _, p := range pending {
			if p.TransactionID == transactionID && p.Attempts < maxAttempts {
				if qErr := w.requeue(ctx, transactionID); qErr != nil {
					logger.Error().Err(qErr).Str("transaction_id", transactionID).
						Msg("Could not requeue verification retry")
				}
				return
			}
		}
		logger.Error().Str("transaction_id", transactionID).
			Msg("Verification retries exhausted, payment needs manual support")
		return
	}

	w.metrics.IncVerificationRetry("confirmed")
	logger.Info().
		Str("transaction_id", transactionID).
		Int("nfts", len(assets)).
		Msg("Deferred mint confirmed")
}

func (w *Reconciler) requeue(ctx context.Context, transactionID string) error {
	return w.rdb.XAdd(ctx, &go_redis.XAddArgs{
		Stream: mintredis.StreamRetries,
		Values: map[string]interface{}{"transaction_id": transactionID},
	}).Err()
}
