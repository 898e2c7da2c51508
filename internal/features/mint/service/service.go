package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	apperrors "mint-portal-backend/internal/common/errors"
	"mint-portal-backend/internal/common/logger"
	"mint-portal-backend/internal/common/metrics"
	"mint-portal-backend/internal/features/mint/client"
	"mint-portal-backend/internal/features/mint/models"
	"mint-portal-backend/internal/features/mint/repository"

	"github.com/google/uuid"
)

// Orchestrator coordinates the payment-verified mint protocol: it validates
// preconditions, submits the payment and reconciles the verification
// service's response into confirmed NFT records.
type Orchestrator struct {
	wallet   WalletService
	api      MintAPI
	metadata MetadataFetcher
	payments *PaymentSubmitter
	pending  repository.PendingPaymentStore
	retries  repository.RetryQueue
	metrics  *metrics.Registry

	treasuryAccountID string
	tokenID           string
	maxPerTransaction int

	// One mint attempt in flight per account; the UI disables the mint
	// action meanwhile, this guard enforces it server-side.
	mu       sync.Mutex
	inflight map[string]bool
}

func NewOrchestrator(
	wallet WalletService,
	api MintAPI,
	metadata MetadataFetcher,
	payments *PaymentSubmitter,
	pending repository.PendingPaymentStore,
	retries repository.RetryQueue,
	reg *metrics.Registry,
	treasuryAccountID, tokenID string,
	maxPerTransaction int,
) *Orchestrator {
	if maxPerTransaction <= 0 {
		maxPerTransaction = 10
	}
	return &Orchestrator{
		wallet:            wallet,
		api:               api,
		metadata:          metadata,
		payments:          payments,
		pending:           pending,
		retries:           retries,
		metrics:           reg,
		treasuryAccountID: treasuryAccountID,
		tokenID:           tokenID,
		maxPerTransaction: maxPerTransaction,
		inflight:          make(map[string]bool),
	}
}

// MintResult is the terminal outcome of one mint attempt.
type MintResult struct {
	Request        *models.MintRequest
	Assets         []models.MintedAsset
	BalanceTinybar int64
}

// InitiateMint runs one attempt through the state machine. A user rejection
// yields a Rejected result with nil error: the caller shows no failure.
// Reconciliation failures carry the payment transaction id so the attempt
// can be retried without a fresh payment.
func (o *Orchestrator) InitiateMint(ctx context.Context, tier models.Tier, quantity int) (*MintResult, error) {
	session, ok := o.wallet.Session()
	if !ok {
		o.countAttempt(models.StateFailed)
		return nil, apperrors.New(apperrors.ErrCodeWalletNotConnected, "Please connect your wallet first")
	}

	if !o.acquire(session.AccountID) {
		return nil, apperrors.Wrap(ErrMintInFlight, apperrors.ErrCodeConflict, "Mint already in progress")
	}
	defer o.release(session.AccountID)

	request := &models.MintRequest{
		ID:        uuid.New().String(),
		AccountID: session.AccountID,
		Tier:      tier,
		Quantity:  quantity,
		State:     models.StateCheckingPreconditions,
		CreatedAt: time.Now(),
	}

	// Preconditions run before any ledger interaction; a failure here has
	// no side effects and is safe to retry immediately.
	if err := o.checkPreconditions(ctx, request); err != nil {
		request.State = models.StateFailed
		o.countAttempt(models.StateFailed)
		return nil, err
	}

	sig, err := o.wallet.Signer()
	if err != nil {
		request.State = models.StateFailed
		o.countAttempt(models.StateFailed)
		return nil, apperrors.Wrap(err, apperrors.ErrCodeNoSignerAvailable, "No signer available")
	}

	request.State = models.StateAwaitingPayment
	attempt, err := o.payments.Send(ctx, session, sig, o.treasuryAccountID, request.TotalTinybar())
	if err != nil {
		request.State = models.StateFailed
		o.countAttempt(models.StateFailed)
		return nil, apperrors.Wrap(err, apperrors.ErrCodePaymentFailed, "Payment submission failed")
	}
	o.metrics.IncPaymentOutcome(string(attempt.Outcome))

	switch attempt.Outcome {
	case models.OutcomeUserRejected:
		// Silent terminal state. The UI returns to its pre-mint form.
		request.State = models.StateRejected
		o.countAttempt(models.StateRejected)
		return &MintResult{Request: request}, nil
	case models.OutcomeFailed:
		// No funds moved; a fresh attempt is the correct retry.
		request.State = models.StateFailed
		o.countAttempt(models.StateFailed)
		return nil, apperrors.New(apperrors.ErrCodePaymentFailed, "Payment failed").
			WithDetail("detail", attempt.ErrorDetail)
	}

	request.PaymentTransactionID = attempt.TransactionID
	request.State = models.StateVerifyingAndMinting

	// Funds are spent from here on. The pending record is written before
	// the verification call so the transaction id survives a crash.
	pendingPayment := &models.PendingPayment{
		TransactionID:    attempt.TransactionID,
		AccountID:        request.AccountID,
		Tier:             request.Tier,
		Quantity:         request.Quantity,
		UnitPriceTinybar: request.UnitPriceTinybar,
		CreatedAt:        time.Now(),
	}
	if err := o.pending.Save(ctx, pendingPayment); err != nil {
		logger.Error().Err(err).Str("transaction_id", attempt.TransactionID).
			Msg("Could not persist pending payment")
	}

	assets, err := o.verifyAndConfirm(ctx, pendingPayment)
	if err != nil {
		request.State = models.StateFailed
		o.countAttempt(models.StateFailed)
		return nil, err
	}

	request.State = models.StateConfirmed
	o.countAttempt(models.StateConfirmed)

	// Side effect of confirmation: refresh the balance figure for the UI.
	balance, balErr := o.wallet.Balance(ctx)
	if balErr != nil {
		logger.Warn().Err(balErr).Msg("Balance refresh after mint failed")
	}

	logger.Info().
		Str("account_id", request.AccountID).
		Str("transaction_id", request.PaymentTransactionID).
		Int("nfts", len(assets)).
		Msg("Mint confirmed")

	return &MintResult{Request: request, Assets: assets, BalanceTinybar: balance}, nil
}

// RetryVerification re-runs only the verification step for a payment that
// was sent but not confirmed. Payment is never resubmitted.
func (o *Orchestrator) RetryVerification(ctx context.Context, transactionID string) ([]models.MintedAsset, error) {
	pendingPayment, err := o.pending.Get(ctx, transactionID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeCacheError, "Could not load pending payment")
	}
	if pendingPayment == nil {
		return nil, apperrors.Wrap(ErrUnknownPayment, apperrors.ErrCodeNotFound, "Unknown payment transaction")
	}

	pendingPayment.Attempts++
	if err := o.pending.Save(ctx, pendingPayment); err != nil {
		logger.Warn().Err(err).Msg("Could not update pending payment attempts")
	}

	return o.verifyAndConfirm(ctx, pendingPayment)
}

// PendingPayments lists unresolved payments for support and the worker.
func (o *Orchestrator) PendingPayments(ctx context.Context) ([]models.PendingPayment, error) {
	payments, err := o.pending.List(ctx)
	if err != nil {
		return nil, err
	}
	o.metrics.SetPendingPayments(float64(len(payments)))
	return payments, nil
}

// Stats returns the advisory supply and pricing snapshot for display. It is
// never authoritative for a live transaction.
func (o *Orchestrator) Stats(ctx context.Context) (*models.SupplyStats, *models.Pricing, error) {
	stats, err := o.api.GetStats(ctx)
	if err != nil {
		return nil, nil, err
	}
	pricing, err := o.api.GetDynamicPricing(ctx)
	if err != nil {
		// Supply is still useful while pricing warms up; minting stays
		// blocked until pricing is ready.
		logger.Warn().Err(err).Msg("Dynamic pricing not ready")
		return stats, nil, nil
	}
	return stats, pricing, nil
}

func (o *Orchestrator) checkPreconditions(ctx context.Context, request *models.MintRequest) error {
	if request.Quantity < 1 || request.Quantity > o.maxPerTransaction {
		return apperrors.NewValidationError("quantity",
			fmt.Sprintf("must be between 1 and %d", o.maxPerTransaction))
	}

	// Price is re-fetched at request time: the tier is denominated against
	// a volatile exchange rate and a cached figure is display-only. A
	// missing or zero price is an explicit error, never a default.
	pricing, err := o.api.GetDynamicPricing(ctx)
	if err != nil {
		return apperrors.Wrap(ErrPricingNotReady, apperrors.ErrCodePricingNotSet,
			"Tier pricing not available, please retry shortly")
	}
	price := pricing.PriceFor(request.Tier)
	if price <= 0 {
		return apperrors.Wrap(ErrPricingNotReady, apperrors.ErrCodePricingNotSet,
			"Tier pricing not available, please retry shortly")
	}
	request.UnitPriceTinybar = price

	stats, err := o.api.GetStats(ctx)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeMintAPI, "Supply data not available")
	}
	tierStats, ok := stats.ByTier[request.Tier]
	if !ok || tierStats.Available < request.Quantity {
		return apperrors.NewPreconditionError("supply",
			fmt.Sprintf("only %d %s NFTs available", tierStats.Available, request.Tier))
	}

	balance, err := o.wallet.Balance(ctx)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeMirrorNode, "Could not read wallet balance")
	}
	if balance < request.TotalTinybar() {
		return apperrors.NewPreconditionError("balance",
			fmt.Sprintf("insufficient balance: need %d tinybar", request.TotalTinybar()))
	}

	associated, err := o.api.CheckAssociation(ctx, request.AccountID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeMintAPI, "Association check failed")
	}
	if !associated {
		return apperrors.NewPreconditionError("token_association",
			"account has not associated with the NFT token")
	}

	return nil
}

// verifyAndConfirm is the reconciliation boundary: a payment exists on the
// ledger and the backend must confirm a matching mint. Failures here keep
// the pending record and queue a retry.
func (o *Orchestrator) verifyAndConfirm(ctx context.Context, pendingPayment *models.PendingPayment) ([]models.MintedAsset, error) {
	resp, err := o.api.VerifyAndMint(ctx, client.VerifyRequest{
		AccountID:     pendingPayment.AccountID,
		Tier:          string(pendingPayment.Tier),
		Quantity:      pendingPayment.Quantity,
		TransactionID: pendingPayment.TransactionID,
	})
	if err != nil {
		o.queueRetry(ctx, pendingPayment.TransactionID)
		return nil, apperrors.NewReconciliationError(pendingPayment.TransactionID, err.Error())
	}
	if !resp.Success {
		o.queueRetry(ctx, pendingPayment.TransactionID)
		reason := resp.Error
		if reason == "" {
			reason = "verification rejected"
		}
		return nil, apperrors.NewReconciliationError(pendingPayment.TransactionID, reason)
	}

	// A payment has been irreversibly sent; an empty result is a protocol
	// violation by the service, not a benign no-op.
	if len(resp.NFTDetails) == 0 ||
		(resp.NFTDetails[0].MetadataTokenID == "" && resp.NFTDetails[0].SerialNumber == 0) {
		o.queueRetry(ctx, pendingPayment.TransactionID)
		return nil, apperrors.NewReconciliationError(pendingPayment.TransactionID, "incomplete service response")
	}

	assets := make([]models.MintedAsset, 0, len(resp.NFTDetails))
	for _, detail := range resp.NFTDetails {
		assets = append(assets, o.hydrateAsset(ctx, pendingPayment.Tier, detail))
	}

	if err := o.pending.Delete(ctx, pendingPayment.TransactionID); err != nil {
		logger.Warn().Err(err).Str("transaction_id", pendingPayment.TransactionID).
			Msg("Could not remove pending payment")
	}

	return assets, nil
}

// hydrateAsset resolves display metadata for one minted record. Hydration
// failure never fails the mint: the payment and on-chain mint already
// succeeded, so it degrades to a synthesized placeholder.
func (o *Orchestrator) hydrateAsset(ctx context.Context, tier models.Tier, detail client.NFTDetail) models.MintedAsset {
	asset := models.MintedAsset{
		TokenID:      detail.TokenID,
		SerialNumber: detail.SerialNumber,
	}
	if asset.TokenID == "" {
		asset.TokenID = o.tokenID
	}

	metadataID := detail.MetadataTokenID
	if metadataID == "" {
		metadataID = strconv.FormatInt(detail.SerialNumber, 10)
	}

	meta, err := o.metadata.GetMetadata(ctx, metadataID)
	if err != nil {
		logger.Warn().Err(err).Str("metadata_id", metadataID).
			Msg("Metadata fetch failed, using placeholder")
		asset.Metadata = placeholderMetadata(tier, detail.SerialNumber)
		return asset
	}

	attributes := make([]models.AssetAttribute, 0, len(meta.Attributes))
	for _, a := range meta.Attributes {
		attributes = append(attributes, models.AssetAttribute{TraitType: a.TraitType, Value: a.Value})
	}
	asset.Metadata = &models.AssetMetadata{Name: meta.Name, Image: meta.Image, Attributes: attributes}
	return asset
}

func placeholderMetadata(tier models.Tier, serialNumber int64) *models.AssetMetadata {
	return &models.AssetMetadata{
		Name: fmt.Sprintf("%s #%d", tier.DisplayName(), serialNumber),
		Attributes: []models.AssetAttribute{
			{TraitType: "Tier", Value: string(tier)},
			{TraitType: "Token Allocation", Value: strconv.FormatInt(tier.TokenAllocation(), 10)},
		},
	}
}

func (o *Orchestrator) queueRetry(ctx context.Context, transactionID string) {
	if err := o.retries.Enqueue(ctx, transactionID); err != nil {
		logger.Warn().Err(err).Str("transaction_id", transactionID).
			Msg("Could not queue verification retry")
	}
}

func (o *Orchestrator) acquire(accountID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inflight[accountID] {
		return false
	}
	o.inflight[accountID] = true
	return true
}

func (o *Orchestrator) release(accountID string) {
	o.mu.Lock()
	delete(o.inflight, accountID)
	o.mu.Unlock()
}

func (o *Orchestrator) countAttempt(state models.MintState) {
	o.metrics.IncMintAttempt(string(state))
}
