package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "mint-portal-backend/internal/common/errors"
	"mint-portal-backend/internal/common/metrics"
	"mint-portal-backend/internal/features/mint/client"
	"mint-portal-backend/internal/features/mint/models"
	"mint-portal-backend/internal/features/mint/repository"
	walletmodels "mint-portal-backend/internal/features/wallet/models"
	"mint-portal-backend/internal/features/wallet/signer"
	"mint-portal-backend/internal/platform/ipfs"
)

type fakeWallet struct {
	mu           sync.Mutex
	session      *walletmodels.WalletSession
	sig          signer.Signer
	balance      int64
	balanceErr   error
	balanceReads int
	signerCalls  int
}

func (w *fakeWallet) Session() (*walletmodels.WalletSession, bool) {
	if w.session == nil {
		return nil, false
	}
	copied := *w.session
	return &copied, true
}

func (w *fakeWallet) Signer() (signer.Signer, error) {
	w.mu.Lock()
	w.signerCalls++
	w.mu.Unlock()
	if w.sig == nil {
		return nil, errors.New("no signer available")
	}
	return w.sig, nil
}

func (w *fakeWallet) Balance(_ context.Context) (int64, error) {
	w.mu.Lock()
	w.balanceReads++
	w.mu.Unlock()
	if w.balanceErr != nil {
		return 0, w.balanceErr
	}
	return w.balance, nil
}

func (w *fakeWallet) SignerCalls() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.signerCalls
}

type fakeMintAPI struct {
	stats      *models.SupplyStats
	statsErr   error
	pricing    *models.Pricing
	pricingErr error
	verify     *client.VerifyResponse
	verifyErr  error
	associated bool
	assocErr   error

	mu          sync.Mutex
	verifyCalls int
	lastVerify  client.VerifyRequest
}

func (a *fakeMintAPI) GetStats(_ context.Context) (*models.SupplyStats, error) {
	return a.stats, a.statsErr
}

func (a *fakeMintAPI) GetDynamicPricing(_ context.Context) (*models.Pricing, error) {
	return a.pricing, a.pricingErr
}

func (a *fakeMintAPI) VerifyAndMint(_ context.Context, req client.VerifyRequest) (*client.VerifyResponse, error) {
	a.mu.Lock()
	a.verifyCalls++
	a.lastVerify = req
	a.mu.Unlock()
	return a.verify, a.verifyErr
}

func (a *fakeMintAPI) CheckAssociation(_ context.Context, _ string) (bool, error) {
	return a.associated, a.assocErr
}

func (a *fakeMintAPI) LastVerify() client.VerifyRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastVerify
}

func (a *fakeMintAPI) VerifyCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.verifyCalls
}

type fakeMetadata struct {
	meta *ipfs.Metadata
	err  error
}

func (f *fakeMetadata) GetMetadata(_ context.Context, _ string) (*ipfs.Metadata, error) {
	return f.meta, f.err
}

func healthyAPI() *fakeMintAPI {
	return &fakeMintAPI{
		stats: &models.SupplyStats{
			ByTier: map[models.Tier]models.TierStats{
				models.TierCommon:    {Available: 500, Total: 1000, Minted: 500},
				models.TierRare:      {Available: 50, Total: 100, Minted: 50},
				models.TierLegendary: {Available: 0, Total: 10, Minted: 10},
			},
		},
		pricing: &models.Pricing{
			PriceTinybar: map[models.Tier]int64{
				models.TierCommon: 2500000000,
				models.TierRare:   25000000000,
			},
		},
		verify: &client.VerifyResponse{
			Success: true,
			NFTDetails: []client.NFTDetail{
				{TokenID: "0.0.4444", SerialNumber: 42, MetadataTokenID: "7"},
			},
		},
		associated: true,
	}
}

func connectedWallet() *fakeWallet {
	return &fakeWallet{
		session: &walletmodels.WalletSession{AccountID: "0.0.5555"},
		sig:     &signer.FakeSigner{Account: "0.0.5555"},
		balance: 100000000000,
	}
}

func newTestOrchestrator(wallet *fakeWallet, api *fakeMintAPI, metadata MetadataFetcher) (*Orchestrator, *repository.MemoryStore) {
	store := repository.NewMemoryStore()
	if metadata == nil {
		metadata = &fakeMetadata{meta: &ipfs.Metadata{
			Name:  "Warrior #7",
			Image: "https://ipfs.io/ipfs/bafy/7.png",
			Attributes: []ipfs.Attribute{
				{TraitType: "Tier", Value: "common"},
			},
		}}
	}
	o := NewOrchestrator(wallet, api, metadata, NewPaymentSubmitter(), store, store,
		metrics.NewRegistry(), "0.0.9000", "0.0.4444", 10)
	return o, store
}

func TestInitiateMint(t *testing.T) {
	ctx := context.Background()
	wallet := connectedWallet()
	api := healthyAPI()
	o, store := newTestOrchestrator(wallet, api, nil)

	result, err := o.InitiateMint(ctx, models.TierCommon, 2)
	require.NoError(t, err)

	assert.Equal(t, models.StateConfirmed, result.Request.State)
	assert.NotEmpty(t, result.Request.PaymentTransactionID)
	require.Len(t, result.Assets, 1)
	assert.Equal(t, "0.0.4444", result.Assets[0].TokenID)
	assert.Equal(t, int64(42), result.Assets[0].SerialNumber)
	assert.Equal(t, "Warrior #7", result.Assets[0].Metadata.Name)

	// The ledger transaction id is forwarded verbatim to verification.
	assert.Equal(t, result.Request.PaymentTransactionID, api.LastVerify().TransactionID)
	assert.Equal(t, "0.0.5555", api.LastVerify().AccountID)
	assert.Equal(t, 2, api.LastVerify().Quantity)

	// Confirmed payments leave no pending record behind.
	pending, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestInitiateMintRequiresWallet(t *testing.T) {
	o, _ := newTestOrchestrator(&fakeWallet{}, healthyAPI(), nil)

	_, err := o.InitiateMint(context.Background(), models.TierCommon, 1)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeWalletNotConnected, appErr.Code)
}

func TestInitiateMintPricingNotReady(t *testing.T) {
	wallet := connectedWallet()
	api := healthyAPI()
	api.pricing = &models.Pricing{PriceTinybar: map[models.Tier]int64{}}
	o, _ := newTestOrchestrator(wallet, api, nil)

	_, err := o.InitiateMint(context.Background(), models.TierCommon, 1)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodePricingNotSet, appErr.Code)

	// A zero price must stop the flow before any signer interaction.
	assert.Equal(t, 0, wallet.SignerCalls())
	assert.Equal(t, 0, api.VerifyCalls())
}

func TestInitiateMintInsufficientSupply(t *testing.T) {
	wallet := connectedWallet()
	api := healthyAPI()
	api.pricing.PriceTinybar[models.TierLegendary] = 250000000000
	o, _ := newTestOrchestrator(wallet, api, nil)

	_, err := o.InitiateMint(context.Background(), models.TierLegendary, 1)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.True(t, appErr.IsPrecondition())
	assert.Equal(t, 0, wallet.SignerCalls())
}

func TestInitiateMintInsufficientBalance(t *testing.T) {
	wallet := connectedWallet()
	wallet.balance = 100
	o, _ := newTestOrchestrator(wallet, healthyAPI(), nil)

	_, err := o.InitiateMint(context.Background(), models.TierCommon, 1)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.True(t, appErr.IsPrecondition())
	assert.Equal(t, 0, wallet.SignerCalls())
}

func TestInitiateMintQuantityBounds(t *testing.T) {
	wallet := connectedWallet()
	o, _ := newTestOrchestrator(wallet, healthyAPI(), nil)

	for _, quantity := range []int{0, -1, 11} {
		_, err := o.InitiateMint(context.Background(), models.TierCommon, quantity)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok, "quantity %d", quantity)
		assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	}
	assert.Equal(t, 0, wallet.SignerCalls())
}

func TestInitiateMintNotAssociated(t *testing.T) {
	wallet := connectedWallet()
	api := healthyAPI()
	api.associated = false
	o, _ := newTestOrchestrator(wallet, api, nil)

	_, err := o.InitiateMint(context.Background(), models.TierCommon, 1)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.True(t, appErr.IsPrecondition())
	assert.Equal(t, 0, wallet.SignerCalls())
}

func TestInitiateMintUserRejection(t *testing.T) {
	wallet := connectedWallet()
	wallet.sig = &signer.FakeSigner{Account: "0.0.5555", Err: errors.New("User rejected the request")}
	api := healthyAPI()
	o, store := newTestOrchestrator(wallet, api, nil)

	result, err := o.InitiateMint(context.Background(), models.TierCommon, 1)
	require.NoError(t, err)
	assert.Equal(t, models.StateRejected, result.Request.State)
	assert.Empty(t, result.Assets)

	// No payment happened, so nothing goes to verification or the pending
	// store.
	assert.Equal(t, 0, api.VerifyCalls())
	pending, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestInitiateMintPaymentFailure(t *testing.T) {
	wallet := connectedWallet()
	wallet.sig = &signer.FakeSigner{Account: "0.0.5555", Err: errors.New("node unavailable")}
	o, _ := newTestOrchestrator(wallet, healthyAPI(), nil)

	_, err := o.InitiateMint(context.Background(), models.TierCommon, 1)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodePaymentFailed, appErr.Code)
}

func TestInitiateMintVerificationRefused(t *testing.T) {
	ctx := context.Background()
	wallet := connectedWallet()
	api := healthyAPI()
	api.verify = &client.VerifyResponse{Success: false, Error: "insufficient supply"}
	o, store := newTestOrchestrator(wallet, api, nil)

	_, err := o.InitiateMint(ctx, models.TierCommon, 1)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.True(t, appErr.IsReconciliation())

	// The payment went out, so its transaction id must survive for retry.
	txID, ok := appErr.Details["transaction_id"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, txID)

	pending, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, txID, pending[0].TransactionID)
	assert.Equal(t, []string{txID}, store.Queued())
}

func TestInitiateMintIncompleteVerifyResponse(t *testing.T) {
	wallet := connectedWallet()
	api := healthyAPI()
	api.verify = &client.VerifyResponse{Success: true}
	o, store := newTestOrchestrator(wallet, api, nil)

	_, err := o.InitiateMint(context.Background(), models.TierCommon, 1)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.True(t, appErr.IsReconciliation())

	pending, listErr := store.List(context.Background())
	require.NoError(t, listErr)
	assert.Len(t, pending, 1)
}

func TestInitiateMintMetadataFallback(t *testing.T) {
	wallet := connectedWallet()
	api := healthyAPI()
	o, _ := newTestOrchestrator(wallet, api, &fakeMetadata{err: errors.New("gateway timeout")})

	result, err := o.InitiateMint(context.Background(), models.TierCommon, 1)
	require.NoError(t, err)
	require.Len(t, result.Assets, 1)

	// Hydration failure degrades to a placeholder, never fails the mint.
	meta := result.Assets[0].Metadata
	require.NotNil(t, meta)
	assert.Equal(t, "Common Warrior #42", meta.Name)
	assert.Contains(t, meta.Attributes, models.AssetAttribute{TraitType: "Token Allocation", Value: "40000"})
}

func TestRetryVerification(t *testing.T) {
	ctx := context.Background()
	wallet := connectedWallet()
	api := healthyAPI()
	o, store := newTestOrchestrator(wallet, api, nil)

	payment := &models.PendingPayment{
		TransactionID: "0.0.5555@1700000000.000000001",
		AccountID:     "0.0.5555",
		Tier:          models.TierCommon,
		Quantity:      1,
	}
	require.NoError(t, store.Save(ctx, payment))

	before := wallet.sig.(*signer.FakeSigner).TransferCount()

	assets, err := o.RetryVerification(ctx, payment.TransactionID)
	require.NoError(t, err)
	require.Len(t, assets, 1)

	// Retry re-verifies only. The payment is never resubmitted.
	assert.Equal(t, before, wallet.sig.(*signer.FakeSigner).TransferCount())
	assert.Equal(t, payment.TransactionID, api.LastVerify().TransactionID)

	pending, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRetryVerificationUnknownPayment(t *testing.T) {
	o, _ := newTestOrchestrator(connectedWallet(), healthyAPI(), nil)

	_, err := o.RetryVerification(context.Background(), "0.0.1@1.2")
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}

func TestRetryVerificationCountsAttempts(t *testing.T) {
	ctx := context.Background()
	api := healthyAPI()
	api.verify = &client.VerifyResponse{Success: false, Error: "not settled yet"}
	o, store := newTestOrchestrator(connectedWallet(), api, nil)

	payment := &models.PendingPayment{TransactionID: "0.0.5555@1.1", AccountID: "0.0.5555", Tier: models.TierCommon, Quantity: 1}
	require.NoError(t, store.Save(ctx, payment))

	_, err := o.RetryVerification(ctx, payment.TransactionID)
	require.Error(t, err)
	_, err = o.RetryVerification(ctx, payment.TransactionID)
	require.Error(t, err)

	stored, err := store.Get(ctx, payment.TransactionID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 2, stored.Attempts)
}

func TestStatsToleratesPricingWarmup(t *testing.T) {
	api := healthyAPI()
	api.pricingErr = errors.New("pricing not initialized")
	o, _ := newTestOrchestrator(connectedWallet(), api, nil)

	stats, pricing, err := o.Stats(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, stats)
	assert.Nil(t, pricing)
}
